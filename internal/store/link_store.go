package store

import (
	"context"
	"errors"
	"fmt"
	"shorturl-accounts/internal/model"

	"gorm.io/gorm"
)

// LinkStore 短链接的持久化存储，基于 gorm，可被多个请求并发使用
type LinkStore struct {
	db *gorm.DB
}

// NewLinkStore 创建短链接存储
func NewLinkStore(db *gorm.DB) *LinkStore {
	return &LinkStore{db: db}
}

// Exists 检查短码是否已被占用
func (s *LinkStore) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ShortLink{}).Where("short_code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询短码失败: %w", err)
	}
	return count > 0, nil
}

// Insert 写入一条短链接记录，短码冲突时返回 ErrDuplicateCode
func (s *LinkStore) Insert(ctx context.Context, link *model.ShortLink) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("写入短链接失败: %w", err)
	}
	return nil
}

// FindByCode 按短码查找
func (s *LinkStore) FindByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := s.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询短链接失败: %w", err)
	}
	return &link, nil
}

// FindByOwner 返回某用户创建的全部短链接，按创建时间倒序
func (s *LinkStore) FindByOwner(ctx context.Context, owner string) ([]model.ShortLink, error) {
	var links []model.ShortLink
	err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC").Order("id DESC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户短链接失败: %w", err)
	}
	return links, nil
}

// FindOwned 以短码和所有者联合查找，不存在与不属于该用户都返回 ErrNotFound
func (s *LinkStore) FindOwned(ctx context.Context, code, owner string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := s.db.WithContext(ctx).Where("short_code = ? AND owner = ?", code, owner).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询短链接失败: %w", err)
	}
	return &link, nil
}

// DeleteByID 按记录 ID 精确删除
func (s *LinkStore) DeleteByID(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.ShortLink{}, id)
	if result.Error != nil {
		return fmt.Errorf("删除短链接失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
