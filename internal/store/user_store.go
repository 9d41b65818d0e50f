package store

import (
	"context"
	"errors"
	"fmt"
	"shorturl-accounts/internal/model"

	"gorm.io/gorm"
)

// UserStore 用户集合
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create 新建用户，用户名冲突时返回 ErrDuplicateUsername
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("创建用户失败: %w", err)
	}
	return nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &user, nil
}

func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询用户失败: %w", err)
	}
	return count > 0, nil
}
