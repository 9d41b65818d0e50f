package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"shorturl-accounts/internal/model"
	"shorturl-accounts/internal/shortcode"
	"shorturl-accounts/internal/store"
	"strings"

	"go.uber.org/zap"
)

// LinkStore 短链接存储需要提供的能力
type LinkStore interface {
	Exists(ctx context.Context, code string) (bool, error)
	Insert(ctx context.Context, link *model.ShortLink) error
	FindByCode(ctx context.Context, code string) (*model.ShortLink, error)
	FindByOwner(ctx context.Context, owner string) ([]model.ShortLink, error)
	FindOwned(ctx context.Context, code, owner string) (*model.ShortLink, error)
	DeleteByID(ctx context.Context, id uint) error
}

// Cache 重定向缓存，nil 表示不启用
type Cache interface {
	Get(ctx context.Context, code string) (string, bool)
	Set(ctx context.Context, code, url string)
	Delete(ctx context.Context, code string)
}

// LinkView 历史记录中展示的字段
type LinkView struct {
	ShortCode string `json:"short_code"`
	LongURL   string `json:"long_url"`
}

type LinkService struct {
	store     LinkStore
	allocator *shortcode.Allocator
	cache     Cache
	logger    *zap.SugaredLogger
}

func NewLinkService(linkStore LinkStore, allocator *shortcode.Allocator, cache Cache, logger *zap.SugaredLogger) *LinkService {
	return &LinkService{
		store:     linkStore,
		allocator: allocator,
		cache:     cache,
		logger:    logger.Named("link_service"),
	}
}

// CreateLink 校验长链接、分配短码并写入存储，返回短码。
// 唯一索引冲突是最终判定：自定义短码返回 ErrAliasTaken，随机短码重新分配。
func (s *LinkService) CreateLink(ctx context.Context, longURL, alias string, identity *model.Identity) (string, error) {
	if err := ValidateLongURL(longURL); err != nil {
		return "", err
	}

	for attempt := 0; attempt < shortcode.MaxAttempts; attempt++ {
		code, err := s.allocator.Allocate(ctx, alias, identity)
		if err != nil {
			return "", err
		}

		link := &model.ShortLink{
			ShortCode: code,
			LongURL:   longURL,
			Owner:     model.OwnerOf(identity),
		}
		err = s.store.Insert(ctx, link)
		if err == nil {
			s.logger.Infow("短链接已创建", "code", code, "owner", ownerName(identity))
			return code, nil
		}
		if !errors.Is(err, store.ErrDuplicateCode) {
			return "", err
		}
		if alias != "" {
			return "", shortcode.ErrAliasTaken
		}
		s.logger.Warnf("短码 %s 写入时冲突，重新分配", code)
	}
	return "", shortcode.ErrExhausted
}

// Resolve 返回短码对应的长链接，公开访问不做权限检查
func (s *LinkService) Resolve(ctx context.Context, code string) (string, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, code); ok {
			return cached, nil
		}
	}

	link, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	// 短码区分大小写，排序规则不区分大小写的库可能返回另一种写法
	if link.ShortCode != code {
		return "", ErrNotFound
	}

	if s.cache != nil {
		s.cache.Set(ctx, code, link.LongURL)
	}
	return link.LongURL, nil
}

// ListFor 返回当前用户创建的短链接
func (s *LinkService) ListFor(ctx context.Context, identity *model.Identity) ([]LinkView, error) {
	if identity == nil {
		return nil, shortcode.ErrSignInRequired
	}

	links, err := s.store.FindByOwner(ctx, identity.Username)
	if err != nil {
		return nil, err
	}

	views := make([]LinkView, 0, len(links))
	for _, l := range links {
		views = append(views, LinkView{ShortCode: l.ShortCode, LongURL: l.LongURL})
	}
	return views, nil
}

// Delete 删除当前用户拥有的短链接。短码不存在和不属于该用户
// 统一返回 ErrNotFound，不暴露他人链接是否存在。
func (s *LinkService) Delete(ctx context.Context, code string, identity *model.Identity) error {
	if identity == nil {
		return ErrNotFound
	}

	link, err := s.store.FindOwned(ctx, code, identity.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !link.OwnedBy(identity.Username) {
		return ErrNotFound
	}

	if err := s.store.DeleteByID(ctx, link.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// 并发删除，已被另一请求删掉
			return ErrNotFound
		}
		return err
	}

	// 删除提交后再写缓存删除标记，键以存储中的短码为准
	if s.cache != nil {
		s.cache.Delete(ctx, link.ShortCode)
		if code != link.ShortCode {
			s.cache.Delete(ctx, code)
		}
	}
	s.logger.Infow("短链接已删除", "code", link.ShortCode, "owner", identity.Username)
	return nil
}

// ValidateLongURL 要求链接可解析且带有协议
func ValidateLongURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrInvalidURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsed.Scheme == "" {
		return ErrInvalidURL
	}
	return nil
}

func ownerName(identity *model.Identity) string {
	if identity == nil {
		return "anonymous"
	}
	return identity.Username
}
