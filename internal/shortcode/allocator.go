package shortcode

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"shorturl-accounts/internal/model"
	"strings"

	"go.uber.org/zap"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength 是生成的短码的长度
	CodeLength = 6
	// MaxAttempts 生成短码的最大尝试次数
	MaxAttempts = 10
	// MaxAliasLength 自定义短码的最大长度，与 short_code 列宽一致
	MaxAliasLength = 32
)

var (
	ErrSignInRequired = errors.New("custom alias requires sign-in")
	ErrAliasTaken     = errors.New("custom alias already taken")
	ErrInvalidAlias   = errors.New("invalid custom alias")
	ErrExhausted      = errors.New("short code space exhausted, try again")
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// 与固定路由冲突的短码
var reservedAliases = map[string]bool{
	"api":     true,
	"login":   true,
	"logout":  true,
	"signup":  true,
	"health":  true,
	"swagger": true,
	"static":  true,
}

// Checker 短码占用检查，由链接存储实现
type Checker interface {
	Exists(ctx context.Context, code string) (bool, error)
}

// Allocator 负责分配唯一短码或校验自定义短码
type Allocator struct {
	checker Checker
	logger  *zap.SugaredLogger
}

// NewAllocator 创建短码分配器
func NewAllocator(checker Checker, logger *zap.SugaredLogger) *Allocator {
	return &Allocator{
		checker: checker,
		logger:  logger.Named("shortcode_allocator"),
	}
}

// Allocate 返回一个当前未被占用的短码。alias 为空时随机生成，
// 否则要求已登录并按原样使用 alias。只做检查，不写入。
func (a *Allocator) Allocate(ctx context.Context, alias string, identity *model.Identity) (string, error) {
	if alias == "" {
		return a.generateUniqueCode(ctx)
	}
	return a.claimAlias(ctx, alias, identity)
}

func (a *Allocator) claimAlias(ctx context.Context, alias string, identity *model.Identity) (string, error) {
	if identity == nil {
		return "", ErrSignInRequired
	}
	if err := ValidateAlias(alias); err != nil {
		return "", err
	}

	taken, err := a.checker.Exists(ctx, alias)
	if err != nil {
		return "", fmt.Errorf("检查自定义短码失败: %w", err)
	}
	if taken {
		return "", ErrAliasTaken
	}
	return alias, nil
}

// generateUniqueCode 生成一个在存储中唯一的短码
func (a *Allocator) generateUniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code, err := generateRandomString(CodeLength)
		if err != nil {
			return "", err
		}
		taken, err := a.checker.Exists(ctx, code)
		if err != nil {
			// 无法确认时不能当作可用
			return "", fmt.Errorf("检查短码失败: %w", err)
		}
		if !taken {
			return code, nil
		}
		a.logger.Debugf("短码 %s 已存在，重新生成", code)
	}
	a.logger.Warnf("已尝试 %d 次生成短码，但均存在冲突", MaxAttempts)
	return "", ErrExhausted
}

// ValidateAlias 校验自定义短码的格式
func ValidateAlias(alias string) error {
	if alias == "" || len(alias) > MaxAliasLength {
		return ErrInvalidAlias
	}
	if !aliasPattern.MatchString(alias) {
		return ErrInvalidAlias
	}
	if reservedAliases[strings.ToLower(alias)] {
		return ErrInvalidAlias
	}
	return nil
}

// generateRandomString 使用加密安全的随机数生成器生成一个给定长度的字符串
func generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	n := big.NewInt(int64(len(Charset)))
	for i := range b {
		num, err := rand.Int(rand.Reader, n)
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}
