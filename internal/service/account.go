package service

import (
	"context"
	"errors"
	"shorturl-accounts/internal/model"
	"shorturl-accounts/internal/store"
	"unicode/utf8"

	"go.uber.org/zap"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

type TokenIssuer interface {
	GenerateToken(userID uint, username string) (string, error)
}

// AccountService 用户注册与登录
type AccountService struct {
	users  UserStore
	tokens TokenIssuer
	logger *zap.SugaredLogger
}

func NewAccountService(users UserStore, tokens TokenIssuer, logger *zap.SugaredLogger) *AccountService {
	return &AccountService{users: users, tokens: tokens, logger: logger.Named("account_service")}
}

// Signup 注册新用户
func (s *AccountService) Signup(ctx context.Context, username, password string) (*model.User, error) {
	// bcrypt 只接受 72 字节以内的密码
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 || len(password) < 6 || len(password) > 72 {
		return nil, ErrInvalidAccount
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	user := &model.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Infow("用户注册成功", "username", username)
	return user, nil
}

// Login 校验凭据并签发会话令牌，用户不存在与密码错误返回同一个错误
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.CheckPassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.logger.Errorf("生成令牌失败: %v", err)
		return "", nil, err
	}
	return token, user, nil
}
