package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrDuplicateCode 短码已被占用（唯一索引冲突）
	ErrDuplicateCode = errors.New("short code already exists")
	// ErrDuplicateUsername 用户名已被注册
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("record not found")
)

// isDuplicate 识别唯一约束冲突。TranslateError 覆盖主流驱动，
// 字符串匹配兜底未开启翻译的连接。
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}
