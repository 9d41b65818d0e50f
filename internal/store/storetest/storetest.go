// Package storetest 为测试提供隔离的内存 SQLite 数据库
package storetest

import (
	"fmt"
	"shorturl-accounts/pkg/database"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB 每次调用返回一个独立命名的内存库，测试结束自动关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	// 单连接串行化访问，避免共享缓存模式下的表锁冲突
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("无法初始化内存数据库: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
