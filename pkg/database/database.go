package database

import (
	"fmt"
	"shorturl-accounts/internal/model"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Options 数据库连接参数
type Options struct {
	Driver   string // mysql | postgres | sqlite
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Charset  string
	SSLMode  string
	DSN      string // 非空时直接使用，sqlite 下为文件路径

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open 按驱动建立连接并完成表迁移
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	connection, err := gorm.Open(dialector, &gorm.Config{
		// 唯一索引冲突统一翻译为 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := Migrate(connection); err != nil {
		return nil, err
	}
	return connection, nil
}

// Migrate 自动迁移表。MySQL 的 utf8mb4 默认排序规则不区分大小写，
// short_code 需要单独改为二进制排序。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.ShortLink{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	if ddl := caseSensitiveCodeDDL(db.Dialector.Name()); ddl != "" {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("设置短码排序规则失败: %w", err)
		}
	}
	return nil
}

// caseSensitiveCodeDDL 返回让 short_code 区分大小写所需的语句，
// postgres 与 sqlite 的默认比较已区分大小写，返回空串
func caseSensitiveCodeDDL(dialect string) string {
	if dialect != "mysql" {
		return ""
	}
	return "ALTER TABLE short_links MODIFY short_code VARCHAR(32) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", "mysql":
		dsn := opts.DSN
		if dsn == "" {
			charset := opts.Charset
			if charset == "" {
				charset = "utf8mb4"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
				opts.User, opts.Password, opts.Host, opts.Port, opts.Name, charset)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := opts.DSN
		if dsn == "" {
			sslMode := opts.SSLMode
			if sslMode == "" {
				sslMode = "disable"
			}
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				opts.Host, opts.Port, opts.User, opts.Password, opts.Name, sslMode)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := opts.DSN
		if dsn == "" {
			dsn = "shorturl.db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %q", opts.Driver)
	}
}
