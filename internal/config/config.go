package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 主配置结构
type Config struct {
	App      App    `yaml:"app"`
	Server   Server `yaml:"server"`
	Database DB     `yaml:"database"`
	Cache    Cache  `yaml:"cache"`
	Auth     Auth   `yaml:"auth"`
	Log      Log    `yaml:"log"`
	CORS     CORS   `yaml:"cors"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode" env:"SHORTURL_MODE"`
	Version string `yaml:"version"`
	// BaseURL 生成短链接时使用的站点地址，为空时取请求的 Host
	BaseURL string `yaml:"base_url" env:"SHORTURL_BASE_URL"`
}

// 服务器配置
type Server struct {
	Port            int `yaml:"port" env:"SHORTURL_PORT"`
	ReadTimeout     int `yaml:"read_timeout"`
	WriteTimeout    int `yaml:"write_timeout"`
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

// 数据库配置
type DB struct {
	Driver          string `yaml:"driver" env:"SHORTURL_DB_DRIVER"`
	Host            string `yaml:"host" env:"SHORTURL_DB_HOST"`
	Port            int    `yaml:"port" env:"SHORTURL_DB_PORT"`
	User            string `yaml:"user" env:"SHORTURL_DB_USER"`
	Password        string `yaml:"password" env:"SHORTURL_DB_PASSWORD"`
	Name            string `yaml:"name" env:"SHORTURL_DB_NAME"`
	Charset         string `yaml:"charset"`
	SSLMode         string `yaml:"sslmode"`
	DSN             string `yaml:"dsn" env:"SHORTURL_DB_DSN"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime"` // 秒
}

// 缓存配置（Redis 与进程内缓存）
type Cache struct {
	Host         string `yaml:"host" env:"SHORTURL_REDIS_HOST"`
	Port         int    `yaml:"port" env:"SHORTURL_REDIS_PORT"`
	Password     string `yaml:"password" env:"SHORTURL_REDIS_PASSWORD"`
	DB           int    `yaml:"db"`
	TTLHours     int    `yaml:"ttl_hours"`
	LocalMaxCost int64  `yaml:"local_max_cost"`
	LocalTTL     int    `yaml:"local_ttl_seconds"`
	TombstoneTTL int    `yaml:"tombstone_ttl_seconds"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret" env:"SHORTURL_AUTH_SECRET"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
	CookieName      string `yaml:"cookie_name"`
	SecureCookie    bool   `yaml:"secure_cookie" env:"SHORTURL_SECURE_COOKIE"`
}

// 日志配置
type Log struct {
	Level      string `yaml:"level" env:"SHORTURL_LOG_LEVEL"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// 跨域配置，AllowOrigins 为空时不启用
type CORS struct {
	AllowOrigins []string `yaml:"allow_origins" env:"SHORTURL_CORS_ORIGINS" envSeparator:","`
}

// 加载配置：YAML 文件 -> .env -> 环境变量覆盖 -> 默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// .env 不存在时忽略
	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Auth.ExpirationHours == 0 {
		c.Auth.ExpirationHours = 24
	}
	if c.Auth.CookieName == "" {
		c.Auth.CookieName = "session"
	}
	if c.Cache.TTLHours == 0 {
		c.Cache.TTLHours = 24
	}
	if c.Cache.LocalTTL == 0 {
		c.Cache.LocalTTL = 60
	}
	if c.Cache.TombstoneTTL == 0 {
		c.Cache.TombstoneTTL = 300
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 检查启动必需的配置
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret 不能为空"))
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("无效的端口: %d", c.Server.Port))
	}
	return errors.Join(errs...)
}

func (s Server) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s Server) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

func (s Server) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(s.ShutdownTimeout) * time.Second
}
