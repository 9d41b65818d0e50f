package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"shorturl-accounts/internal/cache"
	"shorturl-accounts/internal/config"
	"shorturl-accounts/internal/handler"
	"shorturl-accounts/internal/middleware"
	"shorturl-accounts/internal/service"
	"shorturl-accounts/internal/shortcode"
	"shorturl-accounts/internal/store"
	"shorturl-accounts/pkg/database"
	auth "shorturl-accounts/pkg/jwt"
	"shorturl-accounts/pkg/logger"
	"shorturl-accounts/pkg/redis"
	"syscall"
	"time"

	_ "shorturl-accounts/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Short URL API
// @version 1.0
// @description 短链接服务：匿名或登录创建短链接，登录用户可使用自定义短码并管理自己的链接。
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	if err := logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "日志初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger.Sync()
	}()
	sugaredLogger := zap.S()

	db, err := database.Open(database.Options{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Name:            cfg.Database.Name,
		Charset:         cfg.Database.Charset,
		SSLMode:         cfg.Database.SSLMode,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			sugaredLogger.Errorf("关闭数据库连接失败: %v", err)
		}
	}()
	sugaredLogger.Infof("✅ 数据库连接成功 (%s)", cfg.Database.Driver)

	// Redis 不可用时退回进程内缓存
	rdb, err := redis.NewClient(context.Background(), &redis.Options{
		Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
	})
	if err != nil {
		sugaredLogger.Warnf("缓存连接失败: %v", err)
		rdb = nil
	} else if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
			}
		}()
		sugaredLogger.Info("✅ 缓存连接成功")
	}

	linkCache, err := cache.New(rdb, cache.Options{
		LocalMaxCost: cfg.Cache.LocalMaxCost,
		LocalTTL:     time.Duration(cfg.Cache.LocalTTL) * time.Second,
		RedisTTL:     time.Duration(cfg.Cache.TTLHours) * time.Hour,
		TombstoneTTL: time.Duration(cfg.Cache.TombstoneTTL) * time.Second,
	}, sugaredLogger)
	if err != nil {
		sugaredLogger.Fatalf("缓存初始化失败: %v", err)
	}
	defer linkCache.Close()

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)

	linkStore := store.NewLinkStore(db)
	allocator := shortcode.NewAllocator(linkStore, sugaredLogger)
	linkService := service.NewLinkService(linkStore, allocator, linkCache, sugaredLogger)
	accountService := service.NewAccountService(store.NewUserStore(db), tokenManager, sugaredLogger)

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.RequestID())
	router.Use(middleware.GinZapLogger(logger.Logger))
	if len(cfg.CORS.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.LoadHTMLGlob("web/templates/*")
	router.Static("/static", "./web/static")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	urlHandler := handler.NewShortLinkHandler(linkService, cfg.App.BaseURL, sugaredLogger)
	authHandler := handler.NewAuthHandler(accountService, handler.CookieOptions{
		Name:   cfg.Auth.CookieName,
		MaxAge: int(tokenManager.TTL().Seconds()),
		Secure: cfg.Auth.SecureCookie,
	}, sugaredLogger)
	handler.RegisterRoutes(router, urlHandler, authHandler, middleware.OptionalAuth(tokenManager, cfg.Auth.CookieName))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Fatalf("服务启动失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	sugaredLogger.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		sugaredLogger.Errorf("服务关闭超时: %v", err)
	}
	sugaredLogger.Info("服务已退出")
}
