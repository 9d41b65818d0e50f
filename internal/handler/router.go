package handler

import (
	"shorturl-accounts/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册全部业务路由。optionalAuth 需先于路由挂载，
// 以便所有接口都能读取当前身份。
func RegisterRoutes(router *gin.Engine, urlHandler *ShortLinkHandler, authHandler *AuthHandler, optionalAuth gin.HandlerFunc) {
	router.Use(optionalAuth)
	requireAuth := middleware.RequireAuth()

	router.GET("/", urlHandler.IndexPage)
	router.GET("/health", urlHandler.HealthCheck)

	router.GET("/signup", authHandler.SignupPage)
	router.POST("/signup", authHandler.Signup)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", requireAuth, authHandler.Logout)

	api := router.Group("/api")
	{
		api.POST("/shorten", urlHandler.CreateShortLink)
		api.GET("/history", requireAuth, urlHandler.GetHistory)
		api.DELETE("/delete/:code", requireAuth, urlHandler.DeleteLink)
	}

	router.GET("/:code", urlHandler.RedirectToOriginal)
}
