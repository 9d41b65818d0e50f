package middleware

import (
	"net/http"
	"shorturl-accounts/internal/model"
	auth "shorturl-accounts/pkg/jwt"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// OptionalAuth 解析 Authorization 头或会话 cookie，有效时把身份存入上下文；
// 令牌缺失或无效都按匿名处理。
func OptionalAuth(jwtManager *auth.TokenManager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c, cookieName)
		if tokenString != "" {
			if claims, err := jwtManager.ValidateToken(tokenString); err == nil {
				c.Set(identityKey, &model.Identity{UserID: claims.UserID, Username: claims.Username})
			}
		}
		c.Next()
	}
}

// RequireAuth 拒绝匿名请求：API 返回 401，页面跳转到登录页
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c) != nil {
			c.Next()
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// CurrentIdentity 返回当前请求的身份，匿名时为 nil
func CurrentIdentity(c *gin.Context) *model.Identity {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	id, _ := v.(*model.Identity)
	return id
}

// extractToken 优先取 Bearer 令牌，其他 Authorization 方案（如代理加的 Basic）忽略并回退到 cookie
func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return cookie
	}
	return ""
}
