package handler

import (
	"errors"
	"net/http"
	"shorturl-accounts/internal/middleware"
	"shorturl-accounts/internal/service"
	"shorturl-accounts/internal/shortcode"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShortLinkHandler 短链接相关接口
type ShortLinkHandler struct {
	links   *service.LinkService
	baseURL string
	logger  *zap.SugaredLogger
}

// NewShortLinkHandler 创建处理器实例，baseURL 为空时使用请求的 Host
func NewShortLinkHandler(links *service.LinkService, baseURL string, logger *zap.SugaredLogger) *ShortLinkHandler {
	return &ShortLinkHandler{
		links:   links,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("shortlink_handler"),
	}
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid URL provided"`
}

// MessageResponse 操作成功的提示
type MessageResponse struct {
	Message string `json:"message" example:"URL deleted successfully."`
}

// CreateShortLinkRequest 创建短链接的请求体
type CreateShortLinkRequest struct {
	URL        string `json:"url" example:"https://github.com/gin-gonic/gin"`
	CustomSlug string `json:"custom_slug,omitempty" example:"gin"`
}

// CreateShortLinkResponse 创建短链接的响应
type CreateShortLinkResponse struct {
	ShortURL string `json:"short_url" example:"http://localhost:8080/aB3dE9"`
}

// IndexPage 首页
func (h *ShortLinkHandler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"user":  middleware.CurrentIdentity(c),
		"flash": popFlash(c),
	})
}

// HealthCheck 健康检查
func (h *ShortLinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// CreateShortLink godoc
// @Summary 创建短链接
// @Description 为一个长 URL 创建短链接；custom_slug 需要登录
// @Tags ShortLink
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   body  body   CreateShortLinkRequest  true  "长链接与可选的自定义短码"
// @Success 200 {object} CreateShortLinkResponse "成功响应"
// @Failure 400 {object} ErrorResponse "URL 或自定义短码无效"
// @Failure 403 {object} ErrorResponse "自定义短码需要登录"
// @Failure 409 {object} ErrorResponse "自定义短码已被占用"
// @Failure 503 {object} ErrorResponse "短码分配失败"
// @Router /api/shorten [post]
func (h *ShortLinkHandler) CreateShortLink(c *gin.Context) {
	var req CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	code, err := h.links.CreateLink(c.Request.Context(), req.URL, req.CustomSlug, middleware.CurrentIdentity(c))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateShortLinkResponse{ShortURL: h.shortURL(c, code)})
}

// RedirectToOriginal godoc
// @Summary 短链接跳转
// @Tags ShortLink
// @Param   code  path  string  true  "短码"
// @Success 302
// @Failure 404 {string} string "URL not found"
// @Router /{code} [get]
func (h *ShortLinkHandler) RedirectToOriginal(c *gin.Context) {
	longURL, err := h.links.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.String(http.StatusNotFound, "URL not found")
			return
		}
		h.logger.Errorf("解析短码失败: %v", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Redirect(http.StatusFound, longURL)
}

// GetHistory godoc
// @Summary 我的短链接
// @Description 返回当前用户创建的短链接
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {array} service.LinkView "成功响应"
// @Failure 401 {object} ErrorResponse "未登录"
// @Router /api/history [get]
func (h *ShortLinkHandler) GetHistory(c *gin.Context) {
	views, err := h.links.ListFor(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// DeleteLink godoc
// @Summary 删除短链接
// @Description 只能删除自己创建的短链接；不存在与无权限返回同样的 404
// @Tags ShortLink
// @Security ApiKeyAuth
// @Produce  json
// @Param   code  path  string  true  "短码"
// @Success 200 {object} MessageResponse "删除成功"
// @Failure 401 {object} ErrorResponse "未登录"
// @Failure 404 {object} ErrorResponse "不存在或无权删除"
// @Router /api/delete/{code} [delete]
func (h *ShortLinkHandler) DeleteLink(c *gin.Context) {
	err := h.links.Delete(c.Request.Context(), c.Param("code"), middleware.CurrentIdentity(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "URL not found or you do not have permission to delete it."})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "URL deleted successfully."})
}

// writeError 把业务错误映射为 HTTP 状态码，未知错误不暴露细节
func (h *ShortLinkHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid URL provided"})
	case errors.Is(err, shortcode.ErrInvalidAlias):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Custom name may only contain letters, digits, '-' and '_' (max 32)."})
	case errors.Is(err, shortcode.ErrSignInRequired):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You must be signed in to use a custom name."})
	case errors.Is(err, shortcode.ErrAliasTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "That custom name is already taken."})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "URL not found"})
	case errors.Is(err, shortcode.ErrExhausted):
		h.logger.Warnf("短码分配耗尽: %v", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Could not allocate a short code, please retry."})
	default:
		h.logger.Errorf("请求处理失败 %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// shortURL 拼接站点地址与短码
func (h *ShortLinkHandler) shortURL(c *gin.Context, code string) string {
	base := h.baseURL
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/" + code
}
