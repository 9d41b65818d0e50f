package handler

import (
	"errors"
	"net/http"
	"shorturl-accounts/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieOptions 会话 cookie 参数
type CookieOptions struct {
	Name   string
	MaxAge int // 秒
	Secure bool
}

// AuthHandler 注册、登录、登出（表单提交）
type AuthHandler struct {
	accounts *service.AccountService
	cookie   CookieOptions
	logger   *zap.SugaredLogger
}

// NewAuthHandler 创建一个新的 AuthHandler
func NewAuthHandler(accounts *service.AccountService, cookie CookieOptions, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{accounts: accounts, cookie: cookie, logger: logger.Named("auth_handler")}
}

func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{"flash": popFlash(c)})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"flash": popFlash(c)})
}

// Signup godoc
// @Summary 用户注册
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Param   username  formData  string  true  "用户名"
// @Param   password  formData  string  true  "密码"
// @Success 302 "跳转到登录页"
// @Router /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	_, err := h.accounts.Signup(c.Request.Context(), username, password)
	switch {
	case err == nil:
		setFlash(c, "success", "Account created successfully! Please log in.")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, service.ErrUsernameTaken):
		setFlash(c, "danger", "Username already exists.")
		c.Redirect(http.StatusFound, "/signup")
	case errors.Is(err, service.ErrInvalidAccount):
		setFlash(c, "danger", "Username must be 3-50 characters and password 6-72 bytes.")
		c.Redirect(http.StatusFound, "/signup")
	default:
		h.logger.Errorf("注册失败: %v", err)
		setFlash(c, "danger", "Something went wrong, please try again.")
		c.Redirect(http.StatusFound, "/signup")
	}
}

// Login godoc
// @Summary 用户登录
// @Description 校验成功后写入会话 cookie
// @Tags Auth
// @Accept  x-www-form-urlencoded
// @Param   username  formData  string  true  "用户名"
// @Param   password  formData  string  true  "密码"
// @Success 302 "跳转到首页"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	token, _, err := h.accounts.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Errorf("登录失败: %v", err)
		}
		setFlash(c, "danger", "Invalid username or password.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, h.cookie.MaxAge, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

// Logout 清除会话 cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}
