package handler

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Flash 表单页面的一次性提示
type Flash struct {
	Category string // success | danger
	Message  string
}

func setFlash(c *gin.Context, category, message string) {
	c.SetCookie(flashCookie, url.QueryEscape(category+"|"+message), 60, "/", "", false, true)
}

// popFlash 读取并清除提示
func popFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	value, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(value, "|")
	if !ok {
		return nil
	}
	return &Flash{Category: category, Message: message}
}
