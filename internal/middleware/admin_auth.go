package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/response"
)

// AdminAuth 写操作（非GET/HEAD/OPTIONS）需要HTTP Basic认证
// 未配置用户名时不做校验
func AdminAuth(cfg config.AdminConfig) gin.HandlerFunc {
	if cfg.Username == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || !equal(user, cfg.Username) || !equal(pass, cfg.Password) {
			logger.Component("auth").WithField("path", c.Request.URL.Path).Warn("admin authentication failed")
			c.Header("WWW-Authenticate", `Basic realm="homepage admin"`)
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
