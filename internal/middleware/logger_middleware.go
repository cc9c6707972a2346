package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/homepage/internal/i18n"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/response"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware 日志中间件
type LoggerMiddleware struct {
	logger    *logrus.Logger
	skipPaths map[string]struct{}
}

// NewLoggerMiddleware 创建日志中间件实例，skipPaths中的路径不记录访问日志
func NewLoggerMiddleware(skipPaths ...string) *LoggerMiddleware {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return &LoggerMiddleware{logger: logger.GetLogger(), skipPaths: skip}
}

// RequestID 为每个请求分配ID，沿用客户端传入的 X-Request-ID
func (m *LoggerMiddleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Language 按 Accept-Language 选择响应语言
func (m *LoggerMiddleware) Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.LanguageKey, i18n.GetInstance().ResolveLanguage(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// Logger 访问日志，5xx记为error，4xx记为warn
func (m *LoggerMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if _, skip := m.skipPaths[path]; skip {
			return
		}

		status := c.Writer.Status()
		entry := m.logger.WithFields(logrus.Fields{
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"raw_query":  raw,
			"user_agent": c.Request.UserAgent(),
			"request_id": c.GetString(response.RequestIDKey),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("HTTP Request")
		case status >= 400:
			entry.Warn("HTTP Request")
		default:
			entry.Info("HTTP Request")
		}
	}
}
