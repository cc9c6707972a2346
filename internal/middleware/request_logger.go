package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/response"
)

// redacted 替换敏感字段的值
const redacted = "******"

// BodyLoggerConfig 请求/响应体日志配置
type BodyLoggerConfig struct {
	Enabled     bool     // 是否启用，一般只在debug模式下开启
	SkipPaths   []string // 跳过记录的路径
	MaxBodySize int      // 记录的最大字节数，超出部分截断
}

// DefaultBodyLoggerConfig 默认配置，enabled 由调用方按运行模式决定
func DefaultBodyLoggerConfig(enabled bool) BodyLoggerConfig {
	return BodyLoggerConfig{
		Enabled:     enabled,
		SkipPaths:   []string{"/health", "/favicon.ico"},
		MaxBodySize: 64 * 1024,
	}
}

// bodyWriter 在写出响应的同时保留一份副本
type bodyWriter struct {
	gin.ResponseWriter
	body  *bytes.Buffer
	limit int
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	if remain := w.limit - w.body.Len(); remain > 0 {
		if len(b) > remain {
			w.body.Write(b[:remain])
		} else {
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// BodyLogger 以debug级别记录JSON请求体和响应体
// 文件上传（multipart）与HTML页面不记录内容，secret_key 与 password 字段被替换
func BodyLogger(cfg BodyLoggerConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		var requestBody interface{}
		if isJSON(c.ContentType()) && c.Request.Body != nil {
			raw, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(cfg.MaxBodySize)))
			if err == nil {
				// 已读部分与剩余部分拼接后交给后续处理器
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
				requestBody = parseBody(raw)
			}
		}

		writer := &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}, limit: cfg.MaxBodySize}
		c.Writer = writer

		c.Next()

		fields := logrus.Fields{
			"type":       "body_log",
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     writer.Status(),
			"request_id": c.GetString(response.RequestIDKey),
		}
		if requestBody != nil {
			fields["body"] = requestBody
		}
		if isJSON(writer.Header().Get("Content-Type")) && writer.body.Len() > 0 {
			fields["response_body"] = parseBody(writer.body.Bytes())
		}
		logger.WithFields(fields).Debug("HTTP Body")
	}
}

func isJSON(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/json")
}

// parseBody 解析为JSON并隐去敏感字段，无法解析时按字符串记录
func parseBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return redact(v)
}

func redact(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			switch strings.ToLower(k) {
			case "secret_key", "password":
				t[k] = redacted
			default:
				t[k] = redact(val)
			}
		}
	case []interface{}:
		for i := range t {
			t[i] = redact(t[i])
		}
	}
	return v
}
