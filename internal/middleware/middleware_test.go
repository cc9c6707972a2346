package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureLogs 将全局日志替换为测试日志并返回钩子
func captureLogs(t *testing.T) *test.Hook {
	t.Helper()
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	prev := logger.Logger
	logger.Logger = l
	t.Cleanup(func() { logger.Logger = prev })
	return hook
}

func TestRequestIDAndLanguage(t *testing.T) {
	captureLogs(t)
	m := NewLoggerMiddleware()
	engine := gin.New()
	engine.Use(m.RequestID(), m.Language())
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(response.RequestIDKey)+"|"+response.Language(c))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id+"|zh-CN", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	req.Header.Set("Accept-Language", "en-US")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "client-id|en-US", w.Body.String())
}

func TestLoggerLevels(t *testing.T) {
	hook := captureLogs(t)
	m := NewLoggerMiddleware("/health")
	engine := gin.New()
	engine.Use(m.RequestID(), m.Logger())
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	engine.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/health", "/missing", "/boom"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, "/missing", entries[0].Data["path"])
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
	assert.NotEmpty(t, entries[1].Data["request_id"])
}

func TestBodyLogger(t *testing.T) {
	hook := captureLogs(t)
	engine := gin.New()
	engine.Use(BodyLogger(DefaultBodyLoggerConfig(true)))
	engine.POST("/echo", func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", raw)
	})

	body := `{"name":"主存储","secret_key":"s3cr3t","nested":[{"password":"p"}]}`
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	// 处理器仍能读到完整的请求体
	assert.JSONEq(t, body, w.Body.String())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	logged := entry.Data["body"].(map[string]interface{})
	assert.Equal(t, "主存储", logged["name"])
	assert.Equal(t, redacted, logged["secret_key"])
	nested := logged["nested"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, redacted, nested["password"])
	assert.NotNil(t, entry.Data["response_body"])
}

func TestBodyLoggerDisabled(t *testing.T) {
	hook := captureLogs(t)
	engine := gin.New()
	engine.Use(BodyLogger(DefaultBodyLoggerConfig(false)))
	engine.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Empty(t, hook.AllEntries())
}

func TestAdminAuth(t *testing.T) {
	captureLogs(t)
	newEngine := func(cfg config.AdminConfig) *gin.Engine {
		engine := gin.New()
		engine.Use(AdminAuth(cfg))
		engine.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
		engine.POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })
		return engine
	}

	t.Run("未配置用户名时放行", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(config.AdminConfig{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/items", nil))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	engine := newEngine(config.AdminConfig{Username: "admin", Password: "secret"})
	tests := []struct {
		name   string
		method string
		user   string
		pass   string
		want   int
	}{
		{"读操作无需认证", http.MethodGet, "", "", http.StatusOK},
		{"写操作缺少认证", http.MethodPost, "", "", http.StatusUnauthorized},
		{"密码错误", http.MethodPost, "admin", "nope", http.StatusUnauthorized},
		{"认证通过", http.MethodPost, "admin", "secret", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/items", nil)
			if tt.user != "" {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
