package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	// 工作目录中没有 config.yaml 时只使用默认值
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "zh-CN", cfg.App.Language)
	assert.False(t, cfg.OSS.Mirror)

	avatar := cfg.Upload.Categories["avatar"]
	assert.Equal(t, "uploads/avatars", avatar.Dir)
	assert.EqualValues(t, 5*1024*1024, avatar.MaxSize)
	assert.Contains(t, avatar.AllowedTypes, "image/webp")

	pdf := cfg.Upload.Categories["pdf"]
	assert.Equal(t, []string{"application/pdf"}, pdf.AllowedTypes)
	assert.EqualValues(t, 20*1024*1024, pdf.MaxSize)
	assert.Len(t, cfg.Upload.Categories["material"].AllowedTypes, 5)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  dsn: "host=localhost user=homepage dbname=homepage"
upload:
  root: /srv/homepage
  categories:
    avatar:
      max_size: 1048576
admin:
  username: admin
  password: secret
`)
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "/srv/homepage", cfg.Upload.Root)
	assert.EqualValues(t, 1048576, cfg.Upload.Categories["avatar"].MaxSize)
	// 未覆盖的字段保留默认值
	assert.Equal(t, "uploads/avatars", cfg.Upload.Categories["avatar"].Dir)
	assert.Equal(t, "admin", cfg.Admin.Username)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOMEPAGE_SERVER_PORT", "7070")
	t.Setenv("HOMEPAGE_OSS_MIRROR", "true")

	cfg, err := LoadFrom(writeConfig(t, "app:\n  name: test\n"))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.OSS.Mirror)
	assert.Equal(t, "test", cfg.App.Name)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"不支持的数据库驱动", "database:\n  driver: oracle\n"},
		{"不支持的语言", "app:\n  language: fr-FR\n"},
		{"HTTPS缺少证书", "server:\n  enable_https: true\n"},
		{"管理员缺少密码", "admin:\n  username: admin\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "server: [unclosed"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 60, cfg.OSS.Timeout)
	assert.Len(t, cfg.Upload.Categories, 4)
}
