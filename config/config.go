// Package config 负责加载应用配置
// 配置来源优先级：环境变量(HOMEPAGE_前缀) > 配置文件(config.yaml) > 默认值
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/weiwangfds/homepage/internal/logger"
)

// Config 应用总配置
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      logger.Config  `mapstructure:"log"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Admin    AdminConfig    `mapstructure:"admin"`
	OSS      OSSConfig      `mapstructure:"oss"`
}

// AppConfig 应用基础信息
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Version  string `mapstructure:"version"`
	Language string `mapstructure:"language" validate:"oneof=zh-CN en-US"` // 默认响应语言
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	HTTPSPort    int    `mapstructure:"https_port" validate:"min=1,max=65535"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // 秒
	WriteTimeout int    `mapstructure:"write_timeout"` // 秒
	EnableHTTPS  bool   `mapstructure:"enable_https"`
	EnableHTTP2  bool   `mapstructure:"enable_http2"`
	TLSCertFile  string `mapstructure:"tls_cert_file" validate:"required_if=EnableHTTPS true"`
	TLSKeyFile   string `mapstructure:"tls_key_file" validate:"required_if=EnableHTTPS true"`
	Mode         string `mapstructure:"mode" validate:"oneof=debug release test"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=sqlite mysql postgres"`
	DSN             string `mapstructure:"dsn" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	LogLevel        string `mapstructure:"log_level" validate:"oneof=silent error warn info"`
	Seed            bool   `mapstructure:"seed"` // 空库时写入示例数据
}

// CategoryConfig 单个上传类别的存储规则
type CategoryConfig struct {
	Dir          string   `mapstructure:"dir" validate:"required"`
	AllowedTypes []string `mapstructure:"allowed_types" validate:"min=1"`
	MaxSize      int64    `mapstructure:"max_size" validate:"gt=0"`
}

// UploadConfig 上传配置
// Root 为空时相对于进程工作目录
type UploadConfig struct {
	Root       string                    `mapstructure:"root"`
	Categories map[string]CategoryConfig `mapstructure:"categories" validate:"required,dive"`
}

// AdminConfig 管理接口的Basic认证，Username为空时不启用
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password" validate:"required_with=Username"`
}

// OSSConfig 对象存储镜像配置
type OSSConfig struct {
	Mirror  bool `mapstructure:"mirror"`  // 是否将本地文件同步镜像到激活的OSS
	Timeout int  `mapstructure:"timeout"` // 单次镜像操作超时，秒
}

const (
	imageMaxSize    = 5 * 1024 * 1024
	documentMaxSize = 20 * 1024 * 1024
)

var (
	imageTypes    = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	pdfTypes      = []string{"application/pdf"}
	materialTypes = []string{
		"application/pdf",
		"application/vnd.ms-powerpoint",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
)

// Load 从默认位置加载配置
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom 从指定文件加载配置，path为空时在 . 和 ./config 下查找 config.yaml
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("HOMEPAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Professor Homepage")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.language", "zh-CN")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.https_port", 8443)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", true)
	v.SetDefault("server.mode", "release")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/homepage.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.seed", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "console")
	v.SetDefault("log.file_path", "logs/app.log")

	v.SetDefault("upload.root", "")
	setCategory(v, "avatar", "uploads/avatars", imageTypes, imageMaxSize)
	setCategory(v, "pdf", "uploads/pdfs", pdfTypes, documentMaxSize)
	setCategory(v, "qrcode", "uploads/qrcodes", imageTypes, imageMaxSize)
	setCategory(v, "material", "uploads/materials", materialTypes, documentMaxSize)

	v.SetDefault("oss.mirror", false)
	v.SetDefault("oss.timeout", 60)
}

func setCategory(v *viper.Viper, name, dir string, types []string, maxSize int64) {
	prefix := "upload.categories." + name
	v.SetDefault(prefix+".dir", dir)
	v.SetDefault(prefix+".allowed_types", types)
	v.SetDefault(prefix+".max_size", maxSize)
}

// Default 返回仅由默认值构成的配置，主要用于测试
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
