// Package oss 管理对象存储配置，并把本地上传目录镜像到激活的存储桶
package oss

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
)

// Provider 对象存储提供商接口
type Provider interface {
	// Upload 上传对象，size未知时传-1
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete 删除对象，对象不存在不视为错误
	Delete(ctx context.Context, key string) error

	// Exists 检查对象是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// TestConnection 访问存储桶以验证凭证和网络
	TestConnection(ctx context.Context) error
}

// Factory 根据配置创建提供商实例
type Factory func(ctx context.Context, cfg *database.OSSConfig) (Provider, error)

// SupportedProviders 支持的提供商
var SupportedProviders = []string{
	database.ProviderAliyun,
	database.ProviderTencent,
	database.ProviderQiniu,
	database.ProviderS3,
}

// NewProvider 默认工厂
func NewProvider(ctx context.Context, cfg *database.OSSConfig) (Provider, error) {
	switch cfg.Provider {
	case database.ProviderAliyun:
		return NewAliyunProvider(cfg)
	case database.ProviderTencent:
		return NewTencentProvider(cfg)
	case database.ProviderQiniu:
		return NewQiniuProvider(cfg)
	case database.ProviderS3:
		return NewS3Provider(cfg)
	default:
		return nil, errors.NewKeyed(errors.ErrOSSProviderNotSupported, "oss_provider_not_supported", cfg.Provider)
	}
}

// ObjectKey 本地相对URL对应的对象键
// KeepStructure 为true时保留 uploads/<类别>/ 层级，否则只用文件名，前面加 SyncPath
func ObjectKey(cfg *database.OSSConfig, url string) string {
	rel := path.Clean(strings.TrimPrefix(url, "/"))
	if !cfg.KeepStructure {
		rel = path.Base(rel)
	}
	prefix := strings.Trim(cfg.SyncPath, "/")
	if prefix == "" {
		return rel
	}
	return prefix + "/" + rel
}

func isSupported(provider string) bool {
	for _, p := range SupportedProviders {
		if p == provider {
			return true
		}
	}
	return false
}
