// Package storage 实现上传文件的校验、命名与本地存储
package storage

import (
	"fmt"
	"strings"

	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/errors"
)

// Category 上传类别
type Category string

const (
	CategoryAvatar   Category = "avatar"
	CategoryPDF      Category = "pdf"
	CategoryQRCode   Category = "qrcode"
	CategoryMaterial Category = "material"
)

// Policy 单个类别的存储规则
type Policy struct {
	Dir          string // 相对于存储根目录，使用 / 分隔
	AllowedTypes map[string]struct{}
	MaxSize      int64
}

// Validator 按类别校验文件大小与声明的MIME类型，无副作用
type Validator struct {
	policies map[Category]Policy
}

// NewValidator 根据上传配置构造校验器
func NewValidator(cfg config.UploadConfig) *Validator {
	policies := make(map[Category]Policy, len(cfg.Categories))
	for name, c := range cfg.Categories {
		allowed := make(map[string]struct{}, len(c.AllowedTypes))
		for _, t := range c.AllowedTypes {
			allowed[normalizeType(t)] = struct{}{}
		}
		policies[Category(name)] = Policy{
			Dir:          strings.Trim(c.Dir, "/"),
			AllowedTypes: allowed,
			MaxSize:      c.MaxSize,
		}
	}
	return &Validator{policies: policies}
}

// Policy 返回类别对应的规则
func (v *Validator) Policy(category Category) (Policy, error) {
	p, ok := v.policies[category]
	if !ok {
		return Policy{}, errors.NewKeyed(errors.ErrInternalServer, "file_category_unknown", string(category))
	}
	return p, nil
}

// Validate 依次检查：空文件、超出大小上限、类型不在允许列表
// contentType 为空视为不支持的类型
func (v *Validator) Validate(size int64, contentType string, category Category) error {
	p, err := v.Policy(category)
	if err != nil {
		return err
	}
	if size <= 0 {
		return errors.FileEmpty()
	}
	if size > p.MaxSize {
		return errors.FileTooLarge(LimitString(p.MaxSize))
	}
	if _, ok := p.AllowedTypes[normalizeType(contentType)]; !ok || contentType == "" {
		return errors.FileTypeNotAllowed(string(category))
	}
	return nil
}

// normalizeType 去掉MIME参数并转为小写，如 "Image/PNG; charset=x" -> "image/png"
func normalizeType(contentType string) string {
	t, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(t))
}

// LimitString 大小上限的简写，如 5242880 -> "5MB"
func LimitString(size int64) string {
	switch {
	case size >= mb && size%mb == 0:
		return fmt.Sprintf("%dMB", size/mb)
	case size >= kb && size%kb == 0:
		return fmt.Sprintf("%dKB", size/kb)
	default:
		return ReadableSize(size)
	}
}

const (
	kb = 1024
	mb = 1024 * 1024
)

// ReadableSize 可读的文件大小，如 "512 B"、"1.50 KB"、"5.00 MB"
func ReadableSize(size int64) string {
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.2f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%.2f MB", float64(size)/mb)
	}
}
