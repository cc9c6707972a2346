package oss

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/logger"
	"gorm.io/gorm"
)

// ConfigService OSS配置服务接口
// 系统中至多一个激活配置，激活配置不可删除或禁用
type ConfigService interface {
	// Create 校验并保存配置，第一个配置自动激活
	Create(ctx context.Context, cfg *database.OSSConfig) error

	// Get 按ID获取配置
	Get(ctx context.Context, id uint) (*database.OSSConfig, error)

	// List 全部配置，按创建时间倒序
	List(ctx context.Context) ([]database.OSSConfig, error)

	// Update 校验并覆盖配置，SecretKey为空时保留原值
	Update(ctx context.Context, id uint, cfg *database.OSSConfig) error

	// Delete 删除非激活的配置
	Delete(ctx context.Context, id uint) error

	// Activate 激活配置并取消其他配置的激活状态
	Activate(ctx context.Context, id uint) error

	// Toggle 启用或禁用配置
	Toggle(ctx context.Context, id uint, enabled bool) error

	// Test 使用配置创建提供商并测试连接
	Test(ctx context.Context, id uint) error

	// GetActive 当前激活且启用的配置，没有时返回 (nil, nil)
	GetActive(ctx context.Context) (*database.OSSConfig, error)
}

type configService struct {
	db      *gorm.DB
	factory Factory
}

// NewConfigService 创建OSS配置服务实例，factory为nil时使用 NewProvider
func NewConfigService(db *gorm.DB, factory Factory) ConfigService {
	if factory == nil {
		factory = NewProvider
	}
	return &configService{db: db, factory: factory}
}

func (s *configService) Create(ctx context.Context, cfg *database.OSSConfig) error {
	cfg.ID = 0
	if err := s.validate(ctx, cfg, false); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.OSSConfig{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			cfg.IsActive = true
		}
		if cfg.IsActive {
			if err := deactivateAll(tx); err != nil {
				return err
			}
		}
		return tx.Create(cfg).Error
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseInsert, err)
	}

	logger.Component("oss").Infof("[OSS配置服务] 创建配置: %s (ID: %d, 提供商: %s, 激活: %v)",
		cfg.Name, cfg.ID, cfg.Provider, cfg.IsActive)
	return nil
}

func (s *configService) Get(ctx context.Context, id uint) (*database.OSSConfig, error) {
	var cfg database.OSSConfig
	if err := s.db.WithContext(ctx).First(&cfg, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("oss_config", id)
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return &cfg, nil
}

func (s *configService) List(ctx context.Context) ([]database.OSSConfig, error) {
	configs := make([]database.OSSConfig, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&configs).Error; err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return configs, nil
}

func (s *configService) Update(ctx context.Context, id uint, cfg *database.OSSConfig) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	cfg.ID = id
	if cfg.SecretKey == "" {
		cfg.SecretKey = existing.SecretKey
	}
	if err := s.validate(ctx, cfg, true); err != nil {
		return err
	}
	// 激活状态只能通过 Activate 改变，启用状态只能通过 Toggle 改变
	cfg.IsActive = existing.IsActive
	cfg.IsEnabled = existing.IsEnabled
	cfg.CreatedAt = existing.CreatedAt

	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseUpdate, err)
	}
	logger.Component("oss").Infof("[OSS配置服务] 更新配置: %s (ID: %d)", cfg.Name, id)
	return nil
}

func (s *configService) Delete(ctx context.Context, id uint) error {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if cfg.IsActive {
		return errors.New(errors.ErrOSSConfigActive)
	}
	if err := s.db.WithContext(ctx).Delete(&database.OSSConfig{}, id).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseDelete, err)
	}
	logger.Component("oss").Infof("[OSS配置服务] 删除配置: %s (ID: %d)", cfg.Name, id)
	return nil
}

func (s *configService) Activate(ctx context.Context, id uint) error {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !cfg.IsEnabled {
		return errors.NewKeyed(errors.ErrOSSConfigInvalid, "oss_config_invalid", "disabled")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deactivateAll(tx); err != nil {
			return err
		}
		return tx.Model(&database.OSSConfig{}).Where("id = ?", id).Update("is_active", true).Error
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseUpdate, err)
	}
	logger.Component("oss").Infof("[OSS配置服务] 激活配置: %s (ID: %d)", cfg.Name, id)
	return nil
}

func (s *configService) Toggle(ctx context.Context, id uint, enabled bool) error {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !enabled && cfg.IsActive {
		return errors.New(errors.ErrOSSConfigActive)
	}
	if err := s.db.WithContext(ctx).Model(&database.OSSConfig{}).Where("id = ?", id).
		Update("is_enabled", enabled).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseUpdate, err)
	}
	logger.Component("oss").Infof("[OSS配置服务] 配置 %s (ID: %d) 启用状态: %v", cfg.Name, id, enabled)
	return nil
}

func (s *configService) Test(ctx context.Context, id uint) error {
	cfg, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	provider, err := s.factory(ctx, cfg)
	if err != nil {
		if _, ok := errors.GetAppError(err); ok {
			return err
		}
		return errors.Wrap(errors.ErrOSSConnectionFailed, err)
	}
	if err := provider.TestConnection(ctx); err != nil {
		logger.Component("oss").Warnf("[OSS配置服务] 配置 %s 连接测试失败: %v", cfg.Name, err)
		return errors.Wrap(errors.ErrOSSConnectionFailed, err)
	}
	logger.Component("oss").Infof("[OSS配置服务] 配置 %s 连接测试成功", cfg.Name)
	return nil
}

func (s *configService) GetActive(ctx context.Context) (*database.OSSConfig, error) {
	var cfg database.OSSConfig
	err := s.db.WithContext(ctx).Where("is_active = ? AND is_enabled = ?", true, true).First(&cfg).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return &cfg, nil
}

// validate 校验必填字段、提供商与名称唯一性
func (s *configService) validate(ctx context.Context, cfg *database.OSSConfig, updating bool) error {
	cfg.Name = strings.TrimSpace(cfg.Name)
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	required := []struct {
		field string
		value string
	}{
		{"name", cfg.Name},
		{"provider", cfg.Provider},
		{"bucket", cfg.Bucket},
		{"access_key", cfg.AccessKey},
		{"secret_key", cfg.SecretKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return errors.NewKeyed(errors.ErrOSSConfigInvalid, "oss_config_invalid", r.field+" is required")
		}
	}
	if !isSupported(cfg.Provider) {
		return errors.NewKeyed(errors.ErrOSSProviderNotSupported, "oss_provider_not_supported", cfg.Provider)
	}
	// S3兼容存储可以只给Endpoint
	if cfg.Region == "" && cfg.Provider != database.ProviderS3 && cfg.Provider != database.ProviderQiniu && cfg.Endpoint == "" {
		return errors.NewKeyed(errors.ErrOSSConfigInvalid, "oss_config_invalid", "region is required")
	}

	query := s.db.WithContext(ctx).Model(&database.OSSConfig{}).Where("name = ?", cfg.Name)
	if updating {
		query = query.Where("id <> ?", cfg.ID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	if count > 0 {
		return errors.NewKeyed(errors.ErrOSSConfigInvalid, "oss_config_invalid", "name already exists: "+cfg.Name)
	}
	return nil
}

func deactivateAll(tx *gorm.DB) error {
	return tx.Model(&database.OSSConfig{}).Where("is_active = ?", true).Update("is_active", false).Error
}
