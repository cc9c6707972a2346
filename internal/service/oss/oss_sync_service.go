package oss

import (
	"context"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/logger"
	"gorm.io/gorm"
)

// SyncService 把本地上传的文件同步到激活的OSS配置，实现 storage.Mirror
// 没有激活且启用的配置，或配置未开启 AutoSync 时不做任何操作
type SyncService struct {
	db      *gorm.DB
	configs ConfigService
	factory Factory
	timeout time.Duration
}

// NewSyncService 创建同步服务，timeout<=0 时不限制单次操作时长
func NewSyncService(db *gorm.DB, configs ConfigService, factory Factory, timeout time.Duration) *SyncService {
	if factory == nil {
		factory = NewProvider
	}
	return &SyncService{db: db, configs: configs, factory: factory, timeout: timeout}
}

// target 返回需要同步的配置，nil表示跳过
func (s *SyncService) target(ctx context.Context) (*database.OSSConfig, error) {
	cfg, err := s.configs.GetActive(ctx)
	if err != nil || cfg == nil || !cfg.AutoSync {
		return nil, err
	}
	return cfg, nil
}

func (s *SyncService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Push 上传本地文件，contentType为空时按文件内容探测
func (s *SyncService) Push(ctx context.Context, url, localPath, contentType string) error {
	cfg, err := s.target(ctx)
	if err != nil || cfg == nil {
		return err
	}

	entry := &database.SyncLog{
		FileURL:     url,
		OSSConfigID: cfg.ID,
		SyncType:    database.SyncTypeUpload,
		OSSPath:     ObjectKey(cfg, url),
	}
	start := time.Now()
	err = s.push(ctx, cfg, entry, localPath, contentType)
	s.record(ctx, entry, start, err)
	if err != nil {
		return errors.Wrap(errors.ErrOSSUploadFailed, err)
	}
	return nil
}

func (s *SyncService) push(ctx context.Context, cfg *database.OSSConfig, entry *database.SyncLog, localPath, contentType string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	entry.FileSize = info.Size()

	if contentType == "" {
		if mt, err := mimetype.DetectFile(localPath); err == nil {
			contentType = mt.String()
		}
	}

	provider, err := s.factory(ctx, cfg)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return provider.Upload(ctx, entry.OSSPath, f, info.Size(), contentType)
}

// Remove 删除远端对象
func (s *SyncService) Remove(ctx context.Context, url string) error {
	cfg, err := s.target(ctx)
	if err != nil || cfg == nil {
		return err
	}

	entry := &database.SyncLog{
		FileURL:     url,
		OSSConfigID: cfg.ID,
		SyncType:    database.SyncTypeDelete,
		OSSPath:     ObjectKey(cfg, url),
	}
	start := time.Now()
	err = s.remove(ctx, cfg, entry.OSSPath)
	s.record(ctx, entry, start, err)
	if err != nil {
		return errors.Wrap(errors.ErrOSSDeleteFailed, err)
	}
	return nil
}

func (s *SyncService) remove(ctx context.Context, cfg *database.OSSConfig, key string) error {
	provider, err := s.factory(ctx, cfg)
	if err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return provider.Delete(ctx, key)
}

// record 写入同步日志，写入失败只记录警告
func (s *SyncService) record(ctx context.Context, entry *database.SyncLog, start time.Time, syncErr error) {
	entry.Duration = time.Since(start).Milliseconds()
	entry.Status = database.SyncStatusSuccess
	log := logger.Component("oss").WithField("url", entry.FileURL).WithField("key", entry.OSSPath)
	if syncErr != nil {
		entry.Status = database.SyncStatusFailed
		entry.ErrorMsg = syncErr.Error()
		log.Warnf("[OSS同步] %s 失败: %v", entry.SyncType, syncErr)
	} else {
		log.Infof("[OSS同步] %s 完成, 耗时 %dms", entry.SyncType, entry.Duration)
	}

	if err := s.db.WithContext(context.WithoutCancel(ctx)).Create(entry).Error; err != nil {
		log.Warnf("[OSS同步] 写入同步日志失败: %v", err)
	}
}

// ListLogs 分页查询同步日志，按时间倒序，page从1开始
func (s *SyncService) ListLogs(ctx context.Context, page, pageSize int) ([]database.SyncLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	query := s.db.WithContext(ctx).Model(&database.SyncLog{}).Session(&gorm.Session{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabaseQuery, err)
	}

	logs := make([]database.SyncLog, 0, pageSize)
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return logs, total, nil
}
