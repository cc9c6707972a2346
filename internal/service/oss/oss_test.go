package oss

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"gorm.io/gorm"
)

// fakeProvider 记录调用的内存提供商
type fakeProvider struct {
	mu       sync.Mutex
	objects  map[string]string
	types    map[string]string
	failWith error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{objects: map[string]string{}, types: map[string]string{}}
}

func (p *fakeProvider) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if p.failWith != nil {
		return p.failWith
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[key] = string(data)
	p.types[key] = contentType
	return nil
}

func (p *fakeProvider) Delete(_ context.Context, key string) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.objects, key)
	return nil
}

func (p *fakeProvider) Exists(_ context.Context, key string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.objects[key]
	return ok, nil
}

func (p *fakeProvider) TestConnection(context.Context) error {
	return p.failWith
}

func (p *fakeProvider) factory() Factory {
	return func(context.Context, *database.OSSConfig) (Provider, error) { return p, nil }
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	return db
}

func newConfig(name string) *database.OSSConfig {
	return &database.OSSConfig{
		Name:      name,
		Provider:  database.ProviderAliyun,
		Region:    "cn-hangzhou",
		Bucket:    "homepage",
		AccessKey: "ak",
		SecretKey: "sk",
		AutoSync:  true,
		SyncPath:  "site",
	}
}

func TestConfigService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	provider := newFakeProvider()
	svc := NewConfigService(db, provider.factory())

	first := newConfig("主存储")
	require.NoError(t, svc.Create(ctx, first))
	assert.True(t, first.IsActive)
	assert.True(t, first.IsEnabled)

	second := newConfig("备用存储")
	second.Provider = "S3"
	second.Region = ""
	second.Endpoint = "http://127.0.0.1:9000"
	require.NoError(t, svc.Create(ctx, second))
	assert.False(t, second.IsActive)
	assert.Equal(t, database.ProviderS3, second.Provider)

	t.Run("校验", func(t *testing.T) {
		dup := newConfig("主存储")
		err := svc.Create(ctx, dup)
		assert.True(t, errors.HasCode(err, errors.ErrOSSConfigInvalid))

		missing := newConfig("缺少密钥")
		missing.SecretKey = ""
		err = svc.Create(ctx, missing)
		assert.True(t, errors.HasCode(err, errors.ErrOSSConfigInvalid))
		assert.True(t, errors.IsClientError(err))

		unknown := newConfig("未知")
		unknown.Provider = "dropbox"
		err = svc.Create(ctx, unknown)
		assert.True(t, errors.HasCode(err, errors.ErrOSSProviderNotSupported))
	})

	t.Run("激活配置不可删除或禁用", func(t *testing.T) {
		err := svc.Delete(ctx, first.ID)
		assert.True(t, errors.HasCode(err, errors.ErrOSSConfigActive))
		err = svc.Toggle(ctx, first.ID, false)
		assert.True(t, errors.HasCode(err, errors.ErrOSSConfigActive))
	})

	t.Run("激活切换", func(t *testing.T) {
		require.NoError(t, svc.Activate(ctx, second.ID))
		active, err := svc.GetActive(ctx)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, second.ID, active.ID)

		var count int64
		require.NoError(t, db.Model(&database.OSSConfig{}).Where("is_active = ?", true).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		require.NoError(t, svc.Toggle(ctx, first.ID, false))
		err = svc.Activate(ctx, first.ID)
		assert.True(t, errors.HasCode(err, errors.ErrOSSConfigInvalid))
		require.NoError(t, svc.Toggle(ctx, first.ID, true))
	})

	t.Run("更新保留密钥与状态", func(t *testing.T) {
		patch := newConfig("主存储-杭州")
		patch.SecretKey = ""
		patch.IsActive = true
		require.NoError(t, svc.Update(ctx, first.ID, patch))

		got, err := svc.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "主存储-杭州", got.Name)
		assert.Equal(t, "sk", got.SecretKey)
		assert.False(t, got.IsActive)
	})

	t.Run("列表与删除", func(t *testing.T) {
		configs, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, configs, 2)

		require.NoError(t, svc.Delete(ctx, first.ID))
		_, err = svc.Get(ctx, first.ID)
		assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))
	})

	t.Run("连接测试", func(t *testing.T) {
		require.NoError(t, svc.Test(ctx, second.ID))
		provider.failWith = stderrors.New("access denied")
		err := svc.Test(ctx, second.ID)
		assert.True(t, errors.HasCode(err, errors.ErrOSSConnectionFailed))
		provider.failWith = nil
	})
}

func TestGetActiveWithoutConfig(t *testing.T) {
	svc := NewConfigService(setupTestDB(t), nil)
	active, err := svc.GetActive(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, active)
}

func TestObjectKey(t *testing.T) {
	cfg := &database.OSSConfig{SyncPath: "/site/"}
	assert.Equal(t, "site/1_abc.png", ObjectKey(cfg, "/uploads/avatars/1_abc.png"))

	cfg.KeepStructure = true
	assert.Equal(t, "site/uploads/avatars/1_abc.png", ObjectKey(cfg, "/uploads/avatars/1_abc.png"))

	cfg.SyncPath = ""
	assert.Equal(t, "uploads/pdfs/p.pdf", ObjectKey(cfg, "uploads/pdfs/p.pdf"))
}

func TestSyncService(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	provider := newFakeProvider()
	configs := NewConfigService(db, provider.factory())
	syncer := NewSyncService(db, configs, provider.factory(), time.Second)

	localPath := filepath.Join(t.TempDir(), "1_abc.png")
	png := []byte("\x89PNG\r\n\x1a\n0000")
	require.NoError(t, os.WriteFile(localPath, png, 0644))

	t.Run("没有激活配置时跳过", func(t *testing.T) {
		require.NoError(t, syncer.Push(ctx, "/uploads/avatars/1_abc.png", localPath, "image/png"))
		assert.Empty(t, provider.objects)
	})

	cfg := newConfig("镜像")
	require.NoError(t, configs.Create(ctx, cfg))

	t.Run("上传并探测类型", func(t *testing.T) {
		require.NoError(t, syncer.Push(ctx, "/uploads/avatars/1_abc.png", localPath, ""))
		assert.Equal(t, string(png), provider.objects["site/1_abc.png"])
		assert.Equal(t, "image/png", provider.types["site/1_abc.png"])
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, syncer.Remove(ctx, "/uploads/avatars/1_abc.png"))
		ok, _ := provider.Exists(ctx, "site/1_abc.png")
		assert.False(t, ok)
	})

	t.Run("失败写入日志", func(t *testing.T) {
		provider.failWith = stderrors.New("timeout")
		defer func() { provider.failWith = nil }()

		err := syncer.Push(ctx, "/uploads/avatars/1_abc.png", localPath, "image/png")
		assert.True(t, errors.HasCode(err, errors.ErrOSSUploadFailed))
	})

	t.Run("同步日志", func(t *testing.T) {
		logs, total, err := syncer.ListLogs(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, logs, 3)
		assert.Equal(t, database.SyncStatusFailed, logs[0].Status)
		assert.Equal(t, "timeout", logs[0].ErrorMsg)
		assert.Equal(t, database.SyncTypeDelete, logs[1].SyncType)
		assert.Equal(t, database.SyncStatusSuccess, logs[2].Status)
		assert.Equal(t, int64(len(png)), logs[2].FileSize)
		assert.Equal(t, cfg.ID, logs[2].OSSConfigID)
	})

	t.Run("关闭自动同步", func(t *testing.T) {
		require.NoError(t, db.Model(&database.OSSConfig{}).Where("id = ?", cfg.ID).Update("auto_sync", false).Error)
		require.NoError(t, syncer.Push(ctx, "/uploads/pdfs/x.pdf", localPath, "application/pdf"))
		_, total, err := syncer.ListLogs(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}
