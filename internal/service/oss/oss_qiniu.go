package oss

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/client"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/weiwangfds/homepage/internal/database"
)

// 七牛返回的"文件不存在"状态码
const qiniuNoSuchFile = 612

// QiniuProvider 七牛云Kodo
type QiniuProvider struct {
	mac     *qbox.Mac
	bucket  string
	region  *storage.Region
	manager *storage.BucketManager
}

// NewQiniuProvider 创建七牛云Kodo提供商实例，区域通过存储桶查询
func NewQiniuProvider(cfg *database.OSSConfig) (*QiniuProvider, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)
	region, err := storage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	return &QiniuProvider{
		mac:     mac,
		bucket:  cfg.Bucket,
		region:  region,
		manager: storage.NewBucketManager(mac, &storage.Config{Region: region, UseHTTPS: true}),
	}, nil
}

func (p *QiniuProvider) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", p.bucket, key),
	}
	upToken := putPolicy.UploadToken(p.mac)

	uploader := storage.NewFormUploader(&storage.Config{Region: p.region, UseHTTPS: true})
	ret := storage.PutRet{}
	extra := storage.PutExtra{MimeType: contentType}
	if err := uploader.Put(ctx, &ret, upToken, key, r, size, &extra); err != nil {
		return fmt.Errorf("failed to upload file to qiniu kodo: %w", err)
	}
	return nil
}

func (p *QiniuProvider) Delete(_ context.Context, key string) error {
	if err := p.manager.Delete(p.bucket, key); err != nil && !isQiniuNotFound(err) {
		return fmt.Errorf("failed to delete file from qiniu kodo: %w", err)
	}
	return nil
}

func (p *QiniuProvider) Exists(_ context.Context, key string) (bool, error) {
	if _, err := p.manager.Stat(p.bucket, key); err != nil {
		if isQiniuNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check file existence in qiniu kodo: %w", err)
	}
	return true, nil
}

// TestConnection 列出一个对象以验证凭证
func (p *QiniuProvider) TestConnection(_ context.Context) error {
	if _, _, _, _, err := p.manager.ListFiles(p.bucket, "", "", "", 1); err != nil {
		return fmt.Errorf("failed to test qiniu kodo connection: %w", err)
	}
	return nil
}

func isQiniuNotFound(err error) bool {
	var info *client.ErrorInfo
	return stderrors.As(err, &info) && info.Code == qiniuNoSuchFile
}
