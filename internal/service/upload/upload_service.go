// Package upload 负责头像、论文PDF、二维码与课程资料的上传和删除流程
package upload

import (
	"context"
	"io"
	"strconv"

	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/storage"
	"gorm.io/gorm"
)

// Kind 单文件字段的种类
type Kind string

const (
	KindAvatar Kind = "avatar"
	KindPDF    Kind = "pdf"
	KindQRCode Kind = "qrcode"
)

// File 一次上传的文件内容与元数据
type File struct {
	Name        string // 客户端提供的原始文件名
	Size        int64
	ContentType string // 客户端声明的MIME类型
	Reader      io.Reader
}

// Material 课程资料上传结果，不在服务端持久化
type Material struct {
	URL  string `json:"fileUrl"`
	Name string `json:"fileName"`
	Size int64  `json:"fileSize"`
}

// UploadService 上传服务接口
type UploadService interface {
	// Upload 为指定记录上传新文件并替换旧文件
	// 流程：查找记录 -> 校验 -> 删除旧文件（失败仅记录日志）-> 保存 -> 更新记录字段
	// 返回新文件的相对URL
	Upload(ctx context.Context, kind Kind, id uint, file File) (string, error)

	// Remove 删除记录当前引用的文件并清空字段
	Remove(ctx context.Context, kind Kind, id uint) error

	// UploadMaterial 上传课程资料，仅返回URL、原始文件名和大小
	// 资料列表由客户端维护，通过课程资料接口整体提交
	UploadMaterial(ctx context.Context, courseID uint, file File) (*Material, error)

	// RemoveMaterial 删除调用方给出的资料文件，url为空时返回参数错误
	RemoveMaterial(ctx context.Context, courseID uint, url string) error
}

type uploadService struct {
	db        *gorm.DB
	validator *storage.Validator
	store     *storage.FileStore
	owners    map[Kind]Owner
}

// NewUploadService 创建上传服务实例
func NewUploadService(db *gorm.DB, validator *storage.Validator, store *storage.FileStore) UploadService {
	return &uploadService{
		db:        db,
		validator: validator,
		store:     store,
		owners: map[Kind]Owner{
			KindAvatar: ProfessorAvatar(db),
			KindPDF:    PublicationPDF(db),
			KindQRCode: ContactQRCode(db),
		},
	}
}

func (s *uploadService) owner(kind Kind) (Owner, error) {
	o, ok := s.owners[kind]
	if !ok {
		return nil, errors.NewKeyed(errors.ErrInternalServer, "file_category_unknown", string(kind))
	}
	return o, nil
}

func (s *uploadService) Upload(ctx context.Context, kind Kind, id uint, file File) (string, error) {
	log := logger.Component("upload").WithField("kind", kind).WithField("id", id)

	o, err := s.owner(kind)
	if err != nil {
		return "", err
	}

	oldURL, err := o.FindURL(ctx, id)
	if err != nil {
		return "", err
	}

	if err := s.validator.Validate(file.Size, file.ContentType, o.Category()); err != nil {
		log.Infof("rejected %q: %v", file.Name, err)
		return "", err
	}

	if oldURL != "" {
		s.deleteQuietly(ctx, oldURL)
	}

	name := storage.GenerateName(o.Prefix(id), storage.ExtensionOf(file.Name))
	url, err := s.store.Save(ctx, o.Category(), file.Reader, name, file.ContentType)
	if err != nil {
		return "", err
	}

	if err := o.SetURL(ctx, id, url); err != nil {
		// 记录未更新，新文件不会被引用
		s.deleteQuietly(ctx, url)
		return "", err
	}

	log.WithField("url", url).Info("file uploaded")
	return url, nil
}

func (s *uploadService) Remove(ctx context.Context, kind Kind, id uint) error {
	o, err := s.owner(kind)
	if err != nil {
		return err
	}

	url, err := o.FindURL(ctx, id)
	if err != nil {
		return err
	}
	if url != "" {
		s.deleteQuietly(ctx, url)
	}

	if err := o.SetURL(ctx, id, ""); err != nil {
		return err
	}
	logger.Component("upload").WithField("kind", kind).WithField("id", id).Info("file removed")
	return nil
}

func (s *uploadService) UploadMaterial(ctx context.Context, courseID uint, file File) (*Material, error) {
	if err := courseExists(ctx, s.db, courseID); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(file.Size, file.ContentType, storage.CategoryMaterial); err != nil {
		return nil, err
	}

	prefix := "course_" + strconv.FormatUint(uint64(courseID), 10)
	name := storage.GenerateName(prefix, storage.ExtensionOf(file.Name))
	url, err := s.store.Save(ctx, storage.CategoryMaterial, file.Reader, name, file.ContentType)
	if err != nil {
		return nil, err
	}

	logger.Component("upload").WithField("course_id", courseID).
		Infof("material uploaded: %s (%s)", url, storage.ReadableSize(file.Size))
	return &Material{URL: url, Name: file.Name, Size: file.Size}, nil
}

func (s *uploadService) RemoveMaterial(ctx context.Context, courseID uint, url string) error {
	if url == "" {
		return errors.InvalidArgument("file_url_required")
	}
	if err := courseExists(ctx, s.db, courseID); err != nil {
		return err
	}
	s.deleteQuietly(ctx, url)
	return nil
}

// deleteQuietly 删除失败只记录警告，不影响主流程
func (s *uploadService) deleteQuietly(ctx context.Context, url string) {
	res := s.store.Delete(ctx, url)
	switch {
	case res.Err != nil:
		logger.Component("upload").WithField("url", url).Warnf("failed to delete file: %v", res.Err)
	case !res.Removed:
		logger.Component("upload").WithField("url", url).Debug("file already absent")
	}
}
