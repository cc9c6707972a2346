package upload

import (
	"context"
	stderrors "errors"
	"strconv"

	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/storage"
	"gorm.io/gorm"
)

// Owner 持有单个文件URL字段的实体种类
// 头像、论文PDF、联系方式二维码共用同一套上传/删除流程
type Owner interface {
	// Category 该字段对应的上传类别
	Category() storage.Category
	// Prefix 生成文件名使用的前缀
	Prefix(id uint) string
	// FindURL 按ID查找记录并返回字段当前值，记录不存在时返回NotFound
	FindURL(ctx context.Context, id uint) (string, error)
	// SetURL 更新字段并保存
	SetURL(ctx context.Context, id uint, url string) error
}

// fieldOwner 基于gorm的Owner实现，T为实体模型
type fieldOwner[T any] struct {
	db       *gorm.DB
	entity   string
	category storage.Category
	prefix   string
	column   string
	field    func(*T) string
}

func (o *fieldOwner[T]) Category() storage.Category {
	return o.category
}

func (o *fieldOwner[T]) Prefix(id uint) string {
	return o.prefix + strconv.FormatUint(uint64(id), 10)
}

func (o *fieldOwner[T]) FindURL(ctx context.Context, id uint) (string, error) {
	var record T
	if err := o.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.NotFound(o.entity, id)
		}
		return "", errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return o.field(&record), nil
}

func (o *fieldOwner[T]) SetURL(ctx context.Context, id uint, url string) error {
	if err := o.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update(o.column, url).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseUpdate, err)
	}
	return nil
}

// ProfessorAvatar 教授头像，文件名前缀为教授ID
func ProfessorAvatar(db *gorm.DB) Owner {
	return &fieldOwner[database.Professor]{
		db:       db,
		entity:   "professor",
		category: storage.CategoryAvatar,
		column:   "avatar_url",
		field:    func(p *database.Professor) string { return p.AvatarURL },
	}
}

// PublicationPDF 论文PDF，文件名前缀 publication_<id>
func PublicationPDF(db *gorm.DB) Owner {
	return &fieldOwner[database.Publication]{
		db:       db,
		entity:   "publication",
		category: storage.CategoryPDF,
		prefix:   "publication_",
		column:   "pdf_url",
		field:    func(p *database.Publication) string { return p.PDFURL },
	}
}

// ContactQRCode 联系方式中的微信二维码，文件名前缀 qrcode_<id>
func ContactQRCode(db *gorm.DB) Owner {
	return &fieldOwner[database.ContactInfo]{
		db:       db,
		entity:   "contact_info",
		category: storage.CategoryQRCode,
		prefix:   "qrcode_",
		column:   "wechat_qrcode",
		field:    func(c *database.ContactInfo) string { return c.WechatQRCode },
	}
}

// courseExists 课程资料只校验课程存在，不在服务端保存资料URL
func courseExists(ctx context.Context, db *gorm.DB, id uint) error {
	var count int64
	if err := db.WithContext(ctx).Model(&database.TeachingCourse{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	if count == 0 {
		return errors.NotFound("course", id)
	}
	return nil
}
