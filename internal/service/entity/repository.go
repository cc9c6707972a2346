// Package entity 提供主页实体（教授、论文、教育经历等）的通用增删改查
package entity

import (
	"context"
	stderrors "errors"

	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Model 实体模型约束，P 为 *T 并嵌入 database.Base
type Model[T any] interface {
	*T
	GetID() uint
	SetID(id uint)
}

// Repository 单个实体表的增删改查
type Repository[T any, P Model[T]] struct {
	db     *gorm.DB
	entity string   // 对应 i18n 中 not_found.<entity>
	owned  []string // 由上传接口维护的列，普通更新不覆盖
	order  string
}

// Option 仓储选项
type Option func(*options)

type options struct {
	owned []string
	order string
}

// WithOwnedColumns 指定更新时保留原值的列
func WithOwnedColumns(columns ...string) Option {
	return func(o *options) { o.owned = append(o.owned, columns...) }
}

// WithOrder 指定列表排序，默认按ID升序
func WithOrder(order string) Option {
	return func(o *options) { o.order = order }
}

// NewRepository 创建实体仓储
func NewRepository[T any, P Model[T]](db *gorm.DB, entity string, opts ...Option) *Repository[T, P] {
	o := options{order: "id ASC"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Repository[T, P]{db: db, entity: entity, owned: o.owned, order: o.order}
}

// Entity 实体名称
func (r *Repository[T, P]) Entity() string {
	return r.entity
}

// List 列出全部记录
func (r *Repository[T, P]) List(ctx context.Context) ([]T, error) {
	items := make([]T, 0)
	if err := r.db.WithContext(ctx).Order(r.order).Find(&items).Error; err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return items, nil
}

// ListByProfessor 列出某位教授名下的记录
func (r *Repository[T, P]) ListByProfessor(ctx context.Context, professorID uint) ([]T, error) {
	items := make([]T, 0)
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order(r.order).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return items, nil
}

// Get 按ID获取记录，不存在时返回NotFound
func (r *Repository[T, P]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound(r.entity, id)
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return &item, nil
}

// Create 新建记录，忽略调用方传入的ID
func (r *Repository[T, P]) Create(ctx context.Context, item *T) error {
	P(item).SetID(0)
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseInsert, err)
	}
	logger.Component("entity").WithField("entity", r.entity).Infof("created id=%d", P(item).GetID())
	return nil
}

// Update 用item整体覆盖ID为id的记录
// 创建时间与上传接口维护的列保持原值，更新后item重新加载为库中最新状态
func (r *Repository[T, P]) Update(ctx context.Context, id uint, item *T) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	P(item).SetID(id)

	omit := append([]string{"created_at", clause.Associations}, r.owned...)
	if err := r.db.WithContext(ctx).Omit(omit...).Save(item).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseUpdate, err)
	}

	if err := r.db.WithContext(ctx).First(item, id).Error; err != nil {
		return errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	logger.Component("entity").WithField("entity", r.entity).Infof("updated id=%d", id)
	return nil
}

// Delete 删除记录，不存在时返回NotFound
func (r *Repository[T, P]) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return errors.Wrap(errors.ErrDatabaseDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound(r.entity, id)
	}
	logger.Component("entity").WithField("entity", r.entity).Infof("deleted id=%d", id)
	return nil
}
