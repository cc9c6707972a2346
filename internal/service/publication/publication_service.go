// Package publication 提供论文检索、分页和按教授统计
package publication

import (
	"context"
	"strings"

	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"gorm.io/gorm"
)

// Query 论文检索条件，零值字段表示不过滤
type Query struct {
	Keyword  string                   // 标题、作者、期刊的不区分大小写子串
	Year     *int                     // 精确匹配年份
	Type     database.PublicationType // 精确匹配类型
	Page     int                      // 从0开始
	PageSize int
}

// Result 一页检索结果
type Result struct {
	Items      []database.Publication `json:"items"`
	Total      int64                  `json:"total"`
	TotalPages int                    `json:"total_pages"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
}

// PublicationService 论文检索服务接口
type PublicationService interface {
	// Search 按关键词、年份、类型过滤，按 year DESC, id DESC 排序后返回指定页
	// Total 为全部匹配数，TotalPages = ceil(Total / PageSize)，无匹配时为0
	Search(ctx context.Context, q Query) (*Result, error)

	// DistinctYears 返回所有论文中出现过的年份（不含空值），降序
	DistinctYears(ctx context.Context) ([]int, error)

	// ListByProfessor 列出某位教授的全部论文，排序同Search
	ListByProfessor(ctx context.Context, professorID uint) ([]database.Publication, error)

	// CountByProfessor 统计某位教授的论文数量
	CountByProfessor(ctx context.Context, professorID uint) (int64, error)
}

type publicationService struct {
	db *gorm.DB
}

// NewPublicationService 创建论文检索服务实例
func NewPublicationService(db *gorm.DB) PublicationService {
	return &publicationService{db: db}
}

const orderByYear = "year DESC, id DESC"

func (s *publicationService) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PageSize <= 0 {
		return nil, errors.New(errors.ErrInvalidParams).WithDetails("page size must be positive")
	}

	query := s.db.WithContext(ctx).Model(&database.Publication{})
	if keyword := strings.TrimSpace(q.Keyword); keyword != "" {
		pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
		query = query.Where(
			"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(authors) LIKE ? ESCAPE '!' OR LOWER(journal) LIKE ? ESCAPE '!')",
			pattern, pattern, pattern,
		)
	}
	if q.Year != nil {
		query = query.Where("year = ?", *q.Year)
	}
	if q.Type != "" {
		query = query.Where("publication_type = ?", q.Type)
	}
	// 计数与取页共用过滤条件
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}

	pages := totalPages(total, q.PageSize)
	items := make([]database.Publication, 0, q.PageSize)
	// 超出范围的页直接返回空列表，同时避免 Page*PageSize 溢出
	if q.Page < pages {
		err := query.Order(orderByYear).
			Offset(q.Page * q.PageSize).
			Limit(q.PageSize).
			Find(&items).Error
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
		}
	}

	return &Result{
		Items:      items,
		Total:      total,
		TotalPages: pages,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}, nil
}

func (s *publicationService) DistinctYears(ctx context.Context) ([]int, error) {
	var years []int
	err := s.db.WithContext(ctx).Model(&database.Publication{}).
		Where("year IS NOT NULL").
		Distinct().
		Order("year DESC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return years, nil
}

func (s *publicationService) ListByProfessor(ctx context.Context, professorID uint) ([]database.Publication, error) {
	var items []database.Publication
	err := s.db.WithContext(ctx).
		Where("professor_id = ?", professorID).
		Order(orderByYear).
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return items, nil
}

func (s *publicationService) CountByProfessor(ctx context.Context, professorID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&database.Publication{}).
		Where("professor_id = ?", professorID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return count, nil
}

// ParseType 解析论文类型，不区分大小写，非法值返回false
func ParseType(s string) (database.PublicationType, bool) {
	t := database.PublicationType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range database.PublicationTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// escapeLike 转义LIKE通配符，配合 ESCAPE '!' 使用
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
