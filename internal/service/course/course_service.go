// Package course 维护课程资料列表
package course

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseService 课程资料服务接口
type CourseService interface {
	// GetMaterials 返回课程当前的资料列表，没有资料时返回空切片
	GetMaterials(ctx context.Context, courseID uint) ([]database.CourseMaterial, error)

	// UpdateMaterials 用客户端提交的列表整体替换课程资料
	UpdateMaterials(ctx context.Context, courseID uint, materials []database.CourseMaterial) ([]database.CourseMaterial, error)
}

type courseService struct {
	db *gorm.DB
}

// NewCourseService 创建课程资料服务实例
func NewCourseService(db *gorm.DB) CourseService {
	return &courseService{db: db}
}

func (s *courseService) find(ctx context.Context, courseID uint) (*database.TeachingCourse, error) {
	var course database.TeachingCourse
	if err := s.db.WithContext(ctx).First(&course, courseID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("course", courseID)
		}
		return nil, errors.Wrap(errors.ErrDatabaseQuery, err)
	}
	return &course, nil
}

func (s *courseService) GetMaterials(ctx context.Context, courseID uint) ([]database.CourseMaterial, error) {
	course, err := s.find(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Materials == nil {
		return []database.CourseMaterial{}, nil
	}
	return course.Materials, nil
}

func (s *courseService) UpdateMaterials(ctx context.Context, courseID uint, materials []database.CourseMaterial) ([]database.CourseMaterial, error) {
	if _, err := s.find(ctx, courseID); err != nil {
		return nil, err
	}

	list := make(datatypes.JSONSlice[database.CourseMaterial], 0, len(materials))
	for i, m := range materials {
		m.URL = strings.TrimSpace(m.URL)
		if m.URL == "" {
			return nil, errors.InvalidArgument("file_url_required").WithDetails("materials[" + strconv.Itoa(i) + "].url")
		}
		if m.Name == "" {
			m.Name = m.URL[strings.LastIndex(m.URL, "/")+1:]
		}
		list = append(list, m)
	}

	err := s.db.WithContext(ctx).Model(&database.TeachingCourse{}).
		Where("id = ?", courseID).
		Update("materials", list).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseUpdate, err)
	}

	logger.Component("course").WithField("course_id", courseID).Infof("materials replaced, count=%d", len(list))
	return list, nil
}
