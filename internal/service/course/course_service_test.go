package course

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
)

func TestMaterials(t *testing.T) {
	ctx := context.Background()
	db, err := database.Init(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	svc := NewCourseService(db)

	course := database.TeachingCourse{ProfessorID: 1, CourseName: "操作系统"}
	require.NoError(t, db.Create(&course).Error)

	materials, err := svc.GetMaterials(ctx, course.ID)
	require.NoError(t, err)
	assert.NotNil(t, materials)
	assert.Empty(t, materials)

	updated, err := svc.UpdateMaterials(ctx, course.ID, []database.CourseMaterial{
		{Name: "第一讲", URL: "/uploads/materials/course_1_a.pdf", Size: 1024},
		{URL: " /uploads/materials/course_1_b.pptx "},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, "course_1_b.pptx", updated[1].Name)

	materials, err = svc.GetMaterials(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, materials)

	t.Run("整体替换为空列表", func(t *testing.T) {
		_, err := svc.UpdateMaterials(ctx, course.ID, nil)
		require.NoError(t, err)
		materials, err := svc.GetMaterials(ctx, course.ID)
		require.NoError(t, err)
		assert.Empty(t, materials)
	})

	t.Run("缺少URL", func(t *testing.T) {
		_, err := svc.UpdateMaterials(ctx, course.ID, []database.CourseMaterial{{Name: "x"}})
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParams))
	})

	t.Run("课程不存在", func(t *testing.T) {
		_, err := svc.GetMaterials(ctx, 404)
		assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))
		_, err = svc.UpdateMaterials(ctx, 404, nil)
		assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))
	})
}
