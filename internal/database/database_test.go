package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, seed bool) *gorm.DB {
	t.Helper()
	db, err := Init(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
		Seed:     seed,
	})
	require.NoError(t, err)
	return db
}

func TestInit(t *testing.T) {
	t.Run("迁移创建全部表和索引", func(t *testing.T) {
		h := openTestDB(t, false)
		for _, model := range []interface{}{
			&Professor{}, &Publication{}, &Education{}, &ResearchProject{},
			&TeachingCourse{}, &Award{}, &ContactInfo{}, &OSSConfig{}, &SyncLog{},
		} {
			assert.True(t, h.Migrator().HasTable(model))
		}
		assert.True(t, h.Migrator().HasIndex(&Publication{}, "idx_publications_year_id"))
	})

	t.Run("重复迁移不报错", func(t *testing.T) {
		h := openTestDB(t, false)
		require.NoError(t, Migrate(h))
	})

	t.Run("不支持的驱动", func(t *testing.T) {
		_, err := Init(config.DatabaseConfig{Driver: "oracle", DSN: "x"})
		assert.Error(t, err)
	})
}

func TestSeed(t *testing.T) {
	h := openTestDB(t, true)

	var professors int64
	require.NoError(t, h.Model(&Professor{}).Count(&professors).Error)
	assert.Equal(t, int64(1), professors)

	var contact ContactInfo
	require.NoError(t, h.First(&contact).Error)
	assert.Equal(t, 15, contact.MapZoom)

	// 已有数据时再次调用不会重复写入
	require.NoError(t, Seed(h))
	require.NoError(t, h.Model(&Professor{}).Count(&professors).Error)
	assert.Equal(t, int64(1), professors)

	var publications int64
	require.NoError(t, h.Model(&Publication{}).Count(&publications).Error)
	assert.Equal(t, int64(3), publications)
}

func TestCourseMaterialsColumn(t *testing.T) {
	h := openTestDB(t, false)

	course := TeachingCourse{
		ProfessorID: 1,
		CourseName:  "机器学习",
		Materials: datatypes.JSONSlice[CourseMaterial]{
			{Name: "lecture1.pdf", URL: "/uploads/materials/course_1_abc.pdf", Size: 1024},
		},
	}
	require.NoError(t, h.Create(&course).Error)

	var loaded TeachingCourse
	require.NoError(t, h.First(&loaded, course.ID).Error)
	require.Len(t, loaded.Materials, 1)
	assert.Equal(t, "lecture1.pdf", loaded.Materials[0].Name)
	assert.Equal(t, int64(1024), loaded.Materials[0].Size)
}
