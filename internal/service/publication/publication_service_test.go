package publication

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"gorm.io/gorm"
)

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

func year(y int) *int { return &y }

func createPublications(t *testing.T, db *gorm.DB, pubs ...database.Publication) []database.Publication {
	t.Helper()
	for i := range pubs {
		require.NoError(t, db.Create(&pubs[i]).Error)
	}
	return pubs
}

func titles(items []database.Publication) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Title)
	}
	return out
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPublicationService(db)

	createPublications(t, db,
		database.Publication{ProfessorID: 1, Title: "Deep Residual Learning", Authors: "He", Journal: "CVPR", Year: year(2016), PublicationType: database.PublicationConference},
		database.Publication{ProfessorID: 1, Title: "Graph Networks", Authors: "Battaglia", Journal: "arXiv", Year: year(2018), PublicationType: database.PublicationJournal},
		database.Publication{ProfessorID: 1, Title: "Attention Is All You Need", Authors: "Vaswani", Journal: "NeurIPS DEEP track", Year: year(2017), PublicationType: database.PublicationConference},
		database.Publication{ProfessorID: 2, Title: "Statistical Learning", Authors: "Deepak Rao", Journal: "JMLR", Year: year(2017), PublicationType: database.PublicationJournal},
		database.Publication{ProfessorID: 2, Title: "Compilers", Authors: "Aho", Journal: "Addison-Wesley", PublicationType: database.PublicationBook},
	)

	t.Run("关键词匹配标题作者与期刊并分页", func(t *testing.T) {
		res, err := svc.Search(ctx, Query{Keyword: "deep", PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Total)
		assert.Equal(t, 2, res.TotalPages)
		// 同年份按ID降序
		assert.Equal(t, []string{"Statistical Learning", "Attention Is All You Need"}, titles(res.Items))

		res, err = svc.Search(ctx, Query{Keyword: "  DEEP ", Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Deep Residual Learning"}, titles(res.Items))
		assert.Equal(t, 1, res.Page)
	})

	t.Run("无条件时按年份降序", func(t *testing.T) {
		res, err := svc.Search(ctx, Query{PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, 1, res.TotalPages)
		require.Len(t, res.Items, 5)
		assert.Equal(t, "Graph Networks", res.Items[0].Title)
		assert.Nil(t, res.Items[4].Year)
	})

	t.Run("年份与类型过滤", func(t *testing.T) {
		res, err := svc.Search(ctx, Query{Year: year(2017), Type: database.PublicationJournal, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, []string{"Statistical Learning"}, titles(res.Items))

		res, err = svc.Search(ctx, Query{Type: database.PublicationBookChapter, PageSize: 10})
		require.NoError(t, err)
		assert.Zero(t, res.Total)
		assert.Zero(t, res.TotalPages)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
	})

	t.Run("通配符按字面匹配", func(t *testing.T) {
		res, err := svc.Search(ctx, Query{Keyword: "%", PageSize: 10})
		require.NoError(t, err)
		assert.Zero(t, res.Total)

		res, err = svc.Search(ctx, Query{Keyword: "_", PageSize: 10})
		require.NoError(t, err)
		assert.Zero(t, res.Total)
	})

	t.Run("超出范围的页返回空列表", func(t *testing.T) {
		res, err := svc.Search(ctx, Query{Page: 9, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		assert.Empty(t, res.Items)
	})

	t.Run("极大页码不回绕到首页", func(t *testing.T) {
		page := math.MaxInt/20 + 1
		res, err := svc.Search(ctx, Query{Page: page, PageSize: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, page, res.Page)
		assert.Empty(t, res.Items)
	})

	t.Run("非法页大小", func(t *testing.T) {
		_, err := svc.Search(ctx, Query{PageSize: 0})
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParams))
	})
}

func TestDistinctYears(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPublicationService(db)

	years, err := svc.DistinctYears(ctx)
	require.NoError(t, err)
	assert.Empty(t, years)

	createPublications(t, db,
		database.Publication{ProfessorID: 1, Title: "a", Year: year(2019)},
		database.Publication{ProfessorID: 1, Title: "b", Year: year(2021)},
		database.Publication{ProfessorID: 1, Title: "c", Year: year(2019)},
		database.Publication{ProfessorID: 1, Title: "d"},
	)

	years, err = svc.DistinctYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2021, 2019}, years)
}

func TestByProfessor(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := NewPublicationService(db)

	createPublications(t, db,
		database.Publication{ProfessorID: 1, Title: "old", Year: year(2010)},
		database.Publication{ProfessorID: 1, Title: "new", Year: year(2020)},
		database.Publication{ProfessorID: 2, Title: "other", Year: year(2015)},
	)

	items, err := svc.ListByProfessor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titles(items))

	count, err := svc.CountByProfessor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = svc.CountByProfessor(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestParseType(t *testing.T) {
	typ, ok := ParseType("journal")
	assert.True(t, ok)
	assert.Equal(t, database.PublicationJournal, typ)

	typ, ok = ParseType(" BOOK_CHAPTER ")
	assert.True(t, ok)
	assert.Equal(t, database.PublicationBookChapter, typ)

	_, ok = ParseType("PATENT")
	assert.False(t, ok)
	_, ok = ParseType("")
	assert.False(t, ok)
}
