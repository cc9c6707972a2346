package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/storage"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	store *storage.FileStore
	svc   UploadService
}

func setupTestService(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Init(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(dir, "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)

	cfg := config.Default()
	validator := storage.NewValidator(cfg.Upload)
	store := storage.NewFileStore(filepath.Join(dir, "files"), validator)
	return &fixture{db: db, store: store, svc: NewUploadService(db, validator, store)}
}

func pngFile(name, content string) File {
	return File{Name: name, Size: int64(len(content)), ContentType: "image/png", Reader: strings.NewReader(content)}
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()

	t.Run("连续上传替换旧文件", func(t *testing.T) {
		f := setupTestService(t)
		professor := database.Professor{Name: "张三"}
		require.NoError(t, f.db.Create(&professor).Error)

		first, err := f.svc.Upload(ctx, KindAvatar, professor.ID, pngFile("a.png", "first"))
		require.NoError(t, err)
		assert.Regexp(t, `^/uploads/avatars/1_[0-9a-f]{32}\.png$`, first)

		second, err := f.svc.Upload(ctx, KindAvatar, professor.ID, pngFile("b.png", "second"))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		var reloaded database.Professor
		require.NoError(t, f.db.First(&reloaded, professor.ID).Error)
		assert.Equal(t, second, reloaded.AvatarURL)

		assert.False(t, f.store.Exists(first))
		assert.True(t, f.store.Exists(second))

		res := f.store.Delete(ctx, first)
		assert.False(t, res.Removed)
		assert.NoError(t, res.Err)
	})

	t.Run("教授不存在", func(t *testing.T) {
		f := setupTestService(t)
		_, err := f.svc.Upload(ctx, KindAvatar, 42, pngFile("a.png", "x"))
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))
		appErr, _ := errors.GetAppError(err)
		assert.Equal(t, "找不到ID为 42 的教授", appErr.Localize("zh-CN"))
	})

	t.Run("校验失败时不写文件也不删旧文件", func(t *testing.T) {
		f := setupTestService(t)
		professor := database.Professor{Name: "李四"}
		require.NoError(t, f.db.Create(&professor).Error)
		url, err := f.svc.Upload(ctx, KindAvatar, professor.ID, pngFile("a.png", "ok"))
		require.NoError(t, err)

		tooLarge := File{Name: "big.png", Size: 5*1024*1024 + 1, ContentType: "image/png", Reader: strings.NewReader("")}
		_, err = f.svc.Upload(ctx, KindAvatar, professor.ID, tooLarge)
		assert.True(t, errors.HasCode(err, errors.ErrFileSizeTooLarge))

		wrongType := File{Name: "a.gif", Size: 3, ContentType: "text/html", Reader: strings.NewReader("abc")}
		_, err = f.svc.Upload(ctx, KindAvatar, professor.ID, wrongType)
		assert.True(t, errors.HasCode(err, errors.ErrFileTypeNotAllowed))

		entries, err := os.ReadDir(filepath.Join(f.store.Root(), "uploads", "avatars"))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.True(t, f.store.Exists(url))
	})

	t.Run("删除头像清空字段", func(t *testing.T) {
		f := setupTestService(t)
		professor := database.Professor{Name: "王五"}
		require.NoError(t, f.db.Create(&professor).Error)
		url, err := f.svc.Upload(ctx, KindAvatar, professor.ID, pngFile("a.jpg", "x"))
		require.NoError(t, err)

		require.NoError(t, f.svc.Remove(ctx, KindAvatar, professor.ID))
		assert.False(t, f.store.Exists(url))

		var reloaded database.Professor
		require.NoError(t, f.db.First(&reloaded, professor.ID).Error)
		assert.Empty(t, reloaded.AvatarURL)

		// 字段已为空时再次删除也成功
		require.NoError(t, f.svc.Remove(ctx, KindAvatar, professor.ID))
	})
}

func TestUploadPDFAndQRCode(t *testing.T) {
	ctx := context.Background()
	f := setupTestService(t)

	publication := database.Publication{ProfessorID: 1, Title: "Deep Learning"}
	require.NoError(t, f.db.Create(&publication).Error)
	contact := database.ContactInfo{ProfessorID: 1}
	require.NoError(t, f.db.Create(&contact).Error)

	pdf := File{Name: "paper.pdf", Size: 4, ContentType: "application/pdf", Reader: strings.NewReader("%PDF")}
	pdfURL, err := f.svc.Upload(ctx, KindPDF, publication.ID, pdf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pdfURL, "/uploads/pdfs/publication_1_"))

	notPDF := File{Name: "paper.doc", Size: 4, ContentType: "application/msword", Reader: strings.NewReader("doc!")}
	_, err = f.svc.Upload(ctx, KindPDF, publication.ID, notPDF)
	assert.True(t, errors.HasCode(err, errors.ErrFileTypeNotAllowed))

	qrURL, err := f.svc.Upload(ctx, KindQRCode, contact.ID, pngFile("wechat.png", "qr"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(qrURL, "/uploads/qrcodes/qrcode_1_"))

	var reloaded database.ContactInfo
	require.NoError(t, f.db.First(&reloaded, contact.ID).Error)
	assert.Equal(t, qrURL, reloaded.WechatQRCode)

	_, err = f.svc.Upload(ctx, KindQRCode, 99, pngFile("wechat.png", "qr"))
	assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))
}

func TestMaterials(t *testing.T) {
	ctx := context.Background()
	f := setupTestService(t)

	course := database.TeachingCourse{ProfessorID: 1, CourseName: "机器学习"}
	require.NoError(t, f.db.Create(&course).Error)

	pptx := File{
		Name:        "第一讲.pptx",
		Size:        5,
		ContentType: "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		Reader:      strings.NewReader("slide"),
	}

	t.Run("上传不修改课程记录", func(t *testing.T) {
		m, err := f.svc.UploadMaterial(ctx, course.ID, pptx)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(m.URL, "/uploads/materials/course_1_"))
		assert.True(t, strings.HasSuffix(m.URL, ".pptx"))
		assert.Equal(t, "第一讲.pptx", m.Name)
		assert.Equal(t, int64(5), m.Size)
		assert.True(t, f.store.Exists(m.URL))

		var reloaded database.TeachingCourse
		require.NoError(t, f.db.First(&reloaded, course.ID).Error)
		assert.Empty(t, reloaded.Materials)

		require.NoError(t, f.svc.RemoveMaterial(ctx, course.ID, m.URL))
		assert.False(t, f.store.Exists(m.URL))
	})

	t.Run("缺少类型", func(t *testing.T) {
		_, err := f.svc.UploadMaterial(ctx, course.ID, File{Name: "x", Size: 1, Reader: strings.NewReader("x")})
		assert.True(t, errors.HasCode(err, errors.ErrFileTypeNotAllowed))
	})

	t.Run("空URL", func(t *testing.T) {
		err := f.svc.RemoveMaterial(ctx, course.ID, "")
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParams))
		assert.True(t, errors.IsClientError(err))
	})

	t.Run("课程不存在", func(t *testing.T) {
		_, err := f.svc.UploadMaterial(ctx, 999, pptx)
		assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))

		err = f.svc.RemoveMaterial(ctx, 999, "/uploads/materials/x.pdf")
		assert.True(t, errors.HasCode(err, errors.ErrRecordNotFound))
	})
}
