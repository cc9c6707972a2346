package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwangfds/homepage/config"
	"github.com/weiwangfds/homepage/internal/errors"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	cfg := config.Default()
	return NewFileStore(t.TempDir(), NewValidator(cfg.Upload))
}

type recordingMirror struct {
	pushed  []string
	removed []string
}

func (m *recordingMirror) Push(_ context.Context, url, _, _ string) error {
	m.pushed = append(m.pushed, url)
	return nil
}

func (m *recordingMirror) Remove(_ context.Context, url string) error {
	m.removed = append(m.removed, url)
	return nil
}

func TestValidate(t *testing.T) {
	v := NewValidator(config.Default().Upload)

	tests := []struct {
		name        string
		size        int64
		contentType string
		category    Category
		code        errors.ErrorCode
	}{
		{"空文件", 0, "image/png", CategoryAvatar, errors.ErrFileEmpty},
		{"头像超过5MB", 5*1024*1024 + 1, "image/png", CategoryAvatar, errors.ErrFileSizeTooLarge},
		{"二维码超过5MB", 6 * 1024 * 1024, "image/jpeg", CategoryQRCode, errors.ErrFileSizeTooLarge},
		{"PDF超过20MB", 20*1024*1024 + 1, "application/pdf", CategoryPDF, errors.ErrFileSizeTooLarge},
		{"头像类型不支持", 100, "application/pdf", CategoryAvatar, errors.ErrFileTypeNotAllowed},
		{"PDF类型不支持", 100, "image/png", CategoryPDF, errors.ErrFileTypeNotAllowed},
		{"资料缺少类型", 100, "", CategoryMaterial, errors.ErrFileTypeNotAllowed},
		{"资料类型不支持", 100, "text/plain", CategoryMaterial, errors.ErrFileTypeNotAllowed},
		{"未知类别", 100, "image/png", Category("video"), errors.ErrInternalServer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.size, tt.contentType, tt.category)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}

	t.Run("合法文件", func(t *testing.T) {
		assert.NoError(t, v.Validate(5*1024*1024, "image/webp", CategoryAvatar))
		assert.NoError(t, v.Validate(1, "IMAGE/PNG; charset=binary", CategoryQRCode))
		assert.NoError(t, v.Validate(20*1024*1024, "application/pdf", CategoryPDF))
		for _, ct := range []string{
			"application/pdf",
			"application/vnd.ms-powerpoint",
			"application/vnd.openxmlformats-officedocument.presentationml.presentation",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		} {
			assert.NoError(t, v.Validate(1024, ct, CategoryMaterial), ct)
		}
	})

	t.Run("超限消息包含上限", func(t *testing.T) {
		err := v.Validate(6*1024*1024, "image/png", CategoryAvatar)
		appErr, ok := errors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, "文件大小不能超过5MB", appErr.Localize("zh-CN"))
		assert.Equal(t, "File size must not exceed 5MB", appErr.Localize("en-US"))
	})
}

func TestGenerateName(t *testing.T) {
	a := GenerateName("publication_7", ".jpg")
	b := GenerateName("publication_7", ".jpg")

	assert.True(t, strings.HasPrefix(a, "publication_7_"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)

	token := strings.TrimSuffix(strings.TrimPrefix(a, "publication_7_"), ".jpg")
	assert.Len(t, token, 32)
	assert.NotContains(t, token, "-")
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionOf("photo.jpg"))
	assert.Equal(t, ".gz", ExtensionOf("archive.tar.gz"))
	assert.Equal(t, "", ExtensionOf("README"))
	assert.Equal(t, "", ExtensionOf(""))
	assert.Equal(t, ".", ExtensionOf("trailing."))
	assert.Equal(t, "", ExtensionOf("x./../../etc/passwd"))
}

func TestReadableSize(t *testing.T) {
	assert.Equal(t, "512 B", ReadableSize(512))
	assert.Equal(t, "1.50 KB", ReadableSize(1536))
	assert.Equal(t, "5.00 MB", ReadableSize(5*1024*1024))
	assert.Equal(t, "20MB", LimitString(20*1024*1024))
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("保存后删除", func(t *testing.T) {
		s := newTestStore(t)
		url, err := s.Save(ctx, CategoryAvatar, bytes.NewReader([]byte("png")), "1_abc.png", "image/png")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/avatars/1_abc.png", url)

		data, err := os.ReadFile(filepath.Join(s.Root(), "uploads", "avatars", "1_abc.png"))
		require.NoError(t, err)
		assert.Equal(t, "png", string(data))
		assert.True(t, s.Exists(url))

		res := s.Delete(ctx, url)
		assert.True(t, res.Removed)
		assert.NoError(t, res.Err)
		assert.False(t, s.Exists(url))

		entries, err := os.ReadDir(filepath.Join(s.Root(), "uploads", "avatars"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("同名覆盖", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Save(ctx, CategoryPDF, strings.NewReader("first"), "p.pdf", "application/pdf")
		require.NoError(t, err)
		url, err := s.Save(ctx, CategoryPDF, strings.NewReader("second"), "p.pdf", "application/pdf")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(strings.TrimPrefix(url, "/"))))
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("删除不存在的文件", func(t *testing.T) {
		s := newTestStore(t)
		res := s.Delete(ctx, "/uploads/pdfs/missing.pdf")
		assert.False(t, res.Removed)
		assert.NoError(t, res.Err)

		res = s.Delete(ctx, "uploads/pdfs/missing.pdf")
		assert.False(t, res.Removed)
		assert.NoError(t, res.Err)
	})

	t.Run("拒绝上传目录之外的路径", func(t *testing.T) {
		s := newTestStore(t)
		outside := filepath.Join(s.Root(), "keep.txt")
		require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

		for _, url := range []string{"/keep.txt", "/uploads/avatars/../../keep.txt", "", "/"} {
			res := s.Delete(ctx, url)
			assert.False(t, res.Removed, url)
			assert.ErrorIs(t, res.Err, ErrOutsideUploads, url)
		}
		_, err := os.Stat(outside)
		assert.NoError(t, err)
	})

	t.Run("非法文件名", func(t *testing.T) {
		s := newTestStore(t)
		_, err := s.Save(ctx, CategoryAvatar, strings.NewReader("x"), "../evil.png", "image/png")
		assert.True(t, errors.HasCode(err, errors.ErrInvalidParams))
	})

	t.Run("镜像钩子", func(t *testing.T) {
		s := newTestStore(t)
		m := &recordingMirror{}
		s.SetMirror(m)

		url, err := s.Save(ctx, CategoryQRCode, strings.NewReader("qr"), "qrcode_1_x.png", "image/png")
		require.NoError(t, err)
		s.Delete(ctx, url)
		s.Delete(ctx, url)

		assert.Equal(t, []string{url}, m.pushed)
		assert.Equal(t, []string{url}, m.removed)
	})
}
