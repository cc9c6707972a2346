package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorLocalize(t *testing.T) {
	err := NotFound("professor", 42)
	assert.Equal(t, ErrRecordNotFound, err.Code)
	assert.Equal(t, "找不到ID为 42 的教授", err.Localize("zh-CN"))
	assert.Equal(t, "Professor with ID 42 not found", err.Localize("en-US"))
	// 不支持的语言回退到默认语言
	assert.Equal(t, "找不到ID为 42 的教授", err.Localize("fr-FR"))

	tooLarge := FileTooLarge("5MB")
	assert.Equal(t, "文件大小不能超过5MB", tooLarge.Localize("zh-CN"))
	assert.Equal(t, "File size must not exceed 5MB", tooLarge.Localize("en-US"))

	assert.Equal(t, "只允许上传PDF格式的文件", FileTypeNotAllowed("pdf").Localize("zh-CN"))
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrFileWriteFailed, cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "disk full", err.Details)
	assert.Contains(t, err.Error(), "[2005]")

	wrapped := fmt.Errorf("save: %w", err)
	appErr, ok := GetAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrFileWriteFailed, appErr.Code)
	assert.True(t, HasCode(wrapped, ErrFileWriteFailed))
	assert.False(t, HasCode(cause, ErrFileWriteFailed))
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"空文件", FileEmpty(), true},
		{"文件过大", FileTooLarge("5MB"), true},
		{"类型不允许", FileTypeNotAllowed("avatar"), true},
		{"缺少参数", InvalidArgument("file_url_required"), true},
		{"激活中的配置", New(ErrOSSConfigActive), true},
		{"记录不存在", NotFound("course", 1), false},
		{"写入失败", Wrap(ErrFileWriteFailed, stderrors.New("x")), false},
		{"普通错误", stderrors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientError(tt.err))
		})
	}
}
