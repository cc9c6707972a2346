package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	i := GetInstance()

	assert.Equal(t, "成功", i.Translate("success", LangZhCN))
	assert.Equal(t, "Success", i.Translate("success", LangEnUS))
	assert.Equal(t, "上传失败：磁盘已满", i.Translate("upload.failed", LangZhCN, "磁盘已满"))
	// 参数不足时占位符替换为空
	assert.Equal(t, "Upload failed: ", i.Translate("upload.failed", LangEnUS))
	assert.Equal(t, "no.such.key", i.Translate("no.such.key", LangZhCN))
}

func TestResolveLanguage(t *testing.T) {
	i := GetInstance()
	tests := []struct {
		header string
		want   string
	}{
		{"", LangZhCN},
		{"en-US,en;q=0.9", LangEnUS},
		{"en", LangEnUS},
		{"zh-TW;q=0.8", LangZhCN},
		{"fr-FR, en-GB;q=0.5", LangEnUS},
		{"fr-FR", LangZhCN},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, i.ResolveLanguage(tt.header))
		})
	}
}

func TestSetDefaultLanguage(t *testing.T) {
	i := GetInstance()
	t.Cleanup(func() { i.SetDefaultLanguage(LangZhCN) })

	i.SetDefaultLanguage("fr-FR")
	assert.Equal(t, LangZhCN, i.GetDefaultLanguage())

	i.SetDefaultLanguage(LangEnUS)
	assert.Equal(t, LangEnUS, i.GetDefaultLanguage())
	assert.True(t, i.IsSupportedLanguage(LangEnUS))
}
