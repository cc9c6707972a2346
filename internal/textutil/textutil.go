// Package textutil 提供搜索结果高亮和富文本摘要
package textutil

import (
	"html"
	"html/template"
	"regexp"
	"strings"
)

// SummaryLength 默认摘要长度（字符数）
const SummaryLength = 100

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// Highlight 转义文本中的HTML，并用 <span class="highlight"> 包裹关键词的所有匹配
// 匹配不区分大小写，关键词按字面处理；关键词为空时只做转义
func Highlight(text, keyword string) template.HTML {
	keyword = strings.TrimSpace(keyword)
	if text == "" || keyword == "" {
		return template.HTML(html.EscapeString(text))
	}

	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(keyword))
	if err != nil {
		return template.HTML(html.EscapeString(text))
	}

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		b.WriteString(`<span class="highlight">`)
		b.WriteString(html.EscapeString(text[loc[0]:loc[1]]))
		b.WriteString(`</span>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return template.HTML(b.String())
}

// StripTags 去掉HTML标签、还原常见实体并压缩空白
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(s, "")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// Truncate 超过max个字符时截断并追加 "..."
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Summary 富文本的纯文本摘要
func Summary(s string, max int) string {
	if max <= 0 {
		max = SummaryLength
	}
	return Truncate(StripTags(s), max)
}

// IsBlank 去掉标签后是否没有可见文本
func IsBlank(s string) bool {
	return StripTags(s) == ""
}
