// Package web 内嵌前台页面模板
package web

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/weiwangfds/homepage/internal/textutil"
)

//go:embed templates/*.html
var templateFS embed.FS

// SearchPage 论文检索页模板名
const SearchPage = "publication-search.html"

// pagerRadius 分页栏在当前页两侧各显示的页数
const pagerRadius = 4

// PageWindow 返回当前页附近的页码（从0开始），最多 2*pagerRadius+1 个
func PageWindow(current, total int) []int {
	start := current - pagerRadius
	if start < 0 {
		start = 0
	}
	end := total - 1
	if current < total-pagerRadius {
		end = current + pagerRadius
	}
	if start > end {
		return nil
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"highlight": textutil.Highlight,
		"summary": func(s string) string {
			return textutil.Summary(s, textutil.SummaryLength)
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"pages": PageWindow,
		"deref": func(p *int) string {
			if p == nil {
				return ""
			}
			return strconv.Itoa(*p)
		},
	}
}

// Templates 解析全部内嵌模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}
