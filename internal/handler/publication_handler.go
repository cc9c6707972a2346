package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/logger"
	"github.com/weiwangfds/homepage/internal/response"
	"github.com/weiwangfds/homepage/internal/service/publication"
	"github.com/weiwangfds/homepage/internal/web"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PublicationHandler 论文检索处理器
type PublicationHandler struct {
	publicationService publication.PublicationService
}

// NewPublicationHandler 创建论文检索处理器实例
func NewPublicationHandler(publicationService publication.PublicationService) *PublicationHandler {
	return &PublicationHandler{publicationService: publicationService}
}

// parseQuery 解析检索参数，非法的年份和类型被忽略
func parseQuery(c *gin.Context) publication.Query {
	q := publication.Query{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Page:     queryInt(c, "page", 0),
		PageSize: queryInt(c, "size", defaultPageSize),
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if y, err := strconv.Atoi(strings.TrimSpace(c.Query("year"))); err == nil {
		q.Year = &y
	}
	if t, ok := publication.ParseType(c.Query("type")); ok {
		q.Type = t
	}
	return q
}

func queryInt(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return def
	}
	return v
}

// SearchPage 论文检索页面
// @Summary 论文检索页面
// @Description 按关键词（标题、作者、期刊）、年份、类型检索论文并渲染HTML，关键词高亮显示
// @Tags 论文检索
// @Produce html
// @Param keyword query string false "关键词"
// @Param year query int false "年份"
// @Param type query string false "论文类型" Enums(JOURNAL, CONFERENCE, BOOK, BOOK_CHAPTER)
// @Param page query int false "页码，从0开始" default(0)
// @Param size query int false "每页数量" default(20)
// @Success 200 {string} string "HTML页面"
// @Router /publications/search [get]
func (h *PublicationHandler) SearchPage(c *gin.Context) {
	q := parseQuery(c)
	ctx := c.Request.Context()

	result, err := h.publicationService.Search(ctx, q)
	if err != nil {
		logger.Component("publication").Errorf("search failed: %v", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	years, err := h.publicationService.DistinctYears(ctx)
	if err != nil {
		logger.Component("publication").Errorf("load years failed: %v", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.HTML(http.StatusOK, web.SearchPage, gin.H{
		"publications": result.Items,
		"currentPage":  result.Page,
		"totalPages":   result.TotalPages,
		"totalItems":   result.Total,
		"pageSize":     result.PageSize,
		"keyword":      q.Keyword,
		"selectedYear": q.Year,
		"selectedType": string(q.Type),
		"allYears":     years,
		"allTypes":     database.PublicationTypes,
	})
}

// Search 论文检索接口
// @Summary 论文检索
// @Description 与检索页面相同的参数，返回分页JSON，结果按年份、ID降序
// @Tags 论文检索
// @Produce json
// @Param keyword query string false "关键词"
// @Param year query int false "年份"
// @Param type query string false "论文类型" Enums(JOURNAL, CONFERENCE, BOOK, BOOK_CHAPTER)
// @Param page query int false "页码，从0开始" default(0)
// @Param size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=response.PageData} "检索结果"
// @Failure 500 {object} response.Response "服务器内部错误"
// @Router /api/publications/search [get]
func (h *PublicationHandler) Search(c *gin.Context) {
	result, err := h.publicationService.Search(c.Request.Context(), parseQuery(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithPage(c, result.Items, result.Total, result.Page, result.PageSize, result.TotalPages)
}

// Years 论文年份列表
// @Summary 论文年份列表
// @Description 返回所有论文出现过的年份，降序
// @Tags 论文检索
// @Produce json
// @Success 200 {object} response.Response{data=[]int} "年份列表"
// @Router /api/publications/years [get]
func (h *PublicationHandler) Years(c *gin.Context) {
	years, err := h.publicationService.DistinctYears(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	if years == nil {
		years = []int{}
	}
	response.Success(c, years)
}

// ListByProfessor 教授的论文列表
// @Summary 教授的论文列表
// @Tags 论文检索
// @Produce json
// @Param professorId path int true "教授ID"
// @Success 200 {object} response.Response{data=[]database.Publication} "论文列表"
// @Failure 400 {object} response.Response "ID无效"
// @Router /api/publications/professor/{professorId} [get]
func (h *PublicationHandler) ListByProfessor(c *gin.Context) {
	id, err := parseID(c, "professorId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	items, err := h.publicationService.ListByProfessor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}

// CountByProfessor 教授的论文数量
// @Summary 教授的论文数量
// @Tags 论文检索
// @Produce json
// @Param professorId path int true "教授ID"
// @Success 200 {object} response.Response{data=int} "论文数量"
// @Router /api/publications/professor/{professorId}/count [get]
func (h *PublicationHandler) CountByProfessor(c *gin.Context) {
	id, err := parseID(c, "professorId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	count, err := h.publicationService.CountByProfessor(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, count)
}
