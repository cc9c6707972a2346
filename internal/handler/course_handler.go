package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/response"
	"github.com/weiwangfds/homepage/internal/service/course"
)

// CourseHandler 课程资料处理器
type CourseHandler struct {
	courseService course.CourseService
}

// NewCourseHandler 创建课程资料处理器实例
func NewCourseHandler(courseService course.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GetMaterials 获取课程资料列表
// @Summary 获取课程资料列表
// @Tags 课程资料
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} response.Response{data=[]database.CourseMaterial} "资料列表"
// @Failure 404 {object} response.Response "课程不存在"
// @Router /api/teaching-courses/{id}/materials [get]
func (h *CourseHandler) GetMaterials(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	materials, err := h.courseService.GetMaterials(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, materials)
}

// UpdateMaterials 替换课程资料列表
// @Summary 替换课程资料列表
// @Description 上传资料后由客户端提交完整列表，每项必须包含url，name为空时取文件名
// @Tags 课程资料
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param request body []database.CourseMaterial true "资料列表"
// @Success 200 {object} response.Response{data=[]database.CourseMaterial} "更新后的资料列表"
// @Failure 400 {object} response.Response "请求格式错误或缺少url"
// @Failure 404 {object} response.Response "课程不存在"
// @Router /api/teaching-courses/{id}/materials [put]
func (h *CourseHandler) UpdateMaterials(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var materials []database.CourseMaterial
	if err := c.ShouldBindJSON(&materials); err != nil {
		response.FromError(c, errors.New(errors.ErrInvalidParams).WithDetails(err.Error()))
		return
	}
	updated, err := h.courseService.UpdateMaterials(c.Request.Context(), id, materials)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, updated)
}
