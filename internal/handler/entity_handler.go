package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/response"
	"github.com/weiwangfds/homepage/internal/service/entity"
)

// CRUDHandler 单个实体的增删改查处理器
type CRUDHandler[T any, P entity.Model[T]] struct {
	repo *entity.Repository[T, P]
}

// NewCRUDHandler 创建实体处理器
func NewCRUDHandler[T any, P entity.Model[T]](repo *entity.Repository[T, P]) *CRUDHandler[T, P] {
	return &CRUDHandler[T, P]{repo: repo}
}

// Register 注册 GET "" / GET /:id / POST "" / PUT /:id / DELETE /:id
// byProfessor 为 true 时额外注册 GET /professor/:professorId
func (h *CRUDHandler[T, P]) Register(group *gin.RouterGroup, byProfessor bool) {
	group.GET("", h.List)
	if byProfessor {
		group.GET("/professor/:professorId", h.ListByProfessor)
	}
	group.GET("/:id", h.Get)
	group.POST("", h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// List 列出全部记录
func (h *CRUDHandler[T, P]) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}

// ListByProfessor 列出某位教授名下的记录
func (h *CRUDHandler[T, P]) ListByProfessor(c *gin.Context) {
	professorID, err := parseID(c, "professorId")
	if err != nil {
		response.FromError(c, err)
		return
	}
	items, err := h.repo.ListByProfessor(c.Request.Context(), professorID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, items)
}

// Get 获取单条记录
func (h *CRUDHandler[T, P]) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	item, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, item)
}

// Create 创建记录，请求中的ID被忽略
func (h *CRUDHandler[T, P]) Create(c *gin.Context) {
	item := P(new(T))
	if err := c.ShouldBindJSON(item); err != nil {
		response.FromError(c, errors.New(errors.ErrInvalidParams).WithDetails(err.Error()))
		return
	}
	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, item)
}

// Update 更新记录，上传接口维护的列保持原值
func (h *CRUDHandler[T, P]) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	item := P(new(T))
	if err := c.ShouldBindJSON(item); err != nil {
		response.FromError(c, errors.New(errors.ErrInvalidParams).WithDetails(err.Error()))
		return
	}
	if err := h.repo.Update(c.Request.Context(), id, item); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete 删除记录，已上传的文件不随之删除
func (h *CRUDHandler[T, P]) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}
