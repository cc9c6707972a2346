package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/internal/database"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/response"
	ossservice "github.com/weiwangfds/homepage/internal/service/oss"
)

// OSSHandler OSS处理器
type OSSHandler struct {
	configService ossservice.ConfigService
	syncService   *ossservice.SyncService
}

// NewOSSHandler 创建OSS处理器实例
func NewOSSHandler(configService ossservice.ConfigService, syncService *ossservice.SyncService) *OSSHandler {
	return &OSSHandler{
		configService: configService,
		syncService:   syncService,
	}
}

// mask 清空密钥后返回，配置的SecretKey不会出现在任何响应中
func mask(cfg *database.OSSConfig) *database.OSSConfig {
	cfg.SecretKey = ""
	return cfg
}

// CreateConfig 创建OSS配置
// @Summary 创建OSS配置
// @Description 创建新的OSS存储配置，支持阿里云、腾讯云、七牛云和S3，第一个配置自动激活
// @Tags OSS配置管理
// @Accept json
// @Produce json
// @Param config body database.OSSConfig true "OSS配置信息"
// @Success 200 {object} response.Response{data=database.OSSConfig} "创建成功"
// @Failure 400 {object} response.Response "请求参数错误"
// @Router /api/oss/configs [post]
func (h *OSSHandler) CreateConfig(c *gin.Context) {
	var cfg database.OSSConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.FromError(c, errors.New(errors.ErrInvalidParams).WithDetails(err.Error()))
		return
	}
	if err := h.configService.Create(c.Request.Context(), &cfg); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, mask(&cfg))
}

// GetConfig 获取OSS配置
// @Summary 获取单个OSS配置
// @Tags OSS配置管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response{data=database.OSSConfig} "获取成功"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/oss/configs/{id} [get]
func (h *OSSHandler) GetConfig(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	cfg, err := h.configService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, mask(cfg))
}

// ListConfigs 获取OSS配置列表
// @Summary 获取所有OSS配置
// @Tags OSS配置管理
// @Produce json
// @Success 200 {object} response.Response{data=[]database.OSSConfig} "获取成功"
// @Router /api/oss/configs [get]
func (h *OSSHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	for i := range configs {
		mask(&configs[i])
	}
	response.Success(c, configs)
}

// GetActiveConfig 获取当前激活的配置
// @Summary 获取激活的OSS配置
// @Description 没有激活且启用的配置时data为空
// @Tags OSS配置管理
// @Produce json
// @Success 200 {object} response.Response{data=database.OSSConfig} "获取成功"
// @Router /api/oss/configs/active [get]
func (h *OSSHandler) GetActiveConfig(c *gin.Context) {
	cfg, err := h.configService.GetActive(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	if cfg == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, mask(cfg))
}

// UpdateConfig 更新OSS配置
// @Summary 更新OSS配置
// @Description secret_key 为空时保留原值，激活与启用状态需通过专门接口修改
// @Tags OSS配置管理
// @Accept json
// @Produce json
// @Param id path int true "配置ID"
// @Param config body database.OSSConfig true "OSS配置信息"
// @Success 200 {object} response.Response{data=database.OSSConfig} "更新成功"
// @Failure 400 {object} response.Response "请求参数错误"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/oss/configs/{id} [put]
func (h *OSSHandler) UpdateConfig(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	var cfg database.OSSConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		response.FromError(c, errors.New(errors.ErrInvalidParams).WithDetails(err.Error()))
		return
	}
	if err := h.configService.Update(c.Request.Context(), id, &cfg); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, mask(&cfg))
}

// DeleteConfig 删除OSS配置
// @Summary 删除OSS配置
// @Description 激活中的配置不可删除
// @Tags OSS配置管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 400 {object} response.Response "配置处于激活状态"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/oss/configs/{id} [delete]
func (h *OSSHandler) DeleteConfig(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.configService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// ActivateConfig 激活OSS配置
// @Summary 激活OSS配置
// @Description 激活指定配置并取消其他配置的激活状态，禁用的配置不可激活
// @Tags OSS配置管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "激活成功"
// @Failure 400 {object} response.Response "配置已禁用"
// @Failure 404 {object} response.Response "配置不存在"
// @Router /api/oss/configs/{id}/activate [post]
func (h *OSSHandler) ActivateConfig(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.configService.Activate(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleConfig 启用或禁用OSS配置
// @Summary 启用或禁用OSS配置
// @Description 激活中的配置不可禁用
// @Tags OSS配置管理
// @Produce json
// @Param id path int true "配置ID"
// @Param enabled query bool true "是否启用"
// @Success 200 {object} response.Response "操作成功"
// @Failure 400 {object} response.Response "参数错误或配置处于激活状态"
// @Router /api/oss/configs/{id}/toggle [put]
func (h *OSSHandler) ToggleConfig(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	enabled, err := strconv.ParseBool(c.Query("enabled"))
	if err != nil {
		response.FromError(c, errors.New(errors.ErrInvalidParams).WithDetails("enabled must be true or false"))
		return
	}
	if err := h.configService.Toggle(c.Request.Context(), id, enabled); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id, "is_enabled": enabled})
}

// TestConfig 测试OSS连接
// @Summary 测试OSS连接
// @Tags OSS配置管理
// @Produce json
// @Param id path int true "配置ID"
// @Success 200 {object} response.Response "连接成功"
// @Failure 500 {object} response.Response "连接失败"
// @Router /api/oss/configs/{id}/test [post]
func (h *OSSHandler) TestConfig(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.configService.Test(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id, "connected": true})
}

// ListSyncLogs 同步日志
// @Summary 获取同步日志
// @Description 按时间倒序分页返回镜像同步记录
// @Tags OSS同步
// @Produce json
// @Param page query int false "页码，从1开始" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=response.PageData} "同步日志"
// @Router /api/oss/sync/logs [get]
func (h *OSSHandler) ListSyncLogs(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(c, "page_size", defaultPageSize)
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	logs, total, err := h.syncService.ListLogs(c.Request.Context(), page, pageSize)
	if err != nil {
		response.FromError(c, err)
		return
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	response.SuccessWithPage(c, logs, total, page, pageSize, totalPages)
}
