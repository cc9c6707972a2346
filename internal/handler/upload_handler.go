package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/i18n"
	"github.com/weiwangfds/homepage/internal/response"
	"github.com/weiwangfds/homepage/internal/service/upload"
)

const (
	uploadFailedKey = "upload.failed"
	deleteFailedKey = "upload.delete_failed"
)

// UploadHandler 头像、论文PDF、二维码、课程资料的上传处理器
type UploadHandler struct {
	uploadService upload.UploadService
}

// NewUploadHandler 创建上传处理器实例
func NewUploadHandler(uploadService upload.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// MaterialDeleteRequest 删除课程资料请求
type MaterialDeleteRequest struct {
	FileURL string `json:"fileUrl" example:"/uploads/materials/course_1_3f2b9c0e5d7a4c1f8e6b2a9d0c4e7f1a.pdf"`
}

// UploadAvatar 上传教授头像
// @Summary 上传教授头像
// @Description 上传新头像并删除旧头像，支持 jpeg/png/gif/webp，最大5MB
// @Tags 文件上传
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "教授ID"
// @Param file formData file true "头像文件"
// @Success 200 {object} response.UploadResult "上传成功，附带 avatarUrl"
// @Failure 400 {object} response.UploadResult "文件为空、超限或类型不支持"
// @Failure 500 {object} response.UploadResult "教授不存在或保存失败"
// @Router /upload/avatar/{id} [post]
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	h.uploadSingle(c, upload.KindAvatar, "avatarUrl")
}

// DeleteAvatar 删除教授头像
// @Summary 删除教授头像
// @Tags 文件上传
// @Produce json
// @Param id path int true "教授ID"
// @Success 200 {object} response.UploadResult "删除成功"
// @Failure 500 {object} response.UploadResult "删除失败"
// @Router /upload/avatar/{id} [delete]
func (h *UploadHandler) DeleteAvatar(c *gin.Context) {
	h.removeSingle(c, upload.KindAvatar)
}

// UploadPDF 上传论文PDF
// @Summary 上传论文PDF
// @Description 上传新PDF并删除旧文件，仅支持 application/pdf，最大20MB
// @Tags 文件上传
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "论文ID"
// @Param file formData file true "PDF文件"
// @Success 200 {object} response.UploadResult "上传成功，附带 pdfUrl"
// @Failure 400 {object} response.UploadResult "文件为空、超限或类型不支持"
// @Failure 500 {object} response.UploadResult "论文不存在或保存失败"
// @Router /upload/pdf/{id} [post]
func (h *UploadHandler) UploadPDF(c *gin.Context) {
	h.uploadSingle(c, upload.KindPDF, "pdfUrl")
}

// DeletePDF 删除论文PDF
// @Summary 删除论文PDF
// @Tags 文件上传
// @Produce json
// @Param id path int true "论文ID"
// @Success 200 {object} response.UploadResult "删除成功"
// @Failure 500 {object} response.UploadResult "删除失败"
// @Router /upload/pdf/{id} [delete]
func (h *UploadHandler) DeletePDF(c *gin.Context) {
	h.removeSingle(c, upload.KindPDF)
}

// UploadQRCode 上传微信二维码
// @Summary 上传微信二维码
// @Description 为联系方式上传二维码图片，最大5MB
// @Tags 文件上传
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "联系方式ID"
// @Param file formData file true "二维码图片"
// @Success 200 {object} response.UploadResult "上传成功，附带 qrcodeUrl"
// @Failure 400 {object} response.UploadResult "文件为空、超限或类型不支持"
// @Failure 500 {object} response.UploadResult "联系方式不存在或保存失败"
// @Router /upload/qrcode/{id} [post]
func (h *UploadHandler) UploadQRCode(c *gin.Context) {
	h.uploadSingle(c, upload.KindQRCode, "qrcodeUrl")
}

// DeleteQRCode 删除微信二维码
// @Summary 删除微信二维码
// @Tags 文件上传
// @Produce json
// @Param id path int true "联系方式ID"
// @Success 200 {object} response.UploadResult "删除成功"
// @Failure 500 {object} response.UploadResult "删除失败"
// @Router /upload/qrcode/{id} [delete]
func (h *UploadHandler) DeleteQRCode(c *gin.Context) {
	h.removeSingle(c, upload.KindQRCode)
}

// UploadMaterial 上传课程资料
// @Summary 上传课程资料
// @Description 上传资料文件并返回URL、文件名和大小，资料列表需通过课程资料接口提交
// @Tags 文件上传
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "课程ID"
// @Param file formData file true "资料文件（pdf/ppt/pptx/doc/docx）"
// @Success 200 {object} response.UploadResult "上传成功，附带 fileUrl、fileName、fileSize"
// @Failure 400 {object} response.UploadResult "文件为空、超限或类型不支持"
// @Failure 500 {object} response.UploadResult "课程不存在或保存失败"
// @Router /upload/material/{id} [post]
func (h *UploadHandler) UploadMaterial(c *gin.Context) {
	lang := response.Language(c)
	id, err := parseID(c, "id")
	if err != nil {
		response.UploadFailure(c, uploadFailedKey, err)
		return
	}
	file, closeFile, err := formFile(c)
	if err != nil {
		response.UploadFailure(c, uploadFailedKey, err)
		return
	}
	defer closeFile()

	material, err := h.uploadService.UploadMaterial(c.Request.Context(), id, file)
	if err != nil {
		response.UploadFailure(c, uploadFailedKey, err)
		return
	}
	response.UploadSuccess(c, i18n.GetInstance().Translate("upload.material.saved", lang), gin.H{
		"fileUrl":  material.URL,
		"fileName": material.Name,
		"fileSize": material.Size,
	})
}

// DeleteMaterial 删除课程资料文件
// @Summary 删除课程资料文件
// @Description 删除请求体中给出的资料文件，不修改课程的资料列表
// @Tags 文件上传
// @Accept json
// @Produce json
// @Param id path int true "课程ID"
// @Param request body MaterialDeleteRequest true "资料URL"
// @Success 200 {object} response.UploadResult "删除成功"
// @Failure 400 {object} response.UploadResult "缺少fileUrl"
// @Failure 500 {object} response.UploadResult "课程不存在或删除失败"
// @Router /upload/material/{id} [delete]
func (h *UploadHandler) DeleteMaterial(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.UploadFailure(c, deleteFailedKey, err)
		return
	}
	var req MaterialDeleteRequest
	// 请求体缺失或格式错误时按空URL处理
	_ = c.ShouldBindJSON(&req)

	if err := h.uploadService.RemoveMaterial(c.Request.Context(), id, req.FileURL); err != nil {
		response.UploadFailure(c, deleteFailedKey, err)
		return
	}
	response.UploadSuccess(c, i18n.GetInstance().Translate("upload.material.removed", response.Language(c)), nil)
}

func (h *UploadHandler) uploadSingle(c *gin.Context, kind upload.Kind, urlField string) {
	id, err := parseID(c, "id")
	if err != nil {
		response.UploadFailure(c, uploadFailedKey, err)
		return
	}
	file, closeFile, err := formFile(c)
	if err != nil {
		response.UploadFailure(c, uploadFailedKey, err)
		return
	}
	defer closeFile()

	url, err := h.uploadService.Upload(c.Request.Context(), kind, id, file)
	if err != nil {
		response.UploadFailure(c, uploadFailedKey, err)
		return
	}
	message := i18n.GetInstance().Translate("upload."+string(kind)+".saved", response.Language(c))
	response.UploadSuccess(c, message, gin.H{urlField: url})
}

func (h *UploadHandler) removeSingle(c *gin.Context, kind upload.Kind) {
	id, err := parseID(c, "id")
	if err != nil {
		response.UploadFailure(c, deleteFailedKey, err)
		return
	}
	if err := h.uploadService.Remove(c.Request.Context(), kind, id); err != nil {
		response.UploadFailure(c, deleteFailedKey, err)
		return
	}
	message := i18n.GetInstance().Translate("upload."+string(kind)+".removed", response.Language(c))
	response.UploadSuccess(c, message, nil)
}

// formFile 读取表单中的 file 字段，缺失时视为空文件
func formFile(c *gin.Context) (upload.File, func(), error) {
	header, err := c.FormFile("file")
	if err != nil {
		return upload.File{}, nil, errors.FileEmpty()
	}
	f, err := header.Open()
	if err != nil {
		return upload.File{}, nil, errors.Wrap(errors.ErrFileUploadFailed, err)
	}
	return toFile(header, f), func() { f.Close() }, nil
}

func toFile(header *multipart.FileHeader, f multipart.File) upload.File {
	return upload.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}
}

// parseID 解析路径参数中的正整数ID
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New(errors.ErrInvalidParams).WithDetails(name + " must be a positive integer")
	}
	return uint(id), nil
}
