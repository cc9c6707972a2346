package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/homepage/internal/errors"
	"github.com/weiwangfds/homepage/internal/i18n"
)

// 上下文键，由中间件写入
const (
	RequestIDKey = "request_id"
	LanguageKey  = "lang"
)

// Response 统一返回值结构体
// @Description API统一响应格式
type Response struct {
	// 状态码，0表示成功，非0为业务错误码
	Code int `json:"code" example:"0"`
	// 响应消息
	Message string `json:"message" example:"success"`
	// 响应数据
	Data interface{} `json:"data,omitempty"`
	// 请求ID，用于链路追踪
	RequestID string `json:"request_id,omitempty" example:"3f2b9c0e5d7a4c1f8e6b2a9d0c4e7f1a"`
	// 时间戳
	Timestamp int64 `json:"timestamp" example:"1640995200"`
}

// PageData 分页数据结构体
// @Description 分页响应数据格式
type PageData struct {
	// 数据列表
	List interface{} `json:"list"`
	// 总数
	Total int64 `json:"total" example:"100"`
	// 当前页码
	Page int `json:"page" example:"0"`
	// 每页大小
	PageSize int `json:"page_size" example:"20"`
	// 总页数
	TotalPages int `json:"total_pages" example:"5"`
}

// UploadResult 上传接口的响应
// @Description 上传/删除结果，URL字段名随接口不同（avatarUrl、pdfUrl、qrcodeUrl、fileUrl）
type UploadResult struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"头像上传成功"`
}

// nowFunc 便于测试替换
var nowFunc = time.Now

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, i18n.GetInstance().Translate("success", Language(c)), data)
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   message,
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: nowFunc().Unix(),
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize, totalPages int) {
	Success(c, PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Error 错误响应
func Error(c *gin.Context, status, code int, message string) {
	c.JSON(status, Response{
		Code:      code,
		Message:   message,
		RequestID: getRequestID(c),
		Timestamp: nowFunc().Unix(),
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, int(errors.ErrInvalidParams), message)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, int(errors.ErrUnauthorized),
		errors.GetErrorMessageWithLang(errors.ErrUnauthorized, Language(c)))
}

// FromError 按错误类型选择HTTP状态码并输出本地化消息
// 参数错误与校验失败为400，记录不存在为404，其余为500
func FromError(c *gin.Context, err error) {
	appErr, ok := errors.GetAppError(err)
	if !ok {
		appErr = errors.Wrap(errors.ErrInternalServer, err)
	}
	Error(c, StatusOf(err), int(appErr.Code), appErr.Localize(Language(c)))
}

// StatusOf 错误对应的HTTP状态码
func StatusOf(err error) int {
	switch {
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.HasCode(err, errors.ErrRecordNotFound), errors.HasCode(err, errors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// UploadSuccess 上传或删除成功，fields 合并到响应体
func UploadSuccess(c *gin.Context, message string, fields gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// UploadFailure 上传或删除失败
// 校验失败与参数错误返回400和原始消息，其余（包括记录不存在）返回500并加上前缀
func UploadFailure(c *gin.Context, prefixKey string, err error) {
	lang := Language(c)
	appErr, ok := errors.GetAppError(err)
	if !ok {
		appErr = errors.Wrap(errors.ErrInternalServer, err)
	}
	message := appErr.Localize(lang)

	if errors.IsClientError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": i18n.GetInstance().Translate(prefixKey, lang, message),
	})
}

// Language 请求语言，中间件未设置时使用默认语言
func Language(c *gin.Context) string {
	if lang, ok := c.Get(LanguageKey); ok {
		if s, ok := lang.(string); ok && s != "" {
			return s
		}
	}
	return i18n.GetInstance().GetDefaultLanguage()
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
