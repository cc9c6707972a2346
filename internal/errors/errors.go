package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/weiwangfds/homepage/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrUnauthorized   ErrorCode = 1002 // 未授权
	ErrNotFound       ErrorCode = 1004 // 资源未找到

	// 文件相关错误码 (2000-2999)
	ErrFileUploadFailed   ErrorCode = 2002 // 文件上传失败
	ErrFileDeleteFailed   ErrorCode = 2003 // 文件删除失败
	ErrFileWriteFailed    ErrorCode = 2005 // 文件写入失败
	ErrFileSizeTooLarge   ErrorCode = 2006 // 文件大小超限
	ErrFileTypeNotAllowed ErrorCode = 2007 // 文件类型不允许
	ErrFileEmpty          ErrorCode = 2010 // 文件为空

	// OSS相关错误码 (3000-3999)
	ErrOSSConfigNotFound       ErrorCode = 3000 // OSS配置未找到
	ErrOSSConfigInvalid        ErrorCode = 3001 // OSS配置无效
	ErrOSSConnectionFailed     ErrorCode = 3002 // OSS连接失败
	ErrOSSUploadFailed         ErrorCode = 3003 // OSS上传失败
	ErrOSSDeleteFailed         ErrorCode = 3005 // OSS删除失败
	ErrOSSProviderNotSupported ErrorCode = 3008 // OSS提供商不支持
	ErrOSSConfigActive         ErrorCode = 3009 // 激活中的配置不可删除或禁用

	// 数据库相关错误码 (4000-4999)
	ErrDatabaseQuery  ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseInsert ErrorCode = 4002 // 数据库插入错误
	ErrDatabaseUpdate ErrorCode = 4003 // 数据库更新错误
	ErrDatabaseDelete ErrorCode = 4004 // 数据库删除错误
	ErrRecordNotFound ErrorCode = 4006 // 记录未找到
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息（默认语言）
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`

	key    string
	params []string
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Is / errors.As 访问原始错误
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// Localize 返回指定语言的错误消息
func (e *AppError) Localize(lang string) string {
	if e.key == "" {
		return e.Message
	}
	return i18n.GetInstance().Translate(e.key, lang, e.params...)
}

// New 创建新的应用错误，消息取错误码对应的默认语言文案
func New(code ErrorCode) *AppError {
	return NewKeyed(code, keyFor(code))
}

// NewKeyed 使用指定的i18n键与参数创建应用错误
func NewKeyed(code ErrorCode, key string, params ...string) *AppError {
	return &AppError{
		Code:    code,
		Message: i18n.GetInstance().Translate(key, i18n.GetInstance().GetDefaultLanguage(), params...),
		key:     key,
		params:  params,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, err error) *AppError {
	appErr := New(code)
	appErr.OriginalError = err
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// GetAppError 从错误链中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode 判断错误链中是否存在指定错误码的应用错误
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}

// IsClientError 判断是否为调用方引起的错误（校验失败、参数缺失）
func IsClientError(err error) bool {
	appErr, ok := GetAppError(err)
	if !ok {
		return false
	}
	switch appErr.Code {
	case ErrInvalidParams, ErrFileEmpty, ErrFileSizeTooLarge, ErrFileTypeNotAllowed,
		ErrOSSConfigInvalid, ErrOSSProviderNotSupported, ErrOSSConfigActive:
		return true
	}
	return false
}

// 上传校验相关的构造函数

// FileEmpty 文件为空
func FileEmpty() *AppError {
	return New(ErrFileEmpty)
}

// FileTooLarge 文件超过大小限制，limit为可读的大小描述
func FileTooLarge(limit string) *AppError {
	return NewKeyed(ErrFileSizeTooLarge, "file_size_too_large", limit)
}

// FileTypeNotAllowed 文件类型不在类别允许列表中
func FileTypeNotAllowed(category string) *AppError {
	return NewKeyed(ErrFileTypeNotAllowed, "file_type_not_allowed."+category)
}

// InvalidArgument 缺少必需参数，key为描述该参数的i18n键
func InvalidArgument(key string) *AppError {
	return NewKeyed(ErrInvalidParams, key)
}

// NotFound 实体记录不存在，entity 与 i18n 中 not_found.<entity> 对应
func NotFound(entity string, id uint) *AppError {
	return NewKeyed(ErrRecordNotFound, "not_found."+entity, strconv.FormatUint(uint64(id), 10))
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrUnauthorized:   "unauthorized",
	ErrNotFound:       "not_found",

	ErrFileUploadFailed:   "file_upload_failed",
	ErrFileDeleteFailed:   "file_delete_failed",
	ErrFileWriteFailed:    "file_write_failed",
	ErrFileSizeTooLarge:   "file_size_too_large",
	ErrFileTypeNotAllowed: "file_type_not_allowed",
	ErrFileEmpty:          "file_empty",

	ErrOSSConfigNotFound:       "oss_config_not_found",
	ErrOSSConfigInvalid:        "oss_config_invalid",
	ErrOSSConnectionFailed:     "oss_connection_failed",
	ErrOSSUploadFailed:         "oss_upload_failed",
	ErrOSSDeleteFailed:         "oss_delete_failed",
	ErrOSSProviderNotSupported: "oss_provider_not_supported",
	ErrOSSConfigActive:         "oss_config_active",

	ErrDatabaseQuery:  "database_query",
	ErrDatabaseInsert: "database_insert",
	ErrDatabaseUpdate: "database_update",
	ErrDatabaseDelete: "database_delete",
	ErrRecordNotFound: "record_not_found",
}

func keyFor(code ErrorCode) string {
	if key, ok := errorCodeToKeyMap[code]; ok {
		return key
	}
	return "unknown_error"
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	return i18n.GetInstance().Translate(keyFor(code), lang)
}
