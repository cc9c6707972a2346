// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和翻译功能
package i18n

import (
	"strings"
	"sync"

	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/weiwangfds/homepage/internal/logger"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

const maxParams = 4

var (
	instance *I18n
	once     sync.Once

	// 语言包，{0} {1} 为参数占位符，须按序出现
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"unauthorized":          "未授权",
			"not_found":             "资源未找到",

			"file_empty":                     "文件不能为空",
			"file_upload_failed":             "文件上传失败",
			"file_delete_failed":             "文件删除失败",
			"file_write_failed":              "文件写入失败",
			"file_size_too_large":            "文件大小不能超过{0}",
			"file_type_not_allowed":          "文件类型不允许",
			"file_type_not_allowed.avatar":   "只允许上传图片文件（JPG、PNG、GIF、WebP）",
			"file_type_not_allowed.qrcode":   "只允许上传图片文件（JPG、PNG、GIF、WebP）",
			"file_type_not_allowed.pdf":      "只允许上传PDF格式的文件",
			"file_type_not_allowed.material": "只允许上传PDF、PPT、Word格式的文件",
			"file_url_required":              "文件URL不能为空",
			"file_category_unknown":          "未知的上传类别: {0}",

			"oss_config_not_found":       "OSS配置未找到",
			"oss_config_invalid":         "OSS配置无效: {0}",
			"oss_config_active":          "不能删除或禁用激活状态的OSS配置",
			"oss_connection_failed":      "OSS连接失败",
			"oss_upload_failed":          "OSS上传失败",
			"oss_delete_failed":          "OSS删除失败",
			"oss_provider_not_supported": "不支持的OSS提供商: {0}",

			"database_query":          "数据库查询错误",
			"database_insert":         "数据库插入错误",
			"database_update":         "数据库更新错误",
			"database_delete":         "数据库删除错误",
			"record_not_found":        "记录未找到",
			"not_found.professor":     "找不到ID为 {0} 的教授",
			"not_found.publication":   "找不到ID为 {0} 的论文",
			"not_found.contact_info":  "找不到ID为 {0} 的联系信息",
			"not_found.course":        "找不到ID为 {0} 的课程",
			"not_found.education":     "找不到ID为 {0} 的教育经历",
			"not_found.research":      "找不到ID为 {0} 的科研项目",
			"not_found.award":         "找不到ID为 {0} 的奖项",
			"not_found.oss_config":    "找不到ID为 {0} 的OSS配置",
			"upload.failed":           "上传失败：{0}",
			"upload.delete_failed":    "删除失败：{0}",
			"upload.avatar.saved":     "头像上传成功",
			"upload.avatar.removed":   "头像删除成功",
			"upload.pdf.saved":        "PDF上传成功",
			"upload.pdf.removed":      "PDF删除成功",
			"upload.qrcode.saved":     "二维码上传成功",
			"upload.qrcode.removed":   "二维码删除成功",
			"upload.material.saved":   "资料上传成功",
			"upload.material.removed": "资料删除成功",

			"unknown_error": "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"unauthorized":          "Unauthorized",
			"not_found":             "Resource Not Found",

			"file_empty":                     "File must not be empty",
			"file_upload_failed":             "File Upload Failed",
			"file_delete_failed":             "File Delete Failed",
			"file_write_failed":              "File Write Failed",
			"file_size_too_large":            "File size must not exceed {0}",
			"file_type_not_allowed":          "File Type Not Allowed",
			"file_type_not_allowed.avatar":   "Only image files are allowed (JPG, PNG, GIF, WebP)",
			"file_type_not_allowed.qrcode":   "Only image files are allowed (JPG, PNG, GIF, WebP)",
			"file_type_not_allowed.pdf":      "Only PDF files are allowed",
			"file_type_not_allowed.material": "Only PDF, PPT and Word files are allowed",
			"file_url_required":              "File URL must not be empty",
			"file_category_unknown":          "Unknown upload category: {0}",

			"oss_config_not_found":       "OSS Config Not Found",
			"oss_config_invalid":         "OSS Config Invalid: {0}",
			"oss_config_active":          "An active OSS config cannot be deleted or disabled",
			"oss_connection_failed":      "OSS Connection Failed",
			"oss_upload_failed":          "OSS Upload Failed",
			"oss_delete_failed":          "OSS Delete Failed",
			"oss_provider_not_supported": "Unsupported OSS provider: {0}",

			"database_query":          "Database Query Error",
			"database_insert":         "Database Insert Error",
			"database_update":         "Database Update Error",
			"database_delete":         "Database Delete Error",
			"record_not_found":        "Record Not Found",
			"not_found.professor":     "Professor with ID {0} not found",
			"not_found.publication":   "Publication with ID {0} not found",
			"not_found.contact_info":  "Contact info with ID {0} not found",
			"not_found.course":        "Course with ID {0} not found",
			"not_found.education":     "Education with ID {0} not found",
			"not_found.research":      "Research project with ID {0} not found",
			"not_found.award":         "Award with ID {0} not found",
			"not_found.oss_config":    "OSS config with ID {0} not found",
			"upload.failed":           "Upload failed: {0}",
			"upload.delete_failed":    "Delete failed: {0}",
			"upload.avatar.saved":     "Avatar uploaded",
			"upload.avatar.removed":   "Avatar deleted",
			"upload.pdf.saved":        "PDF uploaded",
			"upload.pdf.removed":      "PDF deleted",
			"upload.qrcode.saved":     "QR code uploaded",
			"upload.qrcode.removed":   "QR code deleted",
			"upload.material.saved":   "Material uploaded",
			"upload.material.removed": "Material deleted",

			"unknown_error": "Unknown Error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	mu          sync.RWMutex
	translators map[string]ut.Translator
	defaultLang string
}

// GetInstance 获取I18n单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			translators: make(map[string]ut.Translator),
			defaultLang: LangZhCN,
		}
		instance.initTranslators()
	})
	return instance
}

// initTranslators 创建翻译器并注册语言包
func (i *I18n) initTranslators() {
	zhCN := zh.New()
	enUS := en_US.New()
	uni := ut.New(zhCN, zhCN, enUS)

	langMappings := map[string]string{
		LangZhCN: "zh",
		LangEnUS: "en_US",
	}

	for ourLang, localeLang := range langMappings {
		trans, found := uni.GetTranslator(localeLang)
		if !found {
			logger.Errorf("初始化翻译器失败: %s (locale: %s)", ourLang, localeLang)
			continue
		}
		for key, text := range translations[ourLang] {
			if err := trans.Add(key, text, true); err != nil {
				logger.Errorf("注册翻译失败: %s/%s: %v", ourLang, key, err)
			}
		}
		i.translators[ourLang] = trans
	}
}

// Translate 根据键和语言获取翻译，params依次替换{0}、{1}...
// 当前语言缺失时回退到默认语言，仍缺失时返回键本身
func (i *I18n) Translate(key, lang string, params ...string) string {
	i.mu.RLock()
	defaultLang := i.defaultLang
	i.mu.RUnlock()

	// 占位符多于参数时 T 会越界，统一补齐
	args := make([]string, maxParams)
	copy(args, params)

	for _, l := range []string{lang, defaultLang} {
		trans, ok := i.translators[l]
		if !ok {
			continue
		}
		if text, err := trans.T(key, args...); err == nil {
			return text
		}
	}

	logger.Debugf("未找到翻译: %s, 语言: %s", key, lang)
	return key
}

// SetDefaultLanguage 设置默认语言，不支持的语言被忽略
func (i *I18n) SetDefaultLanguage(lang string) {
	if !i.IsSupportedLanguage(lang) {
		return
	}
	i.mu.Lock()
	i.defaultLang = lang
	i.mu.Unlock()
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.defaultLang
}

// IsSupportedLanguage 检查语言是否支持
func (i *I18n) IsSupportedLanguage(lang string) bool {
	_, exists := i.translators[lang]
	return exists
}

// ResolveLanguage 从Accept-Language头中选出第一个支持的语言
// 未匹配时返回默认语言
func (i *I18n) ResolveLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.ToLower(tag)
		switch {
		case tag == "":
			continue
		case strings.HasPrefix(tag, "zh"):
			return LangZhCN
		case strings.HasPrefix(tag, "en"):
			return LangEnUS
		}
	}
	return i.GetDefaultLanguage()
}
