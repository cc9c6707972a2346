package storage

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateName 生成 prefix_<32位十六进制随机串><ext> 形式的文件名
func GenerateName(prefix, ext string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}

// ExtensionOf 取原始文件名最后一个 "." 起的扩展名（含点），没有时返回空串
// 含路径分隔符的扩展名不可信，同样返回空串
func ExtensionOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return ""
	}
	ext := filename[i:]
	if strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
