// Package binding 将文档文本中的 ${path} 占位符解析为调用方提供的 JSON 数据。
// 路径使用 gjson 语法，点号访问与数组下标（如 ${invoice.items.0.name}）开箱即用。
package binding

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path} 替换为 data 中的值。
// 路径无法解析时保留原占位符，缺失的数据在输出中仍然可见。
func Interpolate(text string, data []byte) string {
	if len(data) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		val := gjson.GetBytes(data, path)
		if !val.Exists() {
			return match
		}
		return val.String()
	})
}
