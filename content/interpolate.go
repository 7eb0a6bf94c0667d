package content

import (
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${key} 替换为字典中同名条目的值。
// 键不存在时保留原占位符；替换进来的值不会再次展开。
func Interpolate(text string, dict Dictionary) string {
	if len(dict) == 0 || !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if key == "" {
			return match
		}
		if val, ok := dict[key]; ok {
			return val
		}
		return match
	})
}
