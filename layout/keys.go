package layout

import (
	"sort"
	"strings"
)

// ParseSections 从扁平内容字典中按键名约定恢复章节：
// 以 t 结尾的键是章节标题（如 s2t），去掉 t 得到前缀；前缀后紧跟 b 或 b<数字> 的键是正文段落。
// 标题与正文都按数字感知顺序排列（s2t 在 s10t 之前，s1b 在 s1b1 之前）。
// 标题为空的章节被丢弃；不符合约定的键被忽略。
func ParseSections(dict map[string]string) []Section {
	keys := make([]string, 0, len(dict))
	var titles []string
	for k := range dict {
		keys = append(keys, k)
		if strings.HasSuffix(k, "t") {
			titles = append(titles, k)
		}
	}
	sortKeys(keys)
	sortKeys(titles)

	sections := make([]Section, 0, len(titles))
	for _, titleKey := range titles {
		heading := strings.TrimSpace(dict[titleKey])
		if heading == "" {
			continue
		}
		prefix := strings.TrimSuffix(titleKey, "t")
		sec := Section{Heading: heading, Body: []string{}}
		for _, k := range keys {
			if k == titleKey || !strings.HasPrefix(k, prefix) || !isBodySuffix(k[len(prefix):]) {
				continue
			}
			if p := strings.TrimSpace(dict[k]); p != "" {
				sec.Body = append(sec.Body, p)
			}
		}
		sections = append(sections, sec)
	}
	return sections
}

// isBodySuffix 判断前缀之后的部分是否为 b 或 b 加若干数字。
func isBodySuffix(rest string) bool {
	if !strings.HasPrefix(rest, "b") {
		return false
	}
	for _, r := range rest[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func sortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool { return CompareKeys(keys[i], keys[j]) < 0 })
}

// CompareKeys 以数字感知方式比较两个键：按数字段与非数字段交替切分，
// 非数字段按字典序比较，数字段按数值比较（数值相同时较短的写法在前）。
// 一个键若是另一个键的分段前缀则排在前面，因此裸的 b 视为最小序号。
func CompareKeys(a, b string) int {
	for a != "" && b != "" {
		ca, restA := nextChunk(a)
		cb, restB := nextChunk(b)
		da, db := isDigit(ca[0]), isDigit(cb[0])
		var c int
		switch {
		case da && db:
			c = compareNumeric(ca, cb)
		case da:
			c = -1
		case db:
			c = 1
		default:
			c = strings.Compare(ca, cb)
		}
		if c != 0 {
			return c
		}
		a, b = restA, restB
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func nextChunk(s string) (string, string) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], s[i:]
}

func compareNumeric(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	// 数值相等：01 与 1 之间用原始长度稳定区分
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
