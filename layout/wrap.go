package layout

import (
	"strings"
)

// Wrap 使用贪心算法把一段文本折成宽度不超过 maxWidth 的若干行，宽度由 Metrics 实测。
// 连续空白折叠为单个空格；规范化后为空时返回空切片。
// 单个词本身放不下一行时按字符硬拆分，拆出的每一块宽度都不超过 maxWidth
// （唯一的例外是单个字符本身就比 maxWidth 宽）。maxWidth <= 0 表示不限宽。
func Wrap(text string, font FontID, size, maxWidth float64, m Metrics) []Line {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []Line{}
	}
	measure := func(s string) float64 { return m.Measure(s, font, size) }
	if maxWidth <= 0 {
		joined := strings.Join(words, " ")
		return []Line{{Content: joined, Width: measure(joined)}}
	}

	var lines []Line
	var buf string
	var bufWidth float64

	emit := func() {
		if buf == "" {
			return
		}
		lines = append(lines, Line{Content: buf, Width: bufWidth})
		buf, bufWidth = "", 0
	}

	for _, word := range words {
		candidate := word
		if buf != "" {
			candidate = buf + " " + word
		}
		w := measure(candidate)
		switch {
		case w <= maxWidth:
			buf, bufWidth = candidate, w
		case buf == "":
			lines = append(lines, splitWord(word, maxWidth, measure)...)
		default:
			emit()
			if ww := measure(word); ww <= maxWidth {
				buf, bufWidth = word, ww
			} else {
				lines = append(lines, splitWord(word, maxWidth, measure)...)
			}
		}
	}
	emit()
	return lines
}

// splitWord 按字符把过宽的词拆成若干块。每次至少消耗一个字符，因此总会结束。
func splitWord(word string, maxWidth float64, measure func(string) float64) []Line {
	var lines []Line
	var chunk strings.Builder
	chunkWidth := 0.0
	for _, r := range word {
		next := chunk.String() + string(r)
		w := measure(next)
		if w > maxWidth && chunk.Len() > 0 {
			lines = append(lines, Line{Content: chunk.String(), Width: chunkWidth})
			chunk.Reset()
			chunk.WriteRune(r)
			chunkWidth = measure(string(r))
			continue
		}
		chunk.WriteRune(r)
		chunkWidth = w
	}
	if chunk.Len() > 0 {
		lines = append(lines, Line{Content: chunk.String(), Width: chunkWidth})
	}
	return lines
}
