package layout

import (
	"errors"
	"math"
	"unicode/utf8"
)

// stubMetrics 是测试用的最小度量后端：每个字符宽度固定为 advance * size，
// 避免在排版测试中引入真实字体与渲染器。
type stubMetrics struct {
	advance float64
	fail    map[string]bool
	embeds  []string
}

func newStubMetrics() *stubMetrics { return &stubMetrics{advance: 0.5} }

func (s *stubMetrics) EmbedFont(src string) (FontID, error) {
	if s.fail[src] {
		return 0, errors.New("font blob rejected")
	}
	s.embeds = append(s.embeds, src)
	return FontID(len(s.embeds)), nil
}

func (s *stubMetrics) Measure(text string, _ FontID, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * s.advance
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
