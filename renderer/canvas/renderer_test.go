package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/renderer"
)

func newSession(t *testing.T) (*Session, layout.FontID) {
	t.Helper()
	s := New(renderer.Options{})
	id, err := s.EmbedFont("builtin:goregular")
	if err != nil {
		t.Fatalf("嵌入字体失败: %v", err)
	}
	return s, id
}

func TestMeasureInPoints(t *testing.T) {
	s, id := newSession(t)
	w10 := s.Measure("hello world", id, 10)
	if w10 <= 0 {
		t.Fatalf("宽度应为正数: %g", w10)
	}
	// 10pt 的 Latin 文本每个字符大致在 2~10pt 之间，用来确认单位已换算为 pt 而非 mm
	if perRune := w10 / 11; perRune < 2 || perRune > 10 {
		t.Fatalf("宽度单位可能错误: %g pt/字符", perRune)
	}
	w20 := s.Measure("hello world", id, 20)
	if math.Abs(w20-2*w10) > 1e-6 {
		t.Fatalf("宽度应与字号成正比: %g vs %g", w20, w10)
	}
	if s.Measure("hello world", 99, 10) != 0 {
		t.Fatalf("未嵌入的字体宽度应为 0")
	}
}

// TestWrapWithRealMetrics 验证使用真实字体度量时每行宽度不超过限制。
func TestWrapWithRealMetrics(t *testing.T) {
	s, id := newSession(t)
	limit := 80.0 // pt
	content := "longlonglong longlonglong longlonglong aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	lines := layout.Wrap(content, id, 12, limit, s)
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if ln.Width-limit > 1e-6 {
			t.Fatalf("line %d width exceeds limit: width=%g limit=%g", i, ln.Width, limit)
		}
	}
}

// 当第一行宽度与容器宽度恰好相等时，不应把下一个词挤进同一行，也不应产生空行。
func TestNoBlankLineWhenEqualWidth(t *testing.T) {
	s, id := newSession(t)
	first := "SAMPLE-A"
	limit := s.Measure(first, id, 12)
	if limit <= 0 {
		t.Fatalf("invalid measured width: %g", limit)
	}
	lines := layout.Wrap(first+" SAMPLE", id, 12, limit, s)
	if got := len(lines); got != 2 {
		t.Fatalf("expected 2 lines without blank, got %d", got)
	}
	if lines[0].Content != first || lines[1].Content != "SAMPLE" {
		t.Fatalf("line mismatch: %+v", lines)
	}
}

func TestRenderPreview(t *testing.T) {
	s := New(renderer.Options{})
	in := layout.Input{
		Lang:  "fr",
		Title: "Mentions légales",
		Meta:  []layout.MetaField{{Value: "Acme"}, {Value: "acme.com", Link: true}},
		Entries: map[string]string{
			"s1t": "Éditeur",
			"s1b": "Acme SA, 1 rue de la Gare, Luxembourg",
		},
	}
	res, err := layout.Build(in, layout.BuildOptions{Metrics: s})
	if err != nil {
		t.Fatalf("排版失败: %v", err)
	}
	if len(res.Pages[0].Rules) != 1 {
		t.Fatalf("链接应带下划线")
	}
	data, err := s.Render(res)
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("输出不是 PDF")
	}
	if _, err := s.Render(res); err == nil {
		t.Fatalf("同一会话不应渲染两次")
	}
}
