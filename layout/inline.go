package layout

import "strings"

// Segment 是同一基线上的一段文本；URL 非空时该段是可点击链接。
type Segment struct {
	Text      string
	Font      FontID
	Size      float64
	Color     Color
	URL       string
	Underline bool
}

// InlineOptions 控制链接区域的外扩与下划线位置（pt）。
type InlineOptions struct {
	Padding         float64
	UnderlineOffset float64
	UnderlineWidth  float64
}

// SegmentsWidth 返回所有段拼接后的总宽度。
func SegmentsWidth(segs []Segment, m Metrics) float64 {
	total := 0.0
	for _, s := range segs {
		total += m.Measure(s.Text, s.Font, s.Size)
	}
	return total
}

// SegmentsText 返回所有段按顺序拼接的纯文本。
func SegmentsText(segs []Segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}

// PlaceSegments 从 (x, y) 起在同一基线上依次绘制各段，链接段生成紧贴文字的 LinkRegion，
// 需要下划线的段在基线下方加一条线。返回绘制的总宽度。
func PlaceSegments(page *Page, segs []Segment, x, y float64, m Metrics, opts InlineOptions) float64 {
	start := x
	for _, s := range segs {
		w := m.Measure(s.Text, s.Font, s.Size)
		page.Texts = append(page.Texts, TextRun{
			Content:  s.Text,
			X:        x,
			Y:        y,
			Width:    w,
			Font:     s.Font,
			FontSize: s.Size,
			Color:    s.Color,
		})
		if s.URL != "" {
			page.Links = append(page.Links, LinkRegion{
				XMin: x,
				YMin: y - opts.Padding,
				XMax: x + w,
				YMax: y + s.Size + opts.Padding,
				URL:  s.URL,
			})
		}
		if s.Underline {
			uy := y - opts.UnderlineOffset
			page.Rules = append(page.Rules, Rule{X1: x, Y: uy, X2: x + w, Color: s.Color, Width: opts.UnderlineWidth})
		}
		x += w
	}
	return x - start
}

// DrawSegments 在当前行绘制一组行内段，行高取各段最大字号。
func (c *PageCursor) DrawSegments(segs []Segment, m Metrics, opts InlineOptions) float64 {
	size := 0.0
	for _, s := range segs {
		if s.Size > size {
			size = s.Size
		}
	}
	lh := c.LineHeight(size)
	c.EnsureSpace(lh)
	w := PlaceSegments(&c.current, segs, c.margin.Left, c.cursorY, m, opts)
	c.advance(lh)
	return w
}
