package layout

import (
	"strings"
)

// Build 按 标题 → 元信息行 → 联系方式行 → 各章节 → 页脚 的顺序排版整篇文档。
// 字体在开始时一次性嵌入；嵌入失败直接返回 *FatalResourceError，不产生任何结果。
// 空内容被跳过，超宽的链接行退化为普通段落，这两种情况只记入 Diagnostics。
func Build(in Input, opts BuildOptions) (*Result, error) {
	style := DefaultStyle()
	if opts.Style != nil {
		style = *opts.Style
	}
	rc, err := NewRenderContext(opts.Metrics, style)
	if err != nil {
		return nil, err
	}

	a := &assembler{
		rc:     rc,
		cursor: NewPageCursor(style.PageWidth, style.PageHeight, style.Margin, style.LineHeight),
		width:  style.ContentWidth(),
		inline: InlineOptions{
			Padding:         style.LinkPadding,
			UnderlineOffset: style.UnderlineOffset,
			UnderlineWidth:  style.UnderlineWidth,
		},
	}

	sections := ParseSections(in.Entries)
	a.diag.Sections = len(sections)

	if a.paragraph(in.Title, style.Title) {
		a.cursor.Skip(style.Gaps.Title)
	}
	if a.inlineRow(in.Meta) {
		a.cursor.Skip(style.Gaps.Meta)
	}
	if a.inlineRow(in.Contact) {
		a.cursor.Skip(style.Gaps.Meta)
	}
	for i, sec := range sections {
		if i > 0 {
			a.cursor.Skip(style.Gaps.Section)
		}
		a.paragraph(sec.Heading, style.Heading)
		for _, p := range sec.Body {
			a.cursor.Skip(style.Gaps.Paragraph)
			a.paragraph(p, style.Body)
		}
	}
	if strings.TrimSpace(in.Footer) != "" {
		a.cursor.Skip(style.Gaps.Section)
		a.paragraph(in.Footer, style.Footer)
	}

	meta := style.Info
	if t := strings.Join(strings.Fields(in.Title), " "); t != "" {
		meta.Title = t
	}
	meta.Lang = in.Lang
	return &Result{
		Pages:       a.cursor.Finish(),
		Meta:        meta,
		Diagnostics: a.diag,
	}, nil
}

type assembler struct {
	rc     *RenderContext
	cursor *PageCursor
	width  float64
	inline InlineOptions
	diag   Diagnostics
}

// paragraph 折行并逐行绘制；规范化后为空的文本被跳过并返回 false。
func (a *assembler) paragraph(text string, ts TextStyle) bool {
	lines := a.rc.Wrap(text, ts, a.width)
	if len(lines) == 0 {
		a.diag.Skipped++
		return false
	}
	font := a.rc.Font(ts)
	for _, ln := range lines {
		a.cursor.DrawLine(ln, font, ts)
	}
	return true
}

// inlineRow 把字段渲染成一行带链接的文本；整行放不下时退化为不带链接的普通段落。
func (a *assembler) inlineRow(fields []MetaField) bool {
	segs := a.segments(fields)
	if len(segs) == 0 {
		return false
	}
	if SegmentsWidth(segs, a.rc.Metrics) > a.width {
		a.diag.Fallback++
		return a.paragraph(SegmentsText(segs), a.rc.Style.Meta)
	}
	a.cursor.DrawSegments(segs, a.rc.Metrics, a.inline)
	return true
}

func (a *assembler) segments(fields []MetaField) []Segment {
	st := a.rc.Style
	plain := func(text string) Segment {
		return Segment{Text: text, Font: a.rc.Font(st.Meta), Size: st.Meta.Size, Color: st.Meta.Color}
	}
	var segs []Segment
	for _, f := range fields {
		value := strings.Join(strings.Fields(f.Value), " ")
		if value == "" {
			a.diag.Skipped++
			continue
		}
		if len(segs) > 0 {
			segs = append(segs, plain(st.Separator))
		}
		if label := strings.TrimSpace(f.Label); label != "" {
			segs = append(segs, plain(label+" "))
		}
		if !f.Link {
			segs = append(segs, plain(value))
			continue
		}
		segs = append(segs, Segment{
			Text:      value,
			Font:      a.rc.Font(st.Link),
			Size:      st.Link.Size,
			Color:     st.Link.Color,
			URL:       LinkTarget(value),
			Underline: st.Link.Underline,
		})
	}
	return segs
}

// LinkTarget 把元信息中的取值转换为链接地址：已有协议的保持不变，
// 邮箱地址加 mailto:，裸域名加 https://。
func LinkTarget(value string) string {
	v := strings.TrimSpace(value)
	switch {
	case strings.Contains(v, "://"), strings.HasPrefix(v, "mailto:"), strings.HasPrefix(v, "tel:"):
		return v
	case strings.Contains(v, "@"):
		return "mailto:" + v
	default:
		return "https://" + v
	}
}
