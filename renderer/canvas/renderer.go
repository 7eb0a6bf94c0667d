package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/legalnotice/fonts"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/renderer"
)

// Session draws layout results via github.com/tdewolff/canvas.
// canvas 以 mm 为单位、字号以 pt 为单位；排版结果为 pt，在边界处换算。
// 该后端用于预览：链接只绘制颜色与下划线，不写入可点击的注释。
type Session struct {
	baseDir string

	fontMu   sync.Mutex
	families map[layout.FontID]*canvas.FontFamily
	bySrc    map[string]layout.FontID
	faces    map[faceKey]*canvas.FontFace
	rendered bool
}

var (
	_ renderer.Session = (*Session)(nil)
	_ layout.Metrics   = (*Session)(nil)
)

type faceKey struct {
	font  layout.FontID
	size  float64
	color layout.Color
}

// New creates a canvas-based session rooted at opts.BaseDir for resolving font paths.
func New(opts renderer.Options) *Session {
	return &Session{
		baseDir:  opts.BaseDir,
		families: map[layout.FontID]*canvas.FontFamily{},
		bySrc:    map[string]layout.FontID{},
		faces:    map[faceKey]*canvas.FontFace{},
	}
}

// EmbedFont 加载字体到一个独立的 canvas 字体族中。
func (s *Session) EmbedFont(src string) (layout.FontID, error) {
	s.fontMu.Lock()
	defer s.fontMu.Unlock()

	if id, ok := s.bySrc[src]; ok {
		return id, nil
	}
	data, err := fonts.Load(src, s.baseDir)
	if err != nil {
		return 0, err
	}
	info, err := fonts.Inspect(data)
	if err != nil {
		return 0, err
	}
	id := layout.FontID(len(s.families) + 1)
	name := info.Family
	if name == "" {
		name = fmt.Sprintf("font-%d", id)
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return 0, fmt.Errorf("加载字体 %s 失败: %w", src, err)
	}
	s.families[id] = family
	s.bySrc[src] = id
	return id, nil
}

// Measure 返回文本宽度（pt）。
func (s *Session) Measure(text string, font layout.FontID, size float64) float64 {
	if text == "" {
		return 0
	}
	face := s.fontFace(font, size, layout.Color{})
	if face == nil {
		return 0
	}
	return toPt(face.TextWidth(text))
}

// Render renders the result into a PDF byte slice.
func (s *Session) Render(result *layout.Result) ([]byte, error) {
	if s.rendered {
		return nil, fmt.Errorf("渲染会话已经输出过文档")
	}
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	s.rendered = true

	var buf bytes.Buffer
	first := result.Pages[0]
	writer := pdf.New(&buf, toMm(first.Width), toMm(first.Height), nil)
	applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(toMm(page.Width), toMm(page.Height))
		}
		c := canvas.New(toMm(page.Width), toMm(page.Height))
		ctx := canvas.NewContext(c)
		// 默认坐标系原点在左下角、y 轴向上，与排版结果一致
		if err := s.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (s *Session) drawPage(ctx *canvas.Context, page layout.Page) error {
	for _, run := range page.Texts {
		face := s.fontFace(run.Font, run.FontSize, run.Color)
		if face == nil {
			return fmt.Errorf("文本 %q 引用了未嵌入的字体 %d", run.Content, run.Font)
		}
		ctx.DrawText(toMm(run.X), toMm(run.Y), canvas.NewTextLine(face, run.Content, canvas.Left))
	}
	drawRules(ctx, page.Rules)
	return nil
}

// drawRules 绘制下划线等水平线段
func drawRules(ctx *canvas.Context, rules []layout.Rule) {
	for _, rl := range rules {
		if rl.Width <= 0 {
			continue
		}
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(colorFromLayout(rl.Color))
		ctx.SetStrokeWidth(toMm(rl.Width))
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(toMm(rl.X2-rl.X1), 0)
		ctx.DrawPath(toMm(rl.X1), toMm(rl.Y), p)
	}
}

func (s *Session) fontFace(font layout.FontID, size float64, col layout.Color) *canvas.FontFace {
	s.fontMu.Lock()
	defer s.fontMu.Unlock()

	key := faceKey{font: font, size: size, color: col}
	if face, ok := s.faces[key]; ok {
		return face
	}
	family, ok := s.families[font]
	if !ok {
		return nil
	}
	face := family.Face(size, colorFromLayout(col), canvas.FontRegular, canvas.FontNormal)
	s.faces[key] = face
	return face
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
