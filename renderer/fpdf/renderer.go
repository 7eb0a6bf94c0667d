package fpdfrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/legalnotice/fonts"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/renderer"
)

// ErrAlreadyRendered 表示会话已经输出过文档。
var ErrAlreadyRendered = errors.New("渲染会话已经输出过文档")

// Session 基于 codeberg.org/go-pdf/fpdf 嵌入字体、测量文本并输出带链接注释的 PDF。
// fpdf 以 pt 为单位、原点在左上角；排版坐标原点在左下角，输出时按页高翻转 y。
type Session struct {
	pdf      *fpdf.Fpdf
	baseDir  string
	families map[layout.FontID]string
	bySrc    map[string]layout.FontID
	rendered bool
}

var (
	_ renderer.Session = (*Session)(nil)
	_ layout.Metrics   = (*Session)(nil)
)

// New 创建一个新的 fpdf 渲染会话。
func New(opts renderer.Options) *Session {
	pdf := fpdf.NewCustom(&fpdf.InitType{UnitStr: "pt", SizeStr: "A4"})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(opts.Date())
	pdf.SetModificationDate(opts.Date())
	return &Session{
		pdf:      pdf,
		baseDir:  opts.BaseDir,
		families: map[layout.FontID]string{},
		bySrc:    map[string]layout.FontID{},
	}
}

// EmbedFont 读取并嵌入 TTF 字体。同一来源只嵌入一次。
func (s *Session) EmbedFont(src string) (layout.FontID, error) {
	if id, ok := s.bySrc[src]; ok {
		return id, nil
	}
	data, err := fonts.Load(src, s.baseDir)
	if err != nil {
		return 0, err
	}
	if _, err := fonts.Inspect(data); err != nil {
		return 0, err
	}
	id := layout.FontID(len(s.families) + 1)
	family := "f" + strconv.Itoa(int(id))
	s.pdf.AddUTF8FontFromBytes(family, "", data)
	if err := s.pdf.Error(); err != nil {
		return 0, err
	}
	// fpdf 解析失败时只打印日志，不设置错误；以字体描述是否为空判断是否成功。
	if desc := s.pdf.GetFontDesc(family, ""); desc.Ascent == 0 && desc.Descent == 0 {
		return 0, fmt.Errorf("fpdf 无法读取字体 %s", src)
	}
	s.families[id] = family
	s.bySrc[src] = id
	return id, nil
}

// Measure 返回文本在给定字体与字号下的宽度（pt）。
// fpdf 只能按当前字体测量，测量后恢复调用前选中的字体。
func (s *Session) Measure(text string, font layout.FontID, size float64) float64 {
	family, ok := s.families[font]
	if !ok || text == "" {
		return 0
	}
	prevFamily, prevStyle := s.pdf.GetFontFamily(), s.pdf.GetFontStyle()
	prevSize, _ := s.pdf.GetFontSize()
	s.pdf.SetFont(family, "", size)
	w := s.pdf.GetStringWidth(text)
	if prevFamily != "" {
		s.pdf.SetFont(prevFamily, prevStyle, prevSize)
	}
	return w
}

// Render 输出 PDF 字节。每个会话只能调用一次。
func (s *Session) Render(result *layout.Result) ([]byte, error) {
	if s.rendered {
		return nil, ErrAlreadyRendered
	}
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	s.rendered = true

	s.applyMeta(result.Meta)
	for _, page := range result.Pages {
		if err := s.drawPage(page); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := s.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Session) applyMeta(meta layout.DocumentMeta) {
	fields := []struct {
		value string
		set   func(string, bool)
	}{
		{meta.Title, s.pdf.SetTitle},
		{meta.Subject, s.pdf.SetSubject},
		{meta.Author, s.pdf.SetAuthor},
		{meta.Creator, s.pdf.SetCreator},
		{strings.Join(meta.Keywords, ", "), s.pdf.SetKeywords},
	}
	for _, f := range fields {
		if f.value != "" {
			f.set(f.value, true)
		}
	}
	if meta.Lang != "" {
		s.pdf.SetLang(meta.Lang)
	}
}

func (s *Session) drawPage(page layout.Page) error {
	s.pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
	flip := func(y float64) float64 { return page.Height - y }

	for _, run := range page.Texts {
		family, ok := s.families[run.Font]
		if !ok {
			return fmt.Errorf("文本 %q 引用了未嵌入的字体 %d", run.Content, run.Font)
		}
		s.pdf.SetFont(family, "", run.FontSize)
		s.pdf.SetTextColor(run.Color.R, run.Color.G, run.Color.B)
		s.pdf.Text(run.X, flip(run.Y), run.Content)
	}
	for _, rule := range page.Rules {
		s.pdf.SetDrawColor(rule.Color.R, rule.Color.G, rule.Color.B)
		s.pdf.SetLineWidth(rule.Width)
		s.pdf.Line(rule.X1, flip(rule.Y), rule.X2, flip(rule.Y))
	}
	for _, link := range page.Links {
		s.pdf.LinkString(link.XMin, flip(link.YMax), link.XMax-link.XMin, link.YMax-link.YMin, link.URL)
	}
	return s.pdf.Error()
}
