package notice

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/ByLCY/legalnotice/config"
	"github.com/ByLCY/legalnotice/content"
	"github.com/ByLCY/legalnotice/dsl"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/renderer"
	canvasrenderer "github.com/ByLCY/legalnotice/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/legalnotice/renderer/fpdf"
)

// ContentType 是生成文档的 MIME 类型。
const ContentType = "application/pdf"

// SessionFactory 为每次生成创建一个新的渲染会话。
type SessionFactory func(opts renderer.Options) (renderer.Session, error)

// Generator 把某一语言的内容字典排版并渲染为 PDF。它本身不持有可变状态，可以并发使用。
type Generator struct {
	Catalog    *content.Catalog
	Style      layout.Style
	NewSession SessionFactory
	Options    renderer.Options
}

// Output 是一次生成的结果。
type Output struct {
	Lang        string
	FileName    string
	ContentType string
	Digest      string // sha256 前 16 位十六进制，可用作 ETag
	Bytes       []byte
	Layout      *layout.Result
}

// FileName 返回某一语言建议使用的文件名。
func FileName(locale string) string {
	return fmt.Sprintf("legal-notice-%s.pdf", locale)
}

// Backend 按名称返回渲染会话工厂。
func Backend(name string) (SessionFactory, error) {
	switch name {
	case "", config.BackendFPDF:
		return func(opts renderer.Options) (renderer.Session, error) { return fpdfrenderer.New(opts), nil }, nil
	case config.BackendCanvas:
		return func(opts renderer.Options) (renderer.Session, error) { return canvasrenderer.New(opts), nil }, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, name)
	}
}

// LoadStyle 读取样式表文件；path 为空时使用内置样式。
func LoadStyle(path string) (layout.Style, error) {
	if path == "" {
		return layout.DefaultStyle(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return layout.Style{}, fmt.Errorf("读取样式表失败: %w", err)
	}
	defer file.Close()
	sheet, err := dsl.Parse(file)
	if err != nil {
		return layout.Style{}, fmt.Errorf("解析样式表失败: %w", err)
	}
	return layout.ResolveStyle(sheet)
}

// FromConfig 按配置组装 Generator。
func FromConfig(cfg *config.Config) (*Generator, error) {
	var (
		catalog *content.Catalog
		err     error
	)
	if cfg.Content.Dir == "" {
		catalog, err = content.EmbeddedWith(cfg.Content.Locales, cfg.Content.DefaultLocale)
	} else {
		catalog, err = content.LoadDir(cfg.Content.Dir, cfg.Content.Locales, cfg.Content.DefaultLocale)
	}
	if err != nil {
		return nil, fmt.Errorf("加载内容字典失败: %w", err)
	}
	style, err := LoadStyle(cfg.Style.Path)
	if err != nil {
		return nil, err
	}
	factory, err := Backend(cfg.Render.Backend)
	if err != nil {
		return nil, err
	}
	created, err := cfg.CreationTime()
	if err != nil {
		return nil, err
	}
	return &Generator{
		Catalog:    catalog,
		Style:      style,
		NewSession: factory,
		Options:    renderer.Options{BaseDir: cfg.Render.FontDir, CreationDate: created},
	}, nil
}

// Generate 为请求的语言生成 PDF。每次调用使用独立的渲染会话；
// 字体嵌入失败时返回 *layout.FatalResourceError，且不返回任何字节。
func (g *Generator) Generate(lang string) (*Output, error) {
	in, err := g.Catalog.Input(lang)
	if err != nil {
		return nil, err
	}
	newSession := g.NewSession
	if newSession == nil {
		newSession, _ = Backend(config.BackendFPDF)
	}
	session, err := newSession(g.Options)
	if err != nil {
		return nil, fmt.Errorf("创建渲染会话失败: %w", err)
	}

	opts := layout.BuildOptions{Metrics: session}
	if g.Style.PageWidth > 0 {
		style := g.Style
		opts.Style = &style
	}
	res, err := layout.Build(in, opts)
	if err != nil {
		return nil, err
	}
	data, err := session.Render(res)
	if err != nil {
		return nil, fmt.Errorf("渲染 %s 失败: %w", in.Lang, err)
	}
	sum := sha256.Sum256(data)
	return &Output{
		Lang:        in.Lang,
		FileName:    FileName(in.Lang),
		ContentType: ContentType,
		Digest:      hex.EncodeToString(sum[:])[:16],
		Bytes:       data,
		Layout:      res,
	}, nil
}
