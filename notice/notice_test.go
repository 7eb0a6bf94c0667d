package notice

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/legalnotice/config"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/styles"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := FromConfig(config.Default())
	if err != nil {
		t.Fatalf("FromConfig 失败: %v", err)
	}
	return g
}

func TestGenerate(t *testing.T) {
	g := newGenerator(t)
	out, err := g.Generate("fr-LU")
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}
	if out.Lang != "fr" || out.FileName != "legal-notice-fr.pdf" || out.ContentType != "application/pdf" {
		t.Fatalf("输出信息不符: %+v", out)
	}
	if len(out.Digest) != 16 {
		t.Fatalf("摘要长度应为 16: %q", out.Digest)
	}
	if !bytes.HasPrefix(out.Bytes, []byte("%PDF-")) {
		t.Fatalf("输出不是 PDF")
	}
	if out.Layout.Diagnostics.Sections != 10 {
		t.Fatalf("期望 10 个章节，实际 %d", out.Layout.Diagnostics.Sections)
	}
	if !bytes.Contains(out.Bytes, []byte("/URI (https://papyrus.lu)")) || !bytes.Contains(out.Bytes, []byte("/URI (mailto:legal@papyrus.lu)")) {
		t.Fatalf("PDF 应包含站点与邮箱链接")
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	g := newGenerator(t)
	first, err := g.Generate("de")
	if err != nil {
		t.Fatal(err)
	}
	second, err := g.Generate("de")
	if err != nil {
		t.Fatal(err)
	}
	if first.Digest != second.Digest || !bytes.Equal(first.Bytes, second.Bytes) {
		t.Fatalf("相同输入应得到逐字节相同的 PDF")
	}
}

func TestGenerateConcurrently(t *testing.T) {
	g := newGenerator(t)
	want := map[string]string{}
	for _, loc := range g.Catalog.Locales() {
		out, err := g.Generate(loc)
		if err != nil {
			t.Fatal(err)
		}
		want[loc] = out.Digest
	}

	var (
		mu  sync.Mutex
		got = map[string]string{}
		eg  errgroup.Group
	)
	for i := 0; i < 3; i++ {
		for _, loc := range g.Catalog.Locales() {
			eg.Go(func() error {
				out, err := g.Generate(loc)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				if prev, ok := got[loc]; ok && prev != out.Digest {
					return errors.New("并发生成结果不一致: " + loc)
				}
				got[loc] = out.Digest
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}
	for loc, digest := range want {
		if got[loc] != digest {
			t.Fatalf("%s: 并发生成与顺序生成的结果不同", loc)
		}
	}
}

func TestGenerateFatalFont(t *testing.T) {
	g := newGenerator(t)
	g.Style.Fonts = map[string]layout.FontResource{
		"Regular": {Name: "Regular", Src: "builtin:goregular"},
		"Bold":    {Name: "Bold", Src: filepath.Join(t.TempDir(), "missing.ttf")},
	}
	out, err := g.Generate("en")
	if out != nil {
		t.Fatalf("字体缺失时不应返回输出")
	}
	if !errors.Is(err, layout.ErrFontEmbed) {
		t.Fatalf("期望 ErrFontEmbed，实际 %v", err)
	}
}

func TestGenerateWithCanvasBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Backend = config.BackendCanvas
	g, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	out, err := g.Generate("lb")
	if err != nil {
		t.Fatalf("canvas 后端生成失败: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes, []byte("%PDF-")) {
		t.Fatalf("输出不是 PDF")
	}
}

func TestBackendAndStyle(t *testing.T) {
	if _, err := Backend("latex"); !errors.Is(err, config.ErrInvalidBackend) {
		t.Fatalf("未知后端应返回 ErrInvalidBackend: %v", err)
	}
	path := filepath.Join(t.TempDir(), "legal.papyrus")
	if err := os.WriteFile(path, []byte(styles.Legal), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("读取样式表失败: %v", err)
	}
	if st.PageWidth != layout.DefaultStyle().PageWidth {
		t.Fatalf("文件样式应与内置样式一致")
	}
	if _, err := LoadStyle(filepath.Join(t.TempDir(), "none.papyrus")); err == nil {
		t.Fatalf("样式文件不存在时应返回错误")
	}
	if FileName("lb") != "legal-notice-lb.pdf" {
		t.Fatalf("文件名不符: %s", FileName("lb"))
	}
}

func TestFromConfigEmbeddedLocales(t *testing.T) {
	cfg, err := config.Parse([]byte("content:\n  locales: [fr, en]\n  defaultLocale: fr\n"))
	if err != nil {
		t.Fatalf("解析配置失败: %v", err)
	}
	g, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("FromConfig 失败: %v", err)
	}
	if g.Catalog.Default() != "fr" {
		t.Fatalf("默认语言应来自配置: %s", g.Catalog.Default())
	}
	if got := strings.Join(g.Catalog.Locales(), ","); got != "fr,en" {
		t.Fatalf("可用语言应来自配置: %s", got)
	}
	out, err := g.Generate("de")
	if err != nil {
		t.Fatalf("Generate 失败: %v", err)
	}
	if out.Lang != "fr" {
		t.Fatalf("未配置的语言应回退到配置的默认语言，实际 %s", out.Lang)
	}
}
