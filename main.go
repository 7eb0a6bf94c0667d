package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/legalnotice/config"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/notice"
	"github.com/ByLCY/legalnotice/server"
)

type options struct {
	config  string
	lang    string
	all     bool
	out     string
	debug   bool
	backend string
	style   string
	content string
	serve   bool
	addr    string
	verbose bool
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("解析参数失败: %v", err)
	}
	if opts.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(log.Printf))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("读取配置失败: %v", err)
	}
	gen, err := notice.FromConfig(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	if opts.serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		if err := server.ListenAndServe(ctx, cfg.Server.Addr, server.New(gen, logger).Handler(), logger); err != nil {
			log.Fatalf("HTTP 服务异常退出: %v", err)
		}
		return
	}

	locales := []string{opts.lang}
	if opts.all {
		locales = gen.Catalog.Locales()
	}
	written, err := run(gen, locales, cfg.Output.Dir, cfg.Output.Debug)
	if err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	for _, path := range written {
		fmt.Printf("已生成 PDF：%s\n", path)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("legalnotice", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.config, "config", "c", "", "YAML 配置文件路径")
	fs.StringVarP(&opts.lang, "lang", "l", "", "输出语言，例如 fr 或 fr-LU；为空时使用默认语言")
	fs.BoolVar(&opts.all, "all", false, "为全部语言生成 PDF")
	fs.StringVarP(&opts.out, "out", "o", "", "PDF 输出目录")
	fs.BoolVar(&opts.debug, "debug", false, "同时输出布局调试 JSON")
	fs.StringVar(&opts.backend, "backend", "", "渲染后端：fpdf 或 canvas")
	fs.StringVar(&opts.style, "style", "", "样式表文件路径")
	fs.StringVar(&opts.content, "content", "", "内容字典目录")
	fs.BoolVar(&opts.serve, "serve", false, "以 HTTP 服务方式运行")
	fs.StringVar(&opts.addr, "addr", "", "HTTP 监听地址")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "输出运行信息")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("未知参数: %s", strings.Join(fs.Args(), " "))
	}
	if opts.all && opts.lang != "" {
		return options{}, fmt.Errorf("--all 与 --lang 不能同时使用")
	}
	return opts, nil
}

// loadConfig 读取配置文件，再用命令行参数覆盖。
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.config != "" {
		loaded, err := config.Load(opts.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.out != "" {
		cfg.Output.Dir = opts.out
	}
	if opts.debug {
		cfg.Output.Debug = true
	}
	if opts.backend != "" {
		cfg.Render.Backend = opts.backend
	}
	if opts.style != "" {
		cfg.Style.Path = opts.style
	}
	if opts.content != "" {
		cfg.Content.Dir = opts.content
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run 并发生成各语言的 PDF，返回按语言顺序排列的输出路径。
func run(gen *notice.Generator, locales []string, outDir string, debug bool) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	written := make([]string, len(locales))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, lang := range locales {
		eg.Go(func() error {
			out, err := gen.Generate(lang)
			if err != nil {
				return fmt.Errorf("%s: %w", lang, err)
			}
			path := filepath.Join(outDir, out.FileName)
			if err := os.WriteFile(path, out.Bytes, 0o644); err != nil {
				return fmt.Errorf("写入 PDF 文件失败: %w", err)
			}
			if debug {
				if err := writeDebug(out.Layout, strings.TrimSuffix(path, ".pdf")+".json"); err != nil {
					return err
				}
			}
			written[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
