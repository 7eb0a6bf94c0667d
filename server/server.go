package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"github.com/ByLCY/legalnotice/content"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/notice"
)

// Generator 生成某一语言的法律声明 PDF。
type Generator interface {
	Generate(lang string) (*notice.Output, error)
}

// Server 通过 HTTP 提供法律声明下载。
type Server struct {
	gen    Generator
	logger *slog.Logger
}

// New creates a Server. A nil logger falls back to slog.Default().
func New(gen Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{gen: gen, logger: logger}
}

// Handler 返回路由：GET /legal-notice?lang=fr 与 GET /healthz。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /legal-notice", s.handleNotice)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lang := requestedLang(r)
	out, err := s.gen.Generate(lang)
	if err != nil {
		s.fail(w, r, lang, err)
		return
	}

	h := w.Header()
	// ETag 只标识内容；no-store 响应不处理条件请求。
	h.Set("ETag", strconv.Quote(out.Digest))
	h.Set("Cache-Control", "no-store")
	h.Set("Content-Language", out.Lang)
	h.Set("Content-Type", out.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	h.Set("Content-Length", strconv.Itoa(len(out.Bytes)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		if _, err := w.Write(out.Bytes); err != nil {
			s.logger.Warn("write response", "lang", out.Lang, "error", err)
			return
		}
	}
	s.logger.Info("legal notice served",
		"lang", out.Lang,
		"bytes", len(out.Bytes),
		"pages", len(out.Layout.Pages),
		"skipped", out.Layout.Diagnostics.Skipped,
		"fallback", out.Layout.Diagnostics.Fallback,
		"duration", time.Since(start),
	)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, lang string, err error) {
	var fatal *layout.FatalResourceError
	switch {
	case errors.Is(err, content.ErrUnsupportedLocale):
		s.logger.Warn("unsupported locale", "lang", lang, "error", err)
		http.Error(w, "unsupported language", http.StatusBadRequest)
	case errors.As(err, &fatal):
		s.logger.Error("font embedding failed", "lang", lang, "font", fatal.Font, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		s.logger.Error("legal notice generation failed", "lang", lang, "path", r.URL.Path, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// requestedLang 优先使用 ?lang=，其次取 Accept-Language 中权重最高的语言。
func requestedLang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

// ListenAndServe 启动 HTTP 服务，ctx 取消时优雅关闭。
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
