package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ByLCY/legalnotice/config"
	"github.com/ByLCY/legalnotice/content"
	"github.com/ByLCY/legalnotice/layout"
	"github.com/ByLCY/legalnotice/notice"
)

type fakeGenerator struct {
	err   error
	langs []string
}

func (f *fakeGenerator) Generate(lang string) (*notice.Output, error) {
	f.langs = append(f.langs, lang)
	if f.err != nil {
		return nil, f.err
	}
	loc := lang
	if loc == "" {
		loc = "en"
	}
	return &notice.Output{
		Lang:        loc,
		FileName:    notice.FileName(loc),
		ContentType: notice.ContentType,
		Digest:      "0123456789abcdef",
		Bytes:       []byte("%PDF-1.4 fake"),
		Layout:      &layout.Result{Pages: []layout.Page{{}}},
	}, nil
}

func newTestServer(gen Generator) (*Server, *bytes.Buffer) {
	var logs bytes.Buffer
	return New(gen, slog.New(slog.NewTextHandler(&logs, nil))), &logs
}

func TestServeNotice(t *testing.T) {
	gen := &fakeGenerator{}
	s, logs := newTestServer(gen)
	req := httptest.NewRequest(http.MethodGet, "/legal-notice?lang=fr", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	want := map[string]string{
		"Content-Type":        "application/pdf",
		"Content-Disposition": `attachment; filename="legal-notice-fr.pdf"`,
		"Cache-Control":       "no-store",
		"ETag":                `"0123456789abcdef"`,
		"Content-Language":    "fr",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Fatalf("header %s = %q, want %q", k, got, v)
		}
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "%PDF-1.4 fake" {
		t.Fatalf("body = %q", body)
	}
	if !strings.Contains(logs.String(), "legal notice served") {
		t.Fatalf("请求应记录日志: %s", logs.String())
	}
}

func TestServeNoticeAcceptLanguage(t *testing.T) {
	gen := &fakeGenerator{}
	s, _ := newTestServer(gen)
	req := httptest.NewRequest(http.MethodGet, "/legal-notice", nil)
	req.Header.Set("Accept-Language", "de-CH;q=0.9, lb;q=1.0")
	s.Handler().ServeHTTP(httptest.NewRecorder(), req)
	if len(gen.langs) != 1 || gen.langs[0] != "lb" {
		t.Fatalf("应使用权重最高的语言: %v", gen.langs)
	}
}

func TestServeNoticeIgnoresIfNoneMatch(t *testing.T) {
	s, _ := newTestServer(&fakeGenerator{})
	req := httptest.NewRequest(http.MethodGet, "/legal-notice?lang=en", nil)
	req.Header.Set("If-None-Match", `"0123456789abcdef"`)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "%PDF-1.4 fake" {
		t.Fatalf("no-store 响应不应返回 304: status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestServeNoticeErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"fatal font", &layout.FatalResourceError{Font: "builtin:gobold", Err: errors.New("boom")}, http.StatusInternalServerError},
		{"bad locale", fmt.Errorf("%w: !!", content.ErrUnsupportedLocale), http.StatusBadRequest},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(&fakeGenerator{err: tt.err})
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/legal-notice?lang=xx", nil))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if strings.Contains(rec.Body.String(), "boom") || strings.Contains(rec.Body.String(), "disk") {
				t.Fatalf("错误详情不应返回给客户端: %q", rec.Body.String())
			}
		})
	}
}

func TestServeNoticeMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(&fakeGenerator{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/legal-notice", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestServeRealGenerator(t *testing.T) {
	gen, err := notice.FromConfig(config.Default())
	if err != nil {
		t.Fatalf("FromConfig 失败: %v", err)
	}
	s, _ := newTestServer(gen)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/legal-notice?lang=fr-LU", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="legal-notice-fr.pdf"` {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("响应不是 PDF")
	}
}
