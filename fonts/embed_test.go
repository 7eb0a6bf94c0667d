package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	for _, name := range Builtin() {
		data, err := Load("builtin:"+name, "")
		if err != nil {
			t.Fatalf("加载内置字体 %s 失败: %v", name, err)
		}
		info, err := Inspect(data)
		if err != nil {
			t.Fatalf("内置字体 %s 无法解析: %v", name, err)
		}
		if info.Family == "" || info.UnitsPerEm == 0 {
			t.Fatalf("内置字体 %s 信息不完整: %+v", name, info)
		}
	}
	if _, err := Load("built-in:gobold", ""); err != nil {
		t.Fatalf("应接受 built-in: 前缀: %v", err)
	}
}

func TestLoadUnknownBuiltin(t *testing.T) {
	_, err := Load("builtin:comic", "")
	if !errors.Is(err, ErrUnknownBuiltin) {
		t.Fatalf("期望 ErrUnknownBuiltin，实际 %v", err)
	}
}

func TestLoadFromBaseDir(t *testing.T) {
	dir := t.TempDir()
	data, _ := Load("builtin:gomono", "")
	if err := os.WriteFile(filepath.Join(dir, "mono.ttf"), data, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load("mono.ttf", dir)
	if err != nil {
		t.Fatalf("按相对路径读取失败: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("读取内容不一致")
	}
	if _, err := Load("missing.ttf", dir); err == nil {
		t.Fatalf("文件不存在时应返回错误")
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("definitely not a font")); err == nil {
		t.Fatalf("损坏的字体数据应返回错误")
	}
}
