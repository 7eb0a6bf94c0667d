package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// ErrUnknownBuiltin 表示 builtin: 前缀后的字体名不存在。
var ErrUnknownBuiltin = errors.New("未知的内置字体")

var builtin = map[string][]byte{
	"goregular":    goregular.TTF,
	"gobold":       gobold.TTF,
	"goitalic":     goitalic.TTF,
	"gobolditalic": gobolditalic.TTF,
	"gomono":       gomono.TTF,
}

// Builtin 返回全部内置字体名（已排序）。
func Builtin() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load 返回字体的字节数据。src 可写为 "builtin:goregular"（也接受 "built-in:"），
// 否则视为 TTF 文件路径；相对路径基于 baseDir 解析。
func Load(src, baseDir string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("字体来源为空")
	}
	if name, ok := builtinName(src); ok {
		data, found := builtin[strings.ToLower(name)]
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownBuiltin, name)
		}
		return data, nil
	}
	path := src
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func builtinName(src string) (string, bool) {
	for _, prefix := range []string{"builtin:", "built-in:"} {
		if strings.HasPrefix(src, prefix) {
			return strings.TrimPrefix(src, prefix), true
		}
	}
	return "", false
}

// Info 是从字体文件中读出的基本信息。
type Info struct {
	Family     string
	UnitsPerEm int
	Glyphs     int
}

// Inspect 解析 TrueType/OpenType 数据。渲染后端在嵌入前用它拒绝损坏的字体文件。
func Inspect(data []byte) (Info, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return Info{}, fmt.Errorf("字体文件无法解析: %w", err)
	}
	info := Info{UnitsPerEm: int(f.UnitsPerEm()), Glyphs: f.NumGlyphs()}
	if info.Glyphs == 0 {
		return Info{}, fmt.Errorf("字体文件不包含任何字形")
	}
	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		info.Family = name
	}
	return info, nil
}
