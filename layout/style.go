package layout

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/ByLCY/legalnotice/dsl"
	"github.com/ByLCY/legalnotice/styles"
)

// Style 是由样式表解析出的一次渲染所需的全部版式参数（单位 pt）。
type Style struct {
	Name            string                  `json:"name"`
	PageWidth       float64                 `json:"pageWidth"`
	PageHeight      float64                 `json:"pageHeight"`
	Margin          Margin                  `json:"margin"`
	Fonts           map[string]FontResource `json:"fonts"`
	Colors          map[string]Color        `json:"colors"`
	Title           TextStyle               `json:"title"`
	Meta            TextStyle               `json:"meta"`
	Link            TextStyle               `json:"link"`
	Heading         TextStyle               `json:"heading"`
	Body            TextStyle               `json:"body"`
	Footer          TextStyle               `json:"footer"`
	LineHeight      LineHeightSpec          `json:"lineHeight"`
	Gaps            Gaps                    `json:"gaps"`
	Separator       string                  `json:"separator"`
	LinkPadding     float64                 `json:"linkPadding"`
	UnderlineOffset float64                 `json:"underlineOffset"`
	UnderlineWidth  float64                 `json:"underlineWidth"`
	Info            DocumentMeta            `json:"info"`
}

// FontResource 描述字体资源，src 可以是 builtin:* 形式或 TTF 文件路径。
type FontResource struct {
	Name string `json:"name"`
	Src  string `json:"src"`
}

// TextStyle 是一类文本（标题、正文、链接……）的字体、字号与颜色。
type TextStyle struct {
	Font      string  `json:"font"` // FontResource 名称
	Size      float64 `json:"size"`
	Color     Color   `json:"color"`
	Underline bool    `json:"underline,omitempty"`
}

// Gaps 是各类内容之间的固定纵向间距。
type Gaps struct {
	Title     float64 `json:"title"`
	Meta      float64 `json:"meta"`
	Section   float64 `json:"section"`
	Paragraph float64 `json:"paragraph"`
}

var pagePresets = map[string][2]float64{
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

var defaultInk = Color{R: 30, G: 30, B: 30}

// defaultStyle 只解析一次内置样式表。内置样式表随二进制发布，解析失败属于编程错误。
var defaultStyle = sync.OnceValue(func() Style {
	sheet, err := dsl.ParseString(styles.Legal)
	if err != nil {
		panic(fmt.Sprintf("内置样式表无法解析: %v", err))
	}
	st, err := ResolveStyle(sheet)
	if err != nil {
		panic(fmt.Sprintf("内置样式表无效: %v", err))
	}
	return st
})

// DefaultStyle 返回内置样式的副本，调用方可以随意修改。
func DefaultStyle() Style {
	return defaultStyle().Clone()
}

// Clone 返回不与 s 共享 map 与切片的副本。
func (s Style) Clone() Style {
	s.Fonts = maps.Clone(s.Fonts)
	s.Colors = maps.Clone(s.Colors)
	s.Info.Keywords = slices.Clone(s.Info.Keywords)
	return s
}

// ResolveStyle 将样式表 AST 解析为 Style，并校验文本样式引用的字体均已声明。
func ResolveStyle(sheet *dsl.Sheet) (Style, error) {
	if sheet == nil {
		return Style{}, fmt.Errorf("样式表为空")
	}
	st := Style{
		Name:            sheet.Name,
		Fonts:           map[string]FontResource{},
		Colors:          map[string]Color{},
		LineHeight:      LineHeightSpec{Kind: LineHeightLeading, Factor: defaultLeading},
		Gaps:            Gaps{Title: 8, Meta: 14, Section: 10, Paragraph: 4},
		Separator:       " · ",
		LinkPadding:     2,
		UnderlineOffset: 1.5,
		UnderlineWidth:  0.5,
		Info:            DocumentMeta{Creator: "legalnotice"},
	}

	rawStyles := map[string]textStyleDecl{}
	var page *dsl.PageSection
	for _, section := range sheet.Sections {
		switch {
		case section.Meta != nil && section.Meta.Block != nil:
			collectInfo(section.Meta.Block, &st.Info)
		case section.Resources != nil && section.Resources.Block != nil:
			if err := collectResources(section.Resources.Block, &st, rawStyles); err != nil {
				return Style{}, err
			}
		case section.Page != nil:
			if page == nil {
				page = section.Page
			}
		}
	}
	if page == nil {
		return Style{}, fmt.Errorf("样式表中缺少 page 段落")
	}

	width, height, err := resolvePageSize(page.Spec)
	if err != nil {
		return Style{}, err
	}
	st.PageWidth, st.PageHeight = width, height
	margin, err := resolveMargin(page.Spec.Params)
	if err != nil {
		return Style{}, err
	}
	st.Margin = margin
	if page.Block != nil {
		if err := applyPageSettings(page.Block, &st); err != nil {
			return Style{}, err
		}
	}

	if len(st.Fonts) == 0 {
		st.Fonts["Regular"] = FontResource{Name: "Regular", Src: "builtin:goregular"}
		st.Fonts["Bold"] = FontResource{Name: "Bold", Src: "builtin:gobold"}
	}
	if err := resolveTextStyles(rawStyles, &st); err != nil {
		return Style{}, err
	}
	if st.PageWidth-st.Margin.Left-st.Margin.Right <= 0 || st.PageHeight-st.Margin.Top-st.Margin.Bottom <= 0 {
		return Style{}, fmt.Errorf("页边距超出纸张尺寸")
	}
	return st, nil
}

// ContentWidth 是页面左右边距之间的可用宽度。
func (s Style) ContentWidth() float64 {
	return s.PageWidth - s.Margin.Left - s.Margin.Right
}

type textStyleDecl struct {
	name    string
	extends string
	props   map[string]string
}

func collectInfo(block *dsl.Block, info *DocumentMeta) {
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch strings.ToLower(stmt.Assignment.Key) {
		case "title":
			info.Title = valueToString(stmt.Assignment.Value)
		case "author":
			info.Author = valueToString(stmt.Assignment.Value)
		case "subject":
			info.Subject = valueToString(stmt.Assignment.Value)
		case "creator":
			info.Creator = valueToString(stmt.Assignment.Value)
		case "keywords":
			info.Keywords = valueToStringSlice(stmt.Assignment.Value)
		}
	}
}

func collectResources(block *dsl.Block, st *Style, rawStyles map[string]textStyleDecl) error {
	for _, stmt := range block.Statements {
		cmd := stmt.Command
		if cmd == nil || len(cmd.Args) == 0 {
			continue
		}
		switch cmd.Name {
		case "font":
			font := FontResource{Name: cmd.Args[0].Value}
			if cmd.Block != nil {
				for _, s := range cmd.Block.Statements {
					if s.Assignment != nil && s.Assignment.Key == "src" {
						font.Src = valueToString(s.Assignment.Value)
					}
				}
			}
			if font.Src == "" {
				return fmt.Errorf("字体 %s 缺少 src", font.Name)
			}
			st.Fonts[font.Name] = font
		case "color":
			last := cmd.Args[len(cmd.Args)-1]
			if last.Type != "Color" {
				return fmt.Errorf("颜色 %s 的取值应为 #RGB、#RRGGBB 或 #RRGGBBAA，得到 %q", cmd.Args[0].Value, last.Raw)
			}
			c, err := parseColor(last.Value)
			if err != nil {
				return fmt.Errorf("颜色 %s: %w", cmd.Args[0].Value, err)
			}
			st.Colors[cmd.Args[0].Value] = c
		case "style":
			decl := textStyleDecl{name: cmd.Args[0].Value, props: map[string]string{}}
			if len(cmd.Args) >= 3 && strings.EqualFold(cmd.Args[1].Value, "extends") {
				decl.extends = cmd.Args[2].Value
			}
			if cmd.Block != nil {
				for _, s := range cmd.Block.Statements {
					if s.Assignment == nil {
						continue
					}
					if v := valueToString(s.Assignment.Value); v != "" {
						decl.props[s.Assignment.Key] = v
					}
				}
			}
			rawStyles[decl.name] = decl
		}
	}
	return nil
}

// resolveTextStyles 展开 extends 继承链，并把六类文本样式落到 Style 上。
func resolveTextStyles(raw map[string]textStyleDecl, st *Style) error {
	resolved := map[string]map[string]string{}
	visiting := map[string]bool{}

	var dfs func(name string) (map[string]string, error)
	dfs = func(name string) (map[string]string, error) {
		if props, ok := resolved[name]; ok {
			return props, nil
		}
		decl, ok := raw[name]
		if !ok {
			return nil, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true
		props := map[string]string{}
		if decl.extends != "" {
			parent, err := dfs(decl.extends)
			if err != nil {
				return nil, err
			}
			for k, v := range parent {
				props[k] = v
			}
		}
		for k, v := range decl.props {
			props[k] = v
		}
		resolved[name] = props
		delete(visiting, name)
		return props, nil
	}

	targets := []struct {
		name     string
		dst      *TextStyle
		fallback TextStyle
	}{
		{"title", &st.Title, TextStyle{Font: "Bold", Size: 18, Color: defaultInk}},
		{"meta", &st.Meta, TextStyle{Font: "Regular", Size: 9, Color: defaultInk}},
		{"link", &st.Link, TextStyle{Font: "Regular", Size: 9, Color: Color{R: 26, G: 79, B: 214}, Underline: true}},
		{"heading", &st.Heading, TextStyle{Font: "Bold", Size: 12, Color: defaultInk}},
		{"body", &st.Body, TextStyle{Font: "Regular", Size: 10, Color: defaultInk}},
		{"footer", &st.Footer, TextStyle{Font: "Bold", Size: 9, Color: defaultInk}},
	}
	for _, tgt := range targets {
		ts := tgt.fallback
		if _, declared := raw[tgt.name]; declared {
			props, err := dfs(tgt.name)
			if err != nil {
				return err
			}
			if err := applyTextProps(&ts, props, st.Colors); err != nil {
				return fmt.Errorf("style %s: %w", tgt.name, err)
			}
		}
		if _, ok := st.Fonts[ts.Font]; !ok {
			return fmt.Errorf("style %s 引用了未声明的字体 %s", tgt.name, ts.Font)
		}
		*tgt.dst = ts
	}
	return nil
}

func applyTextProps(ts *TextStyle, props map[string]string, colors map[string]Color) error {
	for k, v := range props {
		switch k {
		case "font":
			ts.Font = v
		case "size":
			l, err := ParseLength(v)
			if err != nil {
				return err
			}
			if l.ToPT() <= 0 {
				return fmt.Errorf("字号必须为正数：%s", v)
			}
			ts.Size = l.ToPT()
		case "color":
			c, err := resolveColor(v, colors)
			if err != nil {
				return err
			}
			ts.Color = c
		case "underline":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("underline 取值无效：%s", v)
			}
			ts.Underline = b
		}
	}
	return nil
}

// applyPageSettings 处理 page 块内的排版命令：行高策略、间距、分隔符与链接参数。
func applyPageSettings(block *dsl.Block, st *Style) error {
	for _, stmt := range block.Statements {
		cmd := stmt.Command
		if cmd == nil {
			continue
		}
		args := make([]string, 0, len(cmd.Args))
		for _, a := range cmd.Args {
			args = append(args, a.Value)
		}
		switch cmd.Name {
		case "line-height":
			spec, err := parseLineHeight(args)
			if err != nil {
				return err
			}
			st.LineHeight = spec
		case "gap":
			if len(args) != 2 {
				return fmt.Errorf("gap 需要名称与长度两个参数")
			}
			v, err := parsePositiveLength(args[1])
			if err != nil {
				return err
			}
			switch args[0] {
			case "title":
				st.Gaps.Title = v
			case "meta":
				st.Gaps.Meta = v
			case "section":
				st.Gaps.Section = v
			case "paragraph":
				st.Gaps.Paragraph = v
			default:
				return fmt.Errorf("未知的 gap 类型：%s", args[0])
			}
		case "separator":
			if len(args) != 1 {
				return fmt.Errorf("separator 需要一个字符串参数")
			}
			st.Separator = args[0]
		case "link-padding", "underline-offset", "underline-width":
			if len(args) != 1 {
				return fmt.Errorf("%s 需要一个长度参数", cmd.Name)
			}
			v, err := parsePositiveLength(args[0])
			if err != nil {
				return err
			}
			switch cmd.Name {
			case "link-padding":
				st.LinkPadding = v
			case "underline-offset":
				st.UnderlineOffset = v
			default:
				st.UnderlineWidth = v
			}
		}
	}
	return nil
}

func parseLineHeight(args []string) (LineHeightSpec, error) {
	if len(args) != 2 {
		return LineHeightSpec{}, fmt.Errorf("line-height 需要策略与取值两个参数")
	}
	switch args[0] {
	case "leading":
		f, err := strconv.ParseFloat(strings.TrimSuffix(args[1], "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, fmt.Errorf("行距倍数无效：%s", args[1])
		}
		return LineHeightSpec{Kind: LineHeightLeading, Factor: f}, nil
	case "gap":
		l, err := ParseLength(args[1])
		if err != nil {
			return LineHeightSpec{}, err
		}
		if l.Value < 0 {
			return LineHeightSpec{}, fmt.Errorf("行间距不能为负：%s", args[1])
		}
		return LineHeightSpec{Kind: LineHeightFixedGap, Gap: l}, nil
	default:
		return LineHeightSpec{}, fmt.Errorf("未知的行高策略：%s", args[0])
	}
}

func parsePositiveLength(v string) (float64, error) {
	l, err := ParseLength(v)
	if err != nil {
		return 0, err
	}
	if l.Value < 0 {
		return 0, fmt.Errorf("长度不能为负：%s", v)
	}
	return l.ToPT(), nil
}

func resolvePageSize(spec dsl.PageSpec) (float64, float64, error) {
	base, ok := pagePresets[strings.ToUpper(spec.Size)]
	if !ok {
		return 0, 0, fmt.Errorf("暂不支持的纸张尺寸：%s", spec.Size)
	}
	width, height := base[0], base[1]
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			width, height = height, width
		}
	}
	return width, height, nil
}

// resolveMargin 按 CSS 语义解析 margin 之后的 1~4 个长度：
// 1 个值四边相同；2 个值为上下、左右；3 个值为上、左右、下；4 个值为上、右、下、左。
func resolveMargin(params []*dsl.Lexeme) (Margin, error) {
	margin := Margin{Top: 56, Right: 56, Bottom: 56, Left: 56}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			l, err := ParseLength(params[j].Value)
			if err != nil {
				break
			}
			vals = append(vals, l.ToPT())
		}
		switch len(vals) {
		case 0:
			return Margin{}, fmt.Errorf("margin 后缺少长度")
		case 1:
			v := vals[0]
			margin = Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		default:
			margin = Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin, nil
}

func resolveColor(value string, colors map[string]Color) (Color, error) {
	if c, ok := colors[value]; ok {
		return c, nil
	}
	if strings.HasPrefix(value, "#") {
		return parseColor(value)
	}
	return Color{}, fmt.Errorf("颜色 %s 未定义", value)
}

func parseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	hex := func(s string) (int, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		return int(v), err
	}
	var parts [3]string
	switch len(value) {
	case 3:
		for i := range parts {
			parts[i] = strings.Repeat(string(value[i]), 2)
		}
	case 6, 8:
		parts = [3]string{value[0:2], value[2:4], value[4:6]}
	default:
		return Color{}, fmt.Errorf("颜色值 #%s 无法解析", value)
	}
	var rgb [3]int
	for i, p := range parts {
		v, err := hex(p)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 #%s 无法解析", value)
		}
		rgb[i] = v
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array == nil {
		if s := valueToString(val); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(val.Array.Values))
	for _, item := range val.Array.Values {
		if s := valueToString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
