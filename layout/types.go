package layout

// 该文件定义排版输入、排版结果与页面元素，供排版计算、渲染后端与调试 JSON 共用。
// 所有坐标与尺寸均以 pt 为单位，原点位于页面左下角，y 轴向上。

// FontID 是字形度量后端返回的不透明字体句柄，仅在同一次渲染会话内有效。
type FontID int

// Input 是一次文档排版所需的全部内容。
type Input struct {
	Lang    string            `json:"lang"`
	Title   string            `json:"title"`
	Footer  string            `json:"footer"`
	Meta    []MetaField       `json:"meta"`
	Contact []MetaField       `json:"contact,omitempty"`
	Entries map[string]string `json:"-"` // 扁平的内容字典，章节由 ParseSections 从中恢复
}

// MetaField 是元信息行中的一个字段；Link 为 true 时 Value 会渲染为可点击链接。
type MetaField struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
	Link  bool   `json:"link,omitempty"`
}

// Section 是从内容字典恢复出来的一个章节。
type Section struct {
	Heading string   `json:"heading"`
	Body    []string `json:"body"`
}

// Line 表示折行后的一行文本及其实测宽度。
type Line struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// Result 保存排版后的页面、文档信息与诊断计数。
type Result struct {
	Pages       []Page       `json:"pages"`
	Meta        DocumentMeta `json:"meta"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// Diagnostics 记录排版过程中被吸收的非致命情况。
type Diagnostics struct {
	Sections int `json:"sections"`
	Skipped  int `json:"skipped"`  // 内容为空而被省略的片段
	Fallback int `json:"fallback"` // 行内链接行超宽而退化为普通段落的次数
}

// Page 记录页面尺寸、边距与最终可以直接绘制的元素。
type Page struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Margin Margin       `json:"margin"`
	Texts  []TextRun    `json:"texts"`
	Rules  []Rule       `json:"rules,omitempty"`
	Links  []LinkRegion `json:"links,omitempty"`
}

// Margin 以 pt 为单位。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// TextRun 是一段已经定位的单行文本，(X, Y) 为基线起点。
type TextRun struct {
	Content  string  `json:"content"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Font     FontID  `json:"font"`
	FontSize float64 `json:"fontSize"`
	Color    Color   `json:"color"`
}

// Rule 是一条水平线段，目前只用于链接下划线。
type Rule struct {
	X1    float64 `json:"x1"`
	Y     float64 `json:"y"`
	X2    float64 `json:"x2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}

// LinkRegion 是挂在页面上的可点击矩形区域。
type LinkRegion struct {
	XMin float64 `json:"xMin"`
	YMin float64 `json:"yMin"`
	XMax float64 `json:"xMax"`
	YMax float64 `json:"yMax"`
	URL  string  `json:"url"`
}

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Lang     string   `json:"lang"`
	Keywords []string `json:"keywords"`
}
