package layout

// BuildOptions 配置排版阶段所需的依赖：字形度量后端与样式表。
type BuildOptions struct {
	Metrics Metrics
	Style   *Style // 为空时使用 DefaultStyle()
}

// Metrics 是字形度量后端，负责嵌入字体并测量文本宽度。
// Measure 必须是纯函数：相同的 text/font/size 永远返回相同的宽度（pt），且不改变后端可见的状态。
type Metrics interface {
	EmbedFont(src string) (FontID, error)
	Measure(text string, font FontID, size float64) float64
}
