package layout

// RenderContext 是一次渲染的只读样式状态：度量后端、样式表与已嵌入的字体句柄。
// 它在每次渲染开始时创建，显式传给各个排版步骤，不在多次渲染之间共享。
type RenderContext struct {
	Metrics Metrics
	Style   Style
	fonts   map[string]FontID
}

// NewRenderContext 嵌入样式表声明的全部字体。任一字体嵌入失败都返回 *FatalResourceError。
func NewRenderContext(m Metrics, st Style) (*RenderContext, error) {
	if m == nil {
		return nil, ErrNoMetrics
	}
	rc := &RenderContext{Metrics: m, Style: st, fonts: make(map[string]FontID, len(st.Fonts))}
	for _, name := range sortedFontNames(st.Fonts) {
		res := st.Fonts[name]
		id, err := m.EmbedFont(res.Src)
		if err != nil {
			return nil, &FatalResourceError{Font: res.Src, Err: err}
		}
		rc.fonts[name] = id
	}
	return rc, nil
}

// Font 返回文本样式对应的字体句柄。
func (rc *RenderContext) Font(ts TextStyle) FontID {
	return rc.fonts[ts.Font]
}

// Measure 以给定文本样式测量文本宽度。
func (rc *RenderContext) Measure(text string, ts TextStyle) float64 {
	return rc.Metrics.Measure(text, rc.Font(ts), ts.Size)
}

// Wrap 以给定文本样式在可用宽度内折行。
func (rc *RenderContext) Wrap(text string, ts TextStyle, maxWidth float64) []Line {
	return Wrap(text, rc.Font(ts), ts.Size, maxWidth, rc.Metrics)
}

// sortedFontNames 固定嵌入顺序，使同一输入得到相同的字体句柄。
func sortedFontNames(fonts map[string]FontResource) []string {
	names := make([]string, 0, len(fonts))
	for name := range fonts {
		names = append(names, name)
	}
	sortKeys(names)
	return names
}
