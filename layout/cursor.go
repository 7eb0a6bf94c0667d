package layout

// PageCursor 记录当前页与纵向游标，负责在内容溢出时换页。
// cursorY 在页内单调递减，任何绘制都不会让它低于下边距；放不下时先换新页。
type PageCursor struct {
	width      float64
	height     float64
	margin     Margin
	lineHeight LineHeightSpec

	pages   []Page
	current Page
	cursorY float64
}

// NewPageCursor 创建第一页，游标位于上边距处。
func NewPageCursor(width, height float64, margin Margin, lh LineHeightSpec) *PageCursor {
	c := &PageCursor{
		width:      width,
		height:     height,
		margin:     margin,
		lineHeight: lh,
	}
	c.startPage()
	return c
}

// Y 返回当前游标位置（基线）。
func (c *PageCursor) Y() float64 { return c.cursorY }

// Top 返回新页面上游标的起始位置。
func (c *PageCursor) Top() float64 { return c.height - c.margin.Top }

// PageCount 返回已产生的页数（含当前页）。
func (c *PageCursor) PageCount() int { return len(c.pages) + 1 }

// LineHeight 按本次渲染选定的行高策略计算某字号的行高。
func (c *PageCursor) LineHeight(size float64) float64 {
	return c.lineHeight.Resolve(size)
}

// EnsureSpace 在剩余空间不足 height 时结束当前页并开始新页。
// 页面顶部仍放不下的内容不会再次换页，避免产生空白页。
func (c *PageCursor) EnsureSpace(height float64) {
	if c.cursorY-height >= c.margin.Bottom || c.atTop() {
		return
	}
	c.pageBreak()
}

// DrawLine 在左边距处绘制一行文本，然后把游标下移一个行高。
func (c *PageCursor) DrawLine(line Line, font FontID, ts TextStyle) {
	lh := c.LineHeight(ts.Size)
	c.EnsureSpace(lh)
	c.current.Texts = append(c.current.Texts, TextRun{
		Content:  line.Content,
		X:        c.margin.Left,
		Y:        c.cursorY,
		Width:    line.Width,
		Font:     font,
		FontSize: ts.Size,
		Color:    ts.Color,
	})
	c.advance(lh)
}

// Skip 插入一段纵向间距。页顶的间距被忽略；放不下的间距直接换页。
func (c *PageCursor) Skip(gap float64) {
	if gap <= 0 || c.atTop() {
		return
	}
	if c.cursorY-gap < c.margin.Bottom {
		c.pageBreak()
		return
	}
	c.cursorY -= gap
}

// Finish 结束当前页并返回全部页面。之后不应再使用该游标。
func (c *PageCursor) Finish() []Page {
	pages := append(c.pages, c.current)
	c.pages = nil
	return pages
}

func (c *PageCursor) advance(h float64) {
	c.cursorY -= h
	if c.cursorY < c.margin.Bottom {
		c.cursorY = c.margin.Bottom
	}
}

func (c *PageCursor) atTop() bool {
	return c.cursorY >= c.Top()
}

func (c *PageCursor) pageBreak() {
	c.pages = append(c.pages, c.current)
	c.startPage()
}

func (c *PageCursor) startPage() {
	c.current = Page{
		Width:  c.width,
		Height: c.height,
		Margin: c.margin,
		Texts:  []TextRun{},
	}
	c.cursorY = c.Top()
}
