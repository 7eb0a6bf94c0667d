package renderer

import (
	"time"

	"github.com/ByLCY/legalnotice/layout"
)

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Session 是一次渲染会话：排版阶段作为 layout.Metrics 嵌入字体、测量文本，
// 随后用同一组字体把排版结果输出。会话只能渲染一次，不能在多次渲染之间复用。
type Session interface {
	layout.Metrics
	Renderer
}

// Options 是创建会话时的公共参数。
type Options struct {
	BaseDir      string    // 相对字体路径的根目录
	CreationDate time.Time // 写入文档信息的时间；为零时使用 DefaultCreationDate
}

// DefaultCreationDate 固定文档时间戳，使相同输入得到逐字节相同的输出。
var DefaultCreationDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Date 返回实际写入文档的时间。
func (o Options) Date() time.Time {
	if o.CreationDate.IsZero() {
		return DefaultCreationDate
	}
	return o.CreationDate.UTC()
}
