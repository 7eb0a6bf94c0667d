package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors for layout operations.
var (
	ErrFontEmbed = errors.New("字体嵌入失败")
	ErrNoMetrics = errors.New("layout: 缺少字形度量后端 Metrics")
)

// FatalResourceError 表示字体资源无法嵌入，整次渲染必须中止且不返回任何输出。
type FatalResourceError struct {
	Font string
	Err  error
}

func (e *FatalResourceError) Error() string {
	return fmt.Sprintf("无法嵌入字体 %s: %v", e.Font, e.Err)
}

// Unwrap 同时暴露 ErrFontEmbed 与底层原因，便于 errors.Is 判断。
func (e *FatalResourceError) Unwrap() []error {
	return []error{ErrFontEmbed, e.Err}
}
