package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// DebugJSON 将排版结果序列化为缩进 JSON，便于对比两次渲染或做可视化。
func DebugJSON(res *Result) ([]byte, error) {
	if res == nil {
		return nil, fmt.Errorf("排版结果为空")
	}
	return json.MarshalIndent(res, "", "  ")
}

// WriteDebugJSON 将排版结果写入 path。
func WriteDebugJSON(res *Result, path string) error {
	data, err := DebugJSON(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
