package styles

import (
	_ "embed"
)

// Legal 是内置的法律声明样式表源码。
//
//go:embed legal.papyrus
var Legal string
