//go:build embed

package main

import (
	"embed"
	"io/fs"
)

//go:embed all:static
var embedFS embed.FS

// GetStaticAssets 返回嵌入的样式等静态文件
// 编译时带上 -tags embed 就会走这里
func GetStaticAssets() fs.FS {
	f, err := fs.Sub(embedFS, "static")
	if err != nil {
		panic(err)
	}
	return f
}
