//go:build !embed

package main

import (
	"io/fs"
	"os"
)

// GetStaticAssets 不带 embed tag 时直接读取工作目录下的 static/，目录不存在返回 nil
func GetStaticAssets() fs.FS {
	if info, err := os.Stat("static"); err != nil || !info.IsDir() {
		return nil
	}
	return os.DirFS("static")
}
