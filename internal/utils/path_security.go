package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SecureJoin 把相对路径拼接到 basePath 下，返回绝对路径。
// 拒绝绝对路径、越出 basePath 的 ".." 以及路径链上已存在的符号链接。
func SecureJoin(basePath, relativePath string) (string, error) {
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("路径解析失败: %w", err)
	}

	cleanRel := filepath.Clean(filepath.FromSlash(relativePath))
	if cleanRel == "." {
		cleanRel = ""
	}
	if filepath.IsAbs(cleanRel) || filepath.VolumeName(cleanRel) != "" {
		return "", fmt.Errorf("非法路径: 不允许绝对路径")
	}

	targetAbs := filepath.Join(baseAbs, cleanRel)
	rel, err := filepath.Rel(baseAbs, targetAbs)
	if err != nil {
		return "", fmt.Errorf("非法路径: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("非法路径: 目标超出基目录")
	}

	if err := ensureNoSymlink(baseAbs, targetAbs); err != nil {
		return "", err
	}
	return targetAbs, nil
}

// ensureNoSymlink 从 target 逐级回溯到 base，已存在的节点都不能是符号链接。
// 不存在的节点直接跳过，便于用于即将创建的目录。
func ensureNoSymlink(baseAbs, targetAbs string) error {
	current := targetAbs
	for {
		info, err := os.Lstat(current)
		if err == nil {
			if info.Mode()&os.ModeSymlink != 0 {
				return fmt.Errorf("检测到符号链接穿透风险: %s", current)
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("检查路径失败: %w", err)
		}

		if current == baseAbs {
			return nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return fmt.Errorf("非法路径: 无法定位到安全基目录")
		}
		current = parent
	}
}
