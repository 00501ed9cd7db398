//go:build android

package game

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// ensureStorageDir 在 gdata 打开前确认 /data/data/{package} 可写
//
// gdata 在 Android 上把数据写到应用私有目录，但不会预先创建子目录。
func ensureStorageDir() error {
	cmdline, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return fmt.Errorf("failed to detect Android package: %w", err)
	}
	// cmdline 以 NUL 分隔，第一段是包名
	pkg := string(bytes.TrimRight(bytes.SplitN(cmdline, []byte{0}, 2)[0], "\n"))
	if pkg == "" {
		return fmt.Errorf("empty /proc/self/cmdline")
	}

	dir := filepath.Join("/data/data", pkg, flagsObject)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return nil
}
