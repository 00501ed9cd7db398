//go:build !android

package game

// ensureStorageDir gdata 在桌面平台会自行创建数据目录
func ensureStorageDir() error {
	return nil
}
