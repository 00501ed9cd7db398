//go:build !mobile

// Package mobile 是 gomobile bind 的入口，真正的实现只在 -tags mobile 时编译。
package mobile

// Dummy 让普通构建下的 ./... 也能编译本包
func Dummy() {}
