//go:build mobile

// embed.go - 移动端资源嵌入声明
//
// 此文件仅在使用 -tags mobile 构建时编译。
// 构建前需要把 assets/reanim 和 data/animators 复制到此目录：
//
//	mkdir -p mobile/assets mobile/data
//	cp -r assets/reanim mobile/assets/ && cp -r data/animators mobile/data/
//	go build -tags mobile ./mobile
package mobile

import "embed"

//go:embed assets/reanim
var assetsFS embed.FS

//go:embed data/animators
var dataFS embed.FS
