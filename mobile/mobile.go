//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此文件仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.legacyanim -o build/android/legacyanim.aar -v ./mobile
package mobile

import (
	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/legacyanim/pkg/app"
	"github.com/decker502/legacyanim/pkg/embedded"
	"github.com/decker502/legacyanim/pkg/game"
	"github.com/decker502/legacyanim/pkg/logging"
)

func init() {
	logging.SetupLogger(1)

	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	// gdata 不可用时退化为不持久化
	flagStore, _ := game.OpenFlagStore(game.DefaultAppName)

	viewer, err := app.NewApp(app.Config{
		FS:         embedded.FS(),
		ConfigPath: "data/animators",
		FlagStore:  flagStore,
	})
	logging.Must(err, "初始化失败")

	mobile.SetGame(viewer)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
