// 动画器查看器（嵌入资源版本）
//
// 用法：
//
//	go run . [--verbose N]
//
// 磁盘资源 + 热重载请使用 cmd/animation_showcase。
package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/decker502/legacyanim/pkg/app"
	"github.com/decker502/legacyanim/pkg/embedded"
	"github.com/decker502/legacyanim/pkg/game"
	"github.com/decker502/legacyanim/pkg/logging"
)

var verbose = flag.Int("verbose", 0, "日志详细程度 (0 warn, 1 info, 2 debug, 3 trace)")

func main() {
	flag.Parse()
	logging.SetupLogger(*verbose)

	embedded.Init(assetsFS, dataFS)

	flagStore, err := game.OpenFlagStore(game.DefaultAppName)
	if err != nil {
		log.Warn().Err(err).Msg("flags will not persist")
	}

	viewer, err := app.NewApp(app.Config{
		FS:         embedded.FS(),
		ConfigPath: "data/animators",
		FlagStore:  flagStore,
	})
	logging.Must(err, "初始化失败")

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Legacy Animator Viewer")
	ebiten.SetTPS(viewer.TPS())

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal().Err(err).Msg("ebiten exited")
	}
}
