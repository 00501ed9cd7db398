// cmd/animation_showcase/main.go
// 动画器展示程序：从磁盘读取配置和 reanim 文件，文件变化时自动重载
//
// 用法：
//
//	go run ./cmd/animation_showcase --root . --config data/animators
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"github.com/decker502/legacyanim/pkg/app"
	"github.com/decker502/legacyanim/pkg/config"
	"github.com/decker502/legacyanim/pkg/game"
	"github.com/decker502/legacyanim/pkg/logging"
)

var (
	root       = flag.String("root", ".", "项目根目录，配置与 reanim 路径相对于此目录")
	configPath = flag.String("config", "data/animators", "动画器配置文件或目录")
	reanimDir  = flag.String("reanim-dir", "assets/reanim", "监听的 reanim 目录（为空则不监听）")
	noWatch    = flag.Bool("no-watch", false, "禁用热重载")
	persist    = flag.Bool("persist", false, "通过 gdata 持久化动画器标志")
	verbose    = flag.Int("verbose", 1, "日志详细程度 (0 warn, 1 info, 2 debug, 3 trace)")
)

func main() {
	flag.Parse()
	logging.SetupLogger(*verbose)

	cfg := app.Config{
		FS:         os.DirFS(*root),
		ConfigPath: *configPath,
	}

	if *persist {
		store, err := game.OpenFlagStore(game.DefaultAppName)
		if err != nil {
			log.Warn().Err(err).Msg("flags will not persist")
		}
		cfg.FlagStore = store
	}

	if !*noWatch {
		watcher, err := config.NewWatcher(watchDirs()...)
		if err != nil {
			log.Warn().Err(err).Msg("hot reload disabled")
		} else {
			cfg.Watcher = watcher
		}
	}

	viewer, err := app.NewApp(cfg)
	logging.Must(err, "初始化失败")
	defer viewer.Close()

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Animation Showcase - " + *configPath)
	ebiten.SetTPS(viewer.TPS())

	log.Info().Int("tps", viewer.TPS()).Int("animators", len(viewer.Cells())).Msg("showcase started")
	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal().Err(err).Msg("ebiten exited")
	}
}

// watchDirs 返回需要监听的 OS 目录：配置目录（或配置文件所在目录）和 reanim 目录
func watchDirs() []string {
	configDir := filepath.Join(*root, *configPath)
	if info, err := os.Stat(configDir); err == nil && !info.IsDir() {
		configDir = filepath.Dir(configDir)
	}
	dirs := []string{configDir}
	if *reanimDir != "" {
		dirs = append(dirs, filepath.Join(*root, *reanimDir))
	}
	return dirs
}
