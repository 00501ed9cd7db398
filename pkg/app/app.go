// Package app 提供动画器查看器的核心包装器
//
// 桌面端 main.go（嵌入资源）、cmd/animation_showcase（磁盘资源 + 热重载）
// 和移动端 mobile/mobile.go 共用此包。
package app

import (
	"fmt"
	"image/color"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/components"
	"github.com/decker502/legacyanim/pkg/config"
	"github.com/decker502/legacyanim/pkg/ecs"
	"github.com/decker502/legacyanim/pkg/entities"
	"github.com/decker502/legacyanim/pkg/game"
	"github.com/decker502/legacyanim/pkg/logging"
	"github.com/decker502/legacyanim/pkg/systems"
)

// 窗口与网格尺寸
const (
	WindowWidth  = 800
	WindowHeight = 600

	gridColumns = 2
	cellWidth   = 380
	cellHeight  = 260
	gridPadding = 13
	gridTop     = 40
)

// Config 定义应用启动配置
type Config struct {
	// FS 配置和 reanim 文件所在的文件系统
	FS fs.FS
	// ConfigPath 动画器配置文件或目录（相对于 FS）
	ConfigPath string
	// Watcher 可选；有文件变化时重载配置并重建动画器
	Watcher *config.Watcher
	// FlagStore 可选；为 nil 时标志不持久化
	FlagStore *game.FlagStore
}

// App 实现 ebiten.Game 接口
type App struct {
	manager       *config.AnimatorConfigManager
	cache         *config.ReanimCache
	entityManager *ecs.EntityManager
	system        *systems.LegacyAnimatorSystem
	watcher       *config.Watcher

	cells    []*AnimatorCell
	selected int
	dt       float64
	clock    float64

	showHelp bool
	status   string

	log zerolog.Logger
}

// NewApp 加载配置并为每个动画器创建实体
func NewApp(cfg Config) (*App, error) {
	manager, err := config.NewAnimatorConfigManager(cfg.FS, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("动画器配置加载失败: %w", err)
	}

	em := ecs.NewEntityManager()
	a := &App{
		manager:       manager,
		cache:         config.NewReanimCache(cfg.FS),
		entityManager: em,
		system:        systems.NewLegacyAnimatorSystem(em, cfg.FlagStore),
		watcher:       cfg.Watcher,
		dt:            1.0 / float64(manager.Playback().TPS),
		showHelp:      true,
		log:           logging.GetLogger("App"),
	}

	for _, id := range manager.IDs() {
		if err := a.spawn(id); err != nil {
			return nil, err
		}
	}
	a.log.Info().Int("animators", len(a.cells)).Int("tps", manager.Playback().TPS).Msg("viewer ready")
	return a, nil
}

func (a *App) spawn(id string) error {
	animCfg, err := a.manager.Get(id)
	if err != nil {
		return err
	}
	pose := newPoseTracker()
	entity, err := entities.NewLegacyAnimatorEntity(a.entityManager, animCfg, a.cache, entities.AnimatorOptions{
		PoseTarget:   pose,
		PersistFlags: true,
	})
	if err != nil {
		return err
	}
	cell := newAnimatorCell(id, entity, pose)
	cell.bindSources(animCfg, a.cache)
	a.cells = append(a.cells, cell)
	return nil
}

// TPS 返回配置的逻辑帧率
func (a *App) TPS() int {
	return a.manager.Playback().TPS
}

// Cells 返回全部展示单元
func (a *App) Cells() []*AnimatorCell {
	return a.cells
}

// Selected 返回当前选中的单元
func (a *App) Selected() *AnimatorCell {
	if len(a.cells) == 0 {
		return nil
	}
	return a.cells[a.selected]
}

// Select 选中第 i 个单元
func (a *App) Select(i int) {
	if i >= 0 && i < len(a.cells) {
		a.selected = i
	}
}

// Component 返回单元的动画器组件
func (a *App) Component(cell *AnimatorCell) (*components.LegacyAnimatorComponent, bool) {
	return ecs.GetComponent[*components.LegacyAnimatorComponent](a.entityManager, cell.Entity)
}

// Run 对选中的动画器排队执行一条命令（下一次 Step 时执行）
func (a *App) Run(steps ...components.SequenceStep) {
	cell := a.Selected()
	if cell == nil {
		return
	}
	entities.QueueSequence(a.entityManager, cell.Entity, steps, a.clock)
	a.status = fmt.Sprintf("%s: %s", cell.AnimatorID, formatSteps(steps))
}

// ToggleFlag 翻转选中动画器的标志
func (a *App) ToggleFlag(name string) {
	cell := a.Selected()
	if cell == nil {
		return
	}
	comp, ok := a.Component(cell)
	if !ok {
		return
	}
	value := !comp.Sequencer().GetBool(name)
	a.system.SetBool(cell.Entity, name, value)
	a.status = fmt.Sprintf("%s: %s=%t", cell.AnimatorID, name, value)
}

// Reload 重新读取配置并重建已有的动画器；新增的动画器会创建实体
//
// 先解析全部单元的新配置，任何一个失败时所有动画器保持旧配置。
func (a *App) Reload() error {
	if err := a.manager.Reload(); err != nil {
		return a.reloadFailed(err)
	}
	a.cache.Invalidate()

	known := make(map[string]bool, len(a.cells))
	configs := make(map[string]anim.Config, len(a.cells))
	for _, cell := range a.cells {
		known[cell.AnimatorID] = true
		animCfg, err := a.manager.Get(cell.AnimatorID)
		if err != nil {
			a.log.Warn().Str("animator", cell.AnimatorID).Msg("animator removed from config, keeping the old nodes")
			continue
		}
		seqCfg, err := animCfg.SequencerConfig(a.cache)
		if err != nil {
			return a.reloadFailed(err)
		}
		configs[cell.AnimatorID] = seqCfg
	}

	if _, err := a.system.Rebuild(configs); err != nil {
		return a.reloadFailed(err)
	}
	for _, cell := range a.cells {
		if animCfg, err := a.manager.Get(cell.AnimatorID); err == nil {
			cell.bindSources(animCfg, a.cache)
		}
	}

	for _, id := range a.manager.IDs() {
		if known[id] {
			continue
		}
		if err := a.spawn(id); err != nil {
			return a.reloadFailed(err)
		}
	}
	a.status = "reloaded"
	return nil
}

func (a *App) reloadFailed(err error) error {
	a.status = "reload failed: " + err.Error()
	return err
}

// Step 推进一帧：处理配置变化，再运行动画器系统
func (a *App) Step() {
	if a.watcher != nil {
		if changed := a.watcher.Drain(); len(changed) > 0 {
			a.log.Info().Strs("files", changed).Msg("config changed")
			if err := a.Reload(); err != nil {
				a.log.Warn().Err(err).Msg("reload failed")
			}
		}
	}
	a.system.Update(a.dt)
	a.entityManager.RemoveMarkedEntities()
	a.clock += a.dt
}

// Update 处理输入并推进一帧
func (a *App) Update() error {
	a.handleInput()
	a.Step()
	return nil
}

func (a *App) handleInput() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		a.showHelp = !a.showHelp
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		if len(a.cells) > 0 {
			a.Select((a.selected + 1) % len(a.cells))
		}
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		a.Run(components.SequenceStep{Op: components.OpTrigger})
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		a.Run(components.SequenceStep{Op: components.OpTriggerSecondary})
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		if cell := a.Selected(); cell != nil {
			if comp, ok := a.Component(cell); ok {
				if nodes := comp.Sequencer().Nodes(); len(nodes) > 1 {
					a.Run(components.SequenceStep{Op: components.OpFollowedBy, Trigger: nodes[1].Trigger})
				}
			}
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		a.Run(components.SequenceStep{Op: components.OpAndWait, Seconds: 1})
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		a.Run(components.SequenceStep{Op: components.OpWait, Seconds: 2})
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.Run(components.SequenceStep{Op: components.OpStop})
	case inpututil.IsKeyJustPressed(ebiten.KeyB):
		a.ToggleFlag("highlight")
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := a.Reload(); err != nil {
			a.log.Warn().Err(err).Msg("reload failed")
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if i := cellAt(x, y, len(a.cells)); i >= 0 {
			a.Select(i)
		}
	}
}

// cellOrigin 返回第 i 个单元的左上角
func cellOrigin(i int) (int, int) {
	col := i % gridColumns
	row := i / gridColumns
	return gridPadding + col*(cellWidth+gridPadding), gridTop + row*(cellHeight+gridPadding)
}

// cellAt 返回坐标所在的单元索引，不在任何单元内返回 -1
func cellAt(x, y, count int) int {
	for i := 0; i < count; i++ {
		cx, cy := cellOrigin(i)
		if x >= cx && x < cx+cellWidth && y >= cy && y < cy+cellHeight {
			return i
		}
	}
	return -1
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{50, 50, 50, 255})

	for i, cell := range a.cells {
		comp, ok := a.Component(cell)
		if !ok {
			continue
		}
		x, y := cellOrigin(i)
		cell.draw(screen, comp, x, y, cellWidth, cellHeight, i == a.selected)
	}

	info := fmt.Sprintf("TPS: %.1f | t=%.2fs | %s", ebiten.ActualTPS(), a.clock, a.status)
	ebitenutil.DebugPrintAt(screen, info, 10, 10)

	if a.showHelp {
		ebitenutil.DebugPrintAt(screen, helpText, 10, WindowHeight-130)
	}
}

const helpText = `1 Trigger   2 TriggerSecondary   F FollowedBy(second node)
A AndWait(1)   W Wait(2)   S Stop   B toggle flag "highlight"
Tab / click select   R reload config   H hide help`

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return WindowWidth, WindowHeight
}

// Close 停止文件监听
func (a *App) Close() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

func formatSteps(steps []components.SequenceStep) string {
	s := ""
	for i, step := range steps {
		if i > 0 {
			s += ","
		}
		s += step.String()
	}
	return s
}
