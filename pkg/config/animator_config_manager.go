package config

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/decker502/legacyanim/pkg/logging"
)

// AnimatorConfigManager 动画器配置管理器
//
// 负责：
//   - 加载单个 YAML 文件，或目录下全部 *.yaml / *.yml 文件
//   - 按 ID 索引动画器配置
//   - 热重载（Reload 失败时保留旧配置）
type AnimatorConfigManager struct {
	fsys fs.FS
	root string

	playback  PlaybackConfig
	animators map[string]*AnimatorConfig
	order     []string
	mu        sync.RWMutex

	log zerolog.Logger
}

// NewAnimatorConfigManager 从 fsys 加载配置
//
// 参数：
//   - fsys: 配置所在文件系统（embedded.FS() 或 os.DirFS）
//   - root: 文件路径或目录路径
//
// 返回：
//   - *AnimatorConfigManager: 配置管理器实例
//   - error: 读取、解析或校验失败
func NewAnimatorConfigManager(fsys fs.FS, root string) (*AnimatorConfigManager, error) {
	m := &AnimatorConfigManager{
		fsys: fsys,
		root: root,
		log:  logging.GetLogger("AnimatorConfig"),
	}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload 重新读取配置
// 失败时返回错误，已加载的配置保持不变
func (m *AnimatorConfigManager) Reload() error {
	files, err := configFiles(m.fsys, m.root)
	if err != nil {
		return err
	}

	playback := PlaybackConfig{}
	animators := make(map[string]*AnimatorConfig)
	var order []string
	source := make(map[string]string)

	for _, file := range files {
		cfg, err := loadAnimatorFile(m.fsys, file)
		if err != nil {
			return err
		}
		if playback.TPS == 0 && cfg.Playback.TPS > 0 {
			playback.TPS = cfg.Playback.TPS
		}
		if cfg.Playback.TPS < 0 {
			return fmt.Errorf("%s: playback.tps must be positive, got %d", file, cfg.Playback.TPS)
		}

		for i := range cfg.Animators {
			a := &cfg.Animators[i]
			if err := a.Validate(); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			if prev, dup := source[a.ID]; dup {
				return fmt.Errorf("%s: duplicate animator id %q (already defined in %s)", file, a.ID, prev)
			}
			source[a.ID] = file
			animators[a.ID] = a
			order = append(order, a.ID)
		}
	}
	if playback.TPS == 0 {
		playback.TPS = DefaultTPS
	}

	m.mu.Lock()
	m.playback = playback
	m.animators = animators
	m.order = order
	m.mu.Unlock()

	m.log.Debug().
		Str("root", m.root).
		Int("files", len(files)).
		Int("animators", len(order)).
		Msg("animator configs loaded")
	return nil
}

// configFiles 返回要加载的文件列表（目录模式下按文件名排序）
func configFiles(fsys fs.FS, root string) ([]string, error) {
	info, err := fs.Stat(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("无法访问配置路径 %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置目录 %s: %w", root, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsConfigFile(e.Name()) {
			continue
		}
		files = append(files, path.Join(root, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("配置目录 %s 中没有 YAML 文件", root)
	}
	return files, nil
}

func loadAnimatorFile(fsys fs.FS, file string) (*AnimatorConfigFile, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("无法读取文件 %s: %w", file, err)
	}

	var cfg AnimatorConfigFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("无法解析 YAML %s: %w", file, err)
	}
	return &cfg, nil
}

// IsConfigFile 文件名是否为 YAML 配置
func IsConfigFile(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// Get 获取动画器配置
func (m *AnimatorConfigManager) Get(id string) (*AnimatorConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.animators[id]
	if !ok {
		return nil, fmt.Errorf("动画器 '%s' 不存在", id)
	}
	return a, nil
}

// IDs 按定义顺序返回全部动画器 ID
func (m *AnimatorConfigManager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.order...)
}

// Playback 返回播放配置
func (m *AnimatorConfigManager) Playback() PlaybackConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.playback
}

// FS 返回配置所在的文件系统，reanim 文件从同一文件系统解析
func (m *AnimatorConfigManager) FS() fs.FS {
	return m.fsys
}
