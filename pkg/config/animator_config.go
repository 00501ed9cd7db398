package config

import (
	"fmt"
	"io/fs"
	"math"
	"sync"

	"github.com/decker502/legacyanim/internal/reanim"
	"github.com/decker502/legacyanim/pkg/anim"
)

// DefaultTPS 未配置 playback.tps 时使用的逻辑帧率
const DefaultTPS = 60

// AnimatorConfigFile 动画器配置文件的顶层结构
//
// 一个文件可以定义多个动画器；目录模式下多个文件合并。
type AnimatorConfigFile struct {
	Version   string           `yaml:"version"`
	Playback  PlaybackConfig   `yaml:"playback"`
	Animators []AnimatorConfig `yaml:"animators"`
}

// PlaybackConfig 播放配置
type PlaybackConfig struct {
	// TPS 宿主帧循环每秒逻辑帧数，决定每帧的 dt
	TPS int `yaml:"tps"`
}

// AnimatorConfig 单个动画器配置
type AnimatorConfig struct {
	// ID 动画器唯一标识（如 "shop_panel"）
	ID string `yaml:"id"`

	// WaitTrigger 启动时采样首帧的触发器（可选）
	WaitTrigger string `yaml:"wait_trigger,omitempty"`

	// AutoplayTrigger 启动时自动播放的触发器（可选）
	AutoplayTrigger string `yaml:"autoplay_trigger,omitempty"`

	// Nodes 有序节点列表，Trigger() 播放第 0 个，TriggerSecondary() 播放第 1 个
	Nodes []NodeConfig `yaml:"nodes"`
}

// NodeConfig 触发器节点配置
type NodeConfig struct {
	Trigger     string     `yaml:"trigger"`
	Clip        ClipConfig `yaml:"clip"`
	SpeedAdjust float64    `yaml:"speed_adjust,omitempty"`
	SecondLayer bool       `yaml:"second_layer,omitempty"`
}

// ClipConfig 片段定义
//
// 两种形式二选一：
//   - 显式时长：name + length（秒）
//   - Reanim 轨道：reanim_file + anim，时长由可见帧窗口和 FPS 计算
type ClipConfig struct {
	Name       string   `yaml:"name,omitempty"`
	Length     *float64 `yaml:"length,omitempty"`
	ReanimFile string   `yaml:"reanim_file,omitempty"`
	Anim       string   `yaml:"anim,omitempty"`
	Wrap       string   `yaml:"wrap,omitempty"`
}

// IsReanim 片段是否来自 reanim 文件
func (c ClipConfig) IsReanim() bool {
	return c.ReanimFile != ""
}

// Validate 校验动画器配置
//
// 只做结构校验，不读取 reanim 文件；reanim 轨道是否存在在 Resolve 时检查。
func (a *AnimatorConfig) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("animator id is empty")
	}

	seen := make(map[string]int, len(a.Nodes))
	for i, node := range a.Nodes {
		if node.Trigger == "" {
			return fmt.Errorf("animator %s: node #%d has an empty trigger", a.ID, i)
		}
		if node.Trigger == anim.WaitClipName {
			return fmt.Errorf("animator %s: node #%d uses reserved trigger %q", a.ID, i, anim.WaitClipName)
		}
		if first, dup := seen[node.Trigger]; dup {
			return fmt.Errorf("animator %s: node #%d: %w: %q (first defined at node #%d)",
				a.ID, i, anim.ErrDuplicateTrigger, node.Trigger, first)
		}
		seen[node.Trigger] = i

		if err := node.Clip.validate(); err != nil {
			return fmt.Errorf("animator %s: node #%d (%s): %w", a.ID, i, node.Trigger, err)
		}
		if math.IsNaN(node.SpeedAdjust) || math.IsInf(node.SpeedAdjust, 0) {
			return fmt.Errorf("animator %s: node #%d (%s): speed_adjust must be finite", a.ID, i, node.Trigger)
		}
	}

	for _, ref := range []struct{ field, trigger string }{
		{"wait_trigger", a.WaitTrigger},
		{"autoplay_trigger", a.AutoplayTrigger},
	} {
		if ref.trigger == "" {
			continue
		}
		if _, ok := seen[ref.trigger]; !ok {
			return fmt.Errorf("animator %s: %s: %w: %q", a.ID, ref.field, anim.ErrTriggerNotFound, ref.trigger)
		}
	}
	return nil
}

func (c ClipConfig) validate() error {
	if _, err := anim.ParseWrapMode(c.Wrap); err != nil {
		return err
	}
	switch {
	case c.IsReanim() && c.Length != nil:
		return fmt.Errorf("clip sets both length and reanim_file")
	case c.IsReanim():
		if c.Anim == "" {
			return fmt.Errorf("clip from %s has no anim track", c.ReanimFile)
		}
	case c.Length == nil:
		return fmt.Errorf("clip needs either length or reanim_file")
	case *c.Length < 0 || math.IsNaN(*c.Length) || math.IsInf(*c.Length, 0):
		return fmt.Errorf("clip length %v is invalid", *c.Length)
	}
	return nil
}

// ReanimCache 缓存已解析的 reanim 文件，同一文件被多个节点引用时只解析一次
type ReanimCache struct {
	fsys  fs.FS
	files map[string]*reanim.ReanimXML
	mu    sync.Mutex
}

// NewReanimCache 创建从 fsys 读取的缓存
func NewReanimCache(fsys fs.FS) *ReanimCache {
	return &ReanimCache{
		fsys:  fsys,
		files: make(map[string]*reanim.ReanimXML),
	}
}

// Load 解析（或返回已缓存的）reanim 文件
func (c *ReanimCache) Load(path string) (*reanim.ReanimXML, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r, ok := c.files[path]; ok {
		return r, nil
	}
	r, err := reanim.ParseReanimFS(c.fsys, path)
	if err != nil {
		return nil, err
	}
	c.files[path] = r
	return r, nil
}

// Invalidate 丢弃缓存，热重载时调用
func (c *ReanimCache) Invalidate() {
	c.mu.Lock()
	c.files = make(map[string]*reanim.ReanimXML)
	c.mu.Unlock()
}

// Resolve 把片段配置解析为 anim.Clip
func (c ClipConfig) Resolve(cache *ReanimCache) (*anim.Clip, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	wrap, _ := anim.ParseWrapMode(c.Wrap)

	if !c.IsReanim() {
		return &anim.Clip{Name: c.Name, Length: *c.Length, WrapMode: wrap}, nil
	}

	if cache == nil {
		return nil, fmt.Errorf("clip %s/%s needs a reanim source", c.ReanimFile, c.Anim)
	}
	r, err := cache.Load(c.ReanimFile)
	if err != nil {
		return nil, err
	}
	_, count, err := r.AnimWindow(c.Anim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.ReanimFile, err)
	}
	name := c.Name
	if name == "" {
		name = c.Anim
	}
	return &anim.Clip{
		Name:       name,
		Length:     float64(count) / r.FrameRate(),
		WrapMode:   wrap,
		FPS:        r.FrameRate(),
		FrameCount: count,
	}, nil
}

// TriggerNodes 校验并解析全部节点
func (a *AnimatorConfig) TriggerNodes(cache *ReanimCache) ([]anim.TriggerNode, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	nodes := make([]anim.TriggerNode, 0, len(a.Nodes))
	for i, n := range a.Nodes {
		clip, err := n.Clip.Resolve(cache)
		if err != nil {
			return nil, fmt.Errorf("animator %s: node #%d (%s): %w", a.ID, i, n.Trigger, err)
		}
		nodes = append(nodes, anim.TriggerNode{
			Trigger:     n.Trigger,
			Clip:        clip,
			SpeedAdjust: n.SpeedAdjust,
			SecondLayer: n.SecondLayer,
		})
	}
	return nodes, nil
}

// SequencerConfig 构建 anim.Config
func (a *AnimatorConfig) SequencerConfig(cache *ReanimCache) (anim.Config, error) {
	nodes, err := a.TriggerNodes(cache)
	if err != nil {
		return anim.Config{}, err
	}
	return anim.Config{
		Name:            a.ID,
		Nodes:           nodes,
		WaitTrigger:     a.WaitTrigger,
		AutoplayTrigger: a.AutoplayTrigger,
	}, nil
}
