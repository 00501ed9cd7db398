package anim

import (
	"fmt"
	"math"

	"github.com/decker502/legacyanim/pkg/logging"
	"github.com/rs/zerolog"
)

// Config 一个动画器的静态描述
type Config struct {
	// Name 用于错误信息和日志
	Name string
	// Nodes 有序的触发器列表
	// Trigger() 播放 Nodes[0]，TriggerSecondary() 播放 Nodes[1]
	Nodes []TriggerNode
	// WaitTrigger 非空时 Start 采样其首帧
	WaitTrigger string
	// AutoplayTrigger 非空时 Start 播放它
	AutoplayTrigger string
}

// SequenceState 序列器状态
type SequenceState int

const (
	// Idle 播放器已禁用
	Idle SequenceState = iota
	// Active 播放器已启用
	Active
)

func (s SequenceState) String() string {
	if s == Active {
		return "Active"
	}
	return "Idle"
}

// Sequencer 按触发器名称播放、排队并计时片段
//
// 所有排队的非循环片段播放完后自动禁用播放器。
// 所有方法都必须在宿主的帧线程上调用，内部不加锁。
type Sequencer struct {
	cfg Config

	engine      PlaybackEngine
	registry    *ClipRegistry
	timing      TimingAccumulator
	autoDisable *AutoDisable
	flags       *BoolFlags

	log zerolog.Logger
}

// NewSequencer 创建序列器
// 注册表在 Prepare 时才构建。
func NewSequencer(cfg Config, engine PlaybackEngine, scheduler Scheduler) *Sequencer {
	s := &Sequencer{
		cfg:         cfg,
		engine:      engine,
		registry:    NewClipRegistry(cfg.Name, engine),
		autoDisable: NewAutoDisable(scheduler, engine),
		log:         logging.GetLogger("Sequencer").With().Str("animator", cfg.Name).Logger(),
	}
	s.autoDisable.OnFire(func() {
		s.log.Debug().Float64("after", s.timing.Total()).Msg("auto-disabled")
	})
	return s
}

// Name 返回动画器名称
func (s *Sequencer) Name() string { return s.cfg.Name }

// Nodes 返回配置的节点
func (s *Sequencer) Nodes() []TriggerNode {
	return append([]TriggerNode(nil), s.cfg.Nodes...)
}

// Engine 返回播放引擎
func (s *Sequencer) Engine() PlaybackEngine { return s.engine }

// Registry 返回片段注册表
func (s *Sequencer) Registry() *ClipRegistry { return s.registry }

// Prepare 构建注册表和标志存储，唯一的准备入口，可重复调用
func (s *Sequencer) Prepare() error {
	if s.flags == nil {
		s.flags = NewBoolFlags()
	}
	if s.registry.Prepared() {
		return nil
	}
	if err := s.registry.Register(s.cfg.Nodes); err != nil {
		return err
	}
	s.log.Debug().Int("nodes", len(s.cfg.Nodes)).Msg("prepared")
	return nil
}

// Start 执行启动触发器：先采样 wait trigger，再播放 autoplay trigger
func (s *Sequencer) Start() error {
	if err := s.Prepare(); err != nil {
		return err
	}
	if s.cfg.WaitTrigger != "" {
		if err := s.SampleFirstFrame(s.cfg.WaitTrigger); err != nil {
			return fmt.Errorf("wait trigger: %w", err)
		}
	}
	if s.cfg.AutoplayTrigger != "" {
		if err := s.SetTrigger(s.cfg.AutoplayTrigger); err != nil {
			return fmt.Errorf("autoplay trigger: %w", err)
		}
	}
	return nil
}

// Rebuild 用新配置替换节点和启动触发器并重建注册表
//
// 播放会被停止，名称与标志保持不变。校验失败时什么都不改变。
func (s *Sequencer) Rebuild(cfg Config) error {
	cfg.Name = s.cfg.Name
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	s.Stop()
	if err := s.registry.Rebuild(cfg.Nodes); err != nil {
		return err
	}
	cfg.Nodes = append([]TriggerNode(nil), cfg.Nodes...)
	s.cfg = cfg
	if s.flags == nil {
		s.flags = NewBoolFlags()
	}
	s.log.Info().
		Int("nodes", len(cfg.Nodes)).
		Str("wait_trigger", cfg.WaitTrigger).
		Str("autoplay_trigger", cfg.AutoplayTrigger).
		Msg("rebuilt")
	return nil
}

// State 播放器启用时为 Active
func (s *Sequencer) State() SequenceState {
	if s.engine.Enabled() {
		return Active
	}
	return Idle
}

// Cumulative 返回累计时长
func (s *Sequencer) Cumulative() float64 { return s.timing.Total() }

// PendingDisable 返回待执行自动禁用的延迟
func (s *Sequencer) PendingDisable() (float64, bool) {
	return s.autoDisable.Delay()
}

// SetTrigger 停止同层片段并开始新序列
//
// 其他层仍有片段播放时，累计时长取旧值与新片段时长的较大者。
func (s *Sequencer) SetTrigger(trigger string) error {
	if err := s.Prepare(); err != nil {
		return err
	}
	node, st, err := s.resolve(trigger)
	if err != nil {
		return err
	}

	speed := node.Speed()
	d := Duration(st.Length(), speed)

	if !s.engine.Enabled() || !s.engine.BusyOutside(node.Layer()) {
		s.timing.Reset()
	}
	s.engine.SetEnabled(true)
	s.timing.Layer(d)

	if err := s.engine.PlayExclusive(trigger, speed); err != nil {
		return err
	}
	s.rearm(st.WrapMode, speed)

	s.log.Debug().
		Str("trigger", trigger).
		Float64("speed", speed).
		Float64("duration", d).
		Float64("cumulative", s.timing.Total()).
		Msg("SetTrigger")
	return nil
}

// FollowedBy 在同层当前片段之后排队播放 trigger，累计时长增加其时长
// 序列必须处于 Active 状态。
func (s *Sequencer) FollowedBy(trigger string) error {
	if err := s.Prepare(); err != nil {
		return err
	}
	node, st, err := s.resolve(trigger)
	if err != nil {
		return err
	}
	if !s.engine.Enabled() {
		return fmt.Errorf("%w: FollowedBy(%q) in animator %q", ErrNotActive, trigger, s.cfg.Name)
	}

	speed := node.Speed()
	d := Duration(st.Length(), speed)

	if err := s.engine.PlayQueued(trigger, speed); err != nil {
		return err
	}
	s.timing.Chain(d)
	s.rearm(st.WrapMode, speed)

	s.log.Debug().
		Str("trigger", trigger).
		Float64("speed", speed).
		Float64("duration", d).
		Float64("cumulative", s.timing.Total()).
		Msg("FollowedBy")
	return nil
}

// Wait 丢弃当前序列，空等 seconds 秒
func (s *Sequencer) Wait(seconds float64) error {
	if err := checkWait(seconds); err != nil {
		return err
	}
	if err := s.Prepare(); err != nil {
		return err
	}

	s.timing.Set(seconds)
	s.engine.SetEnabled(true)
	s.engine.Stop()
	if err := s.engine.PlayExclusive(WaitClipName, waitSpeed(seconds)); err != nil {
		return err
	}
	s.autoDisable.Arm(s.timing.Total())

	s.log.Debug().Float64("seconds", seconds).Msg("Wait")
	return nil
}

// AndWait 在当前序列之后追加 seconds 秒空等
func (s *Sequencer) AndWait(seconds float64) error {
	if err := checkWait(seconds); err != nil {
		return err
	}
	if err := s.Prepare(); err != nil {
		return err
	}
	if !s.engine.Enabled() {
		return fmt.Errorf("%w: AndWait(%v) in animator %q", ErrNotActive, seconds, s.cfg.Name)
	}

	if err := s.engine.PlayQueued(WaitClipName, waitSpeed(seconds)); err != nil {
		return err
	}
	s.timing.Chain(seconds)
	if s.timing.Finite() {
		s.autoDisable.Arm(s.timing.Total())
	}

	s.log.Debug().
		Float64("seconds", seconds).
		Float64("cumulative", s.timing.Total()).
		Msg("AndWait")
	return nil
}

// Stop 停止所有片段，取消自动禁用并禁用播放器
func (s *Sequencer) Stop() {
	s.autoDisable.Cancel()
	s.engine.Stop()
	s.engine.SetEnabled(false)
	s.timing.Reset()
}

// IsPlaying 触发器是否正在播放（也可以查询 WAIT_CLIP）
func (s *Sequencer) IsPlaying(trigger string) (bool, error) {
	active, err := s.engine.IsActive(trigger)
	if err != nil {
		return false, errTriggerNotFound(s.cfg.Name, trigger)
	}
	return active, nil
}

// SampleFirstFrame 把动画器摆到 trigger 的首帧，不播放，播放器保持禁用
func (s *Sequencer) SampleFirstFrame(trigger string) error {
	if err := s.Prepare(); err != nil {
		return err
	}
	if _, _, err := s.resolve(trigger); err != nil {
		return err
	}

	s.autoDisable.Cancel()
	s.timing.Reset()
	if err := s.engine.SampleOnce(trigger); err != nil {
		return err
	}
	s.log.Debug().Str("trigger", trigger).Msg("SampleFirstFrame")
	return nil
}

// Trigger 播放第一个节点
func (s *Sequencer) Trigger() error {
	if len(s.cfg.Nodes) < 1 {
		return errEmptyNodeList(s.cfg.Name, 1, len(s.cfg.Nodes))
	}
	return s.SetTrigger(s.cfg.Nodes[0].Trigger)
}

// TriggerSecondary 播放第二个节点
func (s *Sequencer) TriggerSecondary() error {
	if len(s.cfg.Nodes) < 2 {
		return errEmptyNodeList(s.cfg.Name, 2, len(s.cfg.Nodes))
	}
	return s.SetTrigger(s.cfg.Nodes[1].Trigger)
}

// SetBool 设置标志
func (s *Sequencer) SetBool(name string, value bool) {
	if s.flags == nil {
		s.flags = NewBoolFlags()
	}
	s.flags.SetBool(name, value)
}

// GetBool 读取标志，未设置时为 false
func (s *Sequencer) GetBool(name string) bool {
	if s.flags == nil {
		return false
	}
	return s.flags.GetBool(name)
}

// Flags 返回标志存储
func (s *Sequencer) Flags() *BoolFlags {
	if s.flags == nil {
		s.flags = NewBoolFlags()
	}
	return s.flags
}

// resolve 在注册表和引擎中查找 trigger，不修改状态
func (s *Sequencer) resolve(trigger string) (TriggerNode, PlaybackState, error) {
	if !s.registry.Prepared() {
		return TriggerNode{}, PlaybackState{}, fmt.Errorf("%w: animator %q", ErrNotPrepared, s.cfg.Name)
	}
	node, err := s.registry.Lookup(trigger)
	if err != nil {
		return TriggerNode{}, PlaybackState{}, err
	}
	st, err := s.engine.State(trigger)
	if err != nil {
		return TriggerNode{}, PlaybackState{}, errTriggerNotFound(s.cfg.Name, trigger)
	}
	return node, st, nil
}

// rearm 按累计时长重新设置自动禁用；片段不会自行结束时取消
func (s *Sequencer) rearm(wrap WrapMode, speed float64) {
	if wrap.Repeats() || speed == 0 || !s.timing.Finite() {
		s.autoDisable.Cancel()
		return
	}
	s.autoDisable.Arm(s.timing.Total())
}

// ValidateConfig 检查节点，并确认启动触发器出现在节点列表中，不修改任何状态
func ValidateConfig(cfg Config) error {
	if err := ValidateNodes(cfg.Name, cfg.Nodes); err != nil {
		return err
	}
	check := func(kind, trigger string) error {
		if trigger == "" {
			return nil
		}
		for _, n := range cfg.Nodes {
			if n.Trigger == trigger {
				return nil
			}
		}
		return fmt.Errorf("%s: %w", kind, errTriggerNotFound(cfg.Name, trigger))
	}
	if err := check("wait trigger", cfg.WaitTrigger); err != nil {
		return err
	}
	return check("autoplay trigger", cfg.AutoplayTrigger)
}

func checkWait(seconds float64) error {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWait, seconds)
	}
	return nil
}

// waitSpeed 等待片段的播放速度，0 秒等待在下一次推进时结束
func waitSpeed(seconds float64) float64 {
	if seconds == 0 {
		return math.Inf(1)
	}
	return waitClipLength / seconds
}
