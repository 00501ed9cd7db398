package anim

import (
	"fmt"
	"math"

	"github.com/decker502/legacyanim/pkg/logging"
	"github.com/rs/zerolog"
)

const queuedCloneSuffix = " - Queued Clone"

// ClipPlayer 由宿主帧循环推进的多层片段播放器
//
// 每个触发器有一个基础 PlaybackState。PlayQueued 复制基础状态，
// 同一片段可以用不同速度排队多次。克隆按先进先出顺序在所在层空闲后启动，
// 播放完即丢弃。一帧内片段结束后剩余的时间由下一个排队克隆继续消耗。
type ClipPlayer struct {
	enabled bool

	states map[string]*PlaybackState
	order  []string

	clones []*PlaybackState // 已启动的排队实例
	queue  []*PlaybackState // 等待同层空闲

	pose PoseTarget
	log  zerolog.Logger
}

// NewClipPlayer 创建空的、禁用的播放器
func NewClipPlayer() *ClipPlayer {
	return &ClipPlayer{
		states: make(map[string]*PlaybackState),
		log:    logging.GetLogger("ClipPlayer"),
	}
}

// SetPoseTarget 设置姿态接收者，nil 表示不输出
func (p *ClipPlayer) SetPoseTarget(target PoseTarget) {
	p.pose = target
}

// AddClip 实现 PlaybackEngine
func (p *ClipPlayer) AddClip(trigger string, clip *Clip, layer int) error {
	if clip == nil {
		return fmt.Errorf("clip for trigger %q is nil", trigger)
	}
	if _, exists := p.states[trigger]; exists {
		return fmt.Errorf("%w: %q already added to player", ErrDuplicateTrigger, trigger)
	}
	p.states[trigger] = &PlaybackState{
		Name:     trigger,
		Trigger:  trigger,
		Clip:     clip,
		Speed:    1,
		Weight:   1,
		Layer:    layer,
		WrapMode: clip.WrapMode,
	}
	p.order = append(p.order, trigger)
	return nil
}

// RemoveAll 实现 PlaybackEngine
func (p *ClipPlayer) RemoveAll() {
	p.states = make(map[string]*PlaybackState)
	p.order = nil
	p.clones = nil
	p.queue = nil
}

// Triggers 按添加顺序返回触发器
func (p *ClipPlayer) Triggers() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// State 实现 PlaybackEngine
func (p *ClipPlayer) State(trigger string) (PlaybackState, error) {
	st, ok := p.states[trigger]
	if !ok {
		return PlaybackState{}, fmt.Errorf("%w: %q", ErrTriggerNotFound, trigger)
	}
	return *st, nil
}

// PlayExclusive 实现 PlaybackEngine，同层排队的克隆也会被丢弃。
func (p *ClipPlayer) PlayExclusive(trigger string, speed float64) error {
	st, ok := p.states[trigger]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTriggerNotFound, trigger)
	}

	p.stopLayer(st.Layer)
	prime(st, speed)
	st.Enabled = true
	return nil
}

// PlayQueued 实现 PlaybackEngine
func (p *ClipPlayer) PlayQueued(trigger string, speed float64) error {
	base, ok := p.states[trigger]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTriggerNotFound, trigger)
	}

	clone := *base
	clone.Name = trigger + queuedCloneSuffix
	prime(&clone, speed)

	if !p.layerBusy(clone.Layer) && len(p.queuedOn(clone.Layer)) == 0 {
		clone.Enabled = true
		p.clones = append(p.clones, &clone)
		return nil
	}
	clone.Enabled = false
	p.queue = append(p.queue, &clone)
	return nil
}

// Stop 实现 PlaybackEngine，基础状态回到时间 0。
func (p *ClipPlayer) Stop() {
	for _, st := range p.states {
		st.Enabled = false
		st.Time = 0
	}
	p.clones = nil
	p.queue = nil
}

// SampleOnce 实现 PlaybackEngine
func (p *ClipPlayer) SampleOnce(trigger string) error {
	st, ok := p.states[trigger]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTriggerNotFound, trigger)
	}

	p.enabled = true
	p.Stop()
	st.Enabled = true
	st.Weight = 1
	p.evaluate(st)
	st.Enabled = false
	p.enabled = false
	return nil
}

// IsActive 实现 PlaybackEngine
func (p *ClipPlayer) IsActive(trigger string) (bool, error) {
	st, ok := p.states[trigger]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrTriggerNotFound, trigger)
	}
	if st.Enabled {
		return true, nil
	}
	for _, c := range p.clones {
		if c.Trigger == trigger && c.Enabled {
			return true, nil
		}
	}
	return false, nil
}

// Enabled 实现 PlaybackEngine
func (p *ClipPlayer) Enabled() bool { return p.enabled }

// SetEnabled 实现 PlaybackEngine
func (p *ClipPlayer) SetEnabled(enabled bool) {
	if p.enabled != enabled {
		p.log.Debug().Bool("enabled", enabled).Msg("player toggled")
	}
	p.enabled = enabled
}

// Advance 实现 PlaybackEngine
func (p *ClipPlayer) Advance(dt float64) {
	if !p.enabled || dt <= 0 {
		return
	}

	// 每层最后结束的片段剩余的时间
	var spare map[int]float64

	for _, name := range p.order {
		st := p.states[name]
		if !st.Enabled {
			continue
		}
		if done, rest := step(st, dt); done {
			st.Enabled = false
			spare = noteSpare(spare, st.Layer, rest)
		}
		p.evaluate(st)
	}

	alive := p.clones[:0]
	for _, c := range p.clones {
		done, rest := step(c, dt)
		p.evaluate(c)
		if done {
			c.Enabled = false
			spare = noteSpare(spare, c.Layer, rest)
			continue
		}
		alive = append(alive, c)
	}
	p.clones = alive

	p.promoteQueued(spare)
}

// Active 返回所有正在播放实例的副本，基础状态在前
func (p *ClipPlayer) Active() []PlaybackState {
	var out []PlaybackState
	for _, name := range p.order {
		if st := p.states[name]; st.Enabled {
			out = append(out, *st)
		}
	}
	for _, c := range p.clones {
		if c.Enabled {
			out = append(out, *c)
		}
	}
	return out
}

// QueuedCount 仍在等待所在层空闲的实例数
func (p *ClipPlayer) QueuedCount() int { return len(p.queue) }

// BusyOutside 实现 PlaybackEngine
func (p *ClipPlayer) BusyOutside(layer int) bool {
	for _, st := range p.states {
		if st.Enabled && st.Layer != layer {
			return true
		}
	}
	for _, c := range p.clones {
		if c.Enabled && c.Layer != layer {
			return true
		}
	}
	for _, q := range p.queue {
		if q.Layer != layer {
			return true
		}
	}
	return false
}

// promoteQueued 启动所在层已空闲的排队克隆，并用该层剩余的时间推进它
func (p *ClipPlayer) promoteQueued(spare map[int]float64) {
	if len(p.queue) == 0 {
		return
	}
	waiting := p.queue[:0]
	for _, q := range p.queue {
		if p.layerBusy(q.Layer) {
			waiting = append(waiting, q)
			continue
		}
		q.Enabled = true
		if rest := spare[q.Layer]; rest > 0 {
			done, left := step(q, rest)
			p.evaluate(q)
			if done {
				// 剩余时间内就已播放完，同层的下一个克隆继续
				q.Enabled = false
				spare[q.Layer] = left
				continue
			}
			delete(spare, q.Layer)
		}
		p.clones = append(p.clones, q)
	}
	p.queue = waiting
}

// noteSpare 记录某层片段结束后剩余的时间
// 同层有多个片段在同一帧结束时，层在最晚结束的那个之后才空闲，取最小值。
func noteSpare(spare map[int]float64, layer int, rest float64) map[int]float64 {
	if spare == nil {
		spare = make(map[int]float64)
	}
	if prev, ok := spare[layer]; !ok || rest < prev {
		spare[layer] = rest
	}
	return spare
}

func (p *ClipPlayer) stopLayer(layer int) {
	for _, st := range p.states {
		if st.Layer == layer {
			st.Enabled = false
		}
	}
	p.clones = filterOutLayer(p.clones, layer)
	p.queue = filterOutLayer(p.queue, layer)
}

func (p *ClipPlayer) layerBusy(layer int) bool {
	for _, st := range p.states {
		if st.Enabled && st.Layer == layer {
			return true
		}
	}
	for _, c := range p.clones {
		if c.Enabled && c.Layer == layer {
			return true
		}
	}
	return false
}

func (p *ClipPlayer) queuedOn(layer int) []*PlaybackState {
	var out []*PlaybackState
	for _, q := range p.queue {
		if q.Layer == layer {
			out = append(out, q)
		}
	}
	return out
}

func (p *ClipPlayer) evaluate(st *PlaybackState) {
	if p.pose != nil {
		p.pose.ApplyPose(st.Trigger, st.Time, st.Weight)
	}
}

func filterOutLayer(list []*PlaybackState, layer int) []*PlaybackState {
	kept := list[:0]
	for _, s := range list {
		if s.Layer != layer {
			kept = append(kept, s)
		}
	}
	return kept
}

// prime 设置速度并回到起始端
func prime(st *PlaybackState, speed float64) {
	st.Speed = speed
	st.Weight = 1
	if speed < 0 {
		st.Time = st.Length()
	} else {
		st.Time = 0
	}
}

// step 推进 st dt 秒，返回非循环片段是否结束，以及结束后 dt 中未用完的时间
func step(st *PlaybackState, dt float64) (bool, float64) {
	length := st.Length()
	// 到达终点还需要播放的片段时间
	remaining := length - st.Time
	if st.Speed < 0 {
		remaining = st.Time
	}
	st.Time += st.Speed * dt

	switch st.WrapMode {
	case WrapLoop:
		if length <= 0 {
			st.Time = 0
			return false, 0
		}
		st.Time = math.Mod(st.Time, length)
		if st.Time < 0 {
			st.Time += length
		}
		return false, 0
	case WrapPingPong:
		if length <= 0 {
			st.Time = 0
			return false, 0
		}
		for st.Time > length || st.Time < 0 {
			if st.Time > length {
				st.Time = 2*length - st.Time
			} else {
				st.Time = -st.Time
			}
			st.Speed = -st.Speed
		}
		return false, 0
	}

	if st.Speed >= 0 && st.Time >= length {
		st.Time = length
		return true, leftover(dt, remaining, st.Speed)
	}
	if st.Speed < 0 && st.Time <= 0 {
		st.Time = 0
		return true, leftover(dt, remaining, st.Speed)
	}
	return false, 0
}

// leftover 片段在 dt 内走完 remaining 后剩下的时间
func leftover(dt, remaining, speed float64) float64 {
	if remaining <= 0 {
		return dt
	}
	if speed == 0 {
		return 0
	}
	used := remaining / math.Abs(speed)
	if used >= dt {
		return 0
	}
	return dt - used
}
