package anim

// PlaybackEngine 多层片段播放器的命令接口
//
// 所有接收触发器的操作在修改状态之前检查名称，未注册时返回 ErrTriggerNotFound。
type PlaybackEngine interface {
	// AddClip 在指定层注册片段
	AddClip(trigger string, clip *Clip, layer int) error
	// RemoveAll 移除所有片段（包括正在播放和排队的）
	RemoveAll()
	// State 返回触发器基础播放状态的副本
	State(trigger string) (PlaybackState, error)

	// PlayExclusive 停止同层所有片段并播放 trigger
	// 速度为负时从末尾开始
	PlayExclusive(trigger string, speed float64) error
	// PlayQueued 同层空闲后再播放 trigger
	PlayQueued(trigger string, speed float64) error
	// Stop 立即停止所有片段并清空队列
	Stop()
	// SampleOnce 求值一次首帧，随后停止片段并禁用播放器
	SampleOnce(trigger string) error
	// IsActive 触发器是否有实例正在播放
	IsActive(trigger string) (bool, error)
	// BusyOutside 其他层是否有片段正在播放或排队
	BusyOutside(layer int) bool

	Enabled() bool
	SetEnabled(enabled bool)

	// Advance 推进所有活动片段 dt 秒，播放器禁用时不做任何事
	Advance(dt float64)
}

// PoseTarget 接收片段求值结果，由渲染端映射为具体姿态
type PoseTarget interface {
	ApplyPose(trigger string, time, weight float64)
}

// PlaybackState 播放器上一个片段实例的状态
type PlaybackState struct {
	// 排队克隆的名称带后缀
	Name     string
	Trigger  string
	Clip     *Clip
	Speed    float64
	Time     float64
	Weight   float64
	Layer    int
	WrapMode WrapMode
	Enabled  bool
}

// Length 返回片段长度
func (s *PlaybackState) Length() float64 {
	if s.Clip == nil {
		return 0
	}
	return s.Clip.Length
}
