package anim

// Host 把序列器、播放器和帧调度器组合在一起
type Host struct {
	Sequencer *Sequencer
	Player    *ClipPlayer
	Scheduler *TickScheduler
}

// NewHost 使用新的 ClipPlayer 和 TickScheduler 创建序列器
func NewHost(cfg Config) *Host {
	player := NewClipPlayer()
	sched := NewTickScheduler()
	return &Host{
		Sequencer: NewSequencer(cfg, player, sched),
		Player:    player,
		Scheduler: sched,
	}
}

// Update 执行一帧：先推进片段，再运行延迟回调
// 禁用总是发生在最后一个片段完成的那一帧之后。
func (h *Host) Update(dt float64) {
	h.Player.Advance(dt)
	h.Scheduler.Update(dt)
}
