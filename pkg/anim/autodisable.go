package anim

// AutoDisable 序列器的自动禁用槽
//
// 同一时刻最多只有一个待执行的禁用回调：Arm 总是先取消上一个句柄。
type AutoDisable struct {
	scheduler Scheduler
	engine    PlaybackEngine
	pending   Handle
	deadline  float64 // 当前句柄的延迟

	onFire func()
}

// NewAutoDisable 绑定调度器和要禁用的播放引擎
func NewAutoDisable(s Scheduler, e PlaybackEngine) *AutoDisable {
	return &AutoDisable{scheduler: s, engine: e}
}

// OnFire 注册禁用完成后的回调
func (a *AutoDisable) OnFire(fn func()) {
	a.onFire = fn
}

// Arm 取消旧的禁用，delay 秒后重新禁用播放器
func (a *AutoDisable) Arm(delay float64) {
	a.Cancel()
	a.deadline = delay

	var h Handle
	h = a.scheduler.Schedule(delay, func() {
		if a.pending != h {
			return
		}
		a.pending = nil
		a.engine.SetEnabled(false)
		if a.onFire != nil {
			a.onFire()
		}
	})
	a.pending = h
}

// Cancel 取消待执行的禁用
func (a *AutoDisable) Cancel() {
	if a.pending != nil {
		a.pending.Cancel()
		a.pending = nil
	}
}

// Pending 是否有待执行的禁用
func (a *AutoDisable) Pending() bool {
	return a.pending != nil && a.pending.Pending()
}

// Delay 返回待执行禁用的延迟
func (a *AutoDisable) Delay() (float64, bool) {
	if !a.Pending() {
		return 0, false
	}
	return a.deadline, true
}
