package anim

// Scheduler 宿主提供的按帧计时的延迟回调
type Scheduler interface {
	// Schedule delay 秒后运行 fn
	// 时钟越过截止时间的那一帧只标记就绪，fn 在下一帧运行。
	Schedule(delay float64, fn func()) Handle
}

// Handle 可取消的回调句柄
type Handle interface {
	Cancel()
	Pending() bool
}

// timeEpsilon 吸收逐帧累加 dt 的浮点误差
const timeEpsilon = 1e-9

type taskState int

const (
	taskWaiting taskState = iota
	taskReady             // 已越过截止时间，下一帧运行
	taskDone
	taskCanceled
)

type tickTask struct {
	due   float64
	fn    func()
	state taskState
}

func (t *tickTask) Cancel() {
	if t.state == taskWaiting || t.state == taskReady {
		t.state = taskCanceled
	}
}

func (t *tickTask) Pending() bool {
	return t.state == taskWaiting || t.state == taskReady
}

// TickScheduler 由 Update(dt) 驱动的单线程调度器
type TickScheduler struct {
	now   float64
	tasks []*tickTask
}

// NewTickScheduler 创建时钟为 0 的调度器
func NewTickScheduler() *TickScheduler {
	return &TickScheduler{}
}

// Now 返回调度器时钟（秒）
func (s *TickScheduler) Now() float64 { return s.now }

// PendingCount 尚未运行且未取消的任务数
func (s *TickScheduler) PendingCount() int {
	n := 0
	for _, t := range s.tasks {
		if t.Pending() {
			n++
		}
	}
	return n
}

// Schedule 实现 Scheduler
func (s *TickScheduler) Schedule(delay float64, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	t := &tickTask{due: s.now + delay, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Update 推进时钟 dt 秒，运行上一帧已就绪的任务
func (s *TickScheduler) Update(dt float64) {
	s.now += dt

	// 回调里可能新增任务，本帧只处理已有的
	current := s.tasks
	for _, t := range current {
		switch t.state {
		case taskReady:
			t.state = taskDone
			t.fn()
		case taskWaiting:
			if s.now+timeEpsilon >= t.due {
				t.state = taskReady
			}
		}
	}

	live := s.tasks[:0]
	for _, t := range s.tasks {
		if t.Pending() {
			live = append(live, t)
		}
	}
	s.tasks = live
}
