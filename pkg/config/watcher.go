package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/decker502/legacyanim/pkg/logging"
)

// debounceWindow 同一文件的事件在静默此时长后才投递，窗口内的连续事件合并为一次
const debounceWindow = 100 * time.Millisecond

// Watcher 监听配置目录和 reanim 目录的变化
//
// 后台 goroutine 只负责把变化的文件路径投递到 Events；
// 调用方在帧循环中消费事件并执行重载。
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher 监听给定目录
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close 停止监听
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// Drain 非阻塞地取出全部待处理事件（去重）
func (w *Watcher) Drain() []string {
	var changed []string
	seen := make(map[string]bool)
	for {
		select {
		case name := <-w.Events:
			if !seen[name] {
				seen[name] = true
				changed = append(changed, name)
			}
		default:
			return changed
		}
	}
}

// settled 是防抖计时器到期后回送给 run 的通知；gen 用于丢弃已被重置的旧计时器
type settled struct {
	name string
	gen  int
}

type pendingFile struct {
	timer *time.Timer
	gen   int
	op    fsnotify.Op
}

func (w *Watcher) run() {
	log := logging.GetLogger("ConfigWatcher")
	pending := make(map[string]*pendingFile)
	ready := make(chan settled, 16)
	defer func() {
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	// 每个文件的最后一次事件之后静默 debounceWindow 才投递（后沿触发）
	touch := func(name string, op fsnotify.Op) {
		p, ok := pending[name]
		if !ok {
			p = &pendingFile{}
			pending[name] = p
		} else {
			p.timer.Stop()
		}
		p.gen++
		p.op |= op
		gen := p.gen
		p.timer = time.AfterFunc(debounceWindow, func() {
			select {
			case ready <- settled{name: name, gen: gen}:
			case <-w.closeCh:
			}
		})
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !isWatchedFile(event.Name) {
				continue
			}
			touch(event.Name, event.Op)
		case s := <-ready:
			p, ok := pending[s.name]
			if !ok || p.gen != s.gen {
				continue
			}
			delete(pending, s.name)
			log.Debug().Str("file", s.name).Str("op", p.op.String()).Msg("file changed")
			select {
			case w.Events <- s.name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				log.Warn().Err(err).Msg("dropped watcher error")
			}
		case <-w.closeCh:
			return
		}
	}
}

func isWatchedFile(name string) bool {
	if IsConfigFile(name) {
		return true
	}
	return strings.EqualFold(filepath.Ext(name), ".reanim")
}
