package components

import "github.com/decker502/legacyanim/pkg/anim"

// LegacyAnimatorComponent 片段动画序列器组件
//
// 持有一个自带播放器和帧调度器的 anim.Host。
// LegacyAnimatorSystem 负责首帧的 Prepare/Start、逐帧推进，
// 以及按需持久化布尔标志。
type LegacyAnimatorComponent struct {
	// AnimatorID 对应配置中的动画器 ID
	AnimatorID string

	Host *anim.Host

	// Started 是否已执行 Start()（采样 wait_trigger / 播放 autoplay_trigger）
	Started bool

	// PersistFlags 为 true 时，系统在标志变化后写入 FlagStore
	PersistFlags bool

	// FlagsDirty 标志已修改、待持久化
	FlagsDirty bool

	// LastError 最近一次生命周期或命令失败的错误（调试用）
	LastError error
}

// Sequencer 便捷访问
func (c *LegacyAnimatorComponent) Sequencer() *anim.Sequencer {
	return c.Host.Sequencer
}
