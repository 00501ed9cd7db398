package anim

import "math"

// TimingAccumulator 记录整个序列结束（可以自动禁用）的时间
type TimingAccumulator struct {
	cumulative float64
}

// Total 返回累计时长
func (t *TimingAccumulator) Total() float64 { return t.cumulative }

// Reset 清零
func (t *TimingAccumulator) Reset() { t.cumulative = 0 }

// Set 替换累计时长，负数按 0 处理
func (t *TimingAccumulator) Set(d float64) {
	t.cumulative = math.Max(0, d)
}

// Layer 取当前值与 d 的较大者（与其他层并行播放）
func (t *TimingAccumulator) Layer(d float64) {
	if t.cumulative < d {
		t.cumulative = d
	}
}

// Chain 累加 d（在当前片段之后播放）
func (t *TimingAccumulator) Chain(d float64) {
	t.cumulative += d
}

// Finite 累计时长是否有限
func (t *TimingAccumulator) Finite() bool {
	return !math.IsInf(t.cumulative, 0) && !math.IsNaN(t.cumulative)
}
