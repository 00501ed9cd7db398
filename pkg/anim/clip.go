// Package anim 实现基于多层片段播放器的动画序列器
//
// 触发器名称映射到片段，链式播放调用累计总时长，
// 所有排队的非循环片段播放完后播放器自动禁用。
package anim

import (
	"fmt"
	"math"
	"strings"
)

// WaitClipName Wait/AndWait 使用的空片段的触发器名
const WaitClipName = "WAIT_CLIP"

// waitClipLength 等待片段的长度，播放速度取 waitClipLength/seconds
const waitClipLength = 1.0

// 播放层
const (
	BaseLayer   = 0
	SecondLayer = 1
)

// WrapMode 片段到达端点时的行为
type WrapMode int

const (
	// WrapOnce 播放到末尾后停止
	WrapOnce WrapMode = iota
	// WrapClamp 停在最后一帧，视为已完成
	WrapClamp
	// WrapLoop 从另一端重新开始
	WrapLoop
	// WrapPingPong 到达端点后反向
	WrapPingPong
)

// String 返回配置文件中的写法
func (w WrapMode) String() string {
	switch w {
	case WrapOnce:
		return "once"
	case WrapClamp:
		return "clamp"
	case WrapLoop:
		return "loop"
	case WrapPingPong:
		return "pingpong"
	default:
		return fmt.Sprintf("WrapMode(%d)", int(w))
	}
}

// Repeats 该模式的片段是否永远不会自行结束
func (w WrapMode) Repeats() bool {
	return w == WrapLoop || w == WrapPingPong
}

// ParseWrapMode 解析配置文件中的写法，空字符串为 WrapOnce
func ParseWrapMode(s string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once", "default":
		return WrapOnce, nil
	case "clamp", "clampforever":
		return WrapClamp, nil
	case "loop":
		return WrapLoop, nil
	case "pingpong", "ping_pong":
		return WrapPingPong, nil
	}
	return WrapOnce, fmt.Errorf("unknown wrap mode %q", s)
}

// Clip 动画片段
type Clip struct {
	Name     string
	Length   float64 // 速度为 1 时的秒数
	WrapMode WrapMode

	// 来自 reanim 时填充，仅用于显示
	FPS        float64
	FrameCount int
}

// NewWaitClip 创建等待用的空片段
func NewWaitClip() *Clip {
	return &Clip{Name: WaitClipName, Length: waitClipLength, WrapMode: WrapOnce}
}

// TriggerNode 触发器名称到片段的绑定
type TriggerNode struct {
	Trigger     string
	Clip        *Clip
	SpeedAdjust float64
	SecondLayer bool
}

// Layer 返回节点所在的播放层
func (n TriggerNode) Layer() int {
	if n.SecondLayer {
		return SecondLayer
	}
	return BaseLayer
}

// Speed 实际播放速度 1 + SpeedAdjust
func (n TriggerNode) Speed() float64 {
	return 1 + n.SpeedAdjust
}

// Duration 以 speed 播放 length 秒片段所需的时间，速度为 0 时为 +Inf
func Duration(length, speed float64) float64 {
	if speed == 0 {
		return math.Inf(1)
	}
	return length / math.Abs(speed)
}
