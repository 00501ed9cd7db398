package anim

// poseRecorder 记录所有求值的姿态
type poseRecorder struct {
	poses []recordedPose
}

type recordedPose struct {
	trigger string
	time    float64
	weight  float64
}

func (r *poseRecorder) ApplyPose(trigger string, time, weight float64) {
	r.poses = append(r.poses, recordedPose{trigger, time, weight})
}

func newClip(name string, length float64, wrap WrapMode) *Clip {
	return &Clip{Name: name, Length: length, WrapMode: wrap}
}

func node(trigger string, length, speedAdjust float64) TriggerNode {
	return TriggerNode{Trigger: trigger, Clip: newClip(trigger, length, WrapOnce), SpeedAdjust: speedAdjust}
}

// openCloseNodes 测试共用的两节点面板
// open 1 秒正常速度，close 1 秒两倍速
func openCloseNodes() []TriggerNode {
	return []TriggerNode{
		node("open", 1.0, 0),
		node("close", 1.0, 1),
	}
}

func newTestHost(nodes ...TriggerNode) *Host {
	return NewHost(Config{Name: "test_panel", Nodes: nodes})
}

// tick 运行 n 帧，每帧 dt 秒
func tick(h *Host, n int, dt float64) {
	for i := 0; i < n; i++ {
		h.Update(dt)
	}
}
