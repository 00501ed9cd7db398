package app

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/legacyanim/internal/reanim"
	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/components"
	"github.com/decker502/legacyanim/pkg/config"
	"github.com/decker502/legacyanim/pkg/ecs"
)

// poseSample 播放器最近一次对某个触发器的求值结果
type poseSample struct {
	time   float64
	weight float64
}

// poseTracker 实现 anim.PoseTarget，记录每个触发器最近的姿态
type poseTracker struct {
	samples map[string]poseSample
	last    string
}

func newPoseTracker() *poseTracker {
	return &poseTracker{samples: make(map[string]poseSample)}
}

// ApplyPose implements anim.PoseTarget.
func (p *poseTracker) ApplyPose(trigger string, time, weight float64) {
	p.samples[trigger] = poseSample{time: time, weight: weight}
	p.last = trigger
}

// reanimSource 节点对应的 reanim 轨道（用于显示物理帧号）
type reanimSource struct {
	file *reanim.ReanimXML
	anim string
}

// AnimatorCell 一个动画器实体的展示单元
type AnimatorCell struct {
	AnimatorID string
	Entity     ecs.EntityID

	pose    *poseTracker
	sources map[string]reanimSource
}

func newAnimatorCell(id string, entity ecs.EntityID, pose *poseTracker) *AnimatorCell {
	return &AnimatorCell{
		AnimatorID: id,
		Entity:     entity,
		pose:       pose,
		sources:    make(map[string]reanimSource),
	}
}

// bindSources 记录 reanim 节点，失败的节点只是不显示帧号
func (c *AnimatorCell) bindSources(cfg *config.AnimatorConfig, cache *config.ReanimCache) {
	c.sources = make(map[string]reanimSource)
	if cache == nil {
		return
	}
	for _, n := range cfg.Nodes {
		if !n.Clip.IsReanim() {
			continue
		}
		r, err := cache.Load(n.Clip.ReanimFile)
		if err != nil {
			continue
		}
		c.sources[n.Trigger] = reanimSource{file: r, anim: n.Clip.Anim}
	}
}

// physicalFrame 返回触发器当前姿态对应的 reanim 物理帧
func (c *AnimatorCell) physicalFrame(trigger string) (int, bool) {
	src, ok := c.sources[trigger]
	if !ok {
		return 0, false
	}
	sample, ok := c.pose.samples[trigger]
	if !ok {
		return 0, false
	}
	frame, err := src.file.FrameAt(src.anim, sample.time)
	if err != nil {
		return 0, false
	}
	return frame, true
}

// lines 生成单元的文本信息
func (c *AnimatorCell) lines(comp *components.LegacyAnimatorComponent) []string {
	seq := comp.Sequencer()
	out := []string{
		fmt.Sprintf("%s  [%s]", c.AnimatorID, seq.State()),
		fmt.Sprintf("cumulative %.2fs", seq.Cumulative()),
	}
	if delay, ok := seq.PendingDisable(); ok {
		out = append(out, fmt.Sprintf("auto-disable in %.2fs", delay))
	} else {
		out = append(out, "auto-disable: none")
	}

	triggers := make([]string, 0, len(seq.Nodes()))
	for _, n := range seq.Nodes() {
		triggers = append(triggers, n.Trigger)
	}
	out = append(out, "triggers: "+strings.Join(triggers, ", "))

	if c.pose.last != "" {
		line := "last pose: " + c.pose.last
		if frame, ok := c.physicalFrame(c.pose.last); ok {
			line += fmt.Sprintf(" (frame %d)", frame)
		}
		out = append(out, line)
	}

	flags := seq.Flags().Snapshot()
	if len(flags) > 0 {
		names := make([]string, 0, len(flags))
		for k, v := range flags {
			names = append(names, fmt.Sprintf("%s=%t", k, v))
		}
		sort.Strings(names)
		out = append(out, "flags: "+strings.Join(names, " "))
	}
	if comp.LastError != nil {
		out = append(out, "error: "+comp.LastError.Error())
	}
	return out
}

var (
	cellBackground = color.RGBA{30, 30, 30, 220}
	cellSelected   = color.RGBA{255, 220, 0, 255}
	cellBorder     = color.RGBA{90, 90, 90, 255}
	barBackground  = color.RGBA{60, 60, 60, 255}
	barBaseLayer   = color.RGBA{80, 170, 255, 255}
	barSecondLayer = color.RGBA{120, 220, 120, 255}
	barWait        = color.RGBA{160, 160, 160, 255}
)

// draw 绘制单元：文本信息 + 每个活动片段的进度条
func (c *AnimatorCell) draw(screen *ebiten.Image, comp *components.LegacyAnimatorComponent, x, y, w, h int, selected bool) {
	fx, fy, fw, fh := float32(x), float32(y), float32(w), float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, fh, cellBackground, false)
	border := cellBorder
	if selected {
		border = cellSelected
	}
	vector.StrokeRect(screen, fx, fy, fw, fh, 2, border, false)

	lines := c.lines(comp)
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), x+8, y+6)

	barY := y + 16*len(lines) + 16
	for _, st := range comp.Host.Player.Active() {
		if barY+14 > y+h {
			break
		}
		progress := 0.0
		if length := st.Length(); length > 0 {
			progress = st.Time / length
		}
		clr := barBaseLayer
		switch {
		case st.Trigger == anim.WaitClipName:
			clr = barWait
		case st.Layer == anim.SecondLayer:
			clr = barSecondLayer
		}

		barW := float32(w - 16)
		vector.DrawFilledRect(screen, fx+8, float32(barY), barW, 10, barBackground, false)
		vector.DrawFilledRect(screen, fx+8, float32(barY), barW*float32(clamp01(progress)), 10, clr, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s L%d x%.2g %s", st.Name, st.Layer, st.Speed, st.WrapMode), x+8, barY+10)
		barY += 30
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
