package entities

import (
	"fmt"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/components"
	"github.com/decker502/legacyanim/pkg/config"
	"github.com/decker502/legacyanim/pkg/ecs"
)

// AnimatorOptions 创建动画器实体的可选项
type AnimatorOptions struct {
	// PoseTarget 接收播放器求值结果（渲染或调试），可为 nil
	PoseTarget anim.PoseTarget

	// PersistFlags 标志是否通过 FlagStore 持久化
	PersistFlags bool
}

// NewLegacyAnimatorEntity 根据配置创建动画器实体
//
// 参数:
//   - em: 实体管理器
//   - cfg: 动画器配置
//   - cache: reanim 缓存，只用显式时长的配置可以传 nil
//   - opts: 可选项
//
// 返回:
//   - ecs.EntityID: 创建的实体ID
//   - error: 配置校验或片段解析失败（此时不会创建实体）
func NewLegacyAnimatorEntity(em *ecs.EntityManager, cfg *config.AnimatorConfig, cache *config.ReanimCache, opts AnimatorOptions) (ecs.EntityID, error) {
	seqCfg, err := cfg.SequencerConfig(cache)
	if err != nil {
		return 0, fmt.Errorf("failed to build animator %s: %w", cfg.ID, err)
	}

	host := anim.NewHost(seqCfg)
	if opts.PoseTarget != nil {
		host.Player.SetPoseTarget(opts.PoseTarget)
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, &components.LegacyAnimatorComponent{
		AnimatorID:   cfg.ID,
		Host:         host,
		PersistFlags: opts.PersistFlags,
	})
	return entityID, nil
}

// QueueSequence 为实体添加序列命令，覆盖尚未处理的旧命令
func QueueSequence(em *ecs.EntityManager, id ecs.EntityID, steps []components.SequenceStep, timestamp float64) {
	em.AddComponent(id, &components.SequenceCommandComponent{
		Steps:     steps,
		Timestamp: timestamp,
	})
}
