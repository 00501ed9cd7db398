package systems

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/components"
	"github.com/decker502/legacyanim/pkg/ecs"
	"github.com/decker502/legacyanim/pkg/game"
	"github.com/decker502/legacyanim/pkg/logging"
)

// LegacyAnimatorSystem 驱动所有 LegacyAnimatorComponent
//
// 每帧依次：
//  1. 首次出现的动画器执行 Prepare / 恢复标志 / Start
//  2. 执行未处理的 SequenceCommandComponent
//  3. 推进播放器，再推进帧调度器（自动禁用在片段结束后的下一帧生效）
//  4. 持久化已修改的标志
type LegacyAnimatorSystem struct {
	entityManager *ecs.EntityManager
	flagStore     *game.FlagStore // 可为 nil
	log           zerolog.Logger
}

// NewLegacyAnimatorSystem 创建系统
//
// 参数：
//   - em: 实体管理器
//   - flagStore: 标志存储，可为 nil（不持久化）
func NewLegacyAnimatorSystem(em *ecs.EntityManager, flagStore *game.FlagStore) *LegacyAnimatorSystem {
	return &LegacyAnimatorSystem{
		entityManager: em,
		flagStore:     flagStore,
		log:           logging.GetLogger("AnimatorSystem"),
	}
}

// Update 推进所有动画器
func (s *LegacyAnimatorSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.LegacyAnimatorComponent](s.entityManager) {
		comp, ok := ecs.GetComponent[*components.LegacyAnimatorComponent](s.entityManager, id)
		if !ok || comp.Host == nil {
			continue
		}

		if !comp.Started {
			s.start(id, comp)
		}

		if cmd, ok := ecs.GetComponent[*components.SequenceCommandComponent](s.entityManager, id); ok && !cmd.Processed {
			cmd.Err = ExecuteSteps(comp.Sequencer(), cmd.Steps)
			cmd.Processed = true
			if cmd.Err != nil {
				comp.LastError = cmd.Err
				s.log.Warn().Err(cmd.Err).Uint64("entity", uint64(id)).Str("animator", comp.AnimatorID).Msg("sequence command failed")
			}
		}

		comp.Host.Update(deltaTime)

		if comp.PersistFlags && comp.FlagsDirty {
			s.persist(comp)
		}
	}
}

// start 首帧初始化；失败也标记为已启动，避免每帧重试
func (s *LegacyAnimatorSystem) start(id ecs.EntityID, comp *components.LegacyAnimatorComponent) {
	comp.Started = true
	seq := comp.Sequencer()

	if err := seq.Prepare(); err != nil {
		comp.LastError = err
		s.log.Error().Err(err).Uint64("entity", uint64(id)).Msg("prepare failed")
		return
	}
	if comp.PersistFlags && s.flagStore != nil {
		if err := s.flagStore.Restore(seq); err != nil {
			s.log.Warn().Err(err).Str("animator", comp.AnimatorID).Msg("failed to restore flags")
		}
	}
	if err := seq.Start(); err != nil {
		comp.LastError = err
		s.log.Error().Err(err).Uint64("entity", uint64(id)).Msg("start failed")
	}
}

func (s *LegacyAnimatorSystem) persist(comp *components.LegacyAnimatorComponent) {
	comp.FlagsDirty = false
	if s.flagStore == nil {
		return
	}
	if err := s.flagStore.Persist(comp.Sequencer()); err != nil {
		comp.LastError = err
		s.log.Warn().Err(err).Str("animator", comp.AnimatorID).Msg("failed to persist flags")
	}
}

// SetBool 设置实体动画器的标志并标记待持久化
func (s *LegacyAnimatorSystem) SetBool(id ecs.EntityID, name string, value bool) bool {
	comp, ok := ecs.GetComponent[*components.LegacyAnimatorComponent](s.entityManager, id)
	if !ok || comp.Host == nil {
		return false
	}
	comp.Sequencer().SetBool(name, value)
	comp.FlagsDirty = true
	return true
}

// Rebuild 用新配置重建动画器实例（配置热重载）
//
// configs 以动画器 ID 为键，只重建其中列出的动画器。所有配置先全部校验，
// 任何一个失败时不修改任何实例。返回重建的实体数。
func (s *LegacyAnimatorSystem) Rebuild(configs map[string]anim.Config) (int, error) {
	for id, cfg := range configs {
		cfg.Name = id
		if err := anim.ValidateConfig(cfg); err != nil {
			return 0, fmt.Errorf("animator %s: %w", id, err)
		}
	}

	rebuilt := 0
	for _, id := range ecs.GetEntitiesWith1[*components.LegacyAnimatorComponent](s.entityManager) {
		comp, ok := ecs.GetComponent[*components.LegacyAnimatorComponent](s.entityManager, id)
		if !ok || comp.Host == nil {
			continue
		}
		cfg, ok := configs[comp.AnimatorID]
		if !ok {
			continue
		}
		if err := comp.Sequencer().Rebuild(cfg); err != nil {
			return rebuilt, fmt.Errorf("entity %d: %w", id, err)
		}
		// 重新执行 Start（采样 wait_trigger / 播放 autoplay_trigger）
		comp.Started = false
		rebuilt++
	}
	s.log.Info().Int("animators", len(configs)).Int("entities", rebuilt).Msg("animators rebuilt")
	return rebuilt, nil
}

// ExecuteSteps 按顺序执行序列步骤，遇到第一个错误即停止
func ExecuteSteps(seq *anim.Sequencer, steps []components.SequenceStep) error {
	chain := seq.Chain()
	for i, step := range steps {
		var err error
		switch step.Op {
		case components.OpSetTrigger:
			err = chain.SetTrigger(step.Trigger).Err()
		case components.OpFollowedBy:
			err = chain.FollowedBy(step.Trigger).Err()
		case components.OpWait:
			err = chain.Wait(step.Seconds).Err()
		case components.OpAndWait:
			err = chain.AndWait(step.Seconds).Err()
		case components.OpStop:
			seq.Stop()
		case components.OpSampleFirstFrame:
			err = seq.SampleFirstFrame(step.Trigger)
		case components.OpTrigger:
			err = seq.Trigger()
		case components.OpTriggerSecondary:
			err = seq.TriggerSecondary()
		default:
			err = fmt.Errorf("unknown op %q", step.Op)
		}
		if err != nil {
			return fmt.Errorf("step #%d %s: %w", i, step, err)
		}
	}
	return nil
}
