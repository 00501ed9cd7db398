package game

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/decker502/legacyanim/pkg/anim"
	"github.com/decker502/legacyanim/pkg/logging"
)

// 存储路径常量
const (
	// DefaultAppName gdata 应用名，决定数据目录
	DefaultAppName = "legacyanim"

	flagsObject = "animator_flags"
)

// animatorFlags 单个动画器的持久化格式
type animatorFlags struct {
	Flags map[string]bool `yaml:"flags"`
}

// FlagStore 动画器布尔标志存储
//
// 每个动画器的标志以 YAML 形式保存为 gdata 对象 animator_flags 的一个属性，
// 属性名为动画器 ID。
type FlagStore struct {
	gdataManager *gdata.Manager // 可为 nil（降级模式，不持久化）
	log          zerolog.Logger
}

// OpenFlagStore 打开 gdata 存储
//
// 打开失败时返回降级模式的 FlagStore 和错误，调用方可以继续使用。
func OpenFlagStore(appName string) (*FlagStore, error) {
	if appName == "" {
		appName = DefaultAppName
	}
	log := logging.GetLogger("FlagStore")
	if err := ensureStorageDir(); err != nil {
		log.Warn().Err(err).Msg("storage dir check failed")
	}
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Warn().Err(err).Msg("gdata unavailable, flags will not persist")
		return NewFlagStore(nil), fmt.Errorf("failed to open gdata %s: %w", appName, err)
	}
	return NewFlagStore(manager), nil
}

// NewFlagStore 创建标志存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
func NewFlagStore(gdataManager *gdata.Manager) *FlagStore {
	return &FlagStore{
		gdataManager: gdataManager,
		log:          logging.GetLogger("FlagStore"),
	}
}

// Persistent 是否真正持久化
func (s *FlagStore) Persistent() bool {
	return s.gdataManager != nil
}

// Load 读取动画器的标志
//
// 降级模式或未保存过时返回 (nil, nil)
func (s *FlagStore) Load(animatorID string) (map[string]bool, error) {
	if s.gdataManager == nil {
		return nil, nil
	}
	if !s.gdataManager.ObjectPropExists(flagsObject, animatorID) {
		return nil, nil
	}

	data, err := s.gdataManager.LoadObjectProp(flagsObject, animatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flags of %s: %w", animatorID, err)
	}

	var saved animatorFlags
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flags of %s: %w", animatorID, err)
	}
	return saved.Flags, nil
}

// Save 保存动画器的标志
// 降级模式下返回 nil（不报错）
func (s *FlagStore) Save(animatorID string, flags map[string]bool) error {
	if s.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(animatorFlags{Flags: flags})
	if err != nil {
		return fmt.Errorf("failed to marshal flags of %s: %w", animatorID, err)
	}
	if err := s.gdataManager.SaveObjectProp(flagsObject, animatorID, data); err != nil {
		return fmt.Errorf("failed to save flags of %s: %w", animatorID, err)
	}

	s.log.Debug().
		Str("animator", animatorID).
		Int("count", len(flags)).
		Msg("flags saved")
	return nil
}

// Restore 把已保存的标志恢复到序列器
func (s *FlagStore) Restore(seq *anim.Sequencer) error {
	flags, err := s.Load(seq.Name())
	if err != nil {
		return err
	}
	if flags != nil {
		seq.Flags().Restore(flags)
	}
	return nil
}

// Persist 保存序列器当前的标志
func (s *FlagStore) Persist(seq *anim.Sequencer) error {
	return s.Save(seq.Name(), seq.Flags().Snapshot())
}
