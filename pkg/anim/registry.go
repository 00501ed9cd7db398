package anim

import "fmt"

// ClipRegistry 触发器名称到节点的索引，并同步到播放引擎
//
// 运行时只有 Register 会修改注册表且只执行一次；Rebuild 用于编辑时重新同步。
type ClipRegistry struct {
	owner    string
	engine   PlaybackEngine
	nodes    []TriggerNode
	index    map[string]TriggerNode
	prepared bool
}

// NewClipRegistry 创建空注册表，owner 用于错误信息
func NewClipRegistry(owner string, engine PlaybackEngine) *ClipRegistry {
	return &ClipRegistry{
		owner:  owner,
		engine: engine,
		index:  make(map[string]TriggerNode),
	}
}

// Prepared Register 是否已成功
func (r *ClipRegistry) Prepared() bool { return r.prepared }

// Register 把所有节点和等待片段加入引擎
// 成功后再次调用不做任何事；校验先于任何修改。
func (r *ClipRegistry) Register(nodes []TriggerNode) error {
	if r.prepared {
		return nil
	}
	if err := r.build(nodes); err != nil {
		return err
	}
	r.prepared = true
	return nil
}

// Rebuild 清空引擎后重新添加节点，不受只执行一次的限制
func (r *ClipRegistry) Rebuild(nodes []TriggerNode) error {
	if err := r.build(nodes); err != nil {
		return err
	}
	r.prepared = true
	return nil
}

// Lookup 查找触发器对应的节点
func (r *ClipRegistry) Lookup(trigger string) (TriggerNode, error) {
	n, ok := r.index[trigger]
	if !ok {
		return TriggerNode{}, errTriggerNotFound(r.owner, trigger)
	}
	return n, nil
}

// Nodes 按注册顺序返回节点
func (r *ClipRegistry) Nodes() []TriggerNode {
	out := make([]TriggerNode, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Len 节点数量（不含等待片段）
func (r *ClipRegistry) Len() int { return len(r.nodes) }

func (r *ClipRegistry) build(nodes []TriggerNode) error {
	if err := ValidateNodes(r.owner, nodes); err != nil {
		return err
	}

	r.engine.RemoveAll()
	index := make(map[string]TriggerNode, len(nodes))
	for _, n := range nodes {
		if err := r.engine.AddClip(n.Trigger, n.Clip, n.Layer()); err != nil {
			return fmt.Errorf("add clip %q to animator %q: %w", n.Trigger, r.owner, err)
		}
		index[n.Trigger] = n
	}
	if err := r.engine.AddClip(WaitClipName, NewWaitClip(), BaseLayer); err != nil {
		return fmt.Errorf("add wait clip to animator %q: %w", r.owner, err)
	}

	r.nodes = append([]TriggerNode(nil), nodes...)
	r.index = index
	return nil
}

// ValidateNodes 检查触发器名称和片段，不修改任何状态
func ValidateNodes(owner string, nodes []TriggerNode) error {
	seen := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if n.Trigger == "" {
			return fmt.Errorf("animator %q node #%d has an empty trigger", owner, i)
		}
		if n.Trigger == WaitClipName {
			return fmt.Errorf("animator %q node #%d uses reserved trigger %q", owner, i, WaitClipName)
		}
		if n.Clip == nil {
			return fmt.Errorf("animator %q node #%d (%q) has no clip", owner, i, n.Trigger)
		}
		if n.Clip.Length < 0 {
			return fmt.Errorf("animator %q node #%d (%q) has negative clip length %v", owner, i, n.Trigger, n.Clip.Length)
		}
		if first, dup := seen[n.Trigger]; dup {
			return fmt.Errorf("%w (first defined at node #%d)", errDuplicateTrigger(owner, n.Trigger, i), first)
		}
		seen[n.Trigger] = i
	}
	return nil
}
