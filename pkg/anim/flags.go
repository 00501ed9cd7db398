package anim

// BoolFlags 调用方定义的布尔标志，未设置的名称读为 false
type BoolFlags struct {
	values map[string]bool
}

// NewBoolFlags 创建空的标志集合
func NewBoolFlags() *BoolFlags {
	return &BoolFlags{values: make(map[string]bool)}
}

// SetBool 插入或更新标志
func (f *BoolFlags) SetBool(name string, value bool) {
	if f.values == nil {
		f.values = make(map[string]bool)
	}
	f.values[name] = value
}

// GetBool 返回标志值，不存在时为 false
func (f *BoolFlags) GetBool(name string) bool {
	return f.values[name]
}

// Len 返回标志数量
func (f *BoolFlags) Len() int { return len(f.values) }

// Snapshot 返回所有标志的副本
func (f *BoolFlags) Snapshot() map[string]bool {
	out := make(map[string]bool, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Restore 合并 values，覆盖同名标志
func (f *BoolFlags) Restore(values map[string]bool) {
	for k, v := range values {
		f.SetBool(k, v)
	}
}
