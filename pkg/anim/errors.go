package anim

import (
	"errors"
	"fmt"
)

// 哨兵错误，调用方用 errors.Is 判断；都不做重试
var (
	// ErrTriggerNotFound 请求的触发器名称未注册
	ErrTriggerNotFound = errors.New("trigger not found")

	// ErrEmptyNodeList Trigger()/TriggerSecondary() 调用时节点数量不足
	ErrEmptyNodeList = errors.New("not enough nodes registered")

	// ErrDuplicateTrigger 两个节点使用了相同的触发器名称
	ErrDuplicateTrigger = errors.New("duplicate trigger")

	// ErrNotActive FollowedBy/AndWait 只能在序列激活时调用
	ErrNotActive = errors.New("sequence is not active")

	// ErrInvalidWait 等待时长为负数、NaN 或无穷
	ErrInvalidWait = errors.New("invalid wait duration")

	// ErrNotPrepared 在 Prepare() 之前调用了需要注册表的操作
	ErrNotPrepared = errors.New("sequencer not prepared")
)

func errTriggerNotFound(owner, trigger string) error {
	return fmt.Errorf("%w: no trigger named %q in animator %q", ErrTriggerNotFound, trigger, owner)
}

func errDuplicateTrigger(owner, trigger string, index int) error {
	return fmt.Errorf("%w: %q (node #%d) in animator %q", ErrDuplicateTrigger, trigger, index, owner)
}

func errEmptyNodeList(owner string, need, have int) error {
	return fmt.Errorf("%w: animator %q needs %d node(s), has %d", ErrEmptyNodeList, owner, need, have)
}
