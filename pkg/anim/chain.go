package anim

// Chain 序列器的链式调用包装
//
// 第一个错误会被保留，之后的调用全部跳过。
//
//	err := seq.Chain().SetTrigger("open").FollowedBy("close").AndWait(1).Err()
type Chain struct {
	s   *Sequencer
	err error
}

// Chain 开始一次链式调用
func (s *Sequencer) Chain() *Chain {
	return &Chain{s: s}
}

func (c *Chain) SetTrigger(trigger string) *Chain {
	if c.err == nil {
		c.err = c.s.SetTrigger(trigger)
	}
	return c
}

func (c *Chain) FollowedBy(trigger string) *Chain {
	if c.err == nil {
		c.err = c.s.FollowedBy(trigger)
	}
	return c
}

func (c *Chain) Wait(seconds float64) *Chain {
	if c.err == nil {
		c.err = c.s.Wait(seconds)
	}
	return c
}

func (c *Chain) AndWait(seconds float64) *Chain {
	if c.err == nil {
		c.err = c.s.AndWait(seconds)
	}
	return c
}

// Err 返回链上的第一个错误
func (c *Chain) Err() error { return c.err }
