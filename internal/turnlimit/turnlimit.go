// Package turnlimit decides when an observed turn counter has crossed the
// configured save-and-quit threshold.
package turnlimit

// Controller tracks the target turn and whether the trigger already fired.
// A zero increment disables the controller entirely.
type Controller struct {
	increment int
	aligned   bool

	target int
	armed  bool
	fired  bool
}

// New creates a Controller. With aligned set, the target is rounded up to
// the next multiple of increment past the first observed turn; otherwise it
// is first observed turn + increment.
func New(increment int, aligned bool) *Controller {
	return &Controller{increment: increment, aligned: aligned}
}

// Restore pre-arms a controller from persisted state, so a restart inside
// the same session neither recomputes the target nor re-fires.
func (c *Controller) Restore(target int, fired bool) {
	if target > 0 {
		c.target = target
		c.armed = true
	}
	c.fired = fired
}

// Observe feeds a status-line turn count. It returns true exactly once: the
// first time the count reaches or passes the target.
func (c *Controller) Observe(turn int) bool {
	if c.increment <= 0 {
		return false
	}
	if !c.armed {
		// Computed once from the first observed turn, never revised.
		if c.aligned {
			c.target = c.increment * (turn/c.increment + 1)
		} else {
			c.target = turn + c.increment
		}
		c.armed = true
	}
	if c.fired || turn < c.target {
		return false
	}
	c.fired = true
	return true
}

// Target returns the computed target turn, or 0 when not yet armed.
func (c *Controller) Target() int {
	return c.target
}

// Fired reports whether the trigger has already fired.
func (c *Controller) Fired() bool {
	return c.fired
}
