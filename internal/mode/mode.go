// Package mode holds the process-wide secure/vulnerable switch.
package mode

import (
	"fmt"
	"sync/atomic"
)

// Mode names which set of behaviours an operation runs under.
type Mode string

const (
	Secure     Mode = "secure"
	Vulnerable Mode = "vulnerable"
)

// Parse accepts "secure" or "vulnerable".
func Parse(s string) (Mode, error) {
	switch Mode(s) {
	case Secure, Vulnerable:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Controller is read on every operation, never cached, so a Toggle takes
// effect on the next call. The zero value is in secure mode.
type Controller struct {
	vulnerable atomic.Bool
}

// NewController returns a Controller set to start.
func NewController(start Mode) *Controller {
	c := &Controller{}
	c.vulnerable.Store(start == Vulnerable)
	return c
}

// Secure reports whether the controller is in secure mode.
func (c *Controller) Secure() bool {
	return !c.vulnerable.Load()
}

// Current returns the mode in force right now.
func (c *Controller) Current() Mode {
	if c.Secure() {
		return Secure
	}
	return Vulnerable
}

// Toggle flips the mode and returns the new one.
func (c *Controller) Toggle() Mode {
	for {
		old := c.vulnerable.Load()
		if c.vulnerable.CompareAndSwap(old, !old) {
			if old {
				return Secure
			}
			return Vulnerable
		}
	}
}
