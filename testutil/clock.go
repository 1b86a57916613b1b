// Package testutil provides in-memory fakes for the capability.*
// interfaces other than DatabaseAdapter (tests open the real sqlrepo
// adapter on ":memory:" instead), the same role the teacher's testutil package plays for its
// own test suite: a single place package tests import instead of each
// hand-rolling its own mocks.
package testutil

import (
	"sync"
	"time"
)

// FakeClock implements capability.Clock with a value the test controls.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}
