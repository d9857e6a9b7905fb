package clock

import (
	"sync/atomic"
	"time"
)

// Clock supplies the current time in epoch seconds.
type Clock interface {
	Now() uint64
}

type System struct{}

func NewSystem() System {
	return System{}
}

func (System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Fixed is a manually driven clock for tests and tooling.
type Fixed struct {
	now atomic.Uint64
}

func NewFixed(now uint64) *Fixed {
	f := &Fixed{}
	f.now.Store(now)
	return f
}

func (f *Fixed) Now() uint64 {
	return f.now.Load()
}

func (f *Fixed) Set(now uint64) {
	f.now.Store(now)
}

func (f *Fixed) Advance(seconds uint64) {
	f.now.Add(seconds)
}
