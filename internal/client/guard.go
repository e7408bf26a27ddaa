// ABOUTME: One-shot latch that lets exactly one forced logout run per pipeline
// ABOUTME: Idle until the first session-invalid failure, Tripped for the pipeline's lifetime

package client

import "sync/atomic"

type guardState int32

const (
	guardIdle guardState = iota
	guardTripped
)

// logoutGuard is owned by a Client and never reset. A new Client (built when
// the console returns to its login screen) starts Idle again.
type logoutGuard struct {
	state atomic.Int32
}

// trip moves Idle -> Tripped and reports whether this caller won the race.
func (g *logoutGuard) trip() bool {
	return g.state.CompareAndSwap(int32(guardIdle), int32(guardTripped))
}

func (g *logoutGuard) tripped() bool {
	return guardState(g.state.Load()) == guardTripped
}
