// Package session holds the live monitoring state machines: sleep,
// exercise and meditation. Each moves Idle -> Active -> Ended and is
// advanced by Run on a fixed interval.
package session

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// Tracker is the surface Run drives. Stop and Snapshot live on each
// concrete tracker because every kind returns its own record type.
type Tracker interface {
	Start()
	Tick()
	State() domain.TrackerState
}

var (
	_ Tracker = (*SleepTracker)(nil)
	_ Tracker = (*ExerciseTracker)(nil)
	_ Tracker = (*MeditationTracker)(nil)
)

// Clock returns the current time.
type Clock func() time.Time

// Rand returns a value in [0, n).
type Rand func(n int) int

func defaultRand(n int) int { return rand.IntN(n) }

// between returns a value in [lo, hi].
func between(r Rand, lo, hi int) int {
	return lo + r(hi-lo+1)
}

// Run ticks t every interval until ctx is cancelled or t leaves the active
// state. onTick, if set, is called after each tick.
func Run(ctx context.Context, t Tracker, interval time.Duration, onTick func()) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if t.State() != domain.TrackerActive {
				return nil
			}
			t.Tick()
			if onTick != nil {
				onTick()
			}
		}
	}
}
