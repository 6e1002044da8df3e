package session

import (
	"sync"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// breathCycle is one inhale plus one exhale, in seconds.
const breathCycle = 8

// Phase returns the breathing phase for a given second of a session.
func Phase(seconds int) domain.BreathPhase {
	if seconds%breathCycle < breathCycle/2 {
		return domain.BreathIn
	}
	return domain.BreathOut
}

type MeditationTracker struct {
	mu     sync.Mutex
	now    Clock
	target int
	start  time.Time
	st     domain.MeditationState
}

// NewMeditationTracker returns an idle tracker. A session counts as
// completed once targetSeconds have elapsed; zero means any length does.
func NewMeditationTracker(targetSeconds int, now Clock) *MeditationTracker {
	if now == nil {
		now = time.Now
	}
	return &MeditationTracker{
		now:    now,
		target: targetSeconds,
		st:     domain.MeditationState{State: domain.TrackerIdle, Phase: domain.BreathIn},
	}
}

func (m *MeditationTracker) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.start = m.now()
	m.st = domain.MeditationState{State: domain.TrackerActive, Phase: Phase(0)}
}

func (m *MeditationTracker) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st.State != domain.TrackerActive {
		return
	}
	m.st.Seconds++
	m.st.Phase = Phase(m.st.Seconds)
}

func (m *MeditationTracker) State() domain.TrackerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.State
}

func (m *MeditationTracker) Snapshot() domain.MeditationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st
}

// Done reports whether the target duration has been reached.
func (m *MeditationTracker) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target > 0 && m.st.Seconds >= m.target
}

// Stop ends the session. It is stamped with its start time, or the stop
// time if it never started.
func (m *MeditationTracker) Stop() domain.MeditationSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	at := m.start
	if at.IsZero() {
		at = m.now()
	}
	m.st.State = domain.TrackerEnded
	return domain.MeditationSession{
		At:              at.Format(domain.TimeLayout),
		DurationSeconds: m.st.Seconds,
		Completed:       m.target <= 0 || m.st.Seconds >= m.target,
	}
}
