package session

import (
	"sync"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
)

// Placeholder figures reported when a sleep session stops. No stage
// detection exists yet, so they are constants and flagged as such.
const (
	placeholderLight   = 40
	placeholderDeep    = 35
	placeholderREM     = 20
	placeholderAwake   = 5
	placeholderScore   = 85
	placeholderLatency = 10
	placeholderWakes   = 1

	sleepStartHeartRate = 60
)

// DefaultWeeklySleep seeds the weekly chart, Monday first.
var DefaultWeeklySleep = []float64{7.2, 8.5, 6.8, 7.5, 7.1, 8.2, 7.8}

type SleepTracker struct {
	mu   sync.Mutex
	now  Clock
	data domain.SleepData
}

// NewSleepTracker returns an idle tracker. A nil clock uses time.Now and
// a nil weekly slice uses DefaultWeeklySleep.
func NewSleepTracker(now Clock, weekly []float64) *SleepTracker {
	if now == nil {
		now = time.Now
	}
	if weekly == nil {
		weekly = DefaultWeeklySleep
	}
	w := make([]float64, len(weekly))
	copy(w, weekly)
	return &SleepTracker{
		now: now,
		data: domain.SleepData{
			State:        domain.TrackerIdle,
			CurrentStage: domain.StagePreparing,
			WeeklyHours:  w,
		},
	}
}

// Start begins a new night. Everything but the weekly chart is reset.
func (s *SleepTracker) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = domain.SleepData{
		State:            domain.TrackerActive,
		StartTime:        s.now(),
		CurrentStage:     domain.StageLight,
		CurrentHeartRate: sleepStartHeartRate,
		WeeklyHours:      s.data.WeeklyHours,
	}
}

// Tick refreshes the running duration.
func (s *SleepTracker) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State != domain.TrackerActive {
		return
	}
	s.data.TotalMinutes = int(s.now().Sub(s.data.StartTime) / time.Minute)
}

func (s *SleepTracker) State() domain.TrackerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.State
}

// UpdateStage records the current stage and heart rate. It reports false
// and changes nothing unless monitoring is active.
func (s *SleepTracker) UpdateStage(stage domain.SleepStage, heartRate int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State != domain.TrackerActive {
		return false
	}
	s.data.CurrentStage = stage
	s.data.CurrentHeartRate = heartRate
	return true
}

// Stop ends monitoring and returns the finished record. Stopping a
// tracker that never started yields a zero-duration record.
func (s *SleepTracker) Stop() domain.SleepData {
	s.mu.Lock()
	defer s.mu.Unlock()

	end := s.now()
	start := s.data.StartTime
	if start.IsZero() {
		start = end
	}
	minutes := int(end.Sub(start) / time.Minute)

	s.data.State = domain.TrackerEnded
	s.data.StartTime = start
	s.data.EndTime = end
	s.data.TotalMinutes = minutes
	s.data.Hours = float64(minutes) / 60
	s.data.BedTime = start.Format("15:04")
	s.data.WakeTime = end.Format("15:04")
	s.data.CurrentStage = domain.StageEnded
	s.data.Stages = domain.SleepStageBreakdown{
		LightPct:    placeholderLight,
		DeepPct:     placeholderDeep,
		REMPct:      placeholderREM,
		AwakePct:    placeholderAwake,
		Placeholder: true,
	}
	s.data.Score = placeholderScore
	s.data.LatencyMinutes = placeholderLatency
	s.data.WakeCount = placeholderWakes
	if n := len(s.data.WeeklyHours); n > 0 {
		s.data.WeeklyHours[n-1] = s.data.Hours
	}
	return s.snapshotLocked()
}

func (s *SleepTracker) Snapshot() domain.SleepData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SleepTracker) snapshotLocked() domain.SleepData {
	out := s.data
	out.WeeklyHours = append([]float64(nil), s.data.WeeklyHours...)
	return out
}

// ScoreDescription turns a 0-100 sleep score into advice.
func ScoreDescription(score int) string {
	switch {
	case score >= 90:
		return "优秀！你的睡眠质量非常好，继续保持。"
	case score >= 80:
		return "良好！你的睡眠质量不错，但还有提升空间。"
	case score >= 70:
		return "一般！建议调整作息，改善睡眠环境。"
	case score >= 60:
		return "较差！需要关注睡眠问题，建议咨询专业人士。"
	default:
		return "很差！请立即调整生活习惯，必要时寻求医疗帮助。"
	}
}
