package domain

import "time"

// SleepStageBreakdown is the per-stage percentage split reported when a
// sleep session ends. Placeholder is true while the values are fixed
// constants rather than measured.
type SleepStageBreakdown struct {
	LightPct    int
	DeepPct     int
	REMPct      int
	AwakePct    int
	Placeholder bool
}

type SleepData struct {
	State            TrackerState
	CurrentStage     SleepStage
	CurrentHeartRate int
	StartTime        time.Time
	EndTime          time.Time
	TotalMinutes     int
	Hours            float64
	BedTime          string
	WakeTime         string
	Stages           SleepStageBreakdown
	Score            int
	LatencyMinutes   int
	WakeCount        int
	WeeklyHours      []float64
}

type ExercisePlan struct {
	ID              string
	Name            string `validate:"required"`
	DurationMinutes int    `validate:"gte=1"`
	Calories        int    `validate:"gte=0"`
	Intensity       string
}

type ExerciseRecord struct {
	ID               string
	PlanName         string
	StartTime        time.Time
	EndTime          time.Time
	DurationMinutes  int
	CaloriesBurned   int
	AverageHeartRate int
	Steps            int
}

// RunningSession is the live state of an exercise session.
type RunningSession struct {
	Plan           ExercisePlan
	State          TrackerState
	Start          time.Time
	ElapsedSeconds int
	HeartRates     []int
	Steps          int
	Paused         bool
}

type MeditationState struct {
	State   TrackerState
	Seconds int
	Phase   BreathPhase
}
