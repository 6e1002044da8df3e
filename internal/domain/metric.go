package domain

// Point is a single (timestamp, value) sample ready for display.
// At keeps the backend's timestamp text as-is.
type Point struct {
	At    string
	Value float64
}

type HeartRate struct {
	At  string
	BPM int
}

type StepCount struct {
	At    string
	Count int
}

type Weight struct {
	At string
	Kg float64
}

type WaterIntake struct {
	At string
	Ml int
}

type SleepEntry struct {
	At    string
	Hours float64
}

type MoodLog struct {
	At    string
	Mood  string
	Note  string
	Score *int
}

type MeditationSession struct {
	At              string
	DurationSeconds int
	Completed       bool
}

type StressAssessment struct {
	At    string
	Level int
	Note  string
}

// Aggregates are server-computed totals over a trailing window of days.
type Aggregates struct {
	RangeDays  int
	StepsTotal int
	WaterTotal int
	SleepAvg   float64
}

// TimeLayout is the timestamp format used when recording new samples.
const TimeLayout = "2006-01-02 15:04:05"
