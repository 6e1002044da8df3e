package state

import (
	"context"
	"math"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/repository"
	"github.com/alexanderramin/pulse/internal/session"
)

// Stress levels are rated on a 0..10 scale.
const (
	StressMin = 0
	StressMax = 10
)

// Moods offered when logging, in display order.
var Moods = []string{"开心", "满足", "兴奋", "平静", "不安", "焦虑", "难过", "生气"}

var moodScores = map[string]int{
	"开心": 9, "满足": 8, "兴奋": 9, "平静": 8,
	"不安": 5, "焦虑": 4, "难过": 3, "生气": 2,
}

// MoodScore rates a mood from 0 to 10; unknown moods score 0.
func MoodScore(mood string) int {
	return moodScores[mood]
}

// WeeklyMoodAverage averages the scores of the last seven moods, rounded
// to one decimal.
func WeeklyMoodAverage(moods []domain.MoodLog) float64 {
	recent := takeLast(moods, 7)
	if len(recent) == 0 {
		return 0
	}
	total := 0
	for _, m := range recent {
		total += MoodScore(m.Mood)
	}
	return math.Round(float64(total)/float64(len(recent))*10) / 10
}

// StressStatus labels an average stress level.
func StressStatus(avg float64) string {
	switch {
	case avg < 3:
		return "状态良好"
	case avg < 7:
		return "适当放松"
	default:
		return "需要休息"
	}
}

// StressAdvice lists suggestions for a single assessment.
func StressAdvice(level int) []string {
	switch {
	case level < 3:
		return []string{
			"压力较低，保持良好作息与运动",
			"建议继续保持当前状态",
			"可以尝试新的挑战以保持活力",
		}
	case level < 7:
		return []string{
			"中等压力，适当休息与深呼吸训练",
			"建议每天进行10分钟的冥想练习",
			"保持规律的作息时间",
			"合理安排工作和休息时间",
		}
	default:
		return []string{
			"压力偏高，尝试冥想与运动，必要时寻求帮助",
			"建议每天进行20分钟的冥想或有氧运动",
			"考虑调整工作或生活节奏",
			"与朋友或家人交流，分享感受",
			"如长期压力过大，建议寻求专业心理咨询",
		}
	}
}

// MentalState drives meditation sessions, stress assessments and mood
// logging.
type MentalState struct {
	holder
	repo    repository.MetricsRepo
	tracker *session.MeditationTracker
}

func NewMentalState(repo repository.MetricsRepo, opts Options) *MentalState {
	s := &MentalState{repo: repo}
	s.init(opts)
	return s
}

// StartMeditation begins a new session, replacing any unfinished one.
// targetSeconds of zero means open-ended.
func (s *MentalState) StartMeditation(targetSeconds int) *session.MeditationTracker {
	t := session.NewMeditationTracker(targetSeconds, s.now)
	t.Start()
	s.mu.Lock()
	s.tracker = t
	s.mu.Unlock()
	return t
}

func (s *MentalState) Meditation() *session.MeditationTracker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracker
}

// StopMeditation ends the running session and saves it if any time
// elapsed.
func (s *MentalState) StopMeditation(ctx context.Context) (domain.MeditationSession, error) {
	s.mu.Lock()
	t := s.tracker
	s.tracker = nil
	s.mu.Unlock()
	if t == nil {
		return domain.MeditationSession{}, s.reject("冥想尚未开始")
	}
	rec := t.Stop()
	if rec.DurationSeconds <= 0 {
		return rec, nil
	}
	at, err := time.ParseInLocation(domain.TimeLayout, rec.At, time.Local)
	if err != nil {
		at = s.now()
	}
	err = s.run(ctx, "mental.meditation", func(ctx context.Context) error {
		return s.repo.AddMeditation(ctx, at, rec.DurationSeconds, rec.Completed)
	})
	return rec, err
}

// AssessStress records a level in [StressMin, StressMax] and returns the
// advice for it.
func (s *MentalState) AssessStress(ctx context.Context, level int, note string) ([]string, error) {
	if level < StressMin || level > StressMax {
		return nil, s.reject("压力分值需在0到10之间")
	}
	err := s.run(ctx, "mental.stress", func(ctx context.Context) error {
		return s.repo.AddStress(ctx, s.now(), level, note)
	})
	if err != nil {
		return nil, err
	}
	return StressAdvice(level), nil
}

// LogMood records a mood scored with MoodScore.
func (s *MentalState) LogMood(ctx context.Context, mood, note string) error {
	if _, ok := moodScores[mood]; !ok {
		return s.reject("请选择情绪")
	}
	score := MoodScore(mood)
	return s.run(ctx, "mental.mood", func(ctx context.Context) error {
		return s.repo.AddMood(ctx, s.now(), mood, note, &score)
	})
}
