package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/session"
	"github.com/charmbracelet/lipgloss"
)

const stageBarWidth = 20

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format("15:04")
}

// FormatSleepLive is the one-line status shown while a sleep session runs.
func FormatSleepLive(d domain.SleepData) string {
	return fmt.Sprintf("%s  %s  入睡 %s  已睡 %s  心率 %s",
		TrackerPill(d.State),
		StylePurple.Render(string(d.CurrentStage)),
		clock(d.StartTime),
		FormatMinutes(d.TotalMinutes),
		StyleRed.Render(fmt.Sprintf("%d bpm", d.CurrentHeartRate)))
}

// FormatSleepReport renders the summary of a finished sleep session.
func FormatSleepReport(d domain.SleepData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "就寝 %s   起床 %s   时长 %s\n\n",
		Bold(d.BedTime), Bold(d.WakeTime), Bold(fmt.Sprintf("%.1f 小时", d.Hours)))

	stages := []struct {
		name string
		pct  int
	}{
		{string(domain.StageLight), d.Stages.LightPct},
		{string(domain.StageDeep), d.Stages.DeepPct},
		{string(domain.StageREM), d.Stages.REMPct},
		{string(domain.StageAwake), d.Stages.AwakePct},
	}
	for _, s := range stages {
		fmt.Fprintf(&b, "%s  %s\n", padRight(s.name, 8), RenderProgress(float64(s.pct)/100, stageBarWidth))
	}

	fmt.Fprintf(&b, "\n睡眠评分 %s %s\n", StyleGreen.Render(fmt.Sprintf("%d", d.Score)), Dim(session.ScoreDescription(d.Score)))
	fmt.Fprintf(&b, "入睡用时 %d 分钟   夜醒 %d 次", d.LatencyMinutes, d.WakeCount)
	if d.Stages.Placeholder {
		b.WriteString("\n" + Dim("(阶段数据为示例值)"))
	}
	if len(d.WeeklyHours) > 0 {
		b.WriteString("\n\n本周  " + StyleYellow.Render(Sparkline(d.WeeklyHours)))
	}
	return RenderBox("睡眠报告", b.String())
}

// FormatExerciseLive is the one-line status shown during a workout.
func FormatExerciseLive(s domain.RunningSession) string {
	hr := 0
	if n := len(s.HeartRates); n > 0 {
		hr = s.HeartRates[n-1]
	}
	state := TrackerPill(s.State)
	if s.Paused {
		state = StyleYellow.Render("‖ 已暂停")
	}
	return fmt.Sprintf("%s  %s  %s  心率 %s  步数 %s",
		state,
		Bold(s.Plan.Name),
		FormatClock(s.ElapsedSeconds),
		StyleRed.Render(fmt.Sprintf("%d bpm", hr)),
		FormatNumber(s.Steps))
}

// FormatExerciseRecord summarizes a saved workout.
func FormatExerciseRecord(r domain.ExerciseRecord) string {
	content := strings.Join([]string{
		fmt.Sprintf("时长      %d 分钟", r.DurationMinutes),
		fmt.Sprintf("消耗      %s", StyleYellow.Render(fmt.Sprintf("%d kcal", r.CaloriesBurned))),
		fmt.Sprintf("平均心率  %s", StyleRed.Render(fmt.Sprintf("%d bpm", r.AverageHeartRate))),
		fmt.Sprintf("步数      %s", FormatNumber(r.Steps)),
	}, "\n")
	return RenderBox(r.PlanName, content)
}

// FormatMeditationLive is the one-line status shown while meditating.
func FormatMeditationLive(m domain.MeditationState, targetSeconds int) string {
	phase := StyleBlue.Render(string(m.Phase))
	if m.Phase == domain.BreathOut {
		phase = StyleGreen.Render(string(m.Phase))
	}
	elapsed := FormatClock(m.Seconds)
	if targetSeconds > 0 {
		elapsed += Dim(" / " + FormatClock(targetSeconds))
	}
	return fmt.Sprintf("%s  %s  %s", TrackerPill(m.State), phase, elapsed)
}

func padRight(s string, w int) string {
	return s + strings.Repeat(" ", max(0, w-lipgloss.Width(s)))
}
