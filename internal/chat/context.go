package chat

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/repository"
)

// Context variable names shared with the chat application.
const (
	VarAvgSteps    = "avg_steps_7d"
	VarLastHeart   = "last_heart_bpm"
	VarSleepAvg    = "sleep_avg_7d"
	VarWaterTotal  = "water_total_7d"
	VarMoodLast    = "mood_last"
	VarWeightLast  = "weight_last"
	VarWeightDelta = "weight_delta_7d"
	VarUserID      = "user_id"
)

const (
	recentDays      = 7
	recentHeartRate = 5
)

// BuildContext summarizes recent metrics into chat variables. Failed or
// empty loads contribute zero values. user_id falls back to a random id
// when nobody is signed in.
func BuildContext(ctx context.Context, metrics repository.MetricsRepo, users repository.UserResolver) map[string]string {
	steps := takeLast(metrics.Steps(ctx, repository.LimitSteps).Value, recentDays)
	heart := takeLast(metrics.HeartRates(ctx, repository.LimitHeartRates).Value, recentHeartRate)
	weights := takeLast(metrics.Weights(ctx, repository.LimitDefault).Value, recentDays)
	water := takeLast(metrics.Water(ctx, repository.LimitDefault).Value, recentDays)
	sleep := takeLast(metrics.Sleep(ctx, repository.LimitDefault).Value, recentDays)
	moods := takeLast(metrics.Moods(ctx, repository.LimitDefault).Value, 1)

	var lastHeart int
	if len(heart) > 0 {
		lastHeart = int(heart[len(heart)-1].Value)
	}
	var mood string
	if len(moods) > 0 {
		mood = moods[0].Mood
	}
	var lastWeight float64
	if len(weights) > 0 {
		lastWeight = weights[len(weights)-1].Value
	}

	vars := map[string]string{
		VarAvgSteps:    strconv.Itoa(int(average(steps))),
		VarLastHeart:   strconv.Itoa(lastHeart),
		VarSleepAvg:    fmt.Sprintf("%.2f", average(sleep)),
		VarWaterTotal:  strconv.Itoa(int(sum(water))),
		VarMoodLast:    mood,
		VarWeightLast:  fmt.Sprintf("%.2f", lastWeight),
		VarWeightDelta: fmt.Sprintf("%.2f", lastWeight-average(weights)),
	}

	uid := ""
	if users != nil {
		uid, _ = users.CurrentUserID(ctx)
	}
	if uid == "" {
		uid = uuid.NewString()
	}
	vars[VarUserID] = uid
	return vars
}

// SystemPrompt asks for structured lifestyle advice grounded in vars.
func SystemPrompt(vars map[string]string) string {
	return "你是循证的中文健康助手，提供非医疗诊断的生活方式建议。" +
		"输出结构包含：现状总结、目标设定、运动计划（频次/时长/心率或RPE）、饮食建议（宏量比例与示例菜单）、睡眠与作息、监测与观察点、风险与就医建议、本周任务清单。" +
		"请结合用户近期数据：步数均值" + vars[VarAvgSteps] +
		"，最近静息心率" + vars[VarLastHeart] +
		"，近7天平均睡眠" + vars[VarSleepAvg] +
		"小时，近7天饮水总量" + vars[VarWaterTotal] +
		"ml，最近情绪" + vars[VarMoodLast] +
		"，最近体重" + vars[VarWeightLast] +
		"kg，体重相对均值变化" + vars[VarWeightDelta] +
		"kg。遇到红旗症状时提示就医。"
}

func takeLast[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[len(xs)-n:]
}

func sum(ps []domain.Point) float64 {
	var s float64
	for _, p := range ps {
		s += p.Value
	}
	return s
}

func average(ps []domain.Point) float64 {
	if len(ps) == 0 {
		return 0
	}
	return sum(ps) / float64(len(ps))
}
