package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/state"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws values as a row of block glyphs scaled between their
// minimum and maximum.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[i])
	}
	return b.String()
}

func values(ps []domain.Point) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Value
	}
	return out
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func seriesRow(label, unit string, ps []domain.Point, style func(...string) string) []string {
	if len(ps) == 0 {
		return []string{label, Dim("--"), Dim("--"), "0", ""}
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Value
	}
	latest := ps[len(ps)-1].Value
	avg := sum / float64(len(ps))
	return []string{
		label,
		trim(latest) + " " + unit,
		fmt.Sprintf("%.1f %s", avg, unit),
		strconv.Itoa(len(ps)),
		style(Sparkline(values(ps))),
	}
}

// FormatMetrics renders the windowed series as one table row each with a
// sparkline of the visible samples.
func FormatMetrics(v state.MetricsData, rangeDays int) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("健康数据 · 近 %d 天", rangeDays)))
	b.WriteString("\n\n")

	rows := [][]string{
		seriesRow("心率", "bpm", v.HeartRates, StyleRed.Render),
		seriesRow("步数", "步", v.Steps, StyleGreen.Render),
		seriesRow("体重", "kg", v.Weights, StylePurple.Render),
		seriesRow("饮水", "ml", v.Water, StyleBlue.Render),
		seriesRow("睡眠", "小时", v.Sleep, StyleYellow.Render),
	}
	b.WriteString(RenderTable([]string{"指标", "最新", "平均", "记录", "趋势"}, rows))
	return b.String()
}

// FormatMentalSummary renders meditation totals, average stress and the
// weekly mood average.
func FormatMentalSummary(seconds int, minutes, avgStress, moodAvg float64, status string) string {
	lines := []string{
		fmt.Sprintf("冥想总时长  %s %s", Bold(fmt.Sprintf("%.1f 分钟", minutes)), Dim(fmt.Sprintf("(%d 秒)", seconds))),
		fmt.Sprintf("平均压力    %s %s", StressStyle(avgStress).Render(fmt.Sprintf("%.1f", avgStress)), Dim(status)),
		fmt.Sprintf("本周情绪    %s", Bold(fmt.Sprintf("%.1f / 10", moodAvg))),
	}
	return strings.Join(lines, "\n")
}

// FormatRecent lists the latest sample of each kind.
func FormatRecent(records []string) string {
	if len(records) == 0 {
		return Dim("暂无记录")
	}
	var b strings.Builder
	b.WriteString(Header("最近记录"))
	b.WriteString("\n")
	for _, r := range records {
		b.WriteString("  • " + r + "\n")
	}
	return b.String()
}

// FormatAggregates renders server-side totals for a range.
func FormatAggregates(a domain.Aggregates) string {
	content := strings.Join([]string{
		fmt.Sprintf("总步数    %s", StyleGreen.Render(FormatNumber(a.StepsTotal))),
		fmt.Sprintf("总饮水    %s", StyleBlue.Render(FormatNumber(a.WaterTotal)+" ml")),
		fmt.Sprintf("平均睡眠  %s", StyleYellow.Render(fmt.Sprintf("%.1f 小时", a.SleepAvg))),
	}, "\n")
	return RenderBox(fmt.Sprintf("近 %d 天汇总", a.RangeDays), content)
}
