package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/state"
)

// previewRows is how many parsed rows a preview shows.
const previewRows = 10

// FormatPreview shows the first parsed rows of an import and any rows that
// failed validation.
func FormatPreview(p state.Preview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n\n",
		Bold(p.File), StylePurple.Render(string(p.Type)),
		Dim(fmt.Sprintf("%d 条有效，%d 条无效", len(p.Records), len(p.Invalid))))

	rows := make([][]string, 0, min(len(p.Records), previewRows))
	for _, r := range p.Records[:min(len(p.Records), previewRows)] {
		rows = append(rows, []string{r.Date, recordValue(p.Type, r)})
	}
	b.WriteString(RenderTable([]string{"日期", "数值"}, rows))
	if extra := len(p.Records) - previewRows; extra > 0 {
		b.WriteString(Dim(fmt.Sprintf("… 另有 %d 条", extra)) + "\n")
	}
	for _, err := range p.Invalid {
		b.WriteString(StyleRed.Render("  ✖ "+err.Error()) + "\n")
	}
	return b.String()
}

func recordValue(t domain.ImportType, r domain.ImportedRecord) string {
	switch t {
	case domain.ImportSteps:
		return intOrDash(r.Steps)
	case domain.ImportHeartRate:
		return intOrDash(r.HeartRate)
	case domain.ImportWater:
		return intOrDash(r.WaterMl)
	case domain.ImportSleep:
		return floatOrDash(r.SleepHours)
	case domain.ImportWeight:
		return floatOrDash(r.WeightKg)
	case domain.ImportMood:
		s := r.Mood
		if r.MoodNote != "" {
			s += " " + Dim(r.MoodNote)
		}
		return s
	}
	return "--"
}

func intOrDash(p *int) string {
	if p == nil {
		return "--"
	}
	return strconv.Itoa(*p)
}

func floatOrDash(p *float64) string {
	if p == nil {
		return "--"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}
