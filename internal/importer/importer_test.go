package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		header string
		want   rune
	}{
		{"date,steps", ','},
		{"date;steps;note", ';'},
		{"date\tsteps\tnote", '\t'},
		{"date;steps,x", ','},
		{"a;b\tc", ';'},
		{"plain", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(DetectDelimiter(tt.header)), "header %q", tt.header)
	}
}

func TestParseCSV_Steps(t *testing.T) {
	text := "\n日期,步数\n2024-01-01,8000\n\n  \n2024-01-02, 6500 \n2024-01-03,abc\n"
	recs, err := ParseCSV(text, domain.ImportSteps)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "2024-01-01", recs[0].Date)
	require.NotNil(t, recs[0].Steps)
	assert.Equal(t, 8000, *recs[0].Steps)
	assert.Equal(t, 6500, *recs[1].Steps)
	assert.Nil(t, recs[2].Steps, "unparsable values are left unset")
	assert.Nil(t, recs[0].HeartRate, "only the chosen type is populated")
}

func TestParseCSV_QuotedDelimiters(t *testing.T) {
	text := "date;mood;note;score\n" +
		"2024-01-01;开心;\"跑步; 然后\"\"拉伸\"\"\";4\n" +
		"\"2024-01-02\";平静;;\n"
	recs, err := ParseCSV(text, domain.ImportMood)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "开心", recs[0].Mood)
	assert.Equal(t, `跑步; 然后"拉伸"`, recs[0].MoodNote)
	require.NotNil(t, recs[0].MoodScore)
	assert.Equal(t, 4, *recs[0].MoodScore)

	assert.Equal(t, "2024-01-02", recs[1].Date)
	assert.Empty(t, recs[1].MoodNote)
	assert.Nil(t, recs[1].MoodScore)
}

func TestParseCSV_TabAndAliases(t *testing.T) {
	text := "Date\tBPM\n2024-02-01 08:00:00\t72\n2024-02-01 09:00:00\t75\n"
	recs, err := ParseCSV(text, domain.ImportHeartRate)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 75, *recs[1].HeartRate)

	recs, err = ParseCSV("date,sleepHours\n2024-01-01,7.5\n", domain.ImportSleep)
	require.NoError(t, err)
	assert.Equal(t, 7.5, *recs[0].SleepHours)
}

func TestParseCSV_Empty(t *testing.T) {
	recs, err := ParseCSV(" \n\n", domain.ImportSteps)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestParseJSON_ArrayAndWrapper(t *testing.T) {
	recs, err := ParseJSON([]byte(`[{"date":"2024-01-01","kg":61.2},{"date":"2024-01-02","kg":"60.8"}]`), domain.ImportWeight)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 60.8, *recs[1].WeightKg)

	recs, err = ParseJSON([]byte(` {"records":[{"date":"2024-01-01","ml":500,"steps":10}]}`), domain.ImportWater)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 500, *recs[0].WaterMl)
	assert.Nil(t, recs[0].Steps)

	_, err = ParseJSON([]byte(`{"records":`), domain.ImportWater)
	assert.Error(t, err)
}

func TestValidateRecords(t *testing.T) {
	recs, err := ParseCSV("date,bpm\n2024-01-01,72\nyesterday,70\n2024-01-03,400\n2024-01-04,\n", domain.ImportHeartRate)
	require.NoError(t, err)

	valid, errs := ValidateRecords(domain.ImportHeartRate, recs)
	require.Len(t, valid, 1)
	assert.Equal(t, 72, *valid[0].HeartRate)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "row 2")
	assert.Contains(t, errs[0].Error(), "invalid date")
	assert.Contains(t, errs[1].Error(), "lte=250")
	assert.Contains(t, errs[2].Error(), "HeartRate is required")
}

func TestValidateRecords_Mood(t *testing.T) {
	score := 11
	_, errs := ValidateRecords(domain.ImportMood, []domain.ImportedRecord{
		{Date: "2024-01-01T08:00:00Z", Mood: "开心"},
		{Date: "2024-01-01", Mood: ""},
		{Date: "2024-01-01", Mood: "累", MoodScore: &score},
	})
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "row 2")
	assert.Contains(t, errs[1].Error(), "row 3")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "water.JSON")
	require.NoError(t, os.WriteFile(path, []byte(`[{"date":"2024-01-01","ml":250}]`), 0o600))

	assert.Equal(t, FormatJSON, DetectFormat(path))
	assert.Equal(t, FormatCSV, DetectFormat("x.txt"))

	recs, err := LoadFile(path, domain.ImportWater)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 250, *recs[0].WaterMl)

	_, err = LoadFile(filepath.Join(dir, "missing.csv"), domain.ImportWater)
	assert.Error(t, err)
}
