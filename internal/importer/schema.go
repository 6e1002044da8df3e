// Package importer parses user-supplied CSV and JSON health exports into
// domain.ImportedRecord values for one import type at a time.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DetectFormat picks a format from the file extension, defaulting to CSV.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatCSV
}

// LoadFile reads path and parses it as records of type t.
func LoadFile(path string, t domain.ImportType) ([]domain.ImportedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, DetectFormat(path), t)
}

func Parse(data []byte, format Format, t domain.ImportType) ([]domain.ImportedRecord, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data, t)
	case FormatCSV:
		return ParseCSV(string(data), t)
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}
}

// recordImport is one element of a JSON import file.
type recordImport struct {
	Date       string      `json:"date"`
	Steps      *flexNumber `json:"steps"`
	SleepHours *flexNumber `json:"sleepHours"`
	HeartRate  *flexNumber `json:"heartRate"`
	Kg         *flexNumber `json:"kg"`
	Ml         *flexNumber `json:"ml"`
	Mood       string      `json:"mood"`
	Note       string      `json:"note"`
	Score      *flexNumber `json:"score"`
}

// flexNumber accepts a JSON number or a numeric string.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	*f = flexNumber(v)
	return nil
}

// ParseJSON accepts either a top-level array of records or an object
// with a "records" array.
func ParseJSON(data []byte, t domain.ImportType) ([]domain.ImportedRecord, error) {
	data = bytes.TrimSpace(data)
	var items []recordImport
	if bytes.HasPrefix(data, []byte("[")) {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	} else {
		var wrapper struct {
			Records []recordImport `json:"records"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		items = wrapper.Records
	}

	out := make([]domain.ImportedRecord, 0, len(items))
	for _, it := range items {
		f := fields{date: strings.TrimSpace(it.Date), mood: it.Mood, note: it.Note}
		f.steps = numString(it.Steps)
		f.sleep = numString(it.SleepHours)
		f.heart = numString(it.HeartRate)
		f.kg = numString(it.Kg)
		f.ml = numString(it.Ml)
		f.score = numString(it.Score)
		out = append(out, f.record(t))
	}
	return out, nil
}

func numString(n *flexNumber) string {
	if n == nil {
		return ""
	}
	return strconv.FormatFloat(float64(*n), 'f', -1, 64)
}

// fields holds the raw text of one row before conversion.
type fields struct {
	date, steps, sleep, heart, kg, ml, mood, note, score string
}

// record keeps only the fields belonging to t. Unparsable numbers become
// nil and are reported by Validate.
func (f fields) record(t domain.ImportType) domain.ImportedRecord {
	r := domain.ImportedRecord{Date: f.date}
	switch t {
	case domain.ImportSteps:
		r.Steps = parseInt(f.steps)
	case domain.ImportHeartRate:
		r.HeartRate = parseInt(f.heart)
	case domain.ImportSleep:
		r.SleepHours = parseFloat(f.sleep)
	case domain.ImportWeight:
		r.WeightKg = parseFloat(f.kg)
	case domain.ImportWater:
		r.WaterMl = parseInt(f.ml)
	case domain.ImportMood:
		r.Mood = f.mood
		r.MoodNote = f.note
		r.MoodScore = parseInt(f.score)
	}
	return r
}

func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	// JSON numbers such as 8000.0 still count as integers.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		v := int(f)
		return &v
	}
	return nil
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
