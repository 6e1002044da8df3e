package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/pulse/internal/domain"
)

// column describes how a header cell is recognised: an exact
// case-insensitive name or a substring (for the localized headers).
type column struct {
	names    []string
	contains []string
}

var (
	colDate  = column{names: []string{"date"}, contains: []string{"日期"}}
	colSteps = column{names: []string{"steps", "count"}, contains: []string{"步数"}}
	colSleep = column{names: []string{"sleepHours", "hours"}, contains: []string{"睡眠"}}
	colHeart = column{names: []string{"heartRate", "bpm"}, contains: []string{"心率"}}
	colKg    = column{names: []string{"kg"}, contains: []string{"体重"}}
	colMl    = column{names: []string{"ml"}, contains: []string{"饮水"}}
	colMood  = column{names: []string{"mood"}, contains: []string{"情绪"}}
	colNote  = column{names: []string{"note"}, contains: []string{"备注"}}
	colScore = column{names: []string{"score"}, contains: []string{"评分"}}
)

func (c column) matches(h string) bool {
	for _, n := range c.names {
		if strings.EqualFold(h, n) {
			return true
		}
	}
	for _, sub := range c.contains {
		if strings.Contains(h, sub) {
			return true
		}
	}
	return false
}

// index returns the first header position matching c, or -1.
func (c column) index(header []string) int {
	for i, h := range header {
		if c.matches(h) {
			return i
		}
	}
	return -1
}

// DetectDelimiter chooses the separator from the header line.
func DetectDelimiter(header string) rune {
	comma := strings.Count(header, ",")
	semicolon := strings.Count(header, ";")
	tab := strings.Count(header, "\t")
	switch {
	case semicolon > comma && semicolon >= tab:
		return ';'
	case tab > comma && tab >= semicolon:
		return '\t'
	default:
		return ','
	}
}

// ParseCSV parses text whose first non-blank line is a header. Columns
// the header lacks leave the matching fields unset.
func ParseCSV(text string, t domain.ImportType) ([]domain.ImportedRecord, error) {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = DetectDelimiter(lines[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = r.Comma != '\t'

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i := range header {
		header[i] = clean(header[i])
	}
	idx := map[*column]int{}
	for _, c := range []*column{&colDate, &colSteps, &colSleep, &colHeart, &colKg, &colMl, &colMood, &colNote, &colScore} {
		idx[c] = c.index(header)
	}

	var out []domain.ImportedRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(c *column) string {
			i := idx[c]
			if i < 0 || i >= len(row) {
				return ""
			}
			return clean(row[i])
		}
		f := fields{
			date: get(&colDate), steps: get(&colSteps), sleep: get(&colSleep),
			heart: get(&colHeart), kg: get(&colKg), ml: get(&colMl),
			mood: get(&colMood), note: get(&colNote), score: get(&colScore),
		}
		out = append(out, f.record(t))
	}
	return out, nil
}

// clean trims a cell and unwraps quotes the reader left in place, which
// happens when a tab-separated cell starts with whitespace.
func clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}
