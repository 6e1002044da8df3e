package state

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/importer"
	"github.com/alexanderramin/pulse/internal/remote"
	"github.com/alexanderramin/pulse/internal/repository"
)

// Messages shown by ImportState.
const (
	MsgRPATriggered   = "已触发RPA工作流"
	MsgRPAFailed      = "触发失败，请检查 webhook 与 token"
	MsgPreviewEmpty   = "请先添加预览数据"
	msgParseFailedFmt = "解析失败：%v"
)

// importSource tags jobs created from this client.
const importSource = "cli"

// rpaWorkflows maps each import type to the automation that handles it.
var rpaWorkflows = map[domain.ImportType]string{
	domain.ImportSteps:     "import-steps",
	domain.ImportHeartRate: "import-heart-rate",
	domain.ImportSleep:     "import-sleep",
	domain.ImportWeight:    "import-weight",
	domain.ImportWater:     "import-water",
	domain.ImportMood:      "import-mood",
}

type WorkflowTrigger interface {
	Trigger(ctx context.Context, workflow string, data any) error
}

// Preview is the parsed content of one file, awaiting save.
type Preview struct {
	File    string
	Type    domain.ImportType
	Records []domain.ImportedRecord
	Invalid []error
}

type ImportState struct {
	holder
	repo    repository.ImportsRepo
	rpa     WorkflowTrigger
	preview Preview
	status  string
}

// NewImportState builds the holder. rpa may be nil when no webhook is set.
func NewImportState(repo repository.ImportsRepo, rpa WorkflowTrigger, opts Options) *ImportState {
	s := &ImportState{repo: repo, rpa: rpa}
	s.init(opts)
	return s
}

func (s *ImportState) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// Status is the last informational message, such as the RPA outcome.
func (s *ImportState) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *ImportState) setStatus(msg string) {
	s.mu.Lock()
	s.status = msg
	s.mu.Unlock()
}

// Load parses path as records of type t and keeps the valid rows as the
// preview. Invalid rows are listed in Preview.Invalid.
func (s *ImportState) Load(ctx context.Context, path string, t domain.ImportType) error {
	return s.run(ctx, "import.preview", func(ctx context.Context) error {
		records, err := importer.LoadFile(path, t)
		if err != nil {
			s.setError(fmt.Sprintf(msgParseFailedFmt, err))
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		valid, invalid := importer.ValidateRecords(t, records)
		s.mu.Lock()
		s.preview = Preview{File: filepath.Base(path), Type: t, Records: valid, Invalid: invalid}
		s.mu.Unlock()
		return nil
	})
}

// Save writes the preview and records an import job for it.
func (s *ImportState) Save(ctx context.Context) (saved int, jobID int64, err error) {
	p := s.Preview()
	if len(p.Records) == 0 {
		return 0, 0, s.reject(MsgPreviewEmpty)
	}
	err = s.run(ctx, "import.save", func(ctx context.Context) error {
		saved, err = s.repo.SaveByType(ctx, p.Type, p.Records)
		if err != nil {
			return err
		}
		jobID, err = s.repo.CreateJob(ctx, p.File, importSource, saved)
		return err
	})
	return saved, jobID, err
}

type rpaRecord struct {
	Date       string   `json:"date"`
	Steps      *int     `json:"steps,omitempty"`
	SleepHours *float64 `json:"sleepHours,omitempty"`
	HeartRate  *int     `json:"heartRate,omitempty"`
	Kg         *float64 `json:"kg,omitempty"`
	Ml         *int     `json:"ml,omitempty"`
	Mood       string   `json:"mood,omitempty"`
	Note       string   `json:"note,omitempty"`
	Score      *int     `json:"score,omitempty"`
}

type rpaPayload struct {
	Type    domain.ImportType `json:"type"`
	Records []rpaRecord       `json:"records"`
}

// TriggerRPA hands the preview to the external automation for its type.
func (s *ImportState) TriggerRPA(ctx context.Context) error {
	p := s.Preview()
	if len(p.Records) == 0 {
		return s.reject(MsgPreviewEmpty)
	}
	return s.run(ctx, "import.rpa", func(ctx context.Context) error {
		if s.rpa == nil {
			s.setError(MsgRPAFailed)
			return remote.ErrWebhookDisabled
		}
		payload := rpaPayload{Type: p.Type, Records: make([]rpaRecord, len(p.Records))}
		for i, r := range p.Records {
			payload.Records[i] = rpaRecord{
				Date:       r.Date,
				Steps:      r.Steps,
				SleepHours: r.SleepHours,
				HeartRate:  r.HeartRate,
				Kg:         r.WeightKg,
				Ml:         r.WaterMl,
				Mood:       r.Mood,
				Note:       r.MoodNote,
				Score:      r.MoodScore,
			}
		}
		if err := s.rpa.Trigger(ctx, rpaWorkflows[p.Type], payload); err != nil {
			s.setError(MsgRPAFailed)
			s.setStatus("")
			return err
		}
		s.setStatus(MsgRPATriggered)
		return nil
	})
}
