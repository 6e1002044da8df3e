package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubImports struct {
	savedType domain.ImportType
	saved     []domain.ImportedRecord
	jobFile   string
	jobRows   int
	saveErr   error
}

func (s *stubImports) SaveRecords(context.Context, []domain.ImportedRecord) (domain.SaveResult, error) {
	return domain.SaveResult{}, nil
}

func (s *stubImports) SaveByType(_ context.Context, t domain.ImportType, records []domain.ImportedRecord) (int, error) {
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	s.savedType, s.saved = t, records
	return len(records), nil
}

func (s *stubImports) CreateJob(_ context.Context, filename, _ string, rows int) (int64, error) {
	s.jobFile, s.jobRows = filename, rows
	return 42, nil
}

type stubTrigger struct {
	workflow string
	data     any
	err      error
}

func (s *stubTrigger) Trigger(_ context.Context, workflow string, data any) error {
	s.workflow, s.data = workflow, data
	return s.err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImportState_LoadAndSave(t *testing.T) {
	path := writeFile(t, "steps.csv", "date,steps\n2024-01-01,8000\nbad-date,100\n2024-01-02,6500\n")
	repo := &stubImports{}
	s := NewImportState(repo, nil, Options{})
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, path, domain.ImportSteps))
	p := s.Preview()
	assert.Equal(t, "steps.csv", p.File)
	assert.Len(t, p.Records, 2)
	require.Len(t, p.Invalid, 1)
	assert.Contains(t, p.Invalid[0].Error(), "row 2")

	saved, job, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	assert.Equal(t, int64(42), job)
	assert.Equal(t, domain.ImportSteps, repo.savedType)
	assert.Equal(t, "steps.csv", repo.jobFile)
	assert.Equal(t, 2, repo.jobRows)
}

func TestImportState_LoadFailure(t *testing.T) {
	s := NewImportState(&stubImports{}, nil, Options{})

	err := s.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), domain.ImportSteps)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(s.LastError(), "解析失败："), s.LastError())
}

func TestImportState_SaveEmptyPreview(t *testing.T) {
	repo := &stubImports{}
	s := NewImportState(repo, &stubTrigger{}, Options{})

	_, _, err := s.Save(context.Background())
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, MsgPreviewEmpty, s.LastError())

	require.ErrorIs(t, s.TriggerRPA(context.Background()), ErrInvalidInput)
	assert.Equal(t, MsgPreviewEmpty, s.LastError())
}

func TestImportState_SaveFailure(t *testing.T) {
	path := writeFile(t, "w.csv", "date,ml\n2024-01-01,500\n")
	repo := &stubImports{saveErr: errBackend}
	s := NewImportState(repo, nil, Options{})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx, path, domain.ImportWater))

	_, _, err := s.Save(ctx)
	require.ErrorIs(t, err, errBackend)
	assert.Empty(t, repo.jobFile)
}

func TestImportState_TriggerRPA(t *testing.T) {
	path := writeFile(t, "hr.json", `{"records":[{"date":"2024-01-01","heartRate":72}]}`)
	trigger := &stubTrigger{}
	s := NewImportState(&stubImports{}, trigger, Options{})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx, path, domain.ImportHeartRate))

	require.NoError(t, s.TriggerRPA(ctx))
	assert.Equal(t, "import-heart-rate", trigger.workflow)
	assert.Equal(t, MsgRPATriggered, s.Status())

	payload, ok := trigger.data.(rpaPayload)
	require.True(t, ok)
	assert.Equal(t, domain.ImportHeartRate, payload.Type)
	require.Len(t, payload.Records, 1)
	require.NotNil(t, payload.Records[0].HeartRate)
	assert.Equal(t, 72, *payload.Records[0].HeartRate)
}

func TestImportState_TriggerRPAFailure(t *testing.T) {
	path := writeFile(t, "m.csv", "date,mood\n2024-01-01,开心\n")
	ctx := context.Background()

	s := NewImportState(&stubImports{}, &stubTrigger{err: errBackend}, Options{})
	require.NoError(t, s.Load(ctx, path, domain.ImportMood))
	require.ErrorIs(t, s.TriggerRPA(ctx), errBackend)
	assert.Equal(t, MsgRPAFailed, s.LastError())
	assert.Empty(t, s.Status())

	unset := NewImportState(&stubImports{}, nil, Options{})
	require.NoError(t, unset.Load(ctx, path, domain.ImportMood))
	require.Error(t, unset.TriggerRPA(ctx))
	assert.Equal(t, MsgRPAFailed, unset.LastError())
}
