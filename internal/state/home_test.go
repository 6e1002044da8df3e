package state

import (
	"context"
	"testing"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTips struct {
	res domain.Result[domain.DailyTip]
}

func (s stubTips) Today(context.Context) domain.Result[domain.DailyTip] { return s.res }

func TestHomeState_Tip(t *testing.T) {
	ctx := context.Background()

	s := NewHomeState(&stubProfiles{}, stubTips{res: domain.Success(domain.DailyTip{Content: "多走路"})}, Options{})
	assert.Equal(t, "多走路", s.Tip(ctx))

	s = NewHomeState(&stubProfiles{}, stubTips{res: domain.Empty[domain.DailyTip]()}, Options{})
	assert.Equal(t, domain.FallbackTip, s.Tip(ctx))

	s = NewHomeState(&stubProfiles{}, stubTips{res: domain.Failure[domain.DailyTip](errBackend)}, Options{})
	assert.Equal(t, domain.FallbackTip, s.Tip(ctx))
	assert.Equal(t, "backend down", s.LastError())
}

func TestHomeState_Profile(t *testing.T) {
	profiles := &stubProfiles{}
	s := NewHomeState(profiles, stubTips{}, Options{})
	ctx := context.Background()

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDisplayName, p.DisplayName)

	p, err = s.Rename(ctx, "Ann")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.DisplayName)
	assert.Equal(t, []string{"Ann"}, profiles.ensured)

	_, err = s.Rename(ctx, "")
	require.ErrorIs(t, err, ErrInvalidInput)
}
