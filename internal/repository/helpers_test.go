package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/pulse/internal/config"
	"github.com/alexanderramin/pulse/internal/remote"
	"github.com/alexanderramin/pulse/internal/testutil"
	"github.com/stretchr/testify/require"
)

// signedInClient returns a remote client logged in against a fake backend.
func signedInClient(t *testing.T) (*remote.Client, *testutil.FakeBackend, string) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	uid := fb.AddUser("ann@example.com", "pw", "Ann")

	cfg := config.Default().Backend
	cfg.BaseURL = fb.URL()
	cfg.AnonKey = testutil.TestAnonKey
	c := remote.NewClient(cfg, nil, nil)

	ctx := context.Background()
	tr, err := c.Login(ctx, "ann@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, c.Session().Set(ctx, tr.Session(time.Now())))
	return c, fb, uid
}
