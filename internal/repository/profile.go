package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/remote"
)

type ProfileBackend interface {
	GetUser(ctx context.Context) (*remote.AuthUser, error)
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	UpsertProfile(ctx context.Context, p domain.Profile) (domain.Profile, error)
}

type RemoteProfileRepo struct {
	backend ProfileBackend
}

func NewRemoteProfileRepo(backend ProfileBackend) *RemoteProfileRepo {
	return &RemoteProfileRepo{backend: backend}
}

// Current returns the signed-in user's profile. A missing name falls back
// to the auth metadata, then to domain.DefaultDisplayName.
func (r *RemoteProfileRepo) Current(ctx context.Context) domain.Result[domain.Profile] {
	u, err := r.backend.GetUser(ctx)
	if err != nil {
		return domain.Failure[domain.Profile](err)
	}
	p, err := r.backend.GetProfile(ctx, u.ID)
	switch {
	case errors.Is(err, remote.ErrNotFound):
		p = domain.Profile{ID: u.ID}
	case err != nil:
		return domain.Failure[domain.Profile](err)
	}
	if p.DisplayName == "" {
		p.DisplayName = u.DisplayName()
	}
	if p.DisplayName == "" {
		p.DisplayName = domain.DefaultDisplayName
	}
	return domain.Success(p)
}

// Ensure creates or updates the profile, keeping existing values for any
// field passed empty.
func (r *RemoteProfileRepo) Ensure(ctx context.Context, displayName, avatarURL string) (domain.Profile, error) {
	u, err := r.backend.GetUser(ctx)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("ensuring profile: %w", err)
	}
	existing, err := r.backend.GetProfile(ctx, u.ID)
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return domain.Profile{}, fmt.Errorf("ensuring profile: %w", err)
	}

	next := domain.Profile{ID: u.ID, DisplayName: displayName, AvatarURL: avatarURL}
	if next.DisplayName == "" {
		next.DisplayName = existing.DisplayName
	}
	if next.DisplayName == "" {
		next.DisplayName = u.DisplayName()
	}
	if next.AvatarURL == "" {
		next.AvatarURL = existing.AvatarURL
	}
	return r.backend.UpsertProfile(ctx, next)
}
