package state

import (
	"context"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/repository"
)

// HomeState backs the landing screen: greeting name and daily tip.
type HomeState struct {
	holder
	profiles repository.ProfileRepo
	tips     repository.TipsRepo
}

func NewHomeState(profiles repository.ProfileRepo, tips repository.TipsRepo, opts Options) *HomeState {
	s := &HomeState{profiles: profiles, tips: tips}
	s.init(opts)
	return s
}

// Tip never fails from the caller's view; on error the fallback is shown
// and the reason kept in LastError.
func (s *HomeState) Tip(ctx context.Context) string {
	tip := domain.FallbackTip
	_ = s.run(ctx, "home.tip", func(ctx context.Context) error {
		res := s.tips.Today(ctx)
		if !res.OK() {
			return res.Err
		}
		if !res.IsEmpty() && res.Value.Content != "" {
			tip = res.Value.Content
		}
		return nil
	})
	return tip
}

func (s *HomeState) Profile(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := s.run(ctx, "home.profile", func(ctx context.Context) error {
		res := s.profiles.Current(ctx)
		if !res.OK() {
			return res.Err
		}
		p = res.Value
		return nil
	})
	return p, err
}

// Rename updates the display name, keeping the avatar.
func (s *HomeState) Rename(ctx context.Context, displayName string) (domain.Profile, error) {
	if displayName == "" {
		return domain.Profile{}, s.reject("昵称不能为空")
	}
	var p domain.Profile
	err := s.run(ctx, "home.rename", func(ctx context.Context) error {
		var err error
		p, err = s.profiles.Ensure(ctx, displayName, "")
		return err
	})
	return p, err
}
