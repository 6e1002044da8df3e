package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alexanderramin/pulse/internal/domain"
)

type ProfileRow struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func (r ProfileRow) Domain() domain.Profile {
	return domain.Profile{ID: r.ID, DisplayName: deref(r.DisplayName), AvatarURL: deref(r.AvatarURL)}
}

// UpsertProfile creates or merges the profile row keyed by id.
func (c *Client) UpsertProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	var rows []ProfileRow
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/" + TableProfiles,
		query:  url.Values{"on_conflict": {"id"}},
		body: ProfileRow{
			ID:          p.ID,
			DisplayName: optional(p.DisplayName),
			AvatarURL:   optional(p.AvatarURL),
		},
		prefer: "return=representation,resolution=merge-duplicates",
		auth:   authRequired,
	}, &rows)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("upserting profile: %w", err)
	}
	if len(rows) == 0 {
		return domain.Profile{}, fmt.Errorf("upserting profile: empty response")
	}
	return rows[0].Domain(), nil
}

// GetProfile returns ErrNotFound when the user has no profile row.
func (c *Client) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var rows []ProfileRow
	err := c.Select(ctx, TableProfiles, Query{
		Select: "id,display_name,avatar_url",
		Eq:     map[string]string{"id": userID},
	}, &rows)
	if err != nil {
		return domain.Profile{}, err
	}
	if len(rows) == 0 {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return rows[0].Domain(), nil
}
