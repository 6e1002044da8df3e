package domain

import "time"

// DefaultDisplayName is used when a profile has no name of its own.
const DefaultDisplayName = "用户"

type Profile struct {
	ID          string
	DisplayName string
	AvatarURL   string
}

type User struct {
	ID          string
	Email       string
	DisplayName string
}

// AuthSession holds the tokens issued by the backend.
type AuthSession struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token is past its expiry. A zero
// expiry is treated as not expired.
func (s AuthSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

func (s AuthSession) Empty() bool {
	return s.AccessToken == ""
}

type DailyTip struct {
	ID      int
	TipDate string
	Content string
}

// FallbackTip is shown when no tip exists for the day.
const FallbackTip = "记得今天记录运动、饮水与心情"
