package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/pulse/internal/domain"
	"github.com/alexanderramin/pulse/internal/state"
	"github.com/alexanderramin/pulse/internal/store"
)

// defaultTick is how often live monitors advance.
const defaultTick = time.Second

// SpeechRecognizer turns 16 kHz mono PCM into text.
type SpeechRecognizer interface {
	Recognize(ctx context.Context, pcm []byte, lang string) (string, error)
}

// DishRecognizer classifies a food photo.
type DishRecognizer interface {
	RecognizeDish(ctx context.Context, imageBase64 string, topN int) ([]domain.DishGuess, error)
}

// App holds references to the view-state holders used by CLI commands.
type App struct {
	Auth      *state.AuthState
	Home      *state.HomeState
	Metrics   *state.MetricsState
	Sleep     *state.SleepState
	Exercise  *state.ExerciseState
	Mental    *state.MentalState
	Chat      *state.ChatState
	Imports   *state.ImportState
	News      *state.NewsState
	Nutrition *state.NutritionState
	Prefs     *store.PrefsStore

	// Speech and Dishes are nil when no recognition credentials are set.
	Speech SpeechRecognizer
	Dishes DishRecognizer

	// Feeds are the RSS sources used by "news ingest" when none are given.
	Feeds []string

	// TickInterval overrides defaultTick for live monitors.
	TickInterval time.Duration

	// IsInteractive reports whether stdin and stdout are a terminal. Prompts and the
	// live monitor are only used when it returns true.
	IsInteractive func() bool

	// Now is the wall clock used for relative timestamps.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) tick() time.Duration {
	if a.TickInterval > 0 {
		return a.TickInterval
	}
	return defaultTick
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
