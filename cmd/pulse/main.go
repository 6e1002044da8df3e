package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alexanderramin/pulse/internal/baidu"
	"github.com/alexanderramin/pulse/internal/chat"
	"github.com/alexanderramin/pulse/internal/cli"
	"github.com/alexanderramin/pulse/internal/cli/formatter"
	"github.com/alexanderramin/pulse/internal/config"
	"github.com/alexanderramin/pulse/internal/db"
	"github.com/alexanderramin/pulse/internal/feed"
	"github.com/alexanderramin/pulse/internal/llm"
	"github.com/alexanderramin/pulse/internal/logging"
	"github.com/alexanderramin/pulse/internal/nutrition"
	"github.com/alexanderramin/pulse/internal/remote"
	"github.com/alexanderramin/pulse/internal/repository"
	"github.com/alexanderramin/pulse/internal/state"
	"github.com/alexanderramin/pulse/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatter.Error(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	// Logs go to stderr so command output stays pipeable.
	zl, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	log := logging.Sugar(zl)

	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".pulse", "pulse.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	prefs := store.NewPrefsStore(database)

	if !cfg.BackendEnabled() {
		log.Warnf("backend not configured; set PULSE_BACKEND_URL and PULSE_BACKEND_ANON_KEY")
	}
	session := remote.NewSessionHolder(store.NewTokenStore(database))
	client := remote.NewClient(cfg.Backend, session, log)

	metricsRepo := repository.NewRemoteMetricsRepo(client)
	profileRepo := repository.NewRemoteProfileRepo(client)
	newsRepo := repository.NewRemoteNewsRepo(client, log)

	var observer llm.Observer = llm.NoopObserver{}
	if cfg.LogLLMCalls {
		observer = llm.NewLogObserver(log)
	}

	// The first configured secondary provider answers when Dify is absent.
	assistantOpts := []chat.Option{chat.WithLogger(log)}
	for _, c := range []chat.Completer{
		llm.NewSparkClient(cfg.Spark, observer),
		llm.NewSparkRESTClient(cfg.Spark, observer),
	} {
		if c.Configured() {
			assistantOpts = append(assistantOpts, chat.WithSecondary(c))
			break
		}
	}
	assistant := chat.NewAssistant(llm.NewDifyClient(cfg.Dify, observer), metricsRepo, client, assistantOpts...)

	var advisor state.NutritionAdvisor
	if deepseek := llm.NewDeepSeekClient(cfg.DeepSeek, observer); deepseek.Configured() {
		advisor = nutrition.NewAdvisor(deepseek)
	}

	var rpa state.WorkflowTrigger
	if cfg.RPA.WebhookURL != "" {
		rpa = remote.NewWebhook(cfg.RPA.WebhookURL, cfg.RPA.Token, cfg.Backend.RequestTimeout)
	}

	ingester := feed.NewIngester(feed.NewFetcher(&http.Client{Timeout: cfg.Backend.RequestTimeout}), newsRepo, log)

	opts := state.Options{Observer: state.NewLogActionObserver(log)}
	app := &cli.App{
		Auth:      state.NewAuthState(client, session, profileRepo, log, opts),
		Home:      state.NewHomeState(profileRepo, repository.NewRemoteTipsRepo(client), opts),
		Metrics:   state.NewMetricsState(metricsRepo, repository.NewRemoteAggregatesRepo(client), opts),
		Sleep:     state.NewSleepState(metricsRepo, nil, opts),
		Exercise:  state.NewExerciseState(store.NewExerciseStore(database), rand.IntN, opts),
		Mental:    state.NewMentalState(metricsRepo, opts),
		Chat:      state.NewChatState(assistant, store.NewChatHistoryStore(database), opts),
		Imports:   state.NewImportState(repository.NewRemoteImportsRepo(client, log), rpa, opts),
		News:      state.NewNewsState(newsRepo, ingester, opts),
		Nutrition: state.NewNutritionState(store.NewMealStore(database, uow), prefs, advisor, client, opts),
		Prefs:     prefs,
		Feeds:     cfg.Feeds,
	}

	if bd := baidu.NewClient(cfg.Baidu); bd.Configured() {
		app.Speech = bd
		app.Dishes = bd
	}

	app.IsInteractive = func() bool {
		return isTerminal(os.Stdin) && isTerminal(os.Stdout)
	}

	if _, err := app.Auth.Restore(context.Background()); err != nil {
		log.Warnf("restoring session: %v", err)
	}

	return cli.NewRootCmd(app).Execute()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
