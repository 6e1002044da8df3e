package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// BackendConfig points at the hosted database/auth/functions service.
type BackendConfig struct {
	BaseURL        string
	AnonKey        string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

type DifyConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
}

type SparkConfig struct {
	AppID     string
	APIKey    string
	APISecret string
	WSURL     string
	Domain    string
	RESTURL   string
	Password  string
	Model     string
}

type DeepSeekConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

type BaiduConfig struct {
	APIKey    string
	SecretKey string
	CUID      string
}

type RPAConfig struct {
	WebhookURL string
	Token      string
}

// Config holds all runtime configuration.
type Config struct {
	DBPath      string
	LogLevel    string
	LogLLMCalls bool
	Backend     BackendConfig
	Dify        DifyConfig
	Spark       SparkConfig
	DeepSeek    DeepSeekConfig
	Baidu       BaiduConfig
	RPA         RPAConfig
	Feeds       []string
}

// Default returns a Config with every endpoint at its stock address and no
// credentials.
func Default() Config {
	return Config{
		LogLevel: "info",
		Backend: BackendConfig{
			RequestTimeout: 15 * time.Second,
			ConnectTimeout: 10 * time.Second,
		},
		Dify: DifyConfig{
			BaseURL:        "https://api.dify.ai",
			RequestTimeout: 100 * time.Second,
			ConnectTimeout: 30 * time.Second,
		},
		Spark: SparkConfig{
			WSURL:   "wss://spark-api.xf-yun.com/v3.5/chat",
			Domain:  "generalv3.5",
			RESTURL: "https://spark-api-open.xf-yun.com/v1",
			Model:   "generalv3.5",
		},
		DeepSeek: DeepSeekConfig{
			BaseURL:     "https://api.deepseek.com/v1",
			Model:       "deepseek-chat",
			Temperature: 0.2,
			MaxTokens:   512,
		},
		Baidu: BaiduConfig{CUID: "pulse-cli"},
	}
}

// Load reads an optional .env file, then PULSE_* environment variables,
// over Default(). A missing env file is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv(), nil
}

// FromEnv applies PULSE_* environment variables over Default(). Invalid
// numeric values are ignored.
func FromEnv() Config {
	cfg := Default()

	setString(&cfg.DBPath, "PULSE_DB")
	setString(&cfg.LogLevel, "PULSE_LOG_LEVEL")
	if v := os.Getenv("PULSE_LLM_LOG_CALLS"); v != "" {
		cfg.LogLLMCalls, _ = strconv.ParseBool(v)
	}

	setString(&cfg.Backend.BaseURL, "PULSE_BACKEND_URL")
	setString(&cfg.Backend.AnonKey, "PULSE_BACKEND_ANON_KEY")
	setDuration(&cfg.Backend.RequestTimeout, "PULSE_BACKEND_TIMEOUT_MS")

	setString(&cfg.Dify.BaseURL, "PULSE_DIFY_URL")
	setString(&cfg.Dify.APIKey, "PULSE_DIFY_API_KEY")
	setDuration(&cfg.Dify.RequestTimeout, "PULSE_DIFY_TIMEOUT_MS")

	setString(&cfg.Spark.AppID, "PULSE_SPARK_APP_ID")
	setString(&cfg.Spark.APIKey, "PULSE_SPARK_API_KEY")
	setString(&cfg.Spark.APISecret, "PULSE_SPARK_API_SECRET")
	setString(&cfg.Spark.WSURL, "PULSE_SPARK_WS_URL")
	setString(&cfg.Spark.Domain, "PULSE_SPARK_DOMAIN")
	setString(&cfg.Spark.RESTURL, "PULSE_SPARK_REST_URL")
	setString(&cfg.Spark.Password, "PULSE_SPARK_PASSWORD")
	setString(&cfg.Spark.Model, "PULSE_SPARK_MODEL")

	setString(&cfg.DeepSeek.BaseURL, "PULSE_DEEPSEEK_URL")
	setString(&cfg.DeepSeek.APIKey, "PULSE_DEEPSEEK_API_KEY")
	setString(&cfg.DeepSeek.Model, "PULSE_DEEPSEEK_MODEL")
	if v := os.Getenv("PULSE_DEEPSEEK_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 2 {
			cfg.DeepSeek.Temperature = f
		}
	}
	if v := os.Getenv("PULSE_DEEPSEEK_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DeepSeek.MaxTokens = n
		}
	}

	setString(&cfg.Baidu.APIKey, "PULSE_BAIDU_API_KEY")
	setString(&cfg.Baidu.SecretKey, "PULSE_BAIDU_SECRET_KEY")
	setString(&cfg.Baidu.CUID, "PULSE_BAIDU_CUID")

	setString(&cfg.RPA.WebhookURL, "PULSE_RPA_WEBHOOK_URL")
	setString(&cfg.RPA.Token, "PULSE_RPA_TOKEN")

	if v := os.Getenv("PULSE_FEEDS"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.Feeds = append(cfg.Feeds, f)
			}
		}
	}

	return cfg
}

// BackendEnabled reports whether enough is configured to reach the backend.
func (c Config) BackendEnabled() bool {
	return c.Backend.BaseURL != "" && c.Backend.AnonKey != ""
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = time.Duration(n) * time.Millisecond
}
