package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StateBackendFile   = "file"
	StateBackendSQLite = "sqlite"
)

// DefaultUserAgent imite un navigateur: le site de réservation filtre les clients "nus".
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Config struct {
	WatchlistFile string
	StateFile     string
	StateBackend  string
	StateDB       string

	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIURL   string

	HeartbeatEnabled bool
	AllowAutoDisable bool

	GitHubRepository   string
	GitHubToken        string
	GitHubWorkflowFile string
	GitHubAPIURL       string

	// CommitState: commit + push du fichier d'état après chaque changement.
	CommitState bool

	Timezone    string
	FetchDelay  time.Duration
	HTTPTimeout time.Duration
	UserAgent   string

	// Mode serve.
	Addr     string
	Schedule string

	LogLevel  string
	LogPretty bool
}

// Default lit l'environnement une seule fois; le reste du programme ne
// reçoit que la Config.
func Default() Config {
	return Config{
		WatchlistFile: envOr("WATCHLIST_FILE", "watchlist.json"),
		StateFile:     envOr("STATE_FILE", "state.json"),
		StateBackend:  envOr("STATE_BACKEND", StateBackendFile),
		StateDB:       envOr("STATE_DB", "showwatch.db"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),
		TelegramAPIURL:   envOr("TELEGRAM_API_URL", "https://api.telegram.org"),

		HeartbeatEnabled: envBool("HEARTBEAT_ENABLED", false),
		AllowAutoDisable: envBool("ALLOW_AUTO_DISABLE", false),

		GitHubRepository:   os.Getenv("GITHUB_REPOSITORY"),
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
		GitHubWorkflowFile: envOr("GITHUB_WORKFLOW_FILE", "watch.yml"),
		GitHubAPIURL:       envOr("GITHUB_API_URL", "https://api.github.com"),

		CommitState: envBool("COMMIT_STATE", os.Getenv("GITHUB_ACTIONS") == "true"),

		Timezone:    envOr("TIMEZONE", "UTC"),
		FetchDelay:  envDuration("FETCH_DELAY", 2*time.Second),
		HTTPTimeout: envDuration("HTTP_TIMEOUT", 30*time.Second),
		UserAgent:   envOr("USER_AGENT", DefaultUserAgent),

		Addr:     envOr("SHOWWATCH_ADDR", "127.0.0.1:8080"),
		Schedule: envOr("SHOWWATCH_SCHEDULE", "*/30 * * * *"),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogPretty: envBool("LOG_PRETTY", false),
	}
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "UTC") {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.WatchlistFile) == "" {
		errs = append(errs, errors.New("WATCHLIST_FILE is empty"))
	}
	switch c.StateBackend {
	case StateBackendFile:
		if strings.TrimSpace(c.StateFile) == "" {
			errs = append(errs, errors.New("STATE_FILE is empty"))
		}
	case StateBackendSQLite:
		if strings.TrimSpace(c.StateDB) == "" {
			errs = append(errs, errors.New("STATE_DB is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend))
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == "" {
		errs = append(errs, errors.New("TELEGRAM_CHAT_ID is required with TELEGRAM_BOT_TOKEN"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	if c.FetchDelay < 0 {
		errs = append(errs, errors.New("FETCH_DELAY must not be negative"))
	}
	return errors.Join(errs...)
}

// CanDisableWorkflow: dépôt et token présents.
func (c Config) CanDisableWorkflow() bool {
	return c.GitHubRepository != "" && c.GitHubToken != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
