package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Env is the process configuration. Every variable may be given with the
// WORKPLATE_ prefix or without it.
type Env struct {
	DataDir  string `envconfig:"DATA_DIR" default:".workplate"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	GoogleClientID     string   `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleCalendarIDs  []string `envconfig:"GOOGLE_CALENDAR_IDS" default:"primary"`
	OAuthRedirectAddr  string   `envconfig:"OAUTH_REDIRECT_ADDR" default:"localhost:8085"`
	PrimaryTimezone    string   `envconfig:"PRIMARY_TIMEZONE" default:"Local"`

	// ICS subscription URLs.
	ICSFeeds []string `envconfig:"ICS_FEEDS"`

	// CalDAV publish target (used when CalDAVURL is set)
	CalDAVURL      string `envconfig:"CALDAV_URL"`
	CalDAVUsername string `envconfig:"CALDAV_USERNAME"`
	CalDAVPassword string `envconfig:"CALDAV_PASSWORD"`
	CalDAVCalendar string `envconfig:"CALDAV_CALENDAR" default:"WorkPlate"`

	HTTPAddr    string `envconfig:"HTTP_ADDR" default:"127.0.0.1:8080"`
	PublishCron string `envconfig:"PUBLISH_CRON"`
}

const namespace = "WORKPLATE"

// LoadEnv reads .env (if present) and then the environment.
func LoadEnv() (*Env, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *Env) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Location resolves PrimaryTimezone. Provider timestamps are converted to
// this zone before they are treated as naive wall-clock values.
func (e *Env) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(e.PrimaryTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", e.PrimaryTimezone, err)
	}
	return loc, nil
}

func (e *Env) SettingsPath() string {
	return filepath.Join(e.DataDir, "settings.yaml")
}

func (e *Env) TasksPath() string {
	return filepath.Join(e.DataDir, "tasks.yaml")
}

// GoogleEnabled reports whether OAuth client credentials are configured.
func (e *Env) GoogleEnabled() bool {
	return e.GoogleClientID != "" && e.GoogleClientSecret != ""
}
