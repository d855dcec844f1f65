package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/urfave/cli/v2"

	"workplate/internal/caldav"
	"workplate/internal/config"
	"workplate/internal/google"
	"workplate/internal/icsfeed"
	"workplate/internal/planner"
	"workplate/internal/store"
)

// app holds what every command needs: env, logger and the stores.
type app struct {
	env      *config.Env
	logger   *slog.Logger
	loc      *time.Location
	settings *store.SettingsStore
	tasks    *store.TaskStore
}

func newApp() (*app, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(env.SlogLevel())

	loc, err := env.Location()
	if err != nil {
		return nil, err
	}

	return &app{
		env:      env,
		logger:   logger,
		loc:      loc,
		settings: store.NewSettingsStore(env.SettingsPath()),
		tasks:    store.NewTaskStore(env.TasksPath()),
	}, nil
}

func (a *app) googleAuth() (*google.Auth, error) {
	return google.NewAuth(a.logger, a.settings, a.env.GoogleClientID, a.env.GoogleClientSecret, a.env.OAuthRedirectAddr)
}

// providers builds one provider per configured Google calendar and ICS
// feed. Google is skipped when no account is connected.
func (a *app) providers(ctx context.Context) ([]planner.Provider, error) {
	var providers []planner.Provider

	auth, err := a.googleAuth()
	if err != nil {
		a.logger.Debug("Google Calendar not configured", "reason", err)
	} else {
		client, err := google.NewClient(ctx, a.logger, auth, a.loc)
		switch {
		case errors.Is(err, google.ErrNotConnected):
			a.logger.Debug("Google account not connected, skipping Google Calendar")
		case err != nil:
			return nil, fmt.Errorf("failed to create google client: %w", err)
		default:
			for _, id := range a.env.GoogleCalendarIDs {
				providers = append(providers, client.Calendar(id))
			}
		}
	}

	for i, feedURL := range a.env.ICSFeeds {
		providers = append(providers, icsfeed.New(a.logger, feedName(feedURL, i), feedURL, a.loc))
	}

	a.logger.Debug("Configured calendar providers", "count", len(providers))
	return providers, nil
}

// publisher returns nil when no CalDAV target is configured.
func (a *app) publisher(ctx context.Context) (planner.Publisher, error) {
	if a.env.CalDAVURL == "" {
		return nil, nil
	}
	pub, err := caldav.NewPublisher(ctx, a.logger, a.env.CalDAVURL, a.env.CalDAVUsername, a.env.CalDAVPassword, a.env.CalDAVCalendar, a.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav publisher: %w", err)
	}
	return pub, nil
}

func (a *app) planner(ctx context.Context, withPublisher bool, extra ...planner.Provider) (*planner.Planner, error) {
	providers, err := a.providers(ctx)
	if err != nil {
		return nil, err
	}
	providers = append(providers, extra...)
	var pub planner.Publisher
	if withPublisher {
		if pub, err = a.publisher(ctx); err != nil {
			return nil, err
		}
	}
	return planner.New(a.logger, a.settings, a.tasks, providers, pub), nil
}

// planDate reads --date, defaulting to today.
func (a *app) planDate(c *cli.Context) string {
	if d := c.String("date"); d != "" {
		return d
	}
	return planner.Today(a.loc)
}

func feedName(feedURL string, i int) string {
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		return u.Host
	}
	return fmt.Sprintf("feed%d", i+1)
}

var dateFlag = &cli.StringFlag{
	Name:    "date",
	Aliases: []string{"d"},
	Usage:   "Day to plan (YYYY-MM-DD). Defaults to today.",
}
