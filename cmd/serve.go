package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"workplate/internal/planner"
	"workplate/internal/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the planning API and, with PUBLISH_CRON set, publish the day on a schedule.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address. Overrides WORKPLATE_HTTP_ADDR."},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			p, err := a.planner(ctx, a.env.PublishCron != "")
			if err != nil {
				return err
			}

			switch {
			case a.env.PublishCron == "":
			case a.env.CalDAVURL == "":
				a.logger.Warn("PUBLISH_CRON is set but CALDAV_URL is not, scheduled publishing disabled")
			default:
				scheduler, err := schedulePublish(ctx, a, p)
				if err != nil {
					return err
				}
				scheduler.Start()
				defer func() { <-scheduler.Stop().Done() }()
			}

			addr := a.env.HTTPAddr
			if c.IsSet("addr") {
				addr = c.String("addr")
			}

			today := func() string { return planner.Today(a.loc) }
			return web.NewServer(a.logger, p, a.settings, today).ListenAndServe(ctx, addr)
		},
	}
}

// schedulePublish publishes today's plan on every tick of PUBLISH_CRON.
func schedulePublish(ctx context.Context, a *app, p *planner.Planner) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithLocation(a.loc), cron.WithLogger(cronLogger{a.logger}))
	_, err := scheduler.AddFunc(a.env.PublishCron, func() {
		date := planner.Today(a.loc)
		if err := p.Publish(ctx, date); err != nil {
			a.logger.Error("Scheduled publish failed", "date", date, "error", err)
			return
		}
		a.logger.Info("Published plan", "date", date)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid publish schedule %q: %w", a.env.PublishCron, err)
	}
	a.logger.Info("Scheduled plan publishing", "schedule", a.env.PublishCron)
	return scheduler, nil
}

// cronLogger routes the scheduler's own logging through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
