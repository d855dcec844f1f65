package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "workplate",
		Usage: "Plan the working day around your calendar with pomodoros, breaks and lunch.",
		Commands: []*cli.Command{
			authCommand(),
			disconnectCommand(),
			calendarsCommand(),
			planCommand(),
			lunchCommand(),
			assignCommand(),
			unassignCommand(),
			swapCommand(),
			settingsCommand(),
			tasksCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
