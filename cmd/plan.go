package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"workplate/internal/icsfeed"
	"workplate/internal/planner"
)

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Compile and print the day's timeline.",
		Flags: []cli.Flag{
			dateFlag,
			&cli.StringSliceFlag{Name: "ics", Usage: "Also plan around events from a local .ics file."},
			&cli.BoolFlag{Name: "publish", Usage: "Publish the focus blocks and lunch to the CalDAV calendar."},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp()
			if err != nil {
				return err
			}

			var extra []planner.Provider
			for _, path := range c.StringSlice("ics") {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				extra = append(extra, icsfeed.New(a.logger, filepath.Base(path), "file://"+abs, a.loc))
			}

			p, err := a.planner(c.Context, c.Bool("publish"), extra...)
			if err != nil {
				return err
			}

			date := a.planDate(c)
			plan, err := p.Plan(c.Context, date)
			if err != nil {
				return err
			}
			renderPlan(os.Stdout, plan)

			if c.Bool("publish") {
				if err := p.Publish(c.Context, date); err != nil {
					return err
				}
				a.logger.Info("Published plan", "date", date)
			}
			return nil
		},
	}
}

func lunchCommand() *cli.Command {
	return &cli.Command{
		Name:      "lunch",
		Usage:     "Move the lunch break. The move is refused if it would overlap a meeting.",
		ArgsUsage: "HH:MM",
		Flags:     []cli.Flag{dateFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one argument: the new lunch start (HH:MM)")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			p, err := a.planner(c.Context, false)
			if err != nil {
				return err
			}

			lunch, moved, err := p.MoveLunch(c.Context, a.planDate(c), c.Args().First())
			if err != nil {
				return err
			}
			if !moved {
				fmt.Printf("Lunch stays at %s: %s is not free.\n", lunch, c.Args().First())
				return nil
			}
			fmt.Printf("Lunch moved to %s.\n", lunch)
			return nil
		},
	}
}

func assignCommand() *cli.Command {
	return &cli.Command{
		Name:      "assign",
		Usage:     "Put a task on a focus block.",
		ArgsUsage: "FOCUS_NUMBER TASK_TITLE",
		Flags:     []cli.Flag{dateFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected a focus number and a task title")
			}
			ordinal, err := parseOrdinal(c.Args().Get(0))
			if err != nil {
				return err
			}
			return runMutation(c, func(p *planner.Planner, date string) (*planner.DayPlan, error) {
				return p.Assign(c.Context, date, ordinal, c.Args().Get(1))
			})
		},
	}
}

func unassignCommand() *cli.Command {
	return &cli.Command{
		Name:      "unassign",
		Usage:     "Clear the task of a focus block.",
		ArgsUsage: "FOCUS_NUMBER",
		Flags:     []cli.Flag{dateFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected a focus number")
			}
			ordinal, err := parseOrdinal(c.Args().First())
			if err != nil {
				return err
			}
			return runMutation(c, func(p *planner.Planner, date string) (*planner.DayPlan, error) {
				return p.Unassign(c.Context, date, ordinal)
			})
		},
	}
}

func swapCommand() *cli.Command {
	return &cli.Command{
		Name:      "swap",
		Usage:     "Exchange the tasks of two focus blocks.",
		ArgsUsage: "FOCUS_NUMBER FOCUS_NUMBER",
		Flags:     []cli.Flag{dateFlag},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("expected two focus numbers")
			}
			from, err := parseOrdinal(c.Args().Get(0))
			if err != nil {
				return err
			}
			to, err := parseOrdinal(c.Args().Get(1))
			if err != nil {
				return err
			}
			return runMutation(c, func(p *planner.Planner, date string) (*planner.DayPlan, error) {
				return p.Swap(c.Context, date, from, to)
			})
		},
	}
}

func runMutation(c *cli.Context, change func(p *planner.Planner, date string) (*planner.DayPlan, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	p, err := a.planner(c.Context, false)
	if err != nil {
		return err
	}
	plan, err := change(p, a.planDate(c))
	if err != nil {
		return err
	}
	renderPlan(os.Stdout, plan)
	return nil
}

// parseOrdinal reads a focus number as printed by the plan command
// (starting at 1) and returns the zero-based ordinal.
func parseOrdinal(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", planner.ErrInvalidOrdinal, s)
	}
	return n - 1, nil
}
