package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"workplate/internal/planner"
	"workplate/internal/timeline"
)

const (
	pxPerBarCell = 8
	maxBarCells  = 40
)

var (
	focusColor = color.New(color.FgRed, color.Bold)
	lunchColor = color.New(color.FgYellow)
	mutedColor = color.New(color.Faint)
	headColor  = color.New(color.Bold)
)

// renderPlan prints one line per block. Bar length follows the block
// height so the output reads like the web timeline turned sideways.
func renderPlan(w io.Writer, plan *planner.DayPlan) {
	cfg := plan.Config
	lunch := "none"
	if cfg.LunchStart != "" {
		lunch = fmt.Sprintf("%s for %dm", cfg.LunchStart, cfg.LunchMinutes)
	}
	headColor.Fprintf(w, "%s  %s-%s  %dm focus / %dm rest  lunch %s\n",
		plan.Date, cfg.WorkStart, cfg.WorkEnd, cfg.PomodoroMinutes, cfg.RestMinutes, lunch)

	for i, b := range plan.Blocks {
		span := b.Span()
		when := fmt.Sprintf("%s-%s", span.Start.Format(timeline.ClockLayout), span.End.Format(timeline.ClockLayout))
		bar := strings.Repeat("█", barCells(timeline.HeightPx(span, timeline.DefaultPxPerMinute)))

		c, label := styleOf(plan.Blocks, i)
		fmt.Fprintf(w, "%s  ", when)
		c.Fprintf(w, "%-*s", maxBarCells, bar)
		fmt.Fprintf(w, "  %s\n", label)
	}
}

func barCells(heightPx int) int {
	n := heightPx / pxPerBarCell
	switch {
	case n < 1:
		return 1
	case n > maxBarCells:
		return maxBarCells
	}
	return n
}

func styleOf(blocks []timeline.Block, i int) (*color.Color, string) {
	switch b := blocks[i].(type) {
	case timeline.EventBlock:
		label := b.Event.Title
		if b.Event.Kind != "" {
			label = fmt.Sprintf("%s (%s)", label, b.Event.Kind)
		}
		return eventColor(b.Event.Color), label
	case timeline.PomodoroBlock:
		ordinal, _ := timeline.FocusOrdinal(blocks, i)
		label := fmt.Sprintf("#%d Focus", ordinal+1)
		if b.Task != "" {
			label += ": " + b.Task
		}
		return focusColor, label
	case timeline.LunchBlock:
		return lunchColor, "Lunch"
	case timeline.RestBlock:
		return mutedColor, "Rest"
	default:
		return mutedColor, "Free"
	}
}

// eventColor turns a #rrggbb display color into a truecolor attribute.
func eventColor(hex string) *color.Color {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.New(color.FgCyan)
	}
	return color.RGB(r, g, b)
}
