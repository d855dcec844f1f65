// Package planner loads a day's events and settings, runs the timeline
// compiler and persists the user's changes to the result.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"

	"workplate/internal/config"
	"workplate/internal/models"
	"workplate/internal/timeline"
)

var (
	// ErrInvalidOrdinal is returned when a pomodoro ordinal does not exist
	// in the day's current plan.
	ErrInvalidOrdinal = errors.New("invalid pomodoro ordinal")
	// ErrNoProviders is returned when no calendar source is configured.
	ErrNoProviders = errors.New("no calendar providers configured")
	// ErrNoPublisher is returned by Publish when no target is configured.
	ErrNoPublisher = errors.New("no publish target configured")
	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")
	// ErrFetch wraps provider failures.
	ErrFetch = errors.New("failed to fetch calendar events")
)

// SettingsStore holds the working configuration and assignment tables.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// TaskLister lists tasks by status.
type TaskLister interface {
	List(ctx context.Context, status models.TaskStatus) ([]*models.Task, error)
}

// Provider is a calendar source.
type Provider interface {
	FetchEventsForDay(ctx context.Context, date string) ([]*models.CalendarEvent, error)
}

// Publisher receives a compiled plan.
type Publisher interface {
	Publish(ctx context.Context, date string, blocks []timeline.Block) error
}

// DayPlan is one compiled day.
type DayPlan struct {
	Date   string
	Config timeline.Config
	Events []*models.CalendarEvent
	Blocks []timeline.Block
}

// Planner orchestrates one planning request at a time. It holds no state
// of its own between calls.
type Planner struct {
	logger    *slog.Logger
	settings  SettingsStore
	tasks     TaskLister
	providers []Provider
	publisher Publisher
}

// New creates a Planner. publisher may be nil.
func New(logger *slog.Logger, settings SettingsStore, tasks TaskLister, providers []Provider, publisher Publisher) *Planner {
	return &Planner{
		logger:    logger,
		settings:  settings,
		tasks:     tasks,
		providers: providers,
		publisher: publisher,
	}
}

// Today returns the current date in loc.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(timeline.DateLayout)
}

// Plan fetches the day's events and compiles them with the stored
// configuration and assignments.
func (p *Planner) Plan(ctx context.Context, date string) (*DayPlan, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}

	cfg, err := config.LoadWork(ctx, p.settings)
	if err != nil {
		return nil, err
	}

	events, err := p.fetchEvents(ctx, date)
	if err != nil {
		return nil, err
	}

	table, err := p.loadAssignments(ctx, date)
	if err != nil {
		return nil, err
	}

	blocks := timeline.Compile(events, date, cfg, table)
	p.logger.Debug("Compiled day plan", "date", date, "events", len(events), "blocks", len(blocks), "pomodoros", timeline.FocusCount(blocks))

	return &DayPlan{Date: date, Config: cfg, Events: events, Blocks: blocks}, nil
}

// MoveLunch tries to move the lunch break to proposed (HH:MM). The move is
// rejected when the new slot overlaps an event; the returned string is
// the lunch start in effect afterwards.
func (p *Planner) MoveLunch(ctx context.Context, date, proposed string) (string, bool, error) {
	plan, err := p.Plan(ctx, date)
	if err != nil {
		return "", false, err
	}

	current := plan.Config.LunchStart
	if !timeline.LunchFits(proposed, plan.Events, date, plan.Config.LunchMinutes) {
		p.logger.Info("Lunch move rejected", "date", date, "proposed", proposed, "current", current)
		return current, false, nil
	}
	result := proposed
	if result == current {
		return current, true, nil
	}

	if err := config.SetWork(ctx, p.settings, config.KeyLunchStart, result); err != nil {
		return "", false, err
	}

	cfg := plan.Config
	cfg.LunchStart = result
	blocks := timeline.Compile(plan.Events, date, cfg, timeline.AssignmentsOf(plan.Blocks))
	if err := p.saveAssignments(ctx, date, timeline.AssignmentsOf(blocks)); err != nil {
		return "", false, err
	}

	p.logger.Info("Moved lunch", "date", date, "from", current, "to", result)
	return result, true, nil
}

// Assign puts a task on the pomodoro at ordinal.
func (p *Planner) Assign(ctx context.Context, date string, ordinal int, title string) (*DayPlan, error) {
	return p.mutate(ctx, date, func(blocks []timeline.Block) ([]timeline.Block, error) {
		if ordinal < 0 || ordinal >= timeline.FocusCount(blocks) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidOrdinal, ordinal)
		}
		table := timeline.AssignmentsOf(blocks)
		if title == "" {
			delete(table, ordinal)
		} else {
			table[ordinal] = title
		}
		return timeline.ApplyAssignments(blocks, table), nil
	})
}

// Unassign clears the pomodoro at ordinal.
func (p *Planner) Unassign(ctx context.Context, date string, ordinal int) (*DayPlan, error) {
	return p.Assign(ctx, date, ordinal, "")
}

// Swap exchanges the tasks of two pomodoros.
func (p *Planner) Swap(ctx context.Context, date string, from, to int) (*DayPlan, error) {
	return p.mutate(ctx, date, func(blocks []timeline.Block) ([]timeline.Block, error) {
		n := timeline.FocusCount(blocks)
		for _, ordinal := range []int{from, to} {
			if ordinal < 0 || ordinal >= n {
				return nil, fmt.Errorf("%w: %d", ErrInvalidOrdinal, ordinal)
			}
		}
		return timeline.SwapAssignments(blocks, from, to), nil
	})
}

// PlateTasks returns the titles of the tasks on the plate, in order.
func (p *Planner) PlateTasks(ctx context.Context) ([]string, error) {
	tasks, err := p.tasks.List(ctx, models.TaskStatusPlate)
	if err != nil {
		return nil, fmt.Errorf("failed to list plate tasks: %w", err)
	}
	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}
	return titles, nil
}

// Publish compiles date and hands the blocks to the publisher.
func (p *Planner) Publish(ctx context.Context, date string) error {
	if p.publisher == nil {
		return ErrNoPublisher
	}
	plan, err := p.Plan(ctx, date)
	if err != nil {
		return err
	}
	if err := p.publisher.Publish(ctx, date, plan.Blocks); err != nil {
		return fmt.Errorf("failed to publish plan: %w", err)
	}
	return nil
}

func (p *Planner) mutate(ctx context.Context, date string, change func([]timeline.Block) ([]timeline.Block, error)) (*DayPlan, error) {
	plan, err := p.Plan(ctx, date)
	if err != nil {
		return nil, err
	}
	blocks, err := change(plan.Blocks)
	if err != nil {
		return nil, err
	}
	if err := p.saveAssignments(ctx, date, timeline.AssignmentsOf(blocks)); err != nil {
		return nil, err
	}
	plan.Blocks = blocks
	return plan, nil
}

// fetchEvents queries every provider concurrently. Any failure fails the
// whole fetch. Results keep provider order.
func (p *Planner) fetchEvents(ctx context.Context, date string) ([]*models.CalendarEvent, error) {
	if len(p.providers) == 0 {
		return nil, ErrNoProviders
	}

	results := make([][]*models.CalendarEvent, len(p.providers))
	wg := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for i, prov := range p.providers {
		wg.Go(func(ctx context.Context) error {
			events, err := prov.FetchEventsForDay(ctx, date)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		p.logger.Error("Calendar fetch failed", "date", date, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	var events []*models.CalendarEvent
	for _, r := range results {
		events = append(events, r...)
	}
	return events, nil
}

func (p *Planner) loadAssignments(ctx context.Context, date string) (timeline.Assignments, error) {
	raw, ok, err := p.settings.Get(ctx, config.AssignmentsKey(date))
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}
	table := make(timeline.Assignments)
	if !ok || raw == "" {
		return table, nil
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		p.logger.Warn("Ignoring unreadable assignments", "date", date, "error", err)
		return make(timeline.Assignments), nil
	}
	return table, nil
}

func (p *Planner) saveAssignments(ctx context.Context, date string, table timeline.Assignments) error {
	b, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode assignments: %w", err)
	}
	if err := p.settings.Set(ctx, config.AssignmentsKey(date), string(b)); err != nil {
		return fmt.Errorf("failed to save assignments: %w", err)
	}
	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(timeline.DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return nil
}
