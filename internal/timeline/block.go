package timeline

import (
	"time"

	"workplate/internal/models"
)

// Kind tags the five block variants.
type Kind string

const (
	KindFree     Kind = "free"
	KindEvent    Kind = "event"
	KindPomodoro Kind = "pomodoro"
	KindRest     Kind = "rest"
	KindLunch    Kind = "lunch"
)

// Interval is a half-open span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Span returns the interval itself. Every block embeds an Interval, which
// is how blocks satisfy the Span method of Block.
func (iv Interval) Span() Interval { return iv }

// Duration is the length of the interval.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Overlaps reports whether the two half-open intervals share any instant.
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// Contains reports whether o lies entirely within iv.
func (iv Interval) Contains(o Interval) bool {
	return !o.Start.Before(iv.Start) && !o.End.After(iv.End)
}

// Block is one typed slice of the working day. The set of implementations
// is closed: FreeBlock, EventBlock, PomodoroBlock, RestBlock and LunchBlock.
// Each variant carries only the fields valid for it, so a free block can
// never hold a task and only event blocks reference an event.
type Block interface {
	Kind() Kind
	Span() Interval
	block()
}

// FreeBlock is unclaimed working time.
type FreeBlock struct {
	Interval
}

// EventBlock is time taken by a calendar event. Event is shared with the
// caller and never modified.
type EventBlock struct {
	Interval
	Event *models.CalendarEvent
}

// PomodoroBlock is a focus interval. Task is the assigned task title, or
// empty when nothing is assigned.
type PomodoroBlock struct {
	Interval
	Task string
}

// RestBlock is a short break between two pomodoros.
type RestBlock struct {
	Interval
}

// LunchBlock is the daily lunch break.
type LunchBlock struct {
	Interval
}

func (FreeBlock) Kind() Kind     { return KindFree }
func (EventBlock) Kind() Kind    { return KindEvent }
func (PomodoroBlock) Kind() Kind { return KindPomodoro }
func (RestBlock) Kind() Kind     { return KindRest }
func (LunchBlock) Kind() Kind    { return KindLunch }

func (FreeBlock) block()     {}
func (EventBlock) block()    {}
func (PomodoroBlock) block() {}
func (RestBlock) block()     {}
func (LunchBlock) block()    {}

// Draggable reports whether a consumer may let the user drag b: the lunch
// block and pomodoros that carry a task.
func Draggable(b Block) bool {
	switch v := b.(type) {
	case LunchBlock:
		return true
	case PomodoroBlock:
		return v.Task != ""
	}
	return false
}
