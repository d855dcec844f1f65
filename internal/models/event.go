package models

// EventKind classifies a calendar event for display.
type EventKind string

const (
	EventKindMeeting EventKind = "meeting"
	EventKindFocus   EventKind = "focus"
	EventKindOther   EventKind = "other"
)

// CalendarEvent is a calendar commitment as seen by the day planner.
// It is independent of the provider it was fetched from.
//
// Start and End are naive local wall-clock timestamps in the form
// 2006-01-02T15:04:05 (no offset). Events are treated as immutable once
// fetched; the timeline only ever holds shared pointers to them.
type CalendarEvent struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Start    string    `json:"start" yaml:"start"`
	End      string    `json:"end" yaml:"end"`
	Kind     EventKind `json:"kind" yaml:"kind"`
	ColorID  string    `json:"colorId,omitempty" yaml:"color_id,omitempty"`   // provider palette id, if any
	Color    string    `json:"color,omitempty" yaml:"color,omitempty"`        // resolved display color
	HTMLLink string    `json:"htmlLink,omitempty" yaml:"html_link,omitempty"` // link back to the provider UI
	Source   string    `json:"source,omitempty" yaml:"source,omitempty"`      // e.g. "google-primary", "ics-work"
}
