package web

import (
	"workplate/internal/models"
	"workplate/internal/planner"
	"workplate/internal/timeline"
)

type blockResponse struct {
	Kind         timeline.Kind         `json:"kind"`
	Start        string                `json:"start"`
	End          string                `json:"end"`
	HeightPx     int                   `json:"heightPx"`
	Draggable    bool                  `json:"draggable"`
	Event        *models.CalendarEvent `json:"event,omitempty"`
	AssignedTask string                `json:"assignedTask,omitempty"`
	Ordinal      *int                  `json:"ordinal,omitempty"`
}

type planResponse struct {
	Date   string          `json:"date"`
	Config timeline.Config `json:"config"`
	Blocks []blockResponse `json:"blocks"`
}

type lunchRequest struct {
	Date  string `json:"date"`
	Start string `json:"start"`
}

type lunchResponse struct {
	LunchStart string `json:"lunchStart"`
	Accepted   bool   `json:"accepted"`
}

type assignRequest struct {
	Date    string `json:"date"`
	Ordinal int    `json:"ordinal"`
	Task    string `json:"task"`
}

type swapRequest struct {
	Date string `json:"date"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

type plateResponse struct {
	Tasks []string `json:"tasks"`
}

func toPlanResponse(plan *planner.DayPlan, pxPerMinute float64) planResponse {
	out := planResponse{
		Date:   plan.Date,
		Config: plan.Config,
		Blocks: make([]blockResponse, 0, len(plan.Blocks)),
	}
	ordinal := 0
	for _, b := range plan.Blocks {
		span := b.Span()
		br := blockResponse{
			Kind:      b.Kind(),
			Start:     timeline.FormatWallClock(span.Start),
			End:       timeline.FormatWallClock(span.End),
			HeightPx:  timeline.HeightPx(span, pxPerMinute),
			Draggable: timeline.Draggable(b),
		}
		switch v := b.(type) {
		case timeline.EventBlock:
			br.Event = v.Event
		case timeline.PomodoroBlock:
			br.AssignedTask = v.Task
			n := ordinal
			br.Ordinal = &n
			ordinal++
		}
		out.Blocks = append(out.Blocks, br)
	}
	return out
}
