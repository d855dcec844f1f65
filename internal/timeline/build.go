package timeline

import (
	"sort"

	"workplate/internal/models"
)

const (
	DefaultWorkStart = "09:00"
	DefaultWorkEnd   = "17:00"
)

// WorkHours bounds the working day. Empty fields fall back to
// DefaultWorkStart and DefaultWorkEnd.
type WorkHours struct {
	Start string
	End   string
}

type eventSpan struct {
	event *models.CalendarEvent
	span  Interval
}

// Build lays the events of one day onto the work-day bounds, producing
// alternating free and event blocks that cover [date+Start, date+End)
// exactly.
//
// Events are clipped to the work day. An event that starts before the end
// of a previous one is clipped to start where that one ended, and an event
// left with no time after clipping contributes nothing. Events whose
// timestamps cannot be parsed are skipped. If the date or the bounds are
// invalid, or the day would be empty, Build returns nil.
func Build(events []*models.CalendarEvent, date string, hours WorkHours) []Block {
	if hours.Start == "" {
		hours.Start = DefaultWorkStart
	}
	if hours.End == "" {
		hours.End = DefaultWorkEnd
	}
	dayStart, ok := At(date, hours.Start)
	if !ok {
		return nil
	}
	dayEnd, ok := At(date, hours.End)
	if !ok || !dayStart.Before(dayEnd) {
		return nil
	}

	spans := make([]eventSpan, 0, len(events))
	for _, ev := range events {
		if span, ok := eventInterval(ev); ok {
			spans = append(spans, eventSpan{event: ev, span: span})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].span.Start.Before(spans[j].span.Start)
	})

	blocks := make([]Block, 0, 2*len(spans)+1)
	cursor := dayStart
	for _, s := range spans {
		start := latest(s.span.Start, dayStart, cursor)
		end := earliest(s.span.End, dayEnd)
		if !start.Before(end) {
			continue
		}
		if start.After(cursor) {
			blocks = append(blocks, FreeBlock{Interval{Start: cursor, End: start}})
		}
		blocks = append(blocks, EventBlock{Interval: Interval{Start: start, End: end}, Event: s.event})
		cursor = end
	}
	if cursor.Before(dayEnd) {
		blocks = append(blocks, FreeBlock{Interval{Start: cursor, End: dayEnd}})
	}
	return blocks
}

// eventInterval parses the span of an event.
func eventInterval(ev *models.CalendarEvent) (Interval, bool) {
	if ev == nil {
		return Interval{}, false
	}
	start, ok := ParseWallClock(ev.Start)
	if !ok {
		return Interval{}, false
	}
	end, ok := ParseWallClock(ev.End)
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}
