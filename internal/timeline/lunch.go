package timeline

import (
	"time"

	"workplate/internal/models"
)

const (
	DefaultLunchStart   = "12:00"
	DefaultLunchMinutes = 60
)

// InsertLunch carves a lunch block of the given length out of the free
// block that fully contains it. The day is taken from the first block.
//
// The input is returned unchanged when the lunch would overlap any event,
// when no single free block contains it (for instance when it straddles a
// free block and an event edge), or when lunchStart or minutes are not
// usable. Lunch is simply skipped in those cases.
func InsertLunch(blocks []Block, lunchStart string, minutes int) []Block {
	if len(blocks) == 0 || minutes <= 0 {
		return blocks
	}
	lunch, ok := lunchInterval(blocks[0].Span().Start.Format(DateLayout), lunchStart, minutes)
	if !ok {
		return blocks
	}

	for _, b := range blocks {
		if ev, ok := b.(EventBlock); ok && ev.Overlaps(lunch) {
			return blocks
		}
	}

	host := -1
	for i, b := range blocks {
		if free, ok := b.(FreeBlock); ok && free.Contains(lunch) {
			host = i
			break
		}
	}
	if host < 0 {
		return blocks
	}

	free := blocks[host].(FreeBlock)
	out := make([]Block, 0, len(blocks)+2)
	out = append(out, blocks[:host]...)
	if lunch.Start.After(free.Start) {
		out = append(out, FreeBlock{Interval{Start: free.Start, End: lunch.Start}})
	}
	out = append(out, LunchBlock{lunch})
	if lunch.End.Before(free.End) {
		out = append(out, FreeBlock{Interval{Start: lunch.End, End: free.End}})
	}
	return append(out, blocks[host+1:]...)
}

// MoveLunch validates a proposed lunch start against the day's events. It
// returns proposed when a lunch of the given length starting then overlaps
// no event, and current otherwise. It does not touch any block list;
// callers recompile with the returned start.
func MoveLunch(current, proposed string, events []*models.CalendarEvent, date string, minutes int) string {
	if LunchFits(proposed, events, date, minutes) {
		return proposed
	}
	return current
}

// LunchFits reports whether a lunch of minutes starting at start (HH:MM)
// overlaps none of events.
func LunchFits(start string, events []*models.CalendarEvent, date string, minutes int) bool {
	lunch, ok := lunchInterval(date, start, minutes)
	if !ok {
		return false
	}
	for _, ev := range events {
		if span, ok := eventInterval(ev); ok && span.Overlaps(lunch) {
			return false
		}
	}
	return true
}

func lunchInterval(date, start string, minutes int) (Interval, bool) {
	from, ok := At(date, start)
	if !ok {
		return Interval{}, false
	}
	return Interval{Start: from, End: from.Add(time.Duration(minutes) * time.Minute)}, true
}
