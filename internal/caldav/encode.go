// Package caldav turns a compiled day plan into iCalendar data and
// publishes it to a CalDAV calendar.
package caldav

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"workplate/internal/timeline"
)

const (
	productID = "-//workplate//EN"
	uidSuffix = "@workplate"
)

// planNamespace seeds the name-based UUIDs of published blocks.
var planNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://workplate.local/plan"))

// EncodePlan builds a calendar holding the pomodoros and the lunch block of
// the plan. Block times are wall-clock values in loc and are written in
// UTC. UIDs depend only on the date, the block kind and its span, so
// publishing the same plan twice produces the same objects.
func EncodePlan(date string, blocks []timeline.Block, loc *time.Location, now time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, b := range blocks {
		summary, ok := summaryOf(b)
		if !ok {
			continue
		}
		span := b.Span()
		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, BlockUID(date, b))
		ve.Props.SetText(ical.PropSummary, summary)
		ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		ve.Props.SetDateTime(ical.PropDateTimeStart, inLocation(span.Start, loc))
		ve.Props.SetDateTime(ical.PropDateTimeEnd, inLocation(span.End, loc))
		ve.Props.SetText(ical.PropCategories, strings.ToUpper(string(b.Kind())))
		cal.Children = append(cal.Children, ve)
	}
	return cal
}

// WritePlan encodes cal to w.
func WritePlan(w io.Writer, cal *ical.Calendar) error {
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode plan to iCal format: %w", err)
	}
	return nil
}

// BlockUID is the stable iCalendar UID of a published block.
func BlockUID(date string, b timeline.Block) string {
	span := b.Span()
	name := fmt.Sprintf("%s|%s|%s|%s", date, b.Kind(), timeline.FormatWallClock(span.Start), timeline.FormatWallClock(span.End))
	return uuid.NewSHA1(planNamespace, []byte(name)).String() + uidSuffix
}

func summaryOf(b timeline.Block) (string, bool) {
	switch v := b.(type) {
	case timeline.PomodoroBlock:
		if v.Task == "" {
			return "Focus", true
		}
		return "Focus: " + v.Task, true
	case timeline.LunchBlock:
		return "Lunch", true
	}
	return "", false
}

// inLocation reinterprets a naive wall-clock time as a time in loc.
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc).UTC()
}

// ownedUID reports whether uid was produced by BlockUID.
func ownedUID(uid string) bool {
	return strings.HasSuffix(uid, uidSuffix)
}
