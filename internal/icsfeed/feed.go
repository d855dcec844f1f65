// Package icsfeed reads events from iCalendar subscription URLs.
package icsfeed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	ical "github.com/arran4/golang-ical"

	"workplate/internal/models"
	"workplate/internal/timeline"
)

// Feed is a single ICS subscription.
type Feed struct {
	name   string
	url    string
	path   string // set for file:// feeds
	client *http.Client
	logger *slog.Logger
	loc    *time.Location

	mu           sync.Mutex
	etag         string
	lastModified string
	body         []byte
}

// New creates a feed reader. webcal:// URLs are fetched over https and
// file:// URLs are read from disk on every fetch.
// Timestamps carrying a zone are converted to loc; floating ones are
// kept as written.
func New(logger *slog.Logger, name, url string, loc *time.Location) *Feed {
	if rest, ok := strings.CutPrefix(url, "webcal://"); ok {
		url = "https://" + rest
	}
	var path string
	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		path = rest
	}
	return &Feed{
		name:   name,
		url:    url,
		path:   path,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
		loc:    loc,
	}
}

// FetchEventsForDay downloads the feed and returns the events that
// intersect date. Recurring events only contribute their first instance.
func (f *Feed) FetchEventsForDay(ctx context.Context, date string) ([]*models.CalendarEvent, error) {
	dayStart, err := time.Parse(timeline.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	body, err := f.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", f.name, err)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", f.name, err)
	}

	var out []*models.CalendarEvent
	for _, ve := range cal.Events() {
		ev, ok := f.toCalendarEvent(ve)
		if !ok {
			continue
		}
		start, _ := timeline.ParseWallClock(ev.Start)
		end, _ := timeline.ParseWallClock(ev.End)
		if start.Before(dayEnd) && end.After(dayStart) {
			out = append(out, ev)
		}
	}

	f.logger.Info("Fetched events from ICS feed", "feed", f.name, "count", len(out), "total", len(cal.Events()))
	return out, nil
}

// fetch performs a conditional GET and reuses the previous body on 304.
func (f *Feed) fetch(ctx context.Context) ([]byte, error) {
	if f.path != "" {
		return os.ReadFile(f.path)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	if f.body != nil {
		if f.etag != "" {
			req.Header.Set("If-None-Match", f.etag)
		}
		if f.lastModified != "" {
			req.Header.Set("If-Modified-Since", f.lastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, errors.New("empty ICS body")
		}
		f.body = body
		f.etag = resp.Header.Get("ETag")
		f.lastModified = resp.Header.Get("Last-Modified")
		return body, nil
	case http.StatusNotModified:
		if f.body == nil {
			return nil, errors.New("not modified but nothing cached")
		}
		f.logger.Debug("ICS feed not modified", "feed", f.name)
		return f.body, nil
	default:
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
}

func (f *Feed) toCalendarEvent(ve *ical.VEvent) (*models.CalendarEvent, bool) {
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		return nil, false
	}

	start, ok := f.wallClock(ve, ical.ComponentPropertyDtStart)
	if !ok {
		return nil, false
	}
	end, ok := f.wallClock(ve, ical.ComponentPropertyDtEnd)
	if !ok {
		end = f.implicitEnd(ve, start)
	}

	var summary string
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		summary = ical.FromText(p.Value)
	}
	title := summary
	if title == "" {
		title = "(No title)"
	}

	ev := &models.CalendarEvent{
		ID:     ve.Id(),
		Title:  title,
		Start:  start.Format(timeline.WallClockLayout),
		End:    end.Format(timeline.WallClockLayout),
		Kind:   timeline.Classify(summary, len(ve.Attendees())),
		Color:  timeline.ResolveColor("", title),
		Source: "ics-" + f.name,
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		ev.HTMLLink = p.Value
	}
	return ev, true
}

// wallClock reads a DTSTART or DTEND value as a naive local time.
func (f *Feed) wallClock(ve *ical.VEvent, prop ical.ComponentProperty) (time.Time, bool) {
	p := ve.GetProperty(prop)
	if p == nil {
		return time.Time{}, false
	}

	var t time.Time
	var err error
	if prop == ical.ComponentPropertyDtStart {
		t, err = ve.GetStartAt()
	} else {
		t, err = ve.GetEndAt()
	}
	if err != nil {
		return time.Time{}, false
	}

	if _, zoned := p.ICalParameters["TZID"]; zoned || strings.HasSuffix(p.Value, "Z") {
		t = t.In(f.loc)
	}
	// Drop the zone so duration arithmetic stays on the wall clock.
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
}

// implicitEnd is the end of an event without DTEND: start plus DURATION,
// or else one day for a date-only start and no time at all otherwise.
func (f *Feed) implicitEnd(ve *ical.VEvent, start time.Time) time.Time {
	if p := ve.GetProperty(ical.ComponentPropertyDuration); p != nil {
		if days, d, ok := parseDuration(p.Value); ok {
			return start.AddDate(0, 0, days).Add(d)
		}
		f.logger.Warn("Ignoring malformed DURATION", "feed", f.name, "uid", ve.Id(), "value", p.Value)
	}
	if dateOnly(ve.GetProperty(ical.ComponentPropertyDtStart)) {
		return start.AddDate(0, 0, 1)
	}
	return start
}

func dateOnly(p *ical.IANAProperty) bool {
	if p == nil {
		return false
	}
	if v := p.ICalParameters["VALUE"]; len(v) == 1 && strings.EqualFold(v[0], "DATE") {
		return true
	}
	return len(p.Value) == len("20060102")
}

var durationPattern = regexp.MustCompile(`^\+?P(?:(\d+)W|(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?)$`)

// parseDuration reads an RFC 5545 dur-value. Weeks and days are returned
// as calendar days, the time part as a duration. Negative and empty
// durations are rejected.
func parseDuration(s string) (int, time.Duration, bool) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || m[1]+m[2]+m[3]+m[4]+m[5] == "" {
		return 0, 0, false
	}
	n := func(i int) int {
		v, _ := strconv.Atoi(m[i])
		return v
	}
	days := n(1)*7 + n(2)
	d := time.Duration(n(3))*time.Hour + time.Duration(n(4))*time.Minute + time.Duration(n(5))*time.Second
	return days, d, true
}
