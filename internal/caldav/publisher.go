package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"workplate/internal/timeline"
)

// basicAuthTransport handles adding Basic Auth and custom headers to requests.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "workplate/1.0")
	return t.Transport.RoundTrip(req)
}

// Publisher writes plans into a CalDAV calendar.
type Publisher struct {
	client      *caldav.Client
	logger      *slog.Logger
	calendarURL string
	loc         *time.Location
	now         func() time.Time
}

// NewPublisher connects to the CalDAV server at endpoint and looks up the
// calendar named calendarName.
func NewPublisher(ctx context.Context, logger *slog.Logger, endpoint, username, password, calendarName string, loc *time.Location) (*Publisher, error) {
	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			Username:  username,
			Password:  password,
			Transport: http.DefaultTransport,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	p := &Publisher{client: client, logger: logger, loc: loc, now: time.Now}

	logger.Info("Finding CalDAV calendar", "calendarName", calendarName)
	calendarURL, err := p.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	p.calendarURL = calendarURL
	logger.Info("Found CalDAV calendar", "path", calendarURL)

	return p, nil
}

// Publish replaces the published plan for date: every block from blocks
// is written and previously published blocks that are no longer part of
// the plan are removed.
func (p *Publisher) Publish(ctx context.Context, date string, blocks []timeline.Block) error {
	cal := EncodePlan(date, blocks, p.loc, p.now())

	keep := make(map[string]bool)
	for _, ev := range cal.Events() {
		uid, err := ev.Props.Text(ical.PropUID)
		if err != nil {
			return fmt.Errorf("failed to read UID: %w", err)
		}
		keep[uid] = true

		single := ical.NewCalendar()
		single.Props = cal.Props
		single.Children = []*ical.Component{ev.Component}

		if _, err := p.client.PutCalendarObject(ctx, p.objectPath(uid), single); err != nil {
			return fmt.Errorf("failed to put %s: %w", uid, err)
		}
	}

	stale, err := p.stalePaths(ctx, date, keep)
	if err != nil {
		return err
	}
	for _, objPath := range stale {
		if err := p.client.RemoveAll(ctx, objPath); err != nil {
			return fmt.Errorf("failed to remove stale block %s: %w", objPath, err)
		}
	}

	p.logger.Info("Published plan", "date", date, "blocks", len(keep), "removed", len(stale))
	return nil
}

// stalePaths lists objects on date that were published by us and are not
// in keep.
func (p *Publisher) stalePaths(ctx context.Context, date string, keep map[string]bool) ([]string, error) {
	day, err := time.ParseInLocation(timeline.DateLayout, date, p.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:  ical.CompCalendar,
			Comps: []caldav.CalendarCompRequest{{Name: ical.CompEvent, Props: []string{ical.PropUID}}},
		},
		CompFilter: caldav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []caldav.CompFilter{{Name: ical.CompEvent, Start: day.UTC(), End: day.AddDate(0, 0, 1).UTC()}},
		},
	}
	objects, err := p.client.QueryCalendar(ctx, p.calendarURL, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	var stale []string
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		for _, ev := range obj.Data.Events() {
			uid, _ := ev.Props.Text(ical.PropUID)
			if ownedUID(uid) && !keep[uid] {
				stale = append(stale, obj.Path)
				break
			}
		}
	}
	return stale, nil
}

func (p *Publisher) objectPath(uid string) string {
	return path.Join(p.calendarURL, uid+".ics")
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (p *Publisher) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := p.client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := p.client.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := p.client.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
