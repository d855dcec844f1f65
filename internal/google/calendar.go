package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"workplate/internal/models"
	"workplate/internal/timeline"
)

const noTitle = "(No title)"

// CalendarClient provides a client for interacting with the Google Calendar API.
type CalendarClient struct {
	service *calendar.Service
	logger  *slog.Logger
	loc     *time.Location
}

// NewClient creates a Google Calendar client authenticated with the token
// kept in the settings store. Refreshed tokens are written back to it.
// Timestamps are reported as wall-clock times in loc.
func NewClient(ctx context.Context, logger *slog.Logger, auth *Auth, loc *time.Location) (*CalendarClient, error) {
	client, err := auth.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &CalendarClient{service: service, logger: logger, loc: loc}, nil
}

// Calendar returns a provider for a single calendar ID.
func (c *CalendarClient) Calendar(id string) *Calendar {
	return &Calendar{client: c, id: id}
}

// ListCalendars finds all calendars associated with the authenticated account.
func (c *CalendarClient) ListCalendars(ctx context.Context) ([]*calendar.CalendarListEntry, error) {
	list, err := c.service.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return list.Items, nil
}

// Calendar fetches one Google calendar.
type Calendar struct {
	client *CalendarClient
	id     string
}

// FetchEventsForDay returns the events of the calendar that intersect the
// given day (YYYY-MM-DD in the client's location).
func (cal *Calendar) FetchEventsForDay(ctx context.Context, date string) ([]*models.CalendarEvent, error) {
	c := cal.client
	day, err := time.ParseInLocation(timeline.DateLayout, date, c.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	c.logger.Debug("Fetching events", "calendarID", cal.id, "date", date)
	var items []*calendar.Event
	err = c.service.Events.List(cal.id).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(day.Format(time.RFC3339)).
		TimeMax(day.AddDate(0, 0, 1).Format(time.RFC3339)).
		OrderBy("startTime").
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events from %s: %w", cal.id, err)
	}

	c.logger.Info("Fetched events from Google Calendar", "count", len(items), "calendarID", cal.id)
	return toCalendarEvents(items, cal.id, c.loc), nil
}

// toCalendarEvents converts Google Calendar events to the internal model.
// All-day events span midnight to midnight.
func toCalendarEvents(items []*calendar.Event, source string, loc *time.Location) []*models.CalendarEvent {
	var out []*models.CalendarEvent
	for _, item := range items {
		if item.Status == "cancelled" {
			continue
		}
		start, ok := wallClock(item.Start, loc)
		if !ok {
			continue
		}
		end, ok := wallClock(item.End, loc)
		if !ok {
			continue
		}

		title := item.Summary
		if title == "" {
			title = noTitle
		}

		out = append(out, &models.CalendarEvent{
			ID:       item.Id,
			Title:    title,
			Start:    start,
			End:      end,
			Kind:     timeline.Classify(item.Summary, len(item.Attendees)),
			ColorID:  item.ColorId,
			Color:    timeline.ResolveColor(item.ColorId, title),
			HTMLLink: item.HtmlLink,
			Source:   "google-" + source,
		})
	}
	return out
}

func wallClock(t *calendar.EventDateTime, loc *time.Location) (string, bool) {
	if t == nil {
		return "", false
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return "", false
		}
		return parsed.In(loc).Format(timeline.WallClockLayout), true
	}
	if t.Date != "" {
		if _, err := time.Parse(timeline.DateLayout, t.Date); err != nil {
			return "", false
		}
		return t.Date + "T00:00:00", true
	}
	return "", false
}
