package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"

	"workplate/internal/models"
)

func TestToCalendarEvents(t *testing.T) {
	berlin := time.FixedZone("CET", 3600)
	items := []*calendar.Event{
		{
			Id:        "standup",
			Summary:   "Standup",
			Start:     &calendar.EventDateTime{DateTime: "2025-03-10T08:30:00Z"},
			End:       &calendar.EventDateTime{DateTime: "2025-03-10T08:45:00Z"},
			Attendees: []*calendar.EventAttendee{{Email: "a@example.com"}},
			ColorId:   "7",
			HtmlLink:  "https://calendar.google.com/event?eid=1",
		},
		{
			Id:      "deep",
			Summary: "Deep Work block",
			Start:   &calendar.EventDateTime{DateTime: "2025-03-10T14:00:00+01:00"},
			End:     &calendar.EventDateTime{DateTime: "2025-03-10T16:00:00+01:00"},
		},
		{
			Id:    "untitled",
			Start: &calendar.EventDateTime{DateTime: "2025-03-10T16:00:00+01:00"},
			End:   &calendar.EventDateTime{DateTime: "2025-03-10T16:30:00+01:00"},
		},
		{
			Id:      "holiday",
			Summary: "Holiday",
			Start:   &calendar.EventDateTime{Date: "2025-03-10"},
			End:     &calendar.EventDateTime{Date: "2025-03-11"},
		},
		{
			Id:      "gone",
			Summary: "Cancelled",
			Status:  "cancelled",
			Start:   &calendar.EventDateTime{DateTime: "2025-03-10T10:00:00Z"},
			End:     &calendar.EventDateTime{DateTime: "2025-03-10T11:00:00Z"},
		},
		{Id: "broken", Summary: "No times"},
	}

	got := toCalendarEvents(items, "primary", berlin)
	require.Len(t, got, 4)

	standup := got[0]
	assert.Equal(t, "2025-03-10T09:30:00", standup.Start)
	assert.Equal(t, "2025-03-10T09:45:00", standup.End)
	assert.Equal(t, models.EventKindMeeting, standup.Kind)
	assert.Equal(t, "#039BE5", standup.Color)
	assert.Equal(t, "google-primary", standup.Source)
	assert.Equal(t, "https://calendar.google.com/event?eid=1", standup.HTMLLink)

	assert.Equal(t, models.EventKindFocus, got[1].Kind)
	assert.Equal(t, "2025-03-10T14:00:00", got[1].Start)

	assert.Equal(t, noTitle, got[2].Title)
	assert.Equal(t, models.EventKindOther, got[2].Kind)
	assert.NotEmpty(t, got[2].Color)

	assert.Equal(t, "2025-03-10T00:00:00", got[3].Start)
	assert.Equal(t, "2025-03-11T00:00:00", got[3].End)
}
