package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplate/internal/models"
)

func TestInsertLunch_SplitsFreeBlock(t *testing.T) {
	in := []Block{FreeBlock{span(t, "09:00", "17:00")}}
	got := InsertLunch(in, "12:00", 60)
	assert.Equal(t, []shape{
		{KindFree, "09:00", "12:00"},
		{KindLunch, "12:00", "13:00"},
		{KindFree, "13:00", "17:00"},
	}, shapes(got))
}

func TestInsertLunch_SkipsWhenOverlappingEvent(t *testing.T) {
	in := Build([]*models.CalendarEvent{event("offsite", "11:00", "13:00")}, testDate, WorkHours{})
	got := InsertLunch(in, "12:00", 60)
	assert.Equal(t, in, got)
	for _, b := range got {
		assert.NotEqual(t, KindLunch, b.Kind())
	}
}

func TestInsertLunch_OmitsEmptyPrefixAndSuffix(t *testing.T) {
	in := Build([]*models.CalendarEvent{
		event("a", "09:00", "12:00"),
		event("b", "13:00", "17:00"),
	}, testDate, WorkHours{})
	got := InsertLunch(in, "12:00", 60)
	assert.Equal(t, []shape{
		{KindEvent, "09:00", "12:00"},
		{KindLunch, "12:00", "13:00"},
		{KindEvent, "13:00", "17:00"},
	}, shapes(got))
}

func TestInsertLunch_OnlyHostBlockChanges(t *testing.T) {
	ev := event("sync", "10:00", "11:00")
	in := Build([]*models.CalendarEvent{ev}, testDate, WorkHours{})
	got := InsertLunch(in, "12:30", 30)
	assert.Equal(t, []shape{
		{KindFree, "09:00", "10:00"},
		{KindEvent, "10:00", "11:00"},
		{KindFree, "11:00", "12:30"},
		{KindLunch, "12:30", "13:00"},
		{KindFree, "13:00", "17:00"},
	}, shapes(got))
	assert.Equal(t, in[0], got[0])
	assert.Same(t, ev, got[1].(EventBlock).Event)
}

// A lunch that runs past the end of its free block without touching an
// event (here it runs past the end of the work day) has no single host
// block and is skipped, like an overlap.
func TestInsertLunch_StraddlingLunchIsSkipped(t *testing.T) {
	in := Build(nil, testDate, WorkHours{Start: "09:00", End: "12:30"})
	assert.Equal(t, in, InsertLunch(in, "12:00", 60))

	// Free blocks adjacent to a lunch already carved out of the day.
	twoFree := []Block{
		FreeBlock{span(t, "09:00", "12:00")},
		LunchBlock{span(t, "12:00", "12:15")},
		FreeBlock{span(t, "12:15", "17:00")},
	}
	assert.Equal(t, twoFree, InsertLunch(twoFree, "11:30", 60))
}

func TestInsertLunch_InvalidInput(t *testing.T) {
	in := []Block{FreeBlock{span(t, "09:00", "17:00")}}
	assert.Equal(t, in, InsertLunch(in, "", 60))
	assert.Equal(t, in, InsertLunch(in, "noon", 60))
	assert.Equal(t, in, InsertLunch(in, "12:00", 0))
	assert.Empty(t, InsertLunch(nil, "12:00", 60))
}

func TestInsertLunch_NeverIntersectsEvents(t *testing.T) {
	events := []*models.CalendarEvent{
		event("a", "09:30", "10:00"),
		event("b", "11:45", "12:10"),
		event("c", "14:00", "15:00"),
	}
	base := Build(events, testDate, WorkHours{})
	for _, start := range []string{"09:00", "10:00", "11:00", "11:30", "12:10", "13:00", "14:30", "16:00"} {
		got := InsertLunch(base, start, 45)
		requireContiguous(t, got, at(t, "09:00"), at(t, "17:00"))
		for _, b := range got {
			lunch, ok := b.(LunchBlock)
			if !ok {
				continue
			}
			for _, other := range got {
				if ev, ok := other.(EventBlock); ok {
					assert.False(t, lunch.Overlaps(ev.Interval), "lunch at %s overlaps %s", start, ev.Event.ID)
				}
			}
		}
	}
}

func TestMoveLunch(t *testing.T) {
	events := []*models.CalendarEvent{event("review", "13:00", "14:00")}

	assert.Equal(t, "11:00", MoveLunch("12:00", "11:00", events, testDate, 60))
	assert.Equal(t, "14:00", MoveLunch("12:00", "14:00", events, testDate, 60))
	assert.Equal(t, "12:00", MoveLunch("12:00", "12:30", events, testDate, 60))
	assert.Equal(t, "12:00", MoveLunch("12:00", "13:30", events, testDate, 15))
	assert.Equal(t, "12:00", MoveLunch("12:00", "lunchtime", events, testDate, 60))
	assert.Equal(t, "12:30", MoveLunch("12:00", "12:30", nil, testDate, 60))
}

func TestLunchFits(t *testing.T) {
	events := []*models.CalendarEvent{event("client", "12:00", "13:00")}

	assert.False(t, LunchFits("12:00", events, testDate, 60))
	assert.False(t, LunchFits("11:30", events, testDate, 60))
	assert.True(t, LunchFits("13:00", events, testDate, 60))
	assert.True(t, LunchFits("11:00", events, testDate, 60))
	assert.False(t, LunchFits("noon", nil, testDate, 60))
}

func TestMoveLunch_ThenRecompile(t *testing.T) {
	events := []*models.CalendarEvent{event("review", "12:00", "13:00")}
	cfg := DefaultConfig()
	cfg.LunchStart = MoveLunch(cfg.LunchStart, "13:00", events, testDate, cfg.LunchMinutes)
	require.Equal(t, "13:00", cfg.LunchStart)

	blocks := Compile(events, testDate, cfg, nil)
	var lunches []Block
	for _, b := range blocks {
		if b.Kind() == KindLunch {
			lunches = append(lunches, b)
		}
	}
	require.Len(t, lunches, 1)
	assert.Equal(t, span(t, "13:00", "14:00"), lunches[0].Span())
}
