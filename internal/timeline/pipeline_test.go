package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"workplate/internal/models"
)

func minutesDuration(m int) time.Duration { return time.Duration(m) * time.Minute }

func TestCompile_DefaultDay(t *testing.T) {
	events := []*models.CalendarEvent{event("standup", "09:00", "09:15")}
	blocks := Compile(events, testDate, DefaultConfig(), Assignments{0: "Fix flaky test"})

	assert.Equal(t, []shape{
		{KindEvent, "09:00", "09:15"},
		{KindPomodoro, "09:15", "09:45"},
		{KindRest, "09:45", "09:50"},
		{KindPomodoro, "09:50", "10:20"},
		{KindRest, "10:20", "10:25"},
		{KindPomodoro, "10:25", "10:55"},
		{KindRest, "10:55", "11:00"},
		{KindPomodoro, "11:00", "11:30"},
		{KindFree, "11:30", "12:00"},
		{KindLunch, "12:00", "13:00"},
		{KindPomodoro, "13:00", "13:30"},
		{KindRest, "13:30", "13:35"},
		{KindPomodoro, "13:35", "14:05"},
		{KindRest, "14:05", "14:10"},
		{KindPomodoro, "14:10", "14:40"},
		{KindRest, "14:40", "14:45"},
		{KindPomodoro, "14:45", "15:15"},
		{KindRest, "15:15", "15:20"},
		{KindPomodoro, "15:20", "15:50"},
		{KindRest, "15:50", "15:55"},
		{KindPomodoro, "15:55", "16:25"},
		{KindRest, "16:25", "16:30"},
		{KindPomodoro, "16:30", "17:00"},
	}, shapes(blocks))
	assert.Equal(t, "Fix flaky test", blocks[1].(PomodoroBlock).Task)
	requireContiguous(t, blocks, at(t, "09:00"), at(t, "17:00"))
}

func TestCompile_NoLunch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LunchStart = ""
	for _, b := range Compile(nil, testDate, cfg, nil) {
		assert.NotEqual(t, KindLunch, b.Kind())
	}
}

func TestCompile_Deterministic(t *testing.T) {
	events := []*models.CalendarEvent{
		event("b", "14:00", "15:00"),
		event("a", "10:00", "10:45"),
	}
	table := Assignments{1: "x", 2: "y"}
	first := Compile(events, testDate, DefaultConfig(), table)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Compile(events, testDate, DefaultConfig(), table))
	}
}
