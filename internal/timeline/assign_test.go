package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplate/internal/models"
)

func focusDay(t *testing.T) []Block {
	t.Helper()
	events := []*models.CalendarEvent{event("standup", "10:10", "10:30")}
	blocks := Compile(events, testDate, Config{
		WorkStart: "09:00", WorkEnd: "12:30",
		PomodoroMinutes: 30, RestMinutes: 5,
	}, nil)
	// pomodoro rest pomodoro free | event | pomodoro rest pomodoro rest pomodoro free
	require.Equal(t, 5, FocusCount(blocks))
	return blocks
}

func TestApplyAssignments(t *testing.T) {
	blocks := ApplyAssignments(focusDay(t), Assignments{0: "Review PR", 3: "Design doc", 9: "ignored"})
	assert.Equal(t, Assignments{0: "Review PR", 3: "Design doc"}, AssignmentsOf(blocks))

	cleared := ApplyAssignments(blocks, nil)
	assert.Empty(t, AssignmentsOf(cleared))
	assert.Equal(t, shapes(blocks), shapes(cleared))
}

func TestSwapAssignments(t *testing.T) {
	blocks := ApplyAssignments(focusDay(t), Assignments{0: "Review PR", 3: "Design doc"})

	swapped := SwapAssignments(blocks, 0, 3)
	assert.Equal(t, Assignments{0: "Design doc", 3: "Review PR"}, AssignmentsOf(swapped))
	assert.Equal(t, shapes(blocks), shapes(swapped), "timing must not change")
	assert.Equal(t, Assignments{0: "Review PR", 3: "Design doc"}, AssignmentsOf(blocks), "input must not be mutated")

	// Swapping with an unassigned pomodoro moves the task there.
	moved := SwapAssignments(blocks, 0, 4)
	assert.Equal(t, Assignments{3: "Design doc", 4: "Review PR"}, AssignmentsOf(moved))
}

func TestSwapAssignments_SelfInverse(t *testing.T) {
	blocks := ApplyAssignments(focusDay(t), Assignments{1: "a", 2: "b", 4: "c"})
	for from := 0; from < 5; from++ {
		for to := 0; to < 5; to++ {
			back := SwapAssignments(SwapAssignments(blocks, from, to), from, to)
			assert.Equal(t, blocks, back, "swap(%d,%d)", from, to)
		}
	}
}

func TestSwapAssignments_OutOfRange(t *testing.T) {
	blocks := ApplyAssignments(focusDay(t), Assignments{0: "a"})
	assert.Equal(t, blocks, SwapAssignments(blocks, 0, 5))
	assert.Equal(t, blocks, SwapAssignments(blocks, 7, 0))
	assert.Equal(t, blocks, SwapAssignments(blocks, -1, 0))
	assert.Equal(t, []Block(nil), SwapAssignments(nil, 0, 0))
}

func TestSwapAssignments_LeavesNonPomodoroBlocks(t *testing.T) {
	blocks := ApplyAssignments(focusDay(t), Assignments{0: "a", 4: "b"})
	swapped := SwapAssignments(blocks, 0, 4)
	for i, b := range blocks {
		if b.Kind() != KindPomodoro {
			assert.Equal(t, b, swapped[i])
		}
	}
}

func TestFocusOrdinal(t *testing.T) {
	blocks := focusDay(t)
	ordinal, ok := FocusOrdinal(blocks, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, ordinal)

	ordinal, ok = FocusOrdinal(blocks, 2)
	assert.True(t, ok)
	assert.Equal(t, 1, ordinal)

	_, ok = FocusOrdinal(blocks, 1) // rest
	assert.False(t, ok)
	_, ok = FocusOrdinal(blocks, len(blocks))
	assert.False(t, ok)
}

func TestDraggable(t *testing.T) {
	assert.True(t, Draggable(LunchBlock{}))
	assert.True(t, Draggable(PomodoroBlock{Task: "x"}))
	assert.False(t, Draggable(PomodoroBlock{}))
	assert.False(t, Draggable(FreeBlock{}))
	assert.False(t, Draggable(RestBlock{}))
	assert.False(t, Draggable(EventBlock{}))
}
