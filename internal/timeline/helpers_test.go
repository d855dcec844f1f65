package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"workplate/internal/models"
)

const testDate = "2025-03-10"

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	v, ok := At(testDate, clock)
	require.True(t, ok, "bad clock %q", clock)
	return v
}

func span(t *testing.T, from, to string) Interval {
	t.Helper()
	return Interval{Start: at(t, from), End: at(t, to)}
}

func event(id, from, to string) *models.CalendarEvent {
	return &models.CalendarEvent{
		ID:    id,
		Title: id,
		Start: testDate + "T" + from + ":00",
		End:   testDate + "T" + to + ":00",
		Kind:  models.EventKindOther,
	}
}

// shape is a compact, comparable view of a block.
type shape struct {
	Kind Kind
	From string
	To   string
}

func shapes(blocks []Block) []shape {
	out := make([]shape, 0, len(blocks))
	for _, b := range blocks {
		s := b.Span()
		out = append(out, shape{Kind: b.Kind(), From: s.Start.Format(ClockLayout), To: s.End.Format(ClockLayout)})
	}
	return out
}

func requireContiguous(t *testing.T, blocks []Block, from, to time.Time) {
	t.Helper()
	require.NotEmpty(t, blocks)
	require.True(t, blocks[0].Span().Start.Equal(from), "first block starts at %s", blocks[0].Span().Start)
	require.True(t, blocks[len(blocks)-1].Span().End.Equal(to), "last block ends at %s", blocks[len(blocks)-1].Span().End)
	for i, b := range blocks {
		s := b.Span()
		require.True(t, s.Start.Before(s.End), "block %d (%s) is empty or inverted", i, b.Kind())
		if i > 0 {
			require.True(t, blocks[i-1].Span().End.Equal(s.Start), "gap or overlap before block %d", i)
		}
	}
}
