package timeline

import "time"

const (
	DefaultPomodoroMinutes = 30
	DefaultRestMinutes     = 5
)

// PomodoroConfig sets the focus and rest lengths in minutes.
type PomodoroConfig struct {
	PomodoroMinutes int
	RestMinutes     int
}

// SplitPomodoros subdivides every free block into pomodoros separated by
// rests. Other blocks pass through untouched.
//
// A free block shorter than one pomodoro stays free. Within a longer one,
// a rest is only placed when another full pomodoro fits after it, so a
// free region never ends in a rest: whatever is left after the last
// pomodoro becomes a trailing free block. With 30/5 minutes a 70 minute
// gap yields pomodoro(30) rest(5) pomodoro(30) free(5).
//
// A non-positive pomodoro length disables splitting; a negative rest
// length counts as zero, in which case pomodoros are placed back to back.
func SplitPomodoros(blocks []Block, cfg PomodoroConfig) []Block {
	pomodoro := time.Duration(cfg.PomodoroMinutes) * time.Minute
	rest := time.Duration(max(cfg.RestMinutes, 0)) * time.Minute

	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		free, ok := b.(FreeBlock)
		if !ok || pomodoro <= 0 || free.Duration() < pomodoro {
			out = append(out, b)
			continue
		}
		out = appendFocus(out, free.Interval, pomodoro, rest)
	}
	return out
}

func appendFocus(out []Block, span Interval, pomodoro, rest time.Duration) []Block {
	cursor := span.Start
	for {
		remaining := span.End.Sub(cursor)
		if remaining < pomodoro {
			if remaining > 0 {
				out = append(out, FreeBlock{Interval{Start: cursor, End: span.End}})
			}
			return out
		}

		next := cursor.Add(pomodoro)
		out = append(out, PomodoroBlock{Interval: Interval{Start: cursor, End: next}})
		cursor = next

		remaining = span.End.Sub(cursor)
		if remaining < pomodoro+rest {
			if remaining > 0 {
				out = append(out, FreeBlock{Interval{Start: cursor, End: span.End}})
			}
			return out
		}
		if rest > 0 {
			next = cursor.Add(rest)
			out = append(out, RestBlock{Interval{Start: cursor, End: next}})
			cursor = next
		}
	}
}
