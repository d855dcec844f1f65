// Package timeline compiles a working day out of calendar events and the
// user's working configuration.
//
// The compiler is a fixed pipeline of pure functions:
//
//	Build -> InsertLunch -> SplitPomodoros -> ApplyAssignments
//
// Each stage takes and returns an ordered []Block. Blocks produced by one
// run are ordered by start, never overlap and leave no gaps across the
// work day. Nothing here does I/O, keeps state between calls or returns an
// error: scheduling conflicts are resolved by returning a best-effort
// result (a lunch that would overlap a meeting is skipped, an out of range
// swap is ignored, a gap shorter than a pomodoro stays free).
//
// All timestamps are naive wall-clock values. They are carried as
// time.Time in UTC purely for arithmetic; no timezone conversion happens
// in this package.
package timeline
