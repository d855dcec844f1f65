package timeline

import "workplate/internal/models"

// Config is the user's working configuration as read from the settings
// store at the start of a run.
type Config struct {
	WorkStart       string `json:"workStart" yaml:"work_start"`
	WorkEnd         string `json:"workEnd" yaml:"work_end"`
	PomodoroMinutes int    `json:"pomodoroDuration" yaml:"pomodoro_duration"`
	RestMinutes     int    `json:"restDuration" yaml:"rest_duration"`
	LunchStart      string `json:"lunchStart" yaml:"lunch_start"`
	LunchMinutes    int    `json:"lunchDuration" yaml:"lunch_duration"`
}

// DefaultConfig returns the configuration used when nothing is stored.
func DefaultConfig() Config {
	return Config{
		WorkStart:       DefaultWorkStart,
		WorkEnd:         DefaultWorkEnd,
		PomodoroMinutes: DefaultPomodoroMinutes,
		RestMinutes:     DefaultRestMinutes,
		LunchStart:      DefaultLunchStart,
		LunchMinutes:    DefaultLunchMinutes,
	}
}

func (c Config) WorkHours() WorkHours {
	return WorkHours{Start: c.WorkStart, End: c.WorkEnd}
}

func (c Config) Pomodoro() PomodoroConfig {
	return PomodoroConfig{PomodoroMinutes: c.PomodoroMinutes, RestMinutes: c.RestMinutes}
}

// Compile runs the whole pipeline for one day. An empty LunchStart means
// no lunch block. The result depends only on the arguments.
func Compile(events []*models.CalendarEvent, date string, cfg Config, table Assignments) []Block {
	blocks := Build(events, date, cfg.WorkHours())
	blocks = InsertLunch(blocks, cfg.LunchStart, cfg.LunchMinutes)
	blocks = SplitPomodoros(blocks, cfg.Pomodoro())
	return ApplyAssignments(blocks, table)
}
