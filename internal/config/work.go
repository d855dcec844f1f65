package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"workplate/internal/timeline"
)

// Settings store keys.
const (
	KeyWorkStart        = "work_start"
	KeyWorkEnd          = "work_end"
	KeyPomodoroDuration = "pomodoro_duration"
	KeyRestDuration     = "rest_duration"
	KeyLunchStart       = "lunch_start"
	KeyLunchDuration    = "lunch_duration"
	KeyOAuthTokens      = "oauth_tokens"
)

// WorkKeys lists the user-editable working configuration keys in display
// order.
var WorkKeys = []string{
	KeyWorkStart,
	KeyWorkEnd,
	KeyPomodoroDuration,
	KeyRestDuration,
	KeyLunchStart,
	KeyLunchDuration,
}

// ErrInvalidSetting is returned for unknown keys and malformed values.
var ErrInvalidSetting = errors.New("invalid setting")

// AssignmentsKey is the settings key holding the task assignments for date.
func AssignmentsKey(date string) string {
	return "assignments/" + date
}

type SettingsGetter interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

type SettingsSetter interface {
	Set(ctx context.Context, key, value string) error
}

type SettingsStore interface {
	SettingsGetter
	SettingsSetter
}

// LoadWork reads the working configuration, using the defaults for keys
// that were never set.
func LoadWork(ctx context.Context, s SettingsGetter) (timeline.Config, error) {
	cfg := timeline.DefaultConfig()
	for _, key := range WorkKeys {
		v, ok, err := s.Get(ctx, key)
		if err != nil {
			return cfg, fmt.Errorf("failed to read setting %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := setField(&cfg, key, v); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// SaveWork validates cfg and writes every working key.
func SaveWork(ctx context.Context, s SettingsSetter, cfg timeline.Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	values := Values(cfg)
	for _, key := range WorkKeys {
		if err := s.Set(ctx, key, values[key]); err != nil {
			return fmt.Errorf("failed to write setting %s: %w", key, err)
		}
	}
	return nil
}

// SetWork changes a single working key after checking that the resulting
// configuration is still valid.
func SetWork(ctx context.Context, s SettingsStore, key, value string) error {
	cfg, err := LoadWork(ctx, s)
	if err != nil {
		return err
	}
	if err := setField(&cfg, key, value); err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := s.Set(ctx, key, Values(cfg)[key]); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// Values renders cfg as settings store values.
func Values(cfg timeline.Config) map[string]string {
	return map[string]string{
		KeyWorkStart:        cfg.WorkStart,
		KeyWorkEnd:          cfg.WorkEnd,
		KeyPomodoroDuration: strconv.Itoa(cfg.PomodoroMinutes),
		KeyRestDuration:     strconv.Itoa(cfg.RestMinutes),
		KeyLunchStart:       cfg.LunchStart,
		KeyLunchDuration:    strconv.Itoa(cfg.LunchMinutes),
	}
}

// Validate checks clock formats, durations and that the work day is not
// empty. An empty lunch start disables lunch.
func Validate(cfg timeline.Config) error {
	start, ok := timeline.ParseClock(cfg.WorkStart)
	if !ok {
		return fmt.Errorf("%w: %s %q is not HH:MM", ErrInvalidSetting, KeyWorkStart, cfg.WorkStart)
	}
	end, ok := timeline.ParseClock(cfg.WorkEnd)
	if !ok {
		return fmt.Errorf("%w: %s %q is not HH:MM", ErrInvalidSetting, KeyWorkEnd, cfg.WorkEnd)
	}
	if end <= start {
		return fmt.Errorf("%w: %s must be after %s", ErrInvalidSetting, KeyWorkEnd, KeyWorkStart)
	}
	if cfg.PomodoroMinutes <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidSetting, KeyPomodoroDuration)
	}
	if cfg.RestMinutes < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSetting, KeyRestDuration)
	}
	if cfg.LunchStart != "" {
		if _, ok := timeline.ParseClock(cfg.LunchStart); !ok {
			return fmt.Errorf("%w: %s %q is not HH:MM", ErrInvalidSetting, KeyLunchStart, cfg.LunchStart)
		}
	}
	if cfg.LunchMinutes <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidSetting, KeyLunchDuration)
	}
	return nil
}

func setField(cfg *timeline.Config, key, value string) error {
	switch key {
	case KeyWorkStart:
		cfg.WorkStart = value
	case KeyWorkEnd:
		cfg.WorkEnd = value
	case KeyLunchStart:
		cfg.LunchStart = value
	case KeyPomodoroDuration, KeyRestDuration, KeyLunchDuration:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s %q is not a number of minutes", ErrInvalidSetting, key, value)
		}
		switch key {
		case KeyPomodoroDuration:
			cfg.PomodoroMinutes = n
		case KeyRestDuration:
			cfg.RestMinutes = n
		default:
			cfg.LunchMinutes = n
		}
	default:
		return fmt.Errorf("%w: unknown key %q", ErrInvalidSetting, key)
	}
	return nil
}
