package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workplate/internal/models"
	"workplate/internal/planner"
	"workplate/internal/store"
	"workplate/internal/timeline"
)

const testDate = "2025-03-10"

type staticProvider []*models.CalendarEvent

func (s staticProvider) FetchEventsForDay(context.Context, string) ([]*models.CalendarEvent, error) {
	return s, nil
}

type failingProvider struct{}

func (failingProvider) FetchEventsForDay(context.Context, string) ([]*models.CalendarEvent, error) {
	return nil, errors.New("upstream down")
}

type testEnv struct {
	handler http.Handler
	tasks   *store.TaskStore
}

func newTestEnv(t *testing.T, providers ...planner.Provider) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := store.NewSettingsStore(filepath.Join(dir, "settings.yaml"))
	tasks := store.NewTaskStore(filepath.Join(dir, "tasks.yaml"))
	p := planner.New(logger, settings, tasks, providers, nil)
	srv := NewServer(logger, p, settings, func() string { return testDate })
	return &testEnv{handler: srv.Handler(), tasks: tasks}
}

func (e *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sampleEvent() *models.CalendarEvent {
	return &models.CalendarEvent{
		ID:    "standup",
		Title: "Standup",
		Start: testDate + "T09:00:00",
		End:   testDate + "T09:30:00",
		Kind:  models.EventKindMeeting,
		Color: "#039BE5",
	}
}

func TestHealth(t *testing.T) {
	rec := newTestEnv(t).do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetPlan(t *testing.T) {
	env := newTestEnv(t, staticProvider{sampleEvent()})

	rec := env.do(t, http.MethodGet, "/api/plan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decodeBody[planResponse](t, rec)

	assert.Equal(t, testDate, plan.Date)
	require.NotEmpty(t, plan.Blocks)

	first := plan.Blocks[0]
	assert.Equal(t, timeline.KindEvent, first.Kind)
	assert.Equal(t, "2025-03-10T09:00:00", first.Start)
	assert.Equal(t, 60, first.HeightPx)
	require.NotNil(t, first.Event)
	assert.Equal(t, "Standup", first.Event.Title)
	assert.False(t, first.Draggable)
	assert.Nil(t, first.Ordinal)

	second := plan.Blocks[1]
	assert.Equal(t, timeline.KindPomodoro, second.Kind)
	require.NotNil(t, second.Ordinal)
	assert.Equal(t, 0, *second.Ordinal)
	assert.False(t, second.Draggable)

	var lunch *blockResponse
	for i := range plan.Blocks {
		if plan.Blocks[i].Kind == timeline.KindLunch {
			lunch = &plan.Blocks[i]
		}
	}
	require.NotNil(t, lunch)
	assert.True(t, lunch.Draggable)
	assert.Equal(t, 120, lunch.HeightPx)
}

func TestGetPlan_Errors(t *testing.T) {
	rec := newTestEnv(t, staticProvider{}).do(t, http.MethodGet, "/api/plan?date=tomorrow", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "invalid date")

	rec = newTestEnv(t, failingProvider{}).do(t, http.MethodGet, "/api/plan?date="+testDate, "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = newTestEnv(t).do(t, http.MethodGet, "/api/plan", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAssignAndSwap(t *testing.T) {
	env := newTestEnv(t, staticProvider{})

	rec := env.do(t, http.MethodPost, "/api/plan/assign", `{"date":"2025-03-10","ordinal":1,"task":"Write report"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	plan := decodeBody[planResponse](t, rec)

	var assigned []blockResponse
	for _, b := range plan.Blocks {
		if b.AssignedTask != "" {
			assigned = append(assigned, b)
		}
	}
	require.Len(t, assigned, 1)
	assert.Equal(t, 1, *assigned[0].Ordinal)
	assert.True(t, assigned[0].Draggable)

	rec = env.do(t, http.MethodPost, "/api/plan/swap", `{"date":"2025-03-10","from":1,"to":4}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/plan?date="+testDate, "")
	plan = decodeBody[planResponse](t, rec)
	for _, b := range plan.Blocks {
		if b.Ordinal != nil && *b.Ordinal == 4 {
			assert.Equal(t, "Write report", b.AssignedTask)
		}
		if b.Ordinal != nil && *b.Ordinal == 1 {
			assert.Empty(t, b.AssignedTask)
		}
	}

	rec = env.do(t, http.MethodPost, "/api/plan/assign", `{"date":"2025-03-10","ordinal":4,"task":""}`)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, b := range decodeBody[planResponse](t, rec).Blocks {
		assert.Empty(t, b.AssignedTask)
	}
}

func TestAssign_BadInput(t *testing.T) {
	env := newTestEnv(t, staticProvider{})

	rec := env.do(t, http.MethodPost, "/api/plan/assign", `{"ordinal":99,"task":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/plan/assign", `{"ordinal":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/plan/swap", `{"from":0,"to":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveLunch(t *testing.T) {
	env := newTestEnv(t, staticProvider{sampleEvent()})

	rec := env.do(t, http.MethodPost, "/api/plan/lunch", `{"date":"2025-03-10","start":"13:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, lunchResponse{LunchStart: "13:00", Accepted: true}, decodeBody[lunchResponse](t, rec))

	rec = env.do(t, http.MethodPost, "/api/plan/lunch", `{"date":"2025-03-10","start":"08:45"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, lunchResponse{LunchStart: "13:00", Accepted: false}, decodeBody[lunchResponse](t, rec))
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t, staticProvider{})

	rec := env.do(t, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timeline.DefaultConfig(), decodeBody[timeline.Config](t, rec))

	rec = env.do(t, http.MethodPut, "/api/settings", `{"workStart":"08:00","pomodoroDuration":25}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decodeBody[timeline.Config](t, rec)
	assert.Equal(t, "08:00", cfg.WorkStart)
	assert.Equal(t, 25, cfg.PomodoroMinutes)
	assert.Equal(t, "17:00", cfg.WorkEnd)

	rec = env.do(t, http.MethodPut, "/api/settings", `{"workEnd":"07:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/settings", "")
	assert.Equal(t, "08:00", decodeBody[timeline.Config](t, rec).WorkStart)
}

func TestPlate(t *testing.T) {
	env := newTestEnv(t, staticProvider{})
	_, err := env.tasks.Create(context.Background(), models.CreateTaskInput{Title: "Review PR"})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/plate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, plateResponse{Tasks: []string{"Review PR"}}, decodeBody[plateResponse](t, rec))
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, staticProvider{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	rec := newTestEnv(t).do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
