package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hedwig/internal/export"
	"hedwig/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandlers_Projections(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name     string
		path     string
		expected []string
	}{
		{"All events", "/api/events", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"All category", "/api/events?category=all", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"Category filter", "/api/events?category=social", []string{"6", "7"}},
		{"Text search", "/api/events?q=hackathon", []string{"1"}},
		{"Today", "/api/events/today", []string{"3", "7"}},
		{"Upcoming", "/api/events/upcoming", []string{"5", "6", "8", "2", "4", "1"}},
		{"Popular with limit", "/api/events/popular?limit=2", []string{"1", "2"}},
		{"Recommended signed out", "/api/events/recommended", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []EventView
			require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, tt.path, nil, &got))
			assert.Equal(t, tt.expected, eventIDs(got))
		})
	}
}

func TestEventHandlers_UnknownCategory(t *testing.T) {
	env := newTestEnv(t, "")
	var errResp models.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, env.doJSON(t, http.MethodGet, "/api/events?category=party", nil, &errResp))
	assert.Equal(t, models.CodeValidation, errResp.Code)
}

func TestEventHandlers_Recommended(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, "jane@skasc.ac.in")

	var got []EventView
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/recommended", nil, &got))
	assert.Equal(t, []string{"1", "5", "3", "8"}, eventIDs(got))
}

func TestEventHandlers_GetEvent(t *testing.T) {
	env := newTestEnv(t, "")

	var v EventView
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/3", nil, &v))
	assert.Equal(t, "AI and Future of Work Seminar", v.Name)
	assert.Equal(t, 5.0, v.AverageRating)
	assert.True(t, v.IsToday)
	assert.Equal(t, 0, v.DaysRemaining)
	assert.Equal(t, "Sat, Apr 19, 2025", v.DisplayDate)

	var errResp models.ErrorResponse
	assert.Equal(t, http.StatusNotFound, env.doJSON(t, http.MethodGet, "/api/events/404", nil, &errResp))
	assert.Equal(t, models.CodeNotFound, errResp.Code)
}

func TestEventHandlers_Categories(t *testing.T) {
	env := newTestEnv(t, "")
	var got []models.CategorySummary
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/categories", nil, &got))
	require.Len(t, got, len(models.Categories))
	assert.Equal(t, models.CategoryTech, got[0].Category)
	assert.Equal(t, "Technology", got[0].DisplayName)
	assert.Equal(t, 1, got[0].Count)
}

func TestEventHandlers_ShareAndCountdown(t *testing.T) {
	env := newTestEnv(t, "")

	var shared struct {
		URL   string            `json:"url"`
		Links map[string]string `json:"links"`
	}
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/7/share", nil, &shared))
	assert.Equal(t, "https://hedwig.example/events/7", shared.URL)
	assert.Equal(t, "https://wa.me/?text=Game%20Night%20https%3A%2F%2Fhedwig.example%2Fevents%2F7", shared.Links["whatsapp"])
	assert.Len(t, shared.Links, 4)

	var countdown struct {
		Countdown     string `json:"countdown"`
		DaysRemaining int    `json:"daysRemaining"`
		IsToday       bool   `json:"isToday"`
		Relative      string `json:"relative"`
	}
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/7/countdown", nil, &countdown))
	assert.Equal(t, "7h 0m", countdown.Countdown)
	assert.True(t, countdown.IsToday)
	assert.Equal(t, "in 7 hours", countdown.Relative)

	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/3/countdown", nil, &countdown))
	assert.Equal(t, "2h 0m", countdown.Countdown)

	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/events/5/countdown", nil, &countdown))
	assert.Equal(t, "2d 6h 0m", countdown.Countdown)
	assert.Equal(t, 2, countdown.DaysRemaining)
}

func TestEventHandlers_AttendanceExport(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/events/3/attendance.csv", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="attendance_AI_and_Future_of_Work_Seminar_2025-04-19.csv"`,
		resp.Header.Get("Content-Disposition"))

	status, body := env.do(t, http.MethodGet, "/api/events/3/attendance.csv", nil)
	require.Equal(t, http.StatusOK, status)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Name,Email,Department,Year,Check-in Time", lines[0])
	assert.Equal(t, `"Jane Smith","jane@skasc.ac.in","Computer Science","3","2025-04-19T12:00:00Z"`, lines[1])

	status, body = env.do(t, http.MethodGet, "/api/events/6/attendance.json", nil)
	require.Equal(t, http.StatusOK, status)
	var doc export.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	assert.Equal(t, "Earth Day Celebration", doc.Event.Name)
	assert.Empty(t, doc.Attendees)
	assert.Equal(t, demoNow, doc.ExportTime)

	status, _ = env.do(t, http.MethodGet, "/api/events/404/attendance.json", nil)
	assert.Equal(t, http.StatusNotFound, status)
}
