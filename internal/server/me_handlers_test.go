package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"hedwig/internal/models"
	"hedwig/internal/share"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeHandlers(t *testing.T) {
	env := newTestEnv(t, "")
	env.login(t, "jane@skasc.ac.in")

	var mine struct {
		Going    []EventView `json:"going"`
		Attended []EventView `json:"attended"`
	}
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/me/events", nil, &mine))
	assert.Equal(t, []string{"1", "3", "5"}, eventIDs(mine.Going))
	assert.Equal(t, []string{"1", "3", "5"}, eventIDs(mine.Attended))

	var schedule []models.ScheduleDay
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/me/schedule", nil, &schedule))
	require.Len(t, schedule, 3)
	assert.Equal(t, "2025-04-19", schedule[0].Date)
	assert.Equal(t, "2025-05-15", schedule[2].Date)

	var qr struct {
		Payload string `json:"payload"`
	}
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/me/qr/3", nil, &qr))
	var checkIn share.CheckIn
	require.NoError(t, json.Unmarshal([]byte(qr.Payload), &checkIn))
	assert.Equal(t, share.CheckIn{EventID: "3", UserID: "1", Timestamp: demoNow}, checkIn)

	status, _ := env.do(t, http.MethodGet, "/api/me/qr/404", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFeatureFlagHandler(t *testing.T) {
	env := newTestEnv(t, "rsvp_notifications=on,strict_passwords=off")

	var flags struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	require.Equal(t, http.StatusOK, env.doJSON(t, http.MethodGet, "/api/feature-flags", nil, &flags))
	assert.Equal(t, "on", flags.Raw["rsvp_notifications"])
	assert.True(t, flags.Evaluated["rsvp_notifications"])
	assert.False(t, flags.Evaluated["strict_passwords"])
}
