package share

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinks(t *testing.T) {
	links := BuildLinks("Game Night & Snacks", "https://hedwig.example/events/7")

	assert.Len(t, links, len(Platforms))
	assert.Equal(t,
		"https://wa.me/?text=Game%20Night%20%26%20Snacks%20https%3A%2F%2Fhedwig.example%2Fevents%2F7",
		links[WhatsApp])
	assert.Equal(t,
		"https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fhedwig.example%2Fevents%2F7",
		links[Facebook])
	assert.Equal(t,
		"https://twitter.com/intent/tweet?url=https%3A%2F%2Fhedwig.example%2Fevents%2F7&text=Game%20Night%20%26%20Snacks",
		links[Twitter])
	assert.Equal(t,
		"https://www.instagram.com/?url=https%3A%2F%2Fhedwig.example%2Fevents%2F7",
		links[Instagram])
}

func TestEventURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5173/events/3", EventURL("http://localhost:5173/", "3"))
	assert.Equal(t, "/events/a%2Fb", EventURL("", "a/b"))
}

func TestCheckInPayload(t *testing.T) {
	now := time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

	raw, err := CheckInPayload("3", "1", now)
	require.NoError(t, err)
	assert.JSONEq(t, `{"eventId":"3","userId":"1","timestamp":"2025-04-19T12:00:00Z"}`, raw)

	raw, err = CheckInPayload("3", "", now)
	require.NoError(t, err)
	var got CheckIn
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Empty(t, got.UserID)
	assert.Equal(t, now, got.Timestamp)
}
