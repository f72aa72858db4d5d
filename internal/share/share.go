// Package share builds social share links and QR check-in payloads for events.
package share

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Platform is a supported share target.
type Platform string

const (
	WhatsApp  Platform = "whatsapp"
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
)

// Platforms lists the share targets in display order.
var Platforms = []Platform{WhatsApp, Facebook, Twitter, Instagram}

// Links maps each platform to its share URL.
type Links map[Platform]string

// escape encodes s the way browsers encode a URI component.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildLinks returns share URLs for title and pageURL on every platform.
func BuildLinks(title, pageURL string) Links {
	t, u := escape(title), escape(pageURL)
	return Links{
		WhatsApp:  fmt.Sprintf("https://wa.me/?text=%s%%20%s", t, u),
		Facebook:  "https://www.facebook.com/sharer/sharer.php?u=" + u,
		Twitter:   fmt.Sprintf("https://twitter.com/intent/tweet?url=%s&text=%s", u, t),
		Instagram: "https://www.instagram.com/?url=" + u,
	}
}

// EventURL joins the public base URL with the event detail path.
func EventURL(baseURL, eventID string) string {
	return strings.TrimRight(baseURL, "/") + "/events/" + url.PathEscape(eventID)
}

// CheckIn is the content encoded into an attendance QR code.
type CheckIn struct {
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckInPayload serializes the QR content for eventID and an optional userID.
func CheckInPayload(eventID, userID string, now time.Time) (string, error) {
	raw, err := json.Marshal(CheckIn{EventID: eventID, UserID: userID, Timestamp: now.UTC()})
	if err != nil {
		return "", fmt.Errorf("marshal check-in payload: %w", err)
	}
	return string(raw), nil
}
