package models

// ScheduleDay groups a user's RSVP'd events that share a date.
type ScheduleDay struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

// CategorySummary describes a category together with its catalog size.
type CategorySummary struct {
	Category    Category `json:"category"`
	DisplayName string   `json:"displayName"`
	Emoji       string   `json:"emoji"`
	Count       int      `json:"count"`
}
