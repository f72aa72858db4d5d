package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hedwig/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds plausible demo entities. It is used to pad the catalog
// (SEED_EXTRA_EVENTS) and by tests that need bulk fixtures.
type Factory struct {
	faker  *gofakeit.Faker
	now    time.Time
	nextID int
}

// NewFactory creates a Factory. The same seed yields the same entities.
// Generated events fall within 60 days after now.
func NewFactory(seed int64, now time.Time) *Factory {
	return &Factory{faker: gofakeit.New(seed), now: now.UTC(), nextID: 1}
}

// ContinueAfter makes generated event ids follow the largest numeric id in events.
func (f *Factory) ContinueAfter(events []models.Event) {
	for _, e := range events {
		if n, err := strconv.Atoi(e.ID); err == nil && n >= f.nextID {
			f.nextID = n + 1
		}
	}
}

var timeSlots = []string{
	"9:00 AM - 11:00 AM",
	"10:00 AM - 3:00 PM",
	"1:00 PM - 4:00 PM",
	"2:00 PM - 4:00 PM",
	"6:00 PM - 8:00 PM",
	"7:00 PM - 10:00 PM",
}

var eventKinds = []string{"Meetup", "Workshop", "Showcase", "Festival", "Forum"}

// Event builds one event. Overrides run last.
func (f *Factory) Event(overrides ...func(*models.Event)) models.Event {
	category := models.Categories[f.faker.IntRange(0, len(models.Categories)-1)]
	organizer := f.faker.Company()
	e := models.Event{
		ID:            strconv.Itoa(f.nextID),
		Name:          fmt.Sprintf("%s %s", category.DisplayName(), f.faker.RandomString(eventKinds)),
		Description:   f.faker.Paragraph(1, 3, 12, " "),
		Category:      category,
		Date:          f.now.AddDate(0, 0, f.faker.IntRange(1, 60)).Format(models.DateLayout),
		Time:          f.faker.RandomString(timeSlots),
		Venue:         f.faker.Street() + " Hall",
		OrganizerID:   "org-" + f.faker.UUID()[:8],
		OrganizerName: organizer,
		ImageURL:      fmt.Sprintf("https://picsum.photos/seed/%s/500/300", f.faker.UUID()),
		Attendees:     []string{},
		Comments:      []models.Comment{},
		Ratings:       []models.Rating{},
		Media:         []models.Media{},
	}
	f.nextID++
	for _, o := range overrides {
		o(&e)
	}
	return e
}

// Events builds n events.
func (f *Factory) Events(n int) []models.Event {
	out := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.Event())
	}
	return out
}

// User builds a user with an address under domain.
func (f *Factory) User(domain string, overrides ...func(*models.User)) models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	u := models.User{
		ID:             f.faker.UUID(),
		Name:           first + " " + last,
		Email:          strings.ToLower(first+"."+last) + "@" + domain,
		Department:     f.faker.RandomString([]string{"Computer Science", "Business Administration", "Physics", "Literature", "Mathematics"}),
		Year:           strconv.Itoa(f.faker.IntRange(1, 4)),
		Interests:      []models.Category{models.Categories[f.faker.IntRange(0, len(models.Categories)-1)]},
		EventsAttended: []string{},
	}
	for _, o := range overrides {
		o(&u)
	}
	return u
}
