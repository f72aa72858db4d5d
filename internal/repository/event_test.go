package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"hedwig/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_RSVPScenario(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	assert.True(t, repo.RSVP(ctx, "1", "2"))
	e, ok := repo.GetByID("1")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "2"}, e.Attendees)

	assert.True(t, repo.CancelRSVP(ctx, "1", "1"))
	e, _ = repo.GetByID("1")
	assert.Equal(t, []string{"2"}, e.Attendees)
}

func TestEventRepository_RSVPIsIdempotent(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	assert.True(t, repo.RSVP(ctx, "6", "1"))
	assert.False(t, repo.RSVP(ctx, "6", "1"))

	e, _ := repo.GetByID("6")
	assert.Equal(t, []string{"1"}, e.Attendees)
}

func TestEventRepository_RSVPThenCancelRestoresAttendees(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()
	before, _ := repo.GetByID("2")

	repo.RSVP(ctx, "2", "1")
	repo.CancelRSVP(ctx, "2", "1")

	after, _ := repo.GetByID("2")
	assert.Equal(t, before.Attendees, after.Attendees)

	assert.False(t, repo.CancelRSVP(ctx, "2", "1"), "cancel without rsvp changes nothing")
}

func TestEventRepository_UnknownIDsAreNoOps(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()
	before := repo.List()

	assert.False(t, repo.RSVP(ctx, "404", "1"))
	assert.False(t, repo.CancelRSVP(ctx, "404", "1"))
	_, ok := repo.AddComment(ctx, "404", models.Comment{UserID: "1", Text: "hi"})
	assert.False(t, ok)
	assert.False(t, repo.AddRating(ctx, "404", models.Rating{UserID: "1", Stars: 3}))
	_, ok = repo.AddMedia(ctx, "404", models.Media{Type: models.MediaImage, URL: "x"})
	assert.False(t, ok)
	_, ok = repo.AddMediaComment(ctx, "4", "m404", models.Comment{UserID: "1", Text: "hi"})
	assert.False(t, ok)
	assert.False(t, repo.AddMediaReaction(ctx, "4", "m404", "1", models.ReactionWow))

	assert.Equal(t, before, repo.List())
}

func TestEventRepository_RatingUpsert(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	require.True(t, repo.AddRating(ctx, "6", models.Rating{UserID: "1", Stars: 4}))
	require.True(t, repo.AddRating(ctx, "6", models.Rating{UserID: "1", Stars: 2, Comment: "ok"}))

	e, _ := repo.GetByID("6")
	require.Len(t, e.Ratings, 1)
	assert.Equal(t, 2, e.Ratings[0].Stars)
	assert.Equal(t, "ok", e.Ratings[0].Comment)
}

func TestEventRepository_RatingUpsertKeepsPosition(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	repo.AddRating(ctx, "3", models.Rating{UserID: "2", Stars: 3})
	repo.AddRating(ctx, "3", models.Rating{UserID: "1", Stars: 1})

	e, _ := repo.GetByID("3")
	require.Len(t, e.Ratings, 2)
	assert.Equal(t, "1", e.Ratings[0].UserID)
	assert.Equal(t, 1, e.Ratings[0].Stars)
	assert.InDelta(t, 2.0, e.AverageRating(), 0.0001)
}

func TestEventRepository_Comments(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	c, ok := repo.AddComment(ctx, "1", models.Comment{UserID: "1", UserName: "Jane Smith", Text: "See you there"})
	require.True(t, ok)
	assert.Equal(t, "c2", c.ID, "ids continue past the seeded c1")
	assert.Equal(t, demoNow, c.Timestamp)

	c, _ = repo.AddComment(ctx, "6", models.Comment{UserID: "1", Text: "first"})
	assert.Equal(t, "c1", c.ID, "ids are scoped per event")

	e, _ := repo.GetByID("1")
	require.Len(t, e.Comments, 2)
	assert.Equal(t, "See you there", e.Comments[1].Text)
}

func TestEventRepository_Media(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	m, ok := repo.AddMedia(ctx, "4", models.Media{Type: models.MediaVideo, URL: "https://example.com/v.mp4", UploadedBy: "2"})
	require.True(t, ok)
	assert.Equal(t, "m2", m.ID)
	assert.Empty(t, m.Reactions)
	assert.Empty(t, m.Comments)

	mc, ok := repo.AddMediaComment(ctx, "4", "m1", models.Comment{UserID: "1", UserName: "Jane Smith", Text: "Great shot"})
	require.True(t, ok)
	assert.Equal(t, "mc1", mc.ID)

	mc, _ = repo.AddMediaComment(ctx, "4", "m1", models.Comment{UserID: "2", Text: "Thanks"})
	assert.Equal(t, "mc2", mc.ID)

	e, _ := repo.GetByID("4")
	require.Len(t, e.Media, 2)
	assert.Len(t, e.Media[0].Comments, 2)
}

func TestEventRepository_ReactionUpsert(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	require.True(t, repo.AddMediaReaction(ctx, "4", "m1", "2", models.ReactionLove))
	require.True(t, repo.AddMediaReaction(ctx, "4", "m1", "1", models.ReactionWow))

	e, _ := repo.GetByID("4")
	assert.Equal(t, []models.Reaction{
		{UserID: "2", Type: models.ReactionLove},
		{UserID: "1", Type: models.ReactionWow},
	}, e.Media[0].Reactions)
}

func TestEventRepository_ReadsAreCopies(t *testing.T) {
	repo := newDemoEvents()

	e, _ := repo.GetByID("1")
	e.Attendees[0] = "mutated"
	e.Comments[0].Text = "mutated"

	fresh, _ := repo.GetByID("1")
	assert.Equal(t, "1", fresh.Attendees[0])
	assert.NotEqual(t, "mutated", fresh.Comments[0].Text)
}

func TestEventRepository_TodayAndUpcomingAtDayBoundaries(t *testing.T) {
	events := []models.Event{
		{ID: "yesterday", Name: "Yesterday", Category: models.CategoryOther, Date: "2025-04-18"},
		{ID: "today", Name: "Today", Category: models.CategoryOther, Date: "2025-04-19"},
		{ID: "tomorrow", Name: "Tomorrow", Category: models.CategoryOther, Date: "2025-04-20"},
	}

	tests := []struct {
		name string
		now  time.Time
	}{
		{"start of day", time.Date(2025, 4, 19, 0, 0, 0, 0, time.UTC)},
		{"end of day", time.Date(2025, 4, 19, 23, 59, 0, 0, time.UTC)},
		{"last second", time.Date(2025, 4, 19, 23, 59, 59, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewEventRepository(events, func() time.Time { return tt.now })
			assert.Equal(t, []string{"today"}, eventIDs(repo.Today()))
			assert.Equal(t, []string{"tomorrow"}, eventIDs(repo.Upcoming()))
		})
	}
}

func TestEventRepository_Projections(t *testing.T) {
	repo := newDemoEvents()

	t.Run("Today matches the date exactly", func(t *testing.T) {
		assert.Equal(t, []string{"3", "7"}, eventIDs(repo.Today()))
	})

	t.Run("Upcoming is strictly after today, ascending", func(t *testing.T) {
		assert.Equal(t, []string{"5", "6", "8", "2", "4", "1"}, eventIDs(repo.Upcoming()))
	})

	t.Run("ByCategory", func(t *testing.T) {
		assert.Equal(t, []string{"3", "8"}, eventIDs(repo.ByCategory(models.CategorySeminar)))
		assert.Empty(t, repo.ByCategory(models.CategoryOther))
	})

	t.Run("Popular is stable among ties", func(t *testing.T) {
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, eventIDs(repo.Popular(0)))
		assert.Equal(t, []string{"1", "2"}, eventIDs(repo.Popular(2)))
	})

	t.Run("RSVPEventsFor", func(t *testing.T) {
		assert.Equal(t, []string{"1", "3", "5"}, eventIDs(repo.RSVPEventsFor("1")))
		assert.Empty(t, repo.RSVPEventsFor("nobody"))
	})

	t.Run("Search", func(t *testing.T) {
		assert.Equal(t, []string{"1"}, eventIDs(repo.Search("HACKATHON", "")))
		assert.Equal(t, []string{"5"}, eventIDs(repo.Search("ballroom", "")))
		assert.Equal(t, []string{"8"}, eventIDs(repo.Search("research", models.CategorySeminar)))
		assert.Empty(t, repo.Search("research", models.CategorySports))
		assert.Len(t, repo.Search("  ", ""), 8)
	})

	t.Run("ByInterests keeps interest order", func(t *testing.T) {
		got := repo.ByInterests([]models.Category{models.CategorySocial, models.CategoryTech, models.CategorySocial}, 0)
		assert.Equal(t, []string{"6", "7", "1"}, eventIDs(got))
		assert.Equal(t, []string{"6", "7"}, eventIDs(repo.ByInterests([]models.Category{models.CategorySocial, models.CategoryTech}, 2)))
		assert.NotNil(t, repo.ByInterests(nil, 4))
	})

	t.Run("Schedule groups by date", func(t *testing.T) {
		days := repo.Schedule("1")
		require.Len(t, days, 3)
		assert.Equal(t, "2025-04-19", days[0].Date)
		assert.Equal(t, "2025-04-21", days[1].Date)
		assert.Equal(t, "2025-05-15", days[2].Date)
	})

	t.Run("AttendedBy", func(t *testing.T) {
		got := repo.AttendedBy(models.User{EventsAttended: []string{"5", "1", "404"}})
		assert.Equal(t, []string{"1", "5"}, eventIDs(got))
	})

	t.Run("CategorySummaries", func(t *testing.T) {
		sums := repo.CategorySummaries()
		require.Len(t, sums, len(models.Categories))
		assert.Equal(t, models.CategorySummary{Category: models.CategorySocial, DisplayName: "Social", Emoji: "🎉", Count: 2}, sums[4])
	})
}

func TestEventRepository_PopularFollowsRSVPs(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()
	repo.RSVP(ctx, "8", "1")
	repo.RSVP(ctx, "8", "2")

	assert.Equal(t, "8", repo.Popular(1)[0].ID)
}

func TestEventRepository_ConcurrentRSVPConverges(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo.RSVP(ctx, "7", "1")
			repo.RSVP(ctx, "7", fmt.Sprintf("u%d", i%5))
		}(i)
	}
	wg.Wait()

	e, _ := repo.GetByID("7")
	assert.Len(t, e.Attendees, 6)
}

func TestEventRepository_ConcurrentCommentsGetUniqueIDs(t *testing.T) {
	repo := newDemoEvents()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.AddComment(ctx, "2", models.Comment{UserID: "1", Text: "hi"})
		}()
	}
	wg.Wait()

	e, _ := repo.GetByID("2")
	seen := make(map[string]bool)
	for _, c := range e.Comments {
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
	assert.Len(t, seen, 20)
}
