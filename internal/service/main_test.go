package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"hedwig/internal/featureflags"
	"hedwig/internal/models"
	"hedwig/internal/repository"
	"hedwig/internal/seed"
	"hedwig/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDomain     = "skasc.ac.in"
	testSessionKey = "hedwig:session:user"
)

var demoNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)

func demoClock() time.Time { return demoNow }

type fixture struct {
	store         *storage.MemoryStore
	users         repository.UserRepository
	events        repository.EventRepository
	notifications repository.NotificationRepository
	session       *SessionService
	eventSvc      *EventService
	notifSvc      *NotificationService
}

func newFixture(t *testing.T, flags string) *fixture {
	t.Helper()
	data := seed.MustBuiltIn()
	f := &fixture{
		store:         storage.NewMemoryStore(),
		users:         repository.NewUserRepository(data.Users),
		events:        repository.NewEventRepository(data.Events, demoClock),
		notifications: repository.NewNotificationRepository(data.Notifications, demoClock),
	}
	ff := featureflags.NewManager(flags)
	f.session = NewSessionService(f.users, f.store, ff, SessionConfig{Key: testSessionKey, InstitutionDomain: testDomain})
	f.eventSvc = NewEventService(f.events, f.notifications, ff, 0)
	f.notifSvc = NewNotificationService(f.notifications, f.session.CurrentUserID)
	return f
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

// storeStub is a storage.Store whose calls can be made to fail.
type storeStub struct {
	getFn    func(context.Context, string) (string, error)
	setFn    func(context.Context, string, string) error
	deleteFn func(context.Context, string) error
}

func (s *storeStub) Get(ctx context.Context, key string) (string, error) { return s.getFn(ctx, key) }
func (s *storeStub) Set(ctx context.Context, key, value string) error    { return s.setFn(ctx, key, value) }
func (s *storeStub) Delete(ctx context.Context, key string) error        { return s.deleteFn(ctx, key) }
func (s *storeStub) Backend() string                                     { return "stub" }

func failingStore() *storeStub {
	boom := errors.New("storage unavailable")
	return &storeStub{
		getFn:    func(context.Context, string) (string, error) { return "", boom },
		setFn:    func(context.Context, string, string) error { return boom },
		deleteFn: func(context.Context, string) error { return boom },
	}
}
