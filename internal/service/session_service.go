package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"hedwig/internal/featureflags"
	"hedwig/internal/middleware"
	"hedwig/internal/models"
	"hedwig/internal/observability"
	"hedwig/internal/repository"
	"hedwig/internal/storage"
	"hedwig/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionConfig carries the session settings taken from config.Config.
type SessionConfig struct {
	Key               string
	InstitutionDomain string
	Latency           time.Duration
}

// SessionService owns the process-wide current identity and mirrors it to one durable key.
type SessionService struct {
	mu      sync.RWMutex
	current *models.User

	users repository.UserRepository
	store storage.Store
	flags *featureflags.Manager
	cfg   SessionConfig
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Name            string            `json:"name" validate:"required,max=120"`
	Email           string            `json:"email" validate:"required,email"`
	Department      string            `json:"department" validate:"required"`
	Year            string            `json:"year" validate:"required"`
	Interests       []models.Category `json:"interests" validate:"required,min=1,dive,category"`
	Password        string            `json:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string            `json:"confirmPassword" validate:"required,eqfield=Password"`
	ProfileImageURL string            `json:"profileImageUrl" validate:"omitempty,url"`
}

// NewSessionService creates an unauthenticated SessionService. Call Restore before serving.
func NewSessionService(
	users repository.UserRepository,
	store storage.Store,
	flags *featureflags.Manager,
	cfg SessionConfig,
) *SessionService {
	return &SessionService{users: users, store: store, flags: flags, cfg: cfg}
}

// Current returns a copy of the session user.
func (s *SessionService) Current() (*models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	u := s.current.Clone()
	return &u, true
}

// CurrentUserID returns the session user id, or "" when unauthenticated.
func (s *SessionService) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Login authenticates email. The domain is checked before the simulated delay.
// An unknown account, or a wrong password when strict_passwords is on, yields false with no error.
func (s *SessionService) Login(ctx context.Context, email, credential string) (ok bool, err error) {
	ctx, end := traceCall(ctx, "SessionService", "Login")
	defer func() { end(err) }()

	email = strings.TrimSpace(email)
	if email == "" {
		return false, models.NewValidationError("Email is required")
	}
	if credential == "" {
		return false, models.NewValidationError("Password is required")
	}
	if err := validation.InstitutionalEmail(email, s.cfg.InstitutionDomain); err != nil {
		observability.SessionEvents.WithLabelValues("login", "invalid_domain").Inc()
		return false, err
	}

	if err := suspend(ctx, s.cfg.Latency); err != nil {
		return false, err
	}

	user, ok := s.users.GetByEmail(email)
	if !ok {
		observability.SessionEvents.WithLabelValues("login", "unknown_account").Inc()
		middleware.Logger.InfoContext(ctx, "login rejected", slog.String("reason", "unknown_account"))
		return false, nil
	}

	if s.flags.Enabled(featureflags.StrictPasswords, user.ID) && user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
			observability.SessionEvents.WithLabelValues("login", "bad_credential").Inc()
			middleware.Logger.InfoContext(ctx, "login rejected", slog.String("reason", "bad_credential"), slog.String("user_id", user.ID))
			return false, nil
		}
	}

	s.setCurrent(ctx, user)
	observability.SessionEvents.WithLabelValues("login", "success").Inc()
	middleware.Logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return true, nil
}

// Logout clears the session and its durable key. It always succeeds.
func (s *SessionService) Logout(ctx context.Context) {
	ctx, end := traceCall(ctx, "SessionService", "Logout")
	defer end(nil)

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.cfg.Key); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to clear session key", slog.String("error", err.Error()))
	}
	observability.SessionEvents.WithLabelValues("logout", "success").Inc()
}

// Register validates in, adds the user and signs them in.
// A taken email yields false with no error and no state change.
func (s *SessionService) Register(ctx context.Context, in RegisterInput) (ok bool, err error) {
	ctx, end := traceCall(ctx, "SessionService", "Register")
	defer func() { end(err) }()

	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return false, err
	}
	if err := validation.InstitutionalEmail(in.Email, s.cfg.InstitutionDomain); err != nil {
		observability.SessionEvents.WithLabelValues("register", "invalid_domain").Inc()
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, models.NewInternalError(fmt.Errorf("hash password: %w", err))
	}

	if err := suspend(ctx, s.cfg.Latency); err != nil {
		return false, err
	}

	avatar := in.ProfileImageURL
	if avatar == "" {
		avatar = "https://ui-avatars.com/api/?name=" + url.QueryEscape(in.Name) + "&background=random"
	}
	user := models.User{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Email:           in.Email,
		Department:      in.Department,
		Year:            in.Year,
		Interests:       append([]models.Category{}, in.Interests...),
		EventsAttended:  []string{},
		ProfileImageURL: avatar,
		PasswordHash:    string(hash),
	}

	if !s.users.Create(ctx, user) {
		observability.SessionEvents.WithLabelValues("register", "duplicate_email").Inc()
		return false, nil
	}

	s.setCurrent(ctx, &user)
	observability.SessionEvents.WithLabelValues("register", "success").Inc()
	middleware.Logger.InfoContext(ctx, "user registered", slog.String("user_id", user.ID))
	return true, nil
}

// Restore loads the identity persisted by a previous process. A missing or
// unreadable key leaves the session unauthenticated.
func (s *SessionService) Restore(ctx context.Context) error {
	raw, err := s.store.Get(ctx, s.cfg.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		observability.SessionEvents.WithLabelValues("restore", "storage_error").Inc()
		return fmt.Errorf("restore session: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		observability.SessionEvents.WithLabelValues("restore", "corrupt").Inc()
		middleware.Logger.WarnContext(ctx, "ignoring unreadable session key", slog.String("key", s.cfg.Key))
		return nil
	}

	s.mu.Lock()
	s.current = &user
	s.mu.Unlock()
	observability.SessionEvents.WithLabelValues("restore", "success").Inc()
	middleware.Logger.InfoContext(ctx, "session restored", slog.String("user_id", user.ID))
	return nil
}

func (s *SessionService) setCurrent(ctx context.Context, user *models.User) {
	u := user.Clone()
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()

	raw, err := json.Marshal(u)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode session", slog.String("error", err.Error()))
		return
	}
	if err := s.store.Set(ctx, s.cfg.Key, string(raw)); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to persist session", slog.String("error", err.Error()))
	}
}
