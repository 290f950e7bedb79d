// Package session keeps the single locally registered account and the
// signed-in user. The dashboard only reads CurrentUser and IsAuthenticated.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/store"
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrPasswordRequired   = errors.New("password is required")
	ErrNoAccount          = errors.New("no account found, please sign up first")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l.With().Str("component", "session").Logger()
	}
}

// WithCost sets the bcrypt cost used when hashing passwords.
func WithCost(cost int) Option {
	return func(m *Manager) { m.cost = cost }
}

// Manager owns the registered account and the session user.
type Manager struct {
	mu   sync.Mutex
	kv   store.KV
	user *model.AuthUser
	cost int
	log  zerolog.Logger
}

// Load restores the persisted session. A missing or corrupt session value
// leaves nobody signed in.
func Load(ctx context.Context, kv store.KV, opts ...Option) *Manager {
	m := &Manager{kv: kv, cost: bcrypt.DefaultCost, log: zerolog.Nop()}
	for _, o := range opts {
		o(m)
	}
	if u, ok := store.DecodeJSON[model.AuthUser](ctx, kv, store.KeySessionUser); ok && u.Email != "" {
		m.user = &u
	}
	return m
}

// Signup replaces the registered account and signs the new user in.
func (m *Manager) Signup(ctx context.Context, name, email, password string) (model.AuthUser, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	switch {
	case name == "":
		return model.AuthUser{}, ErrNameRequired
	case email == "":
		return model.AuthUser{}, ErrEmailRequired
	case !ValidEmail(email):
		return model.AuthUser{}, ErrEmailInvalid
	case password == "":
		return model.AuthUser{}, ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return model.AuthUser{}, fmt.Errorf("hash password: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reg := model.RegisteredUser{Name: name, Email: email, PasswordHash: string(hash)}
	if err := store.EncodeJSON(ctx, m.kv, store.KeyRegisteredUser, reg); err != nil {
		return model.AuthUser{}, fmt.Errorf("save account: %w", err)
	}
	m.log.Info().Str("email", email).Msg("account registered")
	return m.startLocked(ctx, model.AuthUser{Name: name, Email: email})
}

// Login checks the credentials against the registered account and signs it in.
func (m *Manager) Login(ctx context.Context, email, password string) (model.AuthUser, error) {
	email = normalizeEmail(email)

	switch {
	case email == "":
		return model.AuthUser{}, ErrEmailRequired
	case !ValidEmail(email):
		return model.AuthUser{}, ErrEmailInvalid
	case password == "":
		return model.AuthUser{}, ErrPasswordRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := store.DecodeJSON[model.RegisteredUser](ctx, m.kv, store.KeyRegisteredUser)
	if !ok || reg.Email == "" {
		return model.AuthUser{}, ErrNoAccount
	}
	if reg.Email != email {
		return model.AuthUser{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(reg.PasswordHash), []byte(password)); err != nil {
		m.log.Debug().Str("email", email).Msg("password mismatch")
		return model.AuthUser{}, ErrInvalidCredentials
	}
	return m.startLocked(ctx, model.AuthUser{Name: reg.Name, Email: reg.Email})
}

// Logout ends the session. The registered account is kept.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	if err := m.kv.Delete(ctx, store.KeySessionUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user, if any.
func (m *Manager) CurrentUser() (model.AuthUser, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return model.AuthUser{}, false
	}
	return *m.user, true
}

// IsAuthenticated reports whether someone is signed in.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.CurrentUser()
	return ok
}

func (m *Manager) startLocked(ctx context.Context, u model.AuthUser) (model.AuthUser, error) {
	if err := store.EncodeJSON(ctx, m.kv, store.KeySessionUser, u); err != nil {
		return model.AuthUser{}, fmt.Errorf("save session: %w", err)
	}
	m.user = &u
	m.log.Info().Str("email", u.Email).Msg("signed in")
	return u, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
