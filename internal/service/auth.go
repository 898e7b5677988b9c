// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, normalizes, enforces rules
//	Repository (Data layer)  → reads/writes the user table
//
// CredentialService accepts primitives, not HTTP types, and returns domain
// errors from the apperror package. The handler translates those to status
// codes; the service never sees a request or a cookie.
package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/landing-auth/internal/apperror"
	"github.com/sakif/landing-auth/internal/model"
	"github.com/sakif/landing-auth/internal/repository"
)

// CredentialService handles signup, login and logout against the user table.
//
// SINGLE WRITER:
// Signup is a read → check → write sequence over the whole table. Two
// concurrent signups with the same email would both pass the duplicate
// check if they interleaved, so mu serializes the sequence. Login only
// reads and takes no lock.
type CredentialService struct {
	users  repository.UserRepository
	logger *slog.Logger

	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// Option customizes a CredentialService. Tests use it to pin the clock and
// the ID generator.
type Option func(*CredentialService)

func WithClock(now func() time.Time) Option {
	return func(s *CredentialService) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *CredentialService) { s.newID = newID }
}

func NewCredentialService(users repository.UserRepository, logger *slog.Logger, opts ...Option) *CredentialService {
	s := &CredentialService{
		users:  users,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a new user.
//
// Input is trimmed (and the email lowercased) before anything else. Failures,
// in the order they are checked:
//   - validation_error: name, email or password empty after trimming, or
//     name or password spanning more than one line
//   - invalid_email:    email does not look like local@domain.tld
//   - io_error / invalid_header: the table could not be read or written
//   - duplicate_email:  an existing user has the same normalized email
//
// On success the new user is appended to the table and returned with
// CreatedAt == UpdatedAt.
func (s *CredentialService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	in := signupInput{
		Name:     trimSpace(name),
		Email:    NormalizeEmail(email),
		Password: trimSpace(password),
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}
	name, email, password = in.Name, in.Email, in.Password

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.users.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: reading users: %w", err)
	}

	for _, u := range existing {
		if NormalizeEmail(u.Email) == email {
			s.logger.Info("signup rejected: duplicate email", slog.String("email", email))
			return nil, apperror.DuplicateEmail(email)
		}
	}

	timestamp := model.FormatTimestamp(s.now())
	user := model.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: timestamp,
		UpdatedAt: timestamp,
	}

	// Copy into a fresh slice so the repository's backing array is never
	// shared with a caller that might hold on to it.
	next := make([]model.User, 0, len(existing)+1)
	next = append(next, existing...)
	next = append(next, user)

	if err := s.users.WriteAll(ctx, next); err != nil {
		return nil, fmt.Errorf("service/auth: writing users: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &user, nil
}

// Login authenticates a user by email and password.
//
// The email is normalized; the password is trimmed and compared exactly.
// An unknown email and a wrong password both return invalid_credentials.
func (s *CredentialService) Login(ctx context.Context, email, password string) (*model.User, error) {
	in := loginInput{
		Email:    NormalizeEmail(email),
		Password: trimSpace(password),
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}
	email, password = in.Email, in.Password

	users, err := s.users.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: reading users: %w", err)
	}

	// First match wins, as in file order.
	var found *model.User
	for i := range users {
		if NormalizeEmail(users[i].Email) == email {
			found = &users[i]
			break
		}
	}

	if found == nil || subtle.ConstantTimeCompare([]byte(found.Password), []byte(password)) != 1 {
		s.logger.Info("login rejected", slog.String("email", email))
		return nil, apperror.InvalidCredentials()
	}

	s.logger.Info("user logged in", slog.String("userID", found.ID))

	user := *found
	return &user, nil
}

// Logout always succeeds. No server-side session exists; the HTTP layer
// clears the client-side indicator.
func (s *CredentialService) Logout(ctx context.Context) error {
	s.logger.Debug("user logged out")
	return nil
}
