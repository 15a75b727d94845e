package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Unknownaod/opslinkOS/internal/models"
	"github.com/Unknownaod/opslinkOS/internal/token"
	"github.com/Unknownaod/opslinkOS/internal/utils/email"
	"github.com/Unknownaod/opslinkOS/internal/validation"
)

// ErrInvalidCredentials is returned for any login failure. Missing user and
// wrong password are deliberately indistinguishable so that login responses
// cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthResult is the payload returned for successful registration and login.
// It never carries the password hash or the internal user id.
type AuthResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Service handles business logic
type Service struct {
	store  models.UserStore
	tokens *token.Manager
	mailer *email.Sender
	log    *logrus.Logger
	cost   int
}

// NewService initializes a new service. mailer may be nil when SMTP delivery
// is not configured.
func NewService(store models.UserStore, tokens *token.Manager, mailer *email.Sender, log *logrus.Logger, cost int) *Service {
	if cost == 0 {
		cost = 12
	}
	return &Service{store: store, tokens: tokens, mailer: mailer, log: log, cost: cost}
}

// Register creates a new user with a hashed password and issues a token.
//
// The email is normalized to lowercase before any comparison or storage.
// Validation runs before any store access. Uniqueness is pre-checked with a
// single combined lookup, but the store's own constraint enforcement is the
// source of truth: a concurrent duplicate insert surfaces as the same
// conflict error as the pre-check, never as an internal failure.
func (s *Service) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateRegistration(username, email, password); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.Username == username {
			return nil, models.ErrDuplicateUsername
		}
		return nil, models.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.Create(ctx, user); err != nil {
		// The store lost a race it pre-checked for; the duplicate
		// sentinels pass through as a conflict.
		return nil, err
	}

	result, err := s.authResult(user)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil && s.mailer.Enabled() {
		go func() {
			_ = s.mailer.SendWelcome(user.Email, user.Username)
		}()
	}

	s.log.Infof("User registered: %s", user.Username)
	return result, nil
}

// Login authenticates a user by username or email and issues a token.
func (s *Service) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	if err := validation.ValidateLogin(identifier, password); err != nil {
		return nil, err
	}

	user, err := s.store.FindByIdentifier(ctx, identifier)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	result, err := s.authResult(user)
	if err != nil {
		return nil, err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return result, nil
}

func (s *Service) authResult(user *models.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: tok, Username: user.Username, Email: user.Email}, nil
}
