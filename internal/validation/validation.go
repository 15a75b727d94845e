package validation

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Validation errors, mapped to 400 responses by the handler layer.
var (
	ErrMissingFields         = errors.New("all fields are required")
	ErrInvalidUsernameLength = errors.New("invalid username length")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrMissingCredentials    = errors.New("missing credentials")
)

const (
	usernameMinLen = 3
	usernameMaxLen = 32
	passwordMinLen = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRegistration checks registration input against the account rules.
// Rules run in a fixed order and the first failure wins, so callers get a
// deterministic error for any given input. The email is expected to be
// normalized (lowercased) already.
func ValidateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	// Lengths are counted in characters, not bytes, so multibyte
	// usernames and passwords measure the same as they do client-side.
	if n := utf8.RuneCountInString(username); n < usernameMinLen || n > usernameMaxLen {
		return ErrInvalidUsernameLength
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < passwordMinLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateLogin checks that both login fields are present. The identifier is
// not format-checked because it may be either a username or an email.
func ValidateLogin(identifier, password string) error {
	if identifier == "" || password == "" {
		return ErrMissingCredentials
	}
	return nil
}
