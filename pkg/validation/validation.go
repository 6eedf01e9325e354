package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// EmailRegex validates email format.
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// BoardIDRegex validates board id format (uuid-style and slug ids).
	BoardIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername validates a username.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return fmt.Errorf("username is too long (max 50 characters)")
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username contains invalid characters (only letters, numbers, _, - allowed)")
	}
	return nil
}

// ValidatePassword validates a password.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password is too long (max 128 characters)")
	}
	return nil
}

// ValidateBoardID validates a board id.
func ValidateBoardID(boardID string) error {
	if boardID == "" {
		return fmt.Errorf("board id is required")
	}
	if len(boardID) > 100 {
		return fmt.Errorf("board id is too long (max 100 characters)")
	}
	if !BoardIDRegex.MatchString(boardID) {
		return fmt.Errorf("invalid board id format")
	}
	return nil
}

// ValidateBoardName validates a board display name.
func ValidateBoardName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("board name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("board name is too long (max 100 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("board name contains invalid characters")
	}
	return nil
}
