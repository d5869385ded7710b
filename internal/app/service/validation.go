package service

import (
	"net/mail"
	"regexp"
)

// ValidationErrors carries every failed field from one validation pass,
// keyed by field name. All rules run before any error is returned.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "validation failed"
}

const (
	maxUsernameLength = 50
	minPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateUsername(fields ValidationErrors, username string) {
	switch {
	case username == "":
		fields["username"] = "Username is required"
	case len(username) > maxUsernameLength:
		fields["username"] = "Username must be 50 characters or fewer"
	case !usernamePattern.MatchString(username):
		fields["username"] = "Username may only contain letters, numbers and underscores"
	}
}

func validateEmail(fields ValidationErrors, email string) {
	if email == "" {
		fields["email"] = "Email is required"
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "Email address is not valid"
	}
}

func validatePassword(fields ValidationErrors, field, password string) {
	switch {
	case password == "":
		fields[field] = "Password is required"
	case len(password) < minPasswordLength:
		fields[field] = "Password must be at least 8 characters"
	}
}

func validatePasswordConfirmation(fields ValidationErrors, password, confirm string) {
	if confirm == "" {
		fields["confirm_password"] = "Please confirm your password"
		return
	}
	if password != confirm {
		fields["confirm_password"] = "Passwords do not match"
	}
}
