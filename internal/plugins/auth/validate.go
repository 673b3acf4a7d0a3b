package auth

import (
	"regexp"
	"strings"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
)

// usernamePattern requires 3-20 chars of letters, digits, underscore or
// hyphen, starting and ending alphanumeric. Length is checked separately so
// the error messages can be specific.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)

// emailPattern is a pragmatic syntactic check; real validation happens when
// mail actually gets delivered. Full RFC 5322 parsing is not the goal.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// reservedUsernames are names that collide with routes or look official.
// The public profile lives at /user/{username}, so anything that could be
// mistaken for a system page is off limits.
var reservedUsernames = map[string]bool{
	"admin": true, "root": true, "system": true, "api": true, "www": true,
	"ftp": true, "mail": true, "support": true, "help": true, "info": true,
	"contact": true, "about": true, "terms": true, "privacy": true,
	"login": true, "register": true, "signup": true, "signin": true,
	"logout": true, "profile": true, "settings": true, "dashboard": true,
	"user": true,
}

// validateUsername checks the username policy: 3-20 chars, alphanumeric
// plus underscore/hyphen, alphanumeric at both ends, not reserved.
func validateUsername(username string) error {
	if username == "" {
		return apperror.NewBadRequest("username is required")
	}
	if len(username) < 3 {
		return apperror.NewBadRequest("username must be at least 3 characters")
	}
	if len(username) > 20 {
		return apperror.NewBadRequest("username must be at most 20 characters")
	}
	if !usernamePattern.MatchString(username) {
		return apperror.NewBadRequest("username may only contain letters, numbers, _ and -, and must start and end with a letter or number")
	}
	if reservedUsernames[strings.ToLower(username)] {
		return apperror.NewBadRequest("this username is reserved")
	}
	return nil
}

// validateEmail checks email shape: bounded length, no consecutive dots,
// and the syntactic pattern.
func validateEmail(email string) error {
	if email == "" {
		return apperror.NewBadRequest("email is required")
	}
	if len(email) > 254 {
		return apperror.NewBadRequest("email is too long")
	}
	if strings.Contains(email, "..") {
		return apperror.NewBadRequest("email is invalid")
	}
	if !emailPattern.MatchString(email) {
		return apperror.NewBadRequest("email is invalid")
	}
	return nil
}
