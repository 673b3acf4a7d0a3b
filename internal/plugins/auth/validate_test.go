package auth

import (
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{
		"abc",
		"user_name",
		"user-name",
		"a1b2c3",
		"ABC",
		strings.Repeat("a", 20),
	}
	for _, u := range valid {
		if err := validateUsername(u); err != nil {
			t.Errorf("validateUsername(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{
		"",
		"ab",                     // too short
		strings.Repeat("a", 21),  // too long
		"_user",                  // leading separator
		"user_",                  // trailing separator
		"-user",
		"user-",
		"user name",              // space
		"user!name",              // bad char
		"usér",                   // non-ascii
	}
	for _, u := range invalid {
		if err := validateUsername(u); err == nil {
			t.Errorf("validateUsername(%q) = nil, want error", u)
		}
	}
}

func TestValidateUsername_Reserved(t *testing.T) {
	for _, u := range []string{"admin", "root", "api", "login", "settings"} {
		if err := validateUsername(u); err == nil {
			t.Errorf("validateUsername(%q) = nil, want reserved error", u)
		}
	}
	// Reserved check is case-insensitive.
	if err := validateUsername("Admin"); err == nil {
		t.Error("validateUsername(\"Admin\") = nil, want reserved error")
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@sub.example.org",
		"a_b+c@example.io",
	}
	for _, e := range valid {
		if err := validateEmail(e); err != nil {
			t.Errorf("validateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"user@",
		"@example.com",
		"user@nodot",
		"user..double@example.com",
		strings.Repeat("a", 250) + "@example.com", // over 254 chars
	}
	for _, e := range invalid {
		if err := validateEmail(e); err == nil {
			t.Errorf("validateEmail(%q) = nil, want error", e)
		}
	}
}
