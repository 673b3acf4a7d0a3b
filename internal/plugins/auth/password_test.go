package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("Sup3rSecret!x")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if hash == "Sup3rSecret!x" {
		t.Fatal("hash equals plaintext")
	}
	if !verifyPassword("Sup3rSecret!x", hash) {
		t.Error("correct password rejected")
	}
	if verifyPassword("Sup3rSecret!y", hash) {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if verifyPassword("anything", "not-a-bcrypt-digest") {
		t.Error("malformed digest accepted")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	valid := []string{
		"Abcdefgh1!",
		`Mix3d"Case"pw`,
		"LongEnough123$",
	}
	for _, p := range valid {
		if err := validatePasswordStrength(p); err != nil {
			t.Errorf("validatePasswordStrength(%q) = %v, want nil", p, err)
		}
	}

	invalid := map[string]string{
		"Ab1!short":     "too short",
		"abcdefgh1!":    "no uppercase",
		"ABCDEFGH1!":    "no lowercase",
		"Abcdefghij!":   "no digit",
		"Abcdefghij1":   "no special",
	}
	for p, reason := range invalid {
		if err := validatePasswordStrength(p); err == nil {
			t.Errorf("validatePasswordStrength(%q) = nil, want error (%s)", p, reason)
		}
	}
}

func TestGenerateRandomSecret(t *testing.T) {
	a, err := generateRandomSecret()
	if err != nil {
		t.Fatalf("generateRandomSecret: %v", err)
	}
	b, err := generateRandomSecret()
	if err != nil {
		t.Fatalf("generateRandomSecret: %v", err)
	}
	if a == b {
		t.Error("two secrets are identical")
	}
	if len(a) < 32 {
		t.Errorf("secret too short: %d chars", len(a))
	}
}
