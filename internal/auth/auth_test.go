package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("Hash must not equal the password")
	}
	if !VerifyPassword("admin123", hash) {
		t.Error("Correct password should verify")
	}
	if VerifyPassword("wrongpassword", hash) {
		t.Error("Wrong password should not verify")
	}

	other, _ := HashPassword("admin123")
	if other == hash {
		t.Error("Hashes should be salted")
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Error("Expected error for empty secret")
	}
	if _, err := NewTokenManager("secret", 0); err == nil {
		t.Error("Expected error for zero ttl")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Hour)

	token, err := m.IssueToken("admin@petslib.com")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	subject, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if subject != "admin@petslib.com" {
		t.Errorf("Expected subject admin@petslib.com, got %s", subject)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Hour)
	good, _ := m.IssueToken("admin@petslib.com")

	other, _ := NewTokenManager("other-secret", time.Hour)
	foreign, _ := other.IssueToken("admin@petslib.com")

	expired, _ := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.IssueToken("admin@petslib.com")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "admin@petslib.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"malformed":       "not-a-token",
		"wrong secret":    foreign,
		"expired":         stale,
		"none algorithm":  unsigned,
		"tampered":        good[:len(good)-2] + "xx",
		"empty":           "",
		"extra segment":   good + ".abc",
		"whitespace only": strings.Repeat(" ", 4),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateToken(token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestValidateToken_MissingSubject(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Hour)
	token, _ := m.IssueToken("")

	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for empty subject, got %v", err)
	}
}
