package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateAccessToken(id, "asha", "agent")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != id || claims.Username != "asha" || claims.Role != "agent" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Issuer != issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, _ := NewManager("secret", time.Hour).GenerateAccessToken(uuid.New(), "asha", "agent")
	if _, err := NewManager("other", time.Hour).ValidateAccessToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	token, _ := m.GenerateAccessToken(uuid.New(), "asha", "agent")
	_, err := m.ValidateAccessToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expiry error got %v", err)
	}
}
