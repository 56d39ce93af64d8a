package utils

import (
	"testing"
	"time"
)

func TestManagerRoundTrip(t *testing.T) {
	m, err := NewManager("secret")
	if err != nil {
		t.Fatal(err)
	}
	token, err := m.NewJWT("session-1", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	sub, err := m.Parse(token)
	if err != nil || sub != "session-1" {
		t.Fatalf("Parse = %q, %v", sub, err)
	}
}

func TestManagerRejectsForeignAndExpiredTokens(t *testing.T) {
	m, _ := NewManager("secret")
	other, _ := NewManager("other")

	token, _ := other.NewJWT("session-1", time.Hour)
	if _, err := m.Parse(token); err == nil {
		t.Fatal("token signed with another key accepted")
	}

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := m.NewJWT("session-1", time.Hour)
	m.now = time.Now
	if _, err := m.Parse(expired); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestNewManagerRequiresKey(t *testing.T) {
	if _, err := NewManager(""); err == nil {
		t.Fatal("expected error")
	}
}
