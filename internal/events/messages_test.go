package events

import (
	"context"
	"testing"
	"time"

	"gofinances/internal/core"
)

func TestNewSignedInEvent(t *testing.T) {
	identity := core.Identity{ID: "u1", Name: "Ana"}

	e := NewSignedInEvent(identity, core.ProviderGoogle)

	if e.Kind != KindSignedIn {
		t.Errorf("kind = %q", e.Kind)
	}
	if e.UserID != "u1" || e.Provider != core.ProviderGoogle {
		t.Errorf("event = %+v", e)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Second {
		t.Errorf("timestamp = %v, want recent", e.Timestamp)
	}
}

func TestNewSignedOutEvent(t *testing.T) {
	e := NewSignedOutEvent()

	if e.Kind != KindSignedOut {
		t.Errorf("kind = %q", e.Kind)
	}
	if e.UserID != "" || e.Provider != "" {
		t.Errorf("sign-out event must not carry identity data: %+v", e)
	}
}

func TestSessionEventJSONRoundTrip(t *testing.T) {
	e := &SessionEvent{
		Kind:      KindSignedIn,
		UserID:    "u1",
		Provider:  core.ProviderApple,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := SessionEventFromJSON(body)
	if err != nil {
		t.Fatalf("SessionEventFromJSON: %v", err)
	}
	if parsed.Kind != e.Kind || parsed.UserID != e.UserID || parsed.Provider != e.Provider {
		t.Errorf("parsed = %+v", parsed)
	}
	if !parsed.Timestamp.Equal(e.Timestamp) {
		t.Errorf("timestamp = %v, want %v", parsed.Timestamp, e.Timestamp)
	}
}

func TestSessionEventFromInvalidJSON(t *testing.T) {
	if _, err := SessionEventFromJSON([]byte(`{"kind": 7}`)); err == nil {
		t.Error("expected error for invalid payload")
	}
}

func TestNilClientPublishIsNoOp(t *testing.T) {
	var c *Client
	if err := c.PublishSessionEvent(context.Background(), NewSignedOutEvent()); err != nil {
		t.Fatalf("nil client publish: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client close: %v", err)
	}
}
