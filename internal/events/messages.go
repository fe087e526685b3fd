// Package events publishes session lifecycle notifications to the message
// broker so companion services can react to sign-ins and sign-outs.
package events

import (
	"encoding/json"
	"time"

	"gofinances/internal/core"
)

const (
	KindSignedIn  = "signed_in"
	KindSignedOut = "signed_out"
)

// SessionEvent is the broker payload for a session state change. UserID is
// empty on sign-out.
type SessionEvent struct {
	Kind      string        `json:"kind"`
	UserID    string        `json:"user_id,omitempty"`
	Provider  core.Provider `json:"provider,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewSignedInEvent(identity core.Identity, provider core.Provider) *SessionEvent {
	return &SessionEvent{
		Kind:      KindSignedIn,
		UserID:    identity.ID,
		Provider:  provider,
		Timestamp: time.Now(),
	}
}

func NewSignedOutEvent() *SessionEvent {
	return &SessionEvent{
		Kind:      KindSignedOut,
		Timestamp: time.Now(),
	}
}

func (e *SessionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func SessionEventFromJSON(data []byte) (*SessionEvent, error) {
	var e SessionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
