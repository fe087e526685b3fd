package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ProviderGoogle Provider = "google"
	ProviderApple  Provider = "apple"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

type (
	// Provider names an external authentication service.
	Provider string

	// TransactionType is the semantic direction of a movement. The storage
	// boundary uses a different enumeration; see internal/ledger.
	TransactionType string

	Money struct {
		Cents int64
	}

	// Identity is the normalized, provider-agnostic authenticated user.
	// A zero Identity means "signed out".
	Identity struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Photo string `json:"photo,omitempty"`
	}

	// Transaction is one recorded movement in a user's ledger. Amount is a
	// non-negative magnitude; the sign is carried by Type.
	Transaction struct {
		ID       string
		Name     string
		Amount   Money
		Type     TransactionType
		Category string
		Date     time.Time
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyIdentityID = errors.New("empty identity id")
	ErrUnknownProvider = errors.New("unknown provider")
)

func (p Provider) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderApple:
		return true
	default:
		return false
	}
}

func (p Provider) String() string {
	return string(p)
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TypeIncome, TypeExpense:
		return true
	default:
		return false
	}
}

// IsZero reports whether the identity represents the signed-out state.
func (id Identity) IsZero() bool {
	return id.ID == ""
}

func (id Identity) Validate() error {
	if strings.TrimSpace(id.ID) == "" {
		return ErrEmptyIdentityID
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if !tx.Type.IsValid() {
		return ErrInvalidType
	}
	if tx.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
