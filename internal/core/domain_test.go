package core

import (
	"errors"
	"testing"
	"time"
)

func TestIdentityValidate(t *testing.T) {
	if err := (Identity{ID: "123"}).Validate(); err != nil {
		t.Fatalf("identity with id should be valid: %v", err)
	}
	if err := (Identity{Name: "nameless"}).Validate(); !errors.Is(err, ErrEmptyIdentityID) {
		t.Fatalf("expected ErrEmptyIdentityID, got %v", err)
	}
	if err := (Identity{ID: "   "}).Validate(); !errors.Is(err, ErrEmptyIdentityID) {
		t.Fatalf("blank id should be rejected, got %v", err)
	}
}

func TestIdentityIsZero(t *testing.T) {
	if !(Identity{}).IsZero() {
		t.Fatal("empty identity should be zero")
	}
	if (Identity{ID: "u1"}).IsZero() {
		t.Fatal("identity with id should not be zero")
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		ID:     "t1",
		Name:   "Salary",
		Amount: Money{Cents: 10000},
		Type:   TypeIncome,
		Date:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(tx *Transaction)
		want error
	}{
		{"negative amount", func(tx *Transaction) { tx.Amount.Cents = -1 }, ErrInvalidAmount},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"zero date", func(tx *Transaction) { tx.Date = time.Time{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := valid
			tc.mut(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestProviderIsValid(t *testing.T) {
	if !ProviderGoogle.IsValid() || !ProviderApple.IsValid() {
		t.Fatal("known providers should be valid")
	}
	if Provider("facebook").IsValid() {
		t.Fatal("unknown provider should be invalid")
	}
}
