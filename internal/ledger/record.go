// Package ledger reads the per-user transaction log and folds it into the
// dashboard summary.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gofinances/internal/core"
	"gofinances/internal/store"
)

// Storage-level type enumeration. Distinct from core.TransactionType on
// purpose: the mapping below is the only place the two meet.
const (
	storageTypePositive = "positive"
	storageTypeNegative = "negative"
)

// Amount tolerates both JSON strings and JSON numbers at the storage
// boundary; parsing to cents happens during decode.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

// Record is the transaction shape as persisted by the entry form. This core
// only ever reads it.
type Record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   Amount `json:"amount"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// MalformedTransactionError identifies the record that could not be decoded.
// The summarizer fails fast on it; no partial totals escape.
type MalformedTransactionError struct {
	Index int
	ID    string
	Field string
	Err   error
}

func (e *MalformedTransactionError) Error() string {
	return fmt.Sprintf("malformed transaction %q (index %d), field %s: %v", e.ID, e.Index, e.Field, e.Err)
}

func (e *MalformedTransactionError) Unwrap() error {
	return e.Err
}

func parseStorageType(s string) (core.TransactionType, error) {
	switch s {
	case storageTypePositive:
		return core.TypeIncome, nil
	case storageTypeNegative:
		return core.TypeExpense, nil
	default:
		return "", core.ErrInvalidType
	}
}

func storageType(t core.TransactionType) (string, error) {
	switch t {
	case core.TypeIncome:
		return storageTypePositive, nil
	case core.TypeExpense:
		return storageTypeNegative, nil
	default:
		return "", core.ErrInvalidType
	}
}

// decode validates one raw record into the domain transaction.
func decode(r Record, index int) (core.Transaction, error) {
	cents, err := core.ParseAmountToCents(string(r.Amount))
	if err != nil {
		return core.Transaction{}, &MalformedTransactionError{Index: index, ID: r.ID, Field: "amount", Err: err}
	}

	txType, err := parseStorageType(r.Type)
	if err != nil {
		return core.Transaction{}, &MalformedTransactionError{Index: index, ID: r.ID, Field: "type", Err: err}
	}

	date, err := parseDate(r.Date)
	if err != nil {
		return core.Transaction{}, &MalformedTransactionError{Index: index, ID: r.ID, Field: "date", Err: err}
	}

	return core.Transaction{
		ID:       r.ID,
		Name:     r.Name,
		Amount:   core.Money{Cents: cents},
		Type:     txType,
		Category: r.Category,
		Date:     date,
	}, nil
}

// parseDate accepts full RFC 3339 timestamps and bare calendar dates, both
// common in the stored payloads.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, core.ErrInvalidDate
}

// Load reads a user's raw transaction list from the store. An absent key is
// an empty ledger, not an error.
func Load(ctx context.Context, kv store.KV, keys store.Keys, userID string) ([]Record, error) {
	raw, err := kv.Get(ctx, keys.Transactions(userID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode transaction list: %w", err)
	}
	return records, nil
}
