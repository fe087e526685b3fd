package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"gofinances/internal/store"
	"gofinances/internal/store/memory"
)

func TestAmountAcceptsStringsAndNumbers(t *testing.T) {
	var records []Record
	payload := `[
		{"id":"1","amount":"60","type":"positive","date":"2024-01-01"},
		{"id":"2","amount":60.5,"type":"positive","date":"2024-01-01"},
		{"id":"3","amount":60,"type":"positive","date":"2024-01-01"}
	]`
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for i, want := range []int64{6000, 6050, 6000} {
		tx, err := decode(records[i], i)
		if err != nil {
			t.Fatalf("decode record %d: %v", i, err)
		}
		if tx.Amount.Cents != want {
			t.Errorf("record %d cents = %d, want %d", i, tx.Amount.Cents, want)
		}
	}
}

func TestLoadAbsentKeyIsEmptyLedger(t *testing.T) {
	kv := memory.New()
	keys := store.Keys{Namespace: "@gofinances"}

	records, err := Load(context.Background(), kv, keys, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if records != nil {
		t.Fatalf("records = %+v, want nil", records)
	}
}

func TestLoadRejectsNonListPayload(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	keys := store.Keys{Namespace: "@gofinances"}
	if err := kv.Set(ctx, keys.Transactions("u1"), []byte(`{"not":"a list"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := Load(ctx, kv, keys, "u1"); err == nil {
		t.Fatal("expected decode error")
	}
}
