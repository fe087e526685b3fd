package locale

import (
	"testing"
	"time"

	"gofinances/internal/core"
)

func TestNew(t *testing.T) {
	if _, err := New("pt-BR", "BRL"); err != nil {
		t.Fatalf("pt-BR/BRL should parse: %v", err)
	}
	if _, err := New("not a tag", "BRL"); err == nil {
		t.Fatal("expected error for bad language tag")
	}
	if _, err := New("pt-BR", "???"); err == nil {
		t.Fatal("expected error for bad currency code")
	}
}

func TestFormatMoney(t *testing.T) {
	br := MustNew("pt-BR", "BRL")
	us := MustNew("en-US", "USD")

	cases := []struct {
		loc   Locale
		cents int64
		want  string
	}{
		{br, 6000, "R$ 60,00"},
		{br, -6000, "-R$ 60,00"},
		{br, 40, "R$ 0,40"},
		{us, 6000, "$ 60.00"},
		{us, 12345, "$ 123.45"},
	}
	for _, tc := range cases {
		got := tc.loc.FormatMoney(core.Money{Cents: tc.cents})
		if got != tc.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestLabels(t *testing.T) {
	br := MustNew("pt-BR", "BRL")
	jan10 := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

	if got := br.LastMovementLabel(jan10); got != "última movimentação dia 10 de janeiro" {
		t.Errorf("LastMovementLabel = %q", got)
	}
	if got := br.PeriodLabel(jan10); got != "01 a 10 de janeiro" {
		t.Errorf("PeriodLabel = %q", got)
	}
	if got := br.NoMovementsLabel(); got != "Não há movimentações" {
		t.Errorf("NoMovementsLabel = %q", got)
	}
	if got := br.FormatDate(jan10); got != "10/01/24" {
		t.Errorf("FormatDate = %q", got)
	}

	us := MustNew("en-US", "USD")
	if got := us.LastMovementLabel(jan10); got != "last movement on day 10 of January" {
		t.Errorf("en LastMovementLabel = %q", got)
	}
	if got := us.FormatDate(jan10); got != "01/10/24" {
		t.Errorf("en FormatDate = %q", got)
	}
}

func TestUnknownLanguageFallsBackToEnglishText(t *testing.T) {
	de := MustNew("de-DE", "EUR")
	if got := de.NoMovementsLabel(); got != "No movements" {
		t.Errorf("fallback NoMovementsLabel = %q", got)
	}
}
