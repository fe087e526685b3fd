// Package locale renders amounts and ledger labels for a display locale.
//
// Currency values go through golang.org/x/text so decimal separators and the
// currency symbol follow the locale. Month names and label templates come
// from small per-language tables: the dashboard needs standalone localized
// month names, which x/text does not expose.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gofinances/internal/core"
)

type Locale struct {
	tag     language.Tag
	unit    currency.Unit
	printer *message.Printer
	text    textTable
}

// textTable holds the locale's month names and label templates.
type textTable struct {
	months      [12]string
	dayOfMonth  string // fmt with day int, month name
	lastMoved   string // fmt with a dayOfMonth string
	periodTo    string // fmt with a dayOfMonth string
	noMovements string
	dateLayout  string
}

var tables = map[string]textTable{
	"pt": {
		months: [12]string{
			"janeiro", "fevereiro", "março", "abril", "maio", "junho",
			"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
		},
		dayOfMonth:  "%d de %s",
		lastMoved:   "última movimentação dia %s",
		periodTo:    "01 a %s",
		noMovements: "Não há movimentações",
		dateLayout:  "02/01/06",
	},
	"en": {
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		dayOfMonth:  "%d of %s",
		lastMoved:   "last movement on day %s",
		periodTo:    "01 to %s",
		noMovements: "No movements",
		dateLayout:  "01/02/06",
	},
}

// New builds a Locale from a BCP 47 tag (e.g. "pt-BR") and an ISO 4217
// currency code (e.g. "BRL"). Languages without a label table fall back to
// English text while keeping the requested number formatting.
func New(bcp47, currencyCode string) (Locale, error) {
	tag, err := language.Parse(bcp47)
	if err != nil {
		return Locale{}, fmt.Errorf("parse locale %q: %w", bcp47, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return Locale{}, fmt.Errorf("parse currency %q: %w", currencyCode, err)
	}

	base, _ := tag.Base()
	text, ok := tables[base.String()]
	if !ok {
		text = tables["en"]
	}

	return Locale{
		tag:     tag,
		unit:    unit,
		printer: message.NewPrinter(tag),
		text:    text,
	}, nil
}

// MustNew is New for trusted, compile-time locale settings.
func MustNew(bcp47, currencyCode string) Locale {
	l, err := New(bcp47, currencyCode)
	if err != nil {
		panic(err)
	}
	return l
}

// FormatMoney renders an amount with the locale's currency symbol and
// decimal conventions, e.g. Money{Cents: 6000} -> "R$ 60,00" for pt-BR/BRL.
func (l Locale) FormatMoney(m core.Money) string {
	sym := l.printer.Sprint(currency.Symbol(l.unit))
	v := m.Float()
	if v < 0 {
		return l.printer.Sprintf("-%s %.2f", sym, -v)
	}
	return l.printer.Sprintf("%s %.2f", sym, v)
}

// MonthName returns the standalone localized month name.
func (l Locale) MonthName(m time.Month) string {
	return l.text.months[int(m)-1]
}

// FormatDate renders a calendar date for the transaction list, two digits
// per component.
func (l Locale) FormatDate(t time.Time) string {
	return t.Format(l.text.dateLayout)
}

// DayOfMonth renders "<day> de <month>" style text for label building.
func (l Locale) DayOfMonth(t time.Time) string {
	return fmt.Sprintf(l.text.dayOfMonth, t.Day(), l.MonthName(t.Month()))
}

// LastMovementLabel describes the most recent movement of a type.
func (l Locale) LastMovementLabel(t time.Time) string {
	return fmt.Sprintf(l.text.lastMoved, l.DayOfMonth(t))
}

// PeriodLabel describes the range from day 1 through the given date.
func (l Locale) PeriodLabel(t time.Time) string {
	return fmt.Sprintf(l.text.periodTo, l.DayOfMonth(t))
}

// NoMovementsLabel is the neutral period text for an empty ledger.
func (l Locale) NoMovementsLabel() string {
	return l.text.noMovements
}
