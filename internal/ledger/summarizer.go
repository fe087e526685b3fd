package ledger

import (
	"time"

	"gofinances/internal/core"
	"gofinances/internal/locale"
)

// AmountView pairs a numeric value in cents with its locale rendering, so
// downstream arithmetic never has to re-parse a display string.
type AmountView struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

// Summary is the derived dashboard highlight data. It is recomputed from
// scratch on every call and never persisted.
type Summary struct {
	TotalIncome      AmountView `json:"total_income"`
	TotalExpense     AmountView `json:"total_expense"`
	NetBalance       AmountView `json:"net_balance"`
	LastIncomeLabel  string     `json:"last_income_label"`
	LastExpenseLabel string     `json:"last_expense_label"`
	PeriodLabel      string     `json:"period_label"`
}

// Entry is one transaction prepared for rendering: amount and date become
// display strings, the type becomes the semantic enumeration.
type Entry struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Amount   string               `json:"amount"`
	Type     core.TransactionType `json:"type"`
	Category string               `json:"category"`
	Date     string               `json:"date"`
}

// Summarize folds the raw transaction log into totals, last-movement labels
// and the formatted entry list in a single pass. The input is never mutated.
//
// A type with zero transactions yields an empty label, never a bogus date.
// Whether a type has data is decided by counting matches, not by comparing a
// derived maximum against itself. Any undecodable record fails the whole call
// with *MalformedTransactionError.
func Summarize(records []Record, loc locale.Locale) (Summary, []Entry, error) {
	var (
		incomeCents, expenseCents int64
		incomeCount, expenseCount int
		lastIncome, lastExpense   time.Time
	)

	entries := make([]Entry, 0, len(records))
	for i, r := range records {
		tx, err := decode(r, i)
		if err != nil {
			return Summary{}, nil, err
		}

		switch tx.Type {
		case core.TypeIncome:
			incomeCents += tx.Amount.Cents
			incomeCount++
			if tx.Date.After(lastIncome) {
				lastIncome = tx.Date
			}
		case core.TypeExpense:
			expenseCents += tx.Amount.Cents
			expenseCount++
			if tx.Date.After(lastExpense) {
				lastExpense = tx.Date
			}
		}

		entries = append(entries, Entry{
			ID:       tx.ID,
			Name:     tx.Name,
			Amount:   loc.FormatMoney(tx.Amount),
			Type:     tx.Type,
			Category: tx.Category,
			Date:     loc.FormatDate(tx.Date),
		})
	}

	netCents := incomeCents - expenseCents
	summary := Summary{
		TotalIncome:  AmountView{Cents: incomeCents, Formatted: loc.FormatMoney(core.Money{Cents: incomeCents})},
		TotalExpense: AmountView{Cents: expenseCents, Formatted: loc.FormatMoney(core.Money{Cents: expenseCents})},
		NetBalance:   AmountView{Cents: netCents, Formatted: loc.FormatMoney(core.Money{Cents: netCents})},
		PeriodLabel:  loc.NoMovementsLabel(),
	}

	if incomeCount > 0 {
		summary.LastIncomeLabel = loc.LastMovementLabel(lastIncome)
	}
	if expenseCount > 0 {
		summary.LastExpenseLabel = loc.LastMovementLabel(lastExpense)
		summary.PeriodLabel = loc.PeriodLabel(lastExpense)
	}

	return summary, entries, nil
}
