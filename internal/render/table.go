// Package render projects the account record into view models for the
// templates. Projections are pure and never mutate the account.
package render

import "banquito/internal/core"

// Row is one rendered history line.
type Row struct {
	Date   string
	Kind   string
	Detail string // "-" when the entry carries no label
	Amount string // formatted, sign kept
	Class  string // color class: positive, negative, or neutral
}

// Rows projects the history newest first. The caller renders the single
// "no transactions" placeholder when the result is empty.
func Rows(a *core.Account) []Row {
	rows := make([]Row, len(a.Moves))
	for i, m := range a.Moves {
		detail := m.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = Row{
			Date:   m.Date,
			Kind:   string(m.Kind),
			Detail: detail,
			Amount: core.FormatUSD(m.AmountCents),
			Class:  amountClass(m.AmountCents),
		}
	}
	return rows
}

func amountClass(cents int64) string {
	switch {
	case cents > 0:
		return "amount-positive"
	case cents < 0:
		return "amount-negative"
	default:
		return "amount-neutral"
	}
}

// Balance projects the current balance as the formatted figure shown in
// the balance panel.
func Balance(a *core.Account) string {
	return core.FormatUSD(a.BalanceCents)
}

// Identity is the owner panel view model, rendered only when logged in.
type Identity struct {
	OwnerName     string
	AccountNumber string
}

// IdentityOf projects the account's display identity.
func IdentityOf(a *core.Account) Identity {
	return Identity{OwnerName: a.OwnerName, AccountNumber: a.AccountNumber}
}
