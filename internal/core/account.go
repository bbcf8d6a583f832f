package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Deposit    Kind = "Deposit"
	Withdrawal Kind = "Withdrawal"
	Payment    Kind = "Payment"
	Inquiry    Kind = "Inquiry"
)

// Demo identity used when no persisted account exists.
const (
	DemoOwner         = "Ash Ketchum"
	DemoAccountNumber = "001-234-567"
)

// DateLayout is the human-readable timestamp captured on each transaction.
const DateLayout = "1/2/2006, 3:04:05 PM"

type (
	// Kind classifies a ledger entry.
	Kind string

	// Transaction is one immutable ledger entry. AmountCents is positive
	// for deposits, negative for withdrawals and payments, zero for
	// balance inquiries.
	Transaction struct {
		Date        string
		Kind        Kind
		Detail      string
		AmountCents int64
	}

	// Account is the single bank record the system manages. Moves is
	// ordered newest first.
	Account struct {
		OwnerName     string
		AccountNumber string
		BalanceCents  int64
		Moves         []Transaction
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmptyHistory      = errors.New("history already empty")
	ErrEmptyService      = errors.New("empty service name")
)

// DefaultAccount returns the fresh demo account used when nothing has been
// persisted yet: demo identity, zero balance, no history.
func DefaultAccount() *Account {
	return &Account{
		OwnerName:     DemoOwner,
		AccountNumber: DemoAccountNumber,
	}
}

// Validate checks a transaction's internal consistency: the sign of the
// amount must agree with the kind.
func (t Transaction) Validate() error {
	switch t.Kind {
	case Deposit:
		if t.AmountCents <= 0 {
			return ErrInvalidAmount
		}
	case Withdrawal, Payment:
		if t.AmountCents >= 0 {
			return ErrInvalidAmount
		}
	case Inquiry:
		if t.AmountCents != 0 {
			return ErrInvalidAmount
		}
	default:
		return errors.New("unknown transaction kind")
	}
	if t.Kind == Payment && strings.TrimSpace(t.Detail) == "" {
		return ErrEmptyService
	}
	return nil
}

// Prepend inserts a transaction at the head of the history, stamping it
// with the current time.
func (a *Account) Prepend(kind Kind, detail string, amountCents int64) {
	a.PrependAt(time.Now(), kind, detail, amountCents)
}

// PrependAt is Prepend with an explicit timestamp.
func (a *Account) PrependAt(at time.Time, kind Kind, detail string, amountCents int64) {
	t := Transaction{
		Date:        at.Format(DateLayout),
		Kind:        kind,
		Detail:      detail,
		AmountCents: amountCents,
	}
	a.Moves = append([]Transaction{t}, a.Moves...)
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the internal history slice.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Moves = make([]Transaction, len(a.Moves))
	copy(cp.Moves, a.Moves)
	return &cp
}
