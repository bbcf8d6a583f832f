// Package storage defines the persistent account store port and the wire
// format shared by its backends.
//
// The store holds exactly one account record under a single fixed key.
// There is no versioning or migration of the record itself: anything
// malformed or missing is treated as "no saved state" and replaced by the
// demo default on the next save.
package storage

import (
	"context"
	"encoding/json"
	"errors"

	"banquito/internal/core"
)

// StateKey is the single key the serialized account lives under.
const StateKey = "bank_state_v1"

// ErrNotFound is returned by backends when nothing is stored under StateKey.
var ErrNotFound = errors.New("no saved state")

// AccountStore is the persistence port. Load never fails from the caller's
// point of view: any read problem yields the fresh default account. Save
// errors are reported so callers can log them, but sessions continue on
// in-memory state regardless.
type AccountStore interface {
	Load(ctx context.Context) *core.Account
	Save(ctx context.Context, a *core.Account) error
	Close() error
}

type persistedMove struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Detail      string `json:"detail"`
	AmountCents int64  `json:"amountCents"`
}

type persistedAccount struct {
	OwnerName     string          `json:"ownerName"`
	AccountNumber string          `json:"accountNumber"`
	BalanceCents  int64           `json:"balanceCents"`
	Moves         []persistedMove `json:"moves"`
}

// EncodeAccount serializes the whole account to the stored JSON record.
func EncodeAccount(a *core.Account) ([]byte, error) {
	p := persistedAccount{
		OwnerName:     a.OwnerName,
		AccountNumber: a.AccountNumber,
		BalanceCents:  a.BalanceCents,
		Moves:         make([]persistedMove, len(a.Moves)),
	}
	for i, m := range a.Moves {
		p.Moves[i] = persistedMove{
			Date:        m.Date,
			Type:        string(m.Kind),
			Detail:      m.Detail,
			AmountCents: m.AmountCents,
		}
	}
	return json.Marshal(p)
}

// DecodeAccount deserializes a stored record. A record that does not parse,
// or that is missing its identity fields, is rejected so the caller falls
// back to the default account.
func DecodeAccount(data []byte) (*core.Account, error) {
	var p persistedAccount
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.OwnerName == "" || p.AccountNumber == "" {
		return nil, errors.New("malformed account record")
	}
	a := &core.Account{
		OwnerName:     p.OwnerName,
		AccountNumber: p.AccountNumber,
		BalanceCents:  p.BalanceCents,
		Moves:         make([]core.Transaction, len(p.Moves)),
	}
	for i, m := range p.Moves {
		a.Moves[i] = core.Transaction{
			Date:        m.Date,
			Kind:        core.Kind(m.Type),
			Detail:      m.Detail,
			AmountCents: m.AmountCents,
		}
	}
	return a, nil
}
