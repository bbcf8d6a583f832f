// Package ledger enforces the balance and transaction mutation rules for
// the single account. Every successful mutation persists the account
// synchronously before returning, publishes an event when a broker is
// configured, and invalidates the render-dependent views.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"banquito/internal/core"
	"banquito/internal/log"
	"banquito/internal/storage"
)

// ErrNotConfirmed is returned when a history clear arrives without the
// caller's yes/no confirmation.
var ErrNotConfirmed = errors.New("history clear not confirmed")

// EventPublisher is the optional outbound port for committed mutations.
// Publish failures never fail a ledger operation.
type EventPublisher interface {
	PublishTransaction(ctx context.Context, kind, detail string, amountCents, balanceCents int64) error
	PublishHistoryCleared(ctx context.Context, balanceCents int64) error
}

// Service owns the in-memory account record. The record is loaded once at
// construction and stays authoritative for the session even when the store
// misbehaves.
type Service struct {
	mu       sync.Mutex
	account  *core.Account
	store    storage.AccountStore
	events   EventPublisher
	onChange func()
}

// NewService loads the account from the store. events may be nil.
func NewService(ctx context.Context, store storage.AccountStore, events EventPublisher) *Service {
	return &Service{
		account: store.Load(ctx),
		store:   store,
		events:  events,
	}
}

// SetOnChange registers the view-invalidation hook, called after every
// successful mutation.
func (s *Service) SetOnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Account returns a snapshot of the current record.
func (s *Service) Account() *core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.Clone()
}

// BalanceCents returns the current balance.
func (s *Service) BalanceCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account.BalanceCents
}

// Totals returns the per-kind sums for the chart.
func (s *Service) Totals() core.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.TotalsByKind(s.account.Moves)
}

// Deposit adds a positive amount to the balance and records a Deposit
// entry. Non-positive amounts are rejected without touching state.
func (s *Service) Deposit(ctx context.Context, amountCents int64) error {
	if amountCents <= 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account.BalanceCents += amountCents
	s.account.Prepend(core.Deposit, "", amountCents)
	s.commit(ctx, core.Deposit, "", amountCents)
	return nil
}

// Withdraw removes a positive amount no larger than the balance and
// records a Withdrawal entry. An amount over the balance leaves balance
// and history untouched.
func (s *Service) Withdraw(ctx context.Context, amountCents int64) error {
	if amountCents <= 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountCents > s.account.BalanceCents {
		return core.ErrInsufficientFunds
	}
	s.account.BalanceCents -= amountCents
	s.account.Prepend(core.Withdrawal, "", -amountCents)
	s.commit(ctx, core.Withdrawal, "", -amountCents)
	return nil
}

// PayService follows the withdrawal funds rule and records a Payment entry
// labeled with the service name.
func (s *Service) PayService(ctx context.Context, serviceName string, amountCents int64) error {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return core.ErrEmptyService
	}
	if amountCents <= 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if amountCents > s.account.BalanceCents {
		return core.ErrInsufficientFunds
	}
	s.account.BalanceCents -= amountCents
	s.account.Prepend(core.Payment, serviceName, -amountCents)
	s.commit(ctx, core.Payment, serviceName, -amountCents)
	return nil
}

// RecordInquiry appends a zero-amount Inquiry entry. Called once per
// inquiry-view activation, never per render. It cannot fail.
func (s *Service) RecordInquiry(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.account.Prepend(core.Inquiry, "Balance", 0)
	s.commit(ctx, core.Inquiry, "Balance", 0)
}

// ClearHistory replaces the history with an empty one, leaving the balance
// untouched. The caller must have confirmed the action; clearing an empty
// history reports core.ErrEmptyHistory.
func (s *Service) ClearHistory(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.account.Moves) == 0 {
		return core.ErrEmptyHistory
	}
	s.account.Moves = nil

	s.persist(ctx)
	if s.events != nil {
		if err := s.events.PublishHistoryCleared(ctx, s.account.BalanceCents); err != nil {
			slog.WarnContext(ctx, "Failed to publish history cleared event", "error", err)
		}
	}
	s.notify()
	return nil
}

// commit runs the post-mutation side effects while the lock is held:
// synchronous persist, best-effort event publish, view invalidation.
func (s *Service) commit(ctx context.Context, kind core.Kind, detail string, amountCents int64) {
	s.persist(ctx)
	if s.events != nil {
		if err := s.events.PublishTransaction(ctx, string(kind), detail, amountCents, s.account.BalanceCents); err != nil {
			slog.WarnContext(ctx, "Failed to publish transaction event",
				log.FieldKind, kind, log.FieldAmountCents, amountCents, log.FieldError, err)
		}
	}
	s.notify()
}

// persist writes the account through the store. Failures are swallowed:
// the session keeps running on in-memory state.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.account); err != nil {
		slog.WarnContext(ctx, "Failed to persist account, continuing in memory",
			log.FieldStateKey, storage.StateKey, log.FieldError, err)
	}
}

func (s *Service) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
