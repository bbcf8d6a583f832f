package amqp

import (
	"encoding/json"
	"time"
)

// Event names carried in LedgerEvent.Event.
const (
	EventTransaction    = "transaction"
	EventHistoryCleared = "history_cleared"
)

// LedgerEvent is the message published after every committed ledger
// mutation. It carries the entry itself plus the resulting balance so a
// consumer never has to read the store.
type LedgerEvent struct {
	Event        string    `json:"event"`
	Kind         string    `json:"kind,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	AmountCents  int64     `json:"amount_cents"`
	BalanceCents int64     `json:"balance_cents"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTransactionEvent builds the event for one committed transaction.
func NewTransactionEvent(kind, detail string, amountCents, balanceCents int64) *LedgerEvent {
	return &LedgerEvent{
		Event:        EventTransaction,
		Kind:         kind,
		Detail:       detail,
		AmountCents:  amountCents,
		BalanceCents: balanceCents,
		Timestamp:    time.Now(),
	}
}

// NewHistoryClearedEvent builds the event for an explicit history clear.
func NewHistoryClearedEvent(balanceCents int64) *LedgerEvent {
	return &LedgerEvent{
		Event:        EventHistoryCleared,
		BalanceCents: balanceCents,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
