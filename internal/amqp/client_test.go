package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{63, 30 * time.Second}, // shift overflow must still cap
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection closed", errors.New("connection closed by server"), true},
		{"unexpected EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"channel not open", errors.New("Exception (504) Reason: \"channel/connection is not open\""), true},
		{"marshalling problem", errors.New("json: unsupported type"), false},
		{"validation problem", errors.New("invalid amount"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestLedgerEventJSON(t *testing.T) {
	ev := NewTransactionEvent("Payment", "Electricity", -6000, 0)
	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != EventTransaction || got.Kind != "Payment" || got.Detail != "Electricity" {
		t.Fatalf("unexpected event: %+v", got)
	}
	if got.AmountCents != -6000 || got.BalanceCents != 0 {
		t.Fatalf("unexpected amounts: %+v", got)
	}

	if _, err := LedgerEventFromJSON([]byte("{broken")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestHistoryClearedEvent(t *testing.T) {
	ev := NewHistoryClearedEvent(10000)
	if ev.Event != EventHistoryCleared || ev.BalanceCents != 10000 || ev.Kind != "" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
