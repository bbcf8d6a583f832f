package pdf

import (
	"bytes"
	"fmt"
	"testing"

	"banquito/internal/core"
)

func TestWriteProducesPDF(t *testing.T) {
	a := core.DefaultAccount()
	a.Moves = []core.Transaction{
		{Date: "3/1/2025, 2:31:00 PM", Kind: core.Withdrawal, AmountCents: -4000},
		{Date: "3/1/2025, 2:30:00 PM", Kind: core.Deposit, AmountCents: 10000},
	}

	var buf bytes.Buffer
	if err := NewStatement(a).Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF (first bytes: %q)", buf.Bytes()[:4])
	}
}

func TestEmptyHistorySingleLine(t *testing.T) {
	s := NewStatement(core.DefaultAccount())
	doc := s.doc()
	if doc.PageCount() != 1 {
		t.Fatalf("empty statement should fit one page, got %d", doc.PageCount())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("output: %v", err)
	}
}

func TestPaginationPastFixedOffset(t *testing.T) {
	a := core.DefaultAccount()
	for i := 0; i < 120; i++ {
		a.Moves = append(a.Moves, core.Transaction{
			Date:        fmt.Sprintf("3/1/2025, 2:%02d:00 PM", i%60),
			Kind:        core.Deposit,
			AmountCents: 100,
		})
	}

	doc := NewStatement(a).doc()
	if doc.PageCount() < 2 {
		t.Fatalf("120 rows must wrap to a new page, got %d page(s)", doc.PageCount())
	}
}
