package core

// Totals are the per-kind sums the bar chart is drawn from. All three are
// non-negative regardless of input.
type Totals struct {
	DepositsCents    int64
	WithdrawalsCents int64
	PaymentsCents    int64
}

// TotalsByKind folds the history into three category totals in one linear
// pass. The sum is commutative, so the result does not depend on the order
// of the moves; it is recomputed fully on every call.
func TotalsByKind(moves []Transaction) Totals {
	var t Totals
	for _, m := range moves {
		switch m.Kind {
		case Deposit:
			if m.AmountCents > 0 {
				t.DepositsCents += m.AmountCents
			}
		case Withdrawal:
			if m.AmountCents < 0 {
				t.WithdrawalsCents += -m.AmountCents
			}
		case Payment:
			if m.AmountCents < 0 {
				t.PaymentsCents += -m.AmountCents
			}
		}
	}
	return t
}
