// Package chart draws the per-kind totals as a three-bar PNG. It is the
// charting collaborator behind a narrow contract: three numbers and three
// fixed labels in, one rendered image out.
package chart

import (
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"banquito/internal/core"
)

// Category labels, fixed by contract.
var Labels = [3]string{"Deposits", "Withdrawals", "Payments"}

// Renderer renders the totals bar chart. One instance is reused across
// renders; only the data changes between calls.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer with the default canvas size.
func NewRenderer() *Renderer {
	return &Renderer{Width: 640, Height: 400}
}

// Render writes the bar chart for the given totals as PNG.
func (r *Renderer) Render(w io.Writer, t core.Totals) error {
	values := [3]float64{
		centsToDollars(t.DepositsCents),
		centsToDollars(t.WithdrawalsCents),
		centsToDollars(t.PaymentsCents),
	}

	// An explicit axis range keeps an all-zero history renderable.
	maxValue := 1.0
	for _, v := range values {
		if v > maxValue {
			maxValue = v
		}
	}

	graph := gochart.BarChart{
		Title:    "Totals by type",
		Width:    r.Width,
		Height:   r.Height,
		BarWidth: 80,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: gochart.YAxis{
			ValueFormatter: currencyTick,
			Range: &gochart.ContinuousRange{
				Min: 0,
				Max: maxValue * 1.1,
			},
		},
		Bars: []gochart.Value{
			{Value: values[0], Label: Labels[0]},
			{Value: values[1], Label: Labels[1]},
			{Value: values[2], Label: Labels[2]},
		},
	}

	return graph.Render(gochart.PNG, w)
}

func centsToDollars(cents int64) float64 {
	return float64(cents) / 100.0
}

// currencyTick formats axis ticks as currency.
func currencyTick(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	return core.FormatUSD(int64(math.Round(f * 100)))
}
