package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"banquito/internal/core"
	"banquito/internal/pdf"
	"banquito/internal/session"
)

// chartKey identifies a rendering by its three totals, so an unchanged
// ledger keeps hitting the cached PNG.
func chartKey(t core.Totals) string {
	return fmt.Sprintf("%d:%d:%d", t.DepositsCents, t.WithdrawalsCents, t.PaymentsCents)
}

// handleChartPNG serves the totals bar chart as a PNG.
func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	if !session.IsLoggedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	totals := s.ledger.Totals()
	key := chartKey(totals)

	png, found := s.chartCache.Get(key)
	if !found {
		var buf bytes.Buffer
		if err := s.charts.Render(&buf, totals); err != nil {
			slog.ErrorContext(r.Context(), "Chart render failed", "error", err)
			http.Error(w, "chart unavailable", http.StatusInternalServerError)
			return
		}
		png = buf.Bytes()
		s.chartCache.Set(key, png)
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// handleStatementPDF streams the full history as a PDF download.
func (s *Server) handleStatementPDF(w http.ResponseWriter, r *http.Request) {
	if !session.IsLoggedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	statement := pdf.NewStatement(s.ledger.Account())

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pdf.DefaultFilename+`"`)
	if err := statement.Write(w); err != nil {
		slog.ErrorContext(r.Context(), "Statement write failed", "error", err)
	}
}
