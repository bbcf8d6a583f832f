package http

import (
	"errors"
	"log/slog"
	"net/http"

	"banquito/internal/core"
	"banquito/internal/ledger"
	"banquito/internal/session"
)

// parseOperationForm gates a ledger mutation: POST only, logged in, form
// parsed. Returns false after writing the response when the request
// cannot proceed.
func (s *Server) parseOperationForm(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if !session.IsLoggedIn(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

// errorCode maps ledger errors to the short codes the pages know.
func errorCode(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, core.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, core.ErrEmptyService):
		return "empty_service"
	case errors.Is(err, core.ErrEmptyHistory):
		return "empty_history"
	case errors.Is(err, ledger.ErrNotConfirmed):
		return "not_confirmed"
	default:
		return "invalid_amount"
	}
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	if !s.parseOperationForm(w, r) {
		return
	}
	back := returnPath(r)

	cents, err := core.ParseAmountToCents(r.Form.Get("amount"))
	if err != nil {
		redirectWithError(w, r, back, "invalid_amount")
		return
	}
	if err := s.ledger.Deposit(r.Context(), cents); err != nil {
		redirectWithError(w, r, back, errorCode(err))
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	if !s.parseOperationForm(w, r) {
		return
	}
	back := returnPath(r)

	cents, err := core.ParseAmountToCents(r.Form.Get("amount"))
	if err != nil {
		redirectWithError(w, r, back, "invalid_amount")
		return
	}
	if err := s.ledger.Withdraw(r.Context(), cents); err != nil {
		redirectWithError(w, r, back, errorCode(err))
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) handlePayService(w http.ResponseWriter, r *http.Request) {
	if !s.parseOperationForm(w, r) {
		return
	}
	back := returnPath(r)

	service := sanitizeInput(r.Form.Get("service"))
	if service == "" {
		redirectWithError(w, r, back, "empty_service")
		return
	}
	cents, err := core.ParseAmountToCents(r.Form.Get("amount"))
	if err != nil {
		redirectWithError(w, r, back, "invalid_amount")
		return
	}
	if err := s.ledger.PayService(r.Context(), service, cents); err != nil {
		redirectWithError(w, r, back, errorCode(err))
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// handleInquiry records a zero-amount balance inquiry in the history.
func (s *Server) handleInquiry(w http.ResponseWriter, r *http.Request) {
	if !s.parseOperationForm(w, r) {
		return
	}
	s.ledger.RecordInquiry(r.Context())
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

// handleHistoryClear erases the movement list, never the balance. The
// form must carry confirm=yes.
func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	if !s.parseOperationForm(w, r) {
		return
	}
	back := returnPath(r)

	confirmed := r.Form.Get("confirm") == "yes"
	if err := s.ledger.ClearHistory(r.Context(), confirmed); err != nil {
		redirectWithError(w, r, back, errorCode(err))
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
