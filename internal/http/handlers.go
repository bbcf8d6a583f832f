package http

import (
	"log/slog"
	"net/http"

	"banquito/internal/render"
	"banquito/internal/session"
	"banquito/internal/view"
)

// pageData carries everything a page template can show. Fields are only
// populated when the view transition asked for the matching projection.
type pageData struct {
	Identity render.Identity
	Balance  string
	Rows     []render.Row
	Error    string
	From     string
}

// errorMessages maps the short codes carried in the error query parameter
// to the text shown on the page.
var errorMessages = map[string]string{
	"bad_pin":            "Incorrect PIN. Please try again.",
	"invalid_amount":     "Enter a valid amount greater than zero.",
	"insufficient_funds": "Insufficient funds for this operation.",
	"empty_service":      "Choose a service to pay.",
	"empty_history":      "There are no transactions to clear.",
	"not_confirmed":      "Confirm the operation to clear the history.",
}

// buildPageData fills the projections the effect list names. Render
// effects are the FSM's way of saying which panels must be refreshed.
func (s *Server) buildPageData(r *http.Request, effects []view.Effect, from string) pageData {
	data := pageData{From: from}
	if code := r.URL.Query().Get("error"); code != "" {
		data.Error = errorMessages[code]
	}

	account := s.ledger.Account()
	for _, e := range effects {
		switch e {
		case view.EffectRenderIdentity:
			data.Identity = render.IdentityOf(account)
		case view.EffectRenderBalance:
			data.Balance = render.Balance(account)
		case view.EffectRenderHistory:
			data.Rows = render.Rows(account)
		}
	}
	return data
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleIndex serves the login page, or the dashboard when the session
// flag is set.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	state := view.Initial(session.IsLoggedIn(r))
	if state.Current == view.Login {
		s.renderPage(w, r, "login.html", s.buildPageData(r, nil, ""))
		return
	}

	// Landing on the dashboard refreshes every projection.
	_, effects := s.controller.Dispatch(state, view.Action{Type: view.ActionMutated})
	s.renderPage(w, r, "dashboard.html", s.buildPageData(r, effects, "dashboard"))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	state := view.Initial(session.IsLoggedIn(r))
	next, effects := s.controller.Dispatch(state, view.Action{Type: view.ActionGoHistory})
	if next.Current != view.HistoryFull {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, "history.html", s.buildPageData(r, effects, "history"))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	state := view.Initial(session.IsLoggedIn(r))
	next, _ := s.controller.Dispatch(state, view.Action{Type: view.ActionGoChart})
	if next.Current != view.ChartFull {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, "chart.html", s.buildPageData(r, nil, "chart"))
}

// handleSupport is reachable both logged in and logged out.
func (s *Server) handleSupport(w http.ResponseWriter, r *http.Request) {
	state := view.Initial(session.IsLoggedIn(r))
	next, _ := s.controller.Dispatch(state, view.Action{Type: view.ActionGoSupport})
	if next.Current != view.Support {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, "support.html", pageData{})
}

// handleLogin checks the submitted PIN and sets the session flag on
// success. Wrong and malformed PINs get the same generic error.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "/", "bad_pin")
		return
	}

	pin := sanitizeInput(r.Form.Get("pin"))
	state := view.Initial(session.IsLoggedIn(r))
	next, effects := s.controller.Dispatch(state, view.Action{Type: view.ActionSubmitPIN, PIN: pin})

	for _, e := range effects {
		switch e {
		case view.EffectSetSessionFlag:
			session.SetLoggedIn(w)
		case view.EffectShowLoginError:
			slog.InfoContext(r.Context(), "Login rejected")
			redirectWithError(w, r, "/", "bad_pin")
			return
		}
	}

	if next.Current == view.Dashboard {
		slog.InfoContext(r.Context(), "Login accepted")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r, view.ActionSignOut, view.State{Current: view.Dashboard, LoggedIn: session.IsLoggedIn(r)})
}

func (s *Server) handleSupportExit(w http.ResponseWriter, r *http.Request) {
	s.endSession(w, r, view.ActionExitSupport, view.State{Current: view.Support, LoggedIn: session.IsLoggedIn(r)})
}

// endSession applies a session-terminating action and sends the client
// back to the login page.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request, action view.ActionType, state view.State) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	_, effects := s.controller.Dispatch(state, view.Action{Type: action})
	for _, e := range effects {
		if e == view.EffectClearSessionFlag {
			session.Clear(w)
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
