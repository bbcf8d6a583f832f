// Package view is the finite state machine over the application's panels.
// Dispatch is pure: it maps the current state and one user action to the
// next state plus the side effects the caller must apply. The HTTP layer
// drives it and owns the actual session cookie and rendering.
package view

// View identifies one visible panel.
type View string

const (
	Login       View = "login"
	Dashboard   View = "dashboard"
	HistoryFull View = "history"
	ChartFull   View = "chart"
	Support     View = "support"
)

// ActionType enumerates the user actions the machine reacts to.
type ActionType string

const (
	ActionSubmitPIN   ActionType = "submit_pin"
	ActionGoHistory   ActionType = "go_history"
	ActionGoChart     ActionType = "go_chart"
	ActionGoSupport   ActionType = "go_support"
	ActionBack        ActionType = "back"
	ActionSignOut     ActionType = "sign_out"
	ActionExitSupport ActionType = "exit_support"
	// ActionMutated is fed back by the ledger after any successful
	// mutation so the current view refreshes its projections.
	ActionMutated ActionType = "mutated"
)

// Action is one dispatched user action. PIN is only meaningful for
// ActionSubmitPIN.
type Action struct {
	Type ActionType
	PIN  string
}

// Effect is a side effect the caller must apply after a transition.
type Effect string

const (
	EffectSetSessionFlag   Effect = "set_session_flag"
	EffectClearSessionFlag Effect = "clear_session_flag"
	EffectClearPIN         Effect = "clear_pin"
	EffectShowLoginError   Effect = "show_login_error"
	EffectRenderIdentity   Effect = "render_identity"
	EffectRenderBalance    Effect = "render_balance"
	EffectRenderHistory    Effect = "render_history"
	EffectRenderChart      Effect = "render_chart"
)

// State is the machine's full state: the visible panel and the session
// flag it was derived from.
type State struct {
	Current  View
	LoggedIn bool
}

// Initial maps the session flag to the state shown on load.
func Initial(loggedIn bool) State {
	if loggedIn {
		return State{Current: Dashboard, LoggedIn: true}
	}
	return State{Current: Login}
}

// Controller holds the single authoritative login rule: the submitted PIN
// must equal the accepted one. Malformed and wrong PINs are
// indistinguishable to the user.
type Controller struct {
	AcceptedPIN string
}

// renderEffects lists, per landing view, the projections that must be
// refreshed. Render is never assumed to already be fresh.
func renderEffects(v View) []Effect {
	switch v {
	case Dashboard:
		return []Effect{EffectRenderIdentity, EffectRenderBalance, EffectRenderHistory, EffectRenderChart}
	case HistoryFull:
		return []Effect{EffectRenderHistory}
	case ChartFull:
		return []Effect{EffectRenderChart}
	default:
		return nil
	}
}

// Dispatch computes the next state and effect list for one action.
func (c Controller) Dispatch(s State, a Action) (State, []Effect) {
	switch a.Type {
	case ActionSubmitPIN:
		if s.LoggedIn {
			return s, nil
		}
		if a.PIN != c.AcceptedPIN {
			return State{Current: Login}, []Effect{EffectShowLoginError}
		}
		next := State{Current: Dashboard, LoggedIn: true}
		return next, append([]Effect{EffectSetSessionFlag}, renderEffects(Dashboard)...)

	case ActionGoHistory:
		if !s.LoggedIn {
			return State{Current: Login}, nil
		}
		next := State{Current: HistoryFull, LoggedIn: true}
		return next, renderEffects(HistoryFull)

	case ActionGoChart:
		if !s.LoggedIn {
			return State{Current: Login}, nil
		}
		next := State{Current: ChartFull, LoggedIn: true}
		return next, renderEffects(ChartFull)

	case ActionBack:
		if !s.LoggedIn {
			return State{Current: Login}, nil
		}
		next := State{Current: Dashboard, LoggedIn: true}
		return next, renderEffects(Dashboard)

	case ActionGoSupport:
		// Reachable from any state, logged in or not.
		return State{Current: Support, LoggedIn: s.LoggedIn}, nil

	case ActionSignOut:
		return State{Current: Login}, []Effect{EffectClearSessionFlag, EffectClearPIN}

	case ActionExitSupport:
		return State{Current: Login}, []Effect{EffectClearSessionFlag, EffectClearPIN}

	case ActionMutated:
		return s, renderEffects(s.Current)

	default:
		return s, nil
	}
}
