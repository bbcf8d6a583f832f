package view

import (
	"reflect"
	"testing"
)

var ctrl = Controller{AcceptedPIN: "1234"}

func hasEffect(effects []Effect, e Effect) bool {
	for _, got := range effects {
		if got == e {
			return true
		}
	}
	return false
}

func TestInitial(t *testing.T) {
	if s := Initial(true); s.Current != Dashboard || !s.LoggedIn {
		t.Fatalf("Initial(true) = %+v", s)
	}
	if s := Initial(false); s.Current != Login || s.LoggedIn {
		t.Fatalf("Initial(false) = %+v", s)
	}
}

func TestLoginWrongPINStaysAtLogin(t *testing.T) {
	for _, pin := range []string{"0000", "123", "12345", "abcd", ""} {
		s, effects := ctrl.Dispatch(Initial(false), Action{Type: ActionSubmitPIN, PIN: pin})
		if s.Current != Login || s.LoggedIn {
			t.Fatalf("PIN %q: state = %+v", pin, s)
		}
		if !reflect.DeepEqual(effects, []Effect{EffectShowLoginError}) {
			t.Fatalf("PIN %q: effects = %v", pin, effects)
		}
	}
}

func TestLoginCorrectPINLandsOnDashboard(t *testing.T) {
	s, effects := ctrl.Dispatch(Initial(false), Action{Type: ActionSubmitPIN, PIN: "1234"})
	if s.Current != Dashboard || !s.LoggedIn {
		t.Fatalf("state = %+v", s)
	}
	if !hasEffect(effects, EffectSetSessionFlag) {
		t.Fatalf("missing set-session effect: %v", effects)
	}
	for _, e := range []Effect{EffectRenderIdentity, EffectRenderBalance, EffectRenderHistory, EffectRenderChart} {
		if !hasEffect(effects, e) {
			t.Fatalf("landing on dashboard must emit %s, got %v", e, effects)
		}
	}
}

func TestNavigationTransitions(t *testing.T) {
	logged := State{Current: Dashboard, LoggedIn: true}

	cases := []struct {
		name       string
		from       State
		action     ActionType
		wantView   View
		wantRender Effect
	}{
		{"dashboard to history", logged, ActionGoHistory, HistoryFull, EffectRenderHistory},
		{"dashboard to chart", logged, ActionGoChart, ChartFull, EffectRenderChart},
		{"history back to dashboard", State{Current: HistoryFull, LoggedIn: true}, ActionBack, Dashboard, EffectRenderBalance},
		{"chart back to dashboard", State{Current: ChartFull, LoggedIn: true}, ActionBack, Dashboard, EffectRenderChart},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, effects := ctrl.Dispatch(tc.from, Action{Type: tc.action})
			if s.Current != tc.wantView || !s.LoggedIn {
				t.Fatalf("state = %+v", s)
			}
			if !hasEffect(effects, tc.wantRender) {
				t.Fatalf("missing %s in %v", tc.wantRender, effects)
			}
		})
	}
}

func TestNavigationRequiresLogin(t *testing.T) {
	for _, a := range []ActionType{ActionGoHistory, ActionGoChart, ActionBack} {
		s, effects := ctrl.Dispatch(Initial(false), Action{Type: a})
		if s.Current != Login || len(effects) != 0 {
			t.Fatalf("%s while logged out: state=%+v effects=%v", a, s, effects)
		}
	}
}

func TestSignOutClearsSession(t *testing.T) {
	s, effects := ctrl.Dispatch(State{Current: Dashboard, LoggedIn: true}, Action{Type: ActionSignOut})
	if s.Current != Login || s.LoggedIn {
		t.Fatalf("state = %+v", s)
	}
	if !hasEffect(effects, EffectClearSessionFlag) || !hasEffect(effects, EffectClearPIN) {
		t.Fatalf("effects = %v", effects)
	}
}

func TestSupportReachableFromAnywhere(t *testing.T) {
	for _, from := range []State{
		Initial(false),
		{Current: Dashboard, LoggedIn: true},
		{Current: HistoryFull, LoggedIn: true},
		{Current: ChartFull, LoggedIn: true},
	} {
		s, _ := ctrl.Dispatch(from, Action{Type: ActionGoSupport})
		if s.Current != Support {
			t.Fatalf("from %+v: state = %+v", from, s)
		}
	}
}

func TestExitSupportLandsOnLoginAndClearsFlag(t *testing.T) {
	s, effects := ctrl.Dispatch(State{Current: Support, LoggedIn: true}, Action{Type: ActionExitSupport})
	if s.Current != Login || s.LoggedIn {
		t.Fatalf("state = %+v", s)
	}
	if !hasEffect(effects, EffectClearSessionFlag) {
		t.Fatalf("effects = %v", effects)
	}
}

func TestMutatedRefreshesCurrentView(t *testing.T) {
	cases := []struct {
		state State
		want  []Effect
	}{
		{State{Current: Dashboard, LoggedIn: true}, []Effect{EffectRenderIdentity, EffectRenderBalance, EffectRenderHistory, EffectRenderChart}},
		{State{Current: HistoryFull, LoggedIn: true}, []Effect{EffectRenderHistory}},
		{State{Current: ChartFull, LoggedIn: true}, []Effect{EffectRenderChart}},
		{State{Current: Login}, nil},
		{State{Current: Support, LoggedIn: true}, nil},
	}
	for _, tc := range cases {
		s, effects := ctrl.Dispatch(tc.state, Action{Type: ActionMutated})
		if s != tc.state {
			t.Fatalf("mutated changed state: %+v -> %+v", tc.state, s)
		}
		if !reflect.DeepEqual(effects, tc.want) {
			t.Fatalf("state %s: effects = %v, want %v", tc.state.Current, effects, tc.want)
		}
	}
}

func TestSubmitPINWhileLoggedInIsNoop(t *testing.T) {
	from := State{Current: Dashboard, LoggedIn: true}
	s, effects := ctrl.Dispatch(from, Action{Type: ActionSubmitPIN, PIN: "1234"})
	if s != from || len(effects) != 0 {
		t.Fatalf("state=%+v effects=%v", s, effects)
	}
}
