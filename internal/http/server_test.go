package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banquito/internal/ledger"
	"banquito/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := ledger.NewService(context.Background(), memory.New(), nil)
	srv := NewServer(":0", svc, "1234")
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func get(srv *Server, path string, loggedIn bool) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if loggedIn {
		req.AddCookie(&http.Cookie{Name: "logged", Value: "1"})
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func post(srv *Server, path, form string, loggedIn bool) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if loggedIn {
		req.AddCookie(&http.Cookie{Name: "logged", Value: "1"})
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := get(srv, path, false); rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestIndexLoggedOutShowsLogin(t *testing.T) {
	srv := newTestServer(t)
	rr := get(srv, "/", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("index status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Enter your PIN") {
		t.Fatal("login page missing PIN prompt")
	}
	if strings.Contains(rr.Body.String(), "Ash Ketchum") {
		t.Fatal("identity must not leak before login")
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	// Wrong PIN redirects back with an error and no cookie.
	rr := post(srv, "/login", "pin=0000", false)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("wrong pin status = %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=bad_pin") {
		t.Fatalf("wrong pin location = %q", loc)
	}
	if len(rr.Result().Cookies()) != 0 {
		t.Fatal("wrong pin must not set a cookie")
	}

	// Correct PIN sets the session flag and lands on the dashboard.
	rr = post(srv, "/login", "pin=1234", false)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("login status = %d, location = %q", rr.Code, rr.Header().Get("Location"))
	}
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == "logged" && c.Value == "1" {
			found = true
		}
	}
	if !found {
		t.Fatal("session cookie not set on successful login")
	}
}

func TestDashboardShowsIdentityAndBalance(t *testing.T) {
	srv := newTestServer(t)
	rr := get(srv, "/", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Ash Ketchum") || !strings.Contains(body, "001-234-567") {
		t.Fatal("dashboard missing identity")
	}
	if !strings.Contains(body, "$0.00") {
		t.Fatal("dashboard missing starting balance")
	}
	if !strings.Contains(body, "No transactions yet.") {
		t.Fatal("dashboard missing empty history placeholder")
	}
}

func TestPagesRequireLogin(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/history", "/chart", "/chart.png", "/statement.pdf"} {
		rr := get(srv, path, false)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
			t.Fatalf("%s: status = %d, location = %q", path, rr.Code, rr.Header().Get("Location"))
		}
	}
}

func TestSupportReachableLoggedOut(t *testing.T) {
	srv := newTestServer(t)
	rr := get(srv, "/support", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("support status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Exit support") {
		t.Fatal("support page missing exit button")
	}
}

func TestDepositFlow(t *testing.T) {
	srv := newTestServer(t)

	rr := post(srv, "/deposit", "amount=100.00&from=dashboard", true)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("deposit status = %d, location = %q", rr.Code, rr.Header().Get("Location"))
	}

	body := get(srv, "/", true).Body.String()
	if !strings.Contains(body, "$100.00") {
		t.Fatal("balance not updated after deposit")
	}
	if !strings.Contains(body, "Deposit") {
		t.Fatal("history missing deposit entry")
	}
}

func TestDepositRejectsGarbage(t *testing.T) {
	srv := newTestServer(t)
	for _, amount := range []string{"", "abc", "0", "-5", "1,2,3"} {
		rr := post(srv, "/deposit", "amount="+amount, true)
		if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=invalid_amount") {
			t.Fatalf("amount %q: location = %q", amount, loc)
		}
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	srv := newTestServer(t)
	rr := post(srv, "/withdraw", "amount=50.00", true)
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=insufficient_funds") {
		t.Fatalf("location = %q", loc)
	}
}

func TestPayServiceNeedsService(t *testing.T) {
	srv := newTestServer(t)
	post(srv, "/deposit", "amount=100.00", true)

	rr := post(srv, "/pay", "service=&amount=10.00", true)
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=empty_service") {
		t.Fatalf("location = %q", loc)
	}

	rr = post(srv, "/pay", "service=Electricity&amount=10.00&from=history", true)
	if rr.Header().Get("Location") != "/history" {
		t.Fatalf("pay redirect = %q", rr.Header().Get("Location"))
	}
}

func TestHistoryClear(t *testing.T) {
	srv := newTestServer(t)

	// Nothing to clear yet.
	rr := post(srv, "/history/clear", "confirm=yes&from=history", true)
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=empty_history") {
		t.Fatalf("empty clear location = %q", loc)
	}

	post(srv, "/deposit", "amount=25.00", true)

	// Missing confirmation keeps the history.
	rr = post(srv, "/history/clear", "from=history", true)
	if loc := rr.Header().Get("Location"); !strings.Contains(loc, "error=not_confirmed") {
		t.Fatalf("unconfirmed clear location = %q", loc)
	}

	rr = post(srv, "/history/clear", "confirm=yes&from=history", true)
	if rr.Header().Get("Location") != "/history" {
		t.Fatalf("clear location = %q", rr.Header().Get("Location"))
	}

	body := get(srv, "/", true).Body.String()
	if !strings.Contains(body, "No transactions yet.") {
		t.Fatal("history not cleared")
	}
	if !strings.Contains(body, "$25.00") {
		t.Fatal("balance must survive a history clear")
	}
}

func TestChartPNG(t *testing.T) {
	srv := newTestServer(t)
	rr := get(srv, "/chart.png", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("chart status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("chart content type = %q", ct)
	}
	body := rr.Body.Bytes()
	if len(body) < 8 || string(body[1:4]) != "PNG" {
		t.Fatal("response is not a PNG")
	}

	// Second request hits the cache and serves identical bytes.
	again := get(srv, "/chart.png", true).Body.Bytes()
	if len(again) != len(body) {
		t.Fatalf("cached render differs: %d vs %d bytes", len(again), len(body))
	}
}

func TestStatementPDF(t *testing.T) {
	srv := newTestServer(t)
	post(srv, "/deposit", "amount=100.00", true)

	rr := get(srv, "/statement.pdf", true)
	if rr.Code != http.StatusOK {
		t.Fatalf("statement status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "transactions.pdf") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Fatal("response is not a PDF")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newTestServer(t)
	rr := post(srv, "/logout", "", true)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/" {
		t.Fatalf("logout status = %d, location = %q", rr.Code, rr.Header().Get("Location"))
	}
	var cleared bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == "logged" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("logout must expire the session cookie")
	}
}

func TestLoginRateLimit(t *testing.T) {
	srv := newTestServer(t)
	var last *httptest.ResponseRecorder
	for i := 0; i < loginLimit+1; i++ {
		last = post(srv, "/login", "pin=0000", false)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status after %d attempts = %d", loginLimit+1, last.Code)
	}
}

func TestMethodGuards(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/login", "/logout", "/deposit", "/withdraw", "/pay", "/inquiry", "/history/clear", "/support/exit"} {
		rr := get(srv, path, true)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Fatalf("GET %s: status = %d", path, rr.Code)
		}
	}
}
