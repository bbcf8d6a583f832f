package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"banquito/internal/cache"
	"banquito/internal/chart"
	"banquito/internal/ledger"
	"banquito/internal/log"
	"banquito/internal/view"
	appweb "banquito/web"
)

// Server wires the ledger service and the view state machine to HTTP
// routes. Every page is server-rendered from embedded templates; the
// summary chart is served as a PNG rendered on demand and cached until
// the next ledger mutation.
type Server struct {
	http.Server
	templates  *template.Template
	ledger     *ledger.Service
	controller view.Controller
	charts     *chart.Renderer

	rateLimiter *rateLimiter

	// One entry per totals triple; purged whenever the ledger changes.
	chartCache *cache.LRU[[]byte]

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. acceptedPIN is the only credential the login form accepts.
func NewServer(addr string, svc *ledger.Service, acceptedPIN string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      svc,
		controller:  view.Controller{AcceptedPIN: acceptedPIN},
		charts:      chart.NewRenderer(),
		rateLimiter: newRateLimiter(),
		chartCache:  cache.NewLRU[[]byte](8, 10*time.Minute),
	}

	// Any mutation invalidates every cached chart rendering.
	svc.SetOnChange(s.chartCache.Purge)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	// Pages
	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/history", s.withSecurityHeaders(s.handleHistory))
	mux.HandleFunc("/chart", s.withSecurityHeaders(s.handleChart))
	mux.HandleFunc("/support", s.withSecurityHeaders(s.handleSupport))

	// Session
	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))
	mux.HandleFunc("/support/exit", s.withSecurityHeaders(s.handleSupportExit))

	// Ledger operations
	mux.HandleFunc("/deposit", s.withSecurityHeaders(s.handleDeposit))
	mux.HandleFunc("/withdraw", s.withSecurityHeaders(s.handleWithdraw))
	mux.HandleFunc("/pay", s.withSecurityHeaders(s.handlePayService))
	mux.HandleFunc("/inquiry", s.withSecurityHeaders(s.handleInquiry))
	mux.HandleFunc("/history/clear", s.withSecurityHeaders(s.handleHistoryClear))

	// Exports
	mux.HandleFunc("/chart.png", s.withSecurityHeaders(s.handleChartPNG))
	mux.HandleFunc("/statement.pdf", s.withSecurityHeaders(s.handleStatementPDF))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientAddr(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit every POST; login attempts get the tighter budget.
		if r.Method == http.MethodPost {
			login := r.URL.Path == "/login"
			if !s.rateLimiter.allow(clientIP, login) {
				slog.WarnContext(ctx, "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
