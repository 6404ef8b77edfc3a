package web

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gamezone/internal/adapters/http/middleware"
	"gamezone/internal/adapters/http/perf"
	gameStore "gamezone/internal/adapters/storage/game"
	"gamezone/internal/config"
)

// Server owns the handler dependencies: the games store, the session
// store and the startup-derived credential hashes. Constructed once in
// main and injected into the mux.
type Server struct {
	games     gameStore.Store
	sessions  *middleware.SessionStore
	collector *perf.Collector

	adminHash    []byte // bcrypt of ADMIN_PASS
	passcodeHash []byte // bcrypt of USER_PASSCODE
}

// NewServer hashes the configured secrets and wires the dependencies.
// PRE: cfg carries non-empty AdminPass and UserPasscode
// POST: Returns a Server ready to register routes
func NewServer(cfg config.Config, games gameStore.Store, sessions *middleware.SessionStore, collector *perf.Collector) (*Server, error) {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	passcodeHash, err := bcrypt.GenerateFromPassword([]byte(cfg.UserPasscode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash user passcode: %w", err)
	}
	return &Server{
		games:        games,
		sessions:     sessions,
		collector:    collector,
		adminHash:    adminHash,
		passcodeHash: passcodeHash,
	}, nil
}

// Routes registers all handlers on a fresh mux.
// Admin routes sit behind the RequireAdmin guard.
func (s *Server) Routes(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/unlock-pass", s.handleUnlockPass)
	mux.HandleFunc("/admin/login", s.handleAdminLogin)
	mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	mux.Handle("/admin", middleware.RequireAdmin(http.HandlerFunc(s.handleAdminPanel)))
	mux.Handle("/admin/add", middleware.RequireAdmin(http.HandlerFunc(s.handleAdminAdd)))
	mux.Handle("/admin/delete", middleware.RequireAdmin(http.HandlerFunc(s.handleAdminDelete)))
	mux.Handle("/admin/perf", middleware.RequireAdmin(http.HandlerFunc(s.handleAdminPerf)))
	mux.HandleFunc("/ping", s.handlePing)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	return mux
}

// rateLimitInterval is the refill interval of the per-IP token bucket.
const rateLimitInterval = time.Second

// csrfKey derives the 32-byte CSRF auth key from the session secret.
func csrfKey(sessionSecret string) []byte {
	sum := sha256.Sum256([]byte(sessionSecret))
	return sum[:]
}

// NewMux builds the full handler with the middleware chain applied:
// SecurityHeaders -> CSRF -> Auth -> RateLimit -> Timing -> mux.
func NewMux(cfg config.Config, staticDir string, s *Server) http.Handler {
	limiter := middleware.NewRateLimiter(cfg.RateLimit, rateLimitInterval)
	// Chain wraps outward, so the last entry here is the outermost.
	return middleware.Chain(s.Routes(staticDir),
		middleware.Timing(s.collector),
		middleware.RateLimit(limiter),
		middleware.Auth(s.sessions),
		middleware.CSRF(csrfKey(cfg.SessionSecret)),
		middleware.SecurityHeaders,
	)
}
