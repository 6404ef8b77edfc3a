package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// tokenContextKey carries the raw session token so handlers can write
// flag changes back to the store.
const tokenContextKey contextKey = "session_token"

// Session holds the per-browser flags.
type Session struct {
	IsAdmin      bool
	PassUnlocked bool
	CreatedAt    time.Time
	LastSeen     time.Time
}

// SessionTTL is the sliding idle expiry: any read refreshes the window.
// The original deployment never expired sessions; a sliding 24h window is
// the documented default here.
const SessionTTL = 24 * time.Hour

// SessionStore is an in-memory session store keyed by cookie token.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time // swappable for tests
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// SetClock replaces the store's clock. Intended for use in tests.
func (ss *SessionStore) SetClock(now func() time.Time) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.now = now
}

// Create stores a fresh, empty session and returns its token.
// POST: Session with both flags false is stored under a new random token
func (ss *SessionStore) Create() string {
	token := uuid.NewString()
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	ss.sessions[token] = Session{CreatedAt: now, LastSeen: now}
	return token
}

// Get retrieves a session by token, refreshing its sliding expiry.
// POST: Returns the session if present and not idle past SessionTTL;
// expired sessions are dropped
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	now := ss.now()
	if now.Sub(session.LastSeen) > SessionTTL {
		delete(ss.sessions, token)
		return Session{}, false
	}
	session.LastSeen = now
	ss.sessions[token] = session
	return session, true
}

// Update replaces the session for a given token in-place.
// POST: Returns false if the token is unknown
func (ss *SessionStore) Update(token string, session Session) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sessions[token]; !ok {
		return false
	}
	session.LastSeen = ss.now()
	ss.sessions[token] = session
	return true
}

// Delete removes a session by token. Used by logout.
// POST: The next request carrying this token starts a fresh, empty bag
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

const sessionCookieName = "gamezone_session"

// SecureCookies controls the Secure attribute on session cookies.
// Set true when serving over HTTPS.
var SecureCookies = false

// Auth returns middleware that resolves the session cookie into the request
// context. It does NOT block anonymous requests — use RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					ctx = context.WithValue(ctx, tokenContextKey, cookie.Value)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that blocks non-admin requests with a
// redirect to the login page. The wrapped handler never runs for them.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		if !ok || !session.IsAdmin {
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// GetTokenFromContext extracts the session token from the request context.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// ContextWithSession returns a context carrying the given session and token.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session, token string) context.Context {
	ctx = context.WithValue(ctx, sessionContextKey, sess)
	return context.WithValue(ctx, tokenContextKey, token)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
