package web

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/crypto/bcrypt"

	"gamezone/internal/adapters/http/middleware"
	domain "gamezone/internal/domain/game"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

//go:embed templates/*.html
var templatesFS embed.FS

// renderTemplate renders a page template inside the layout.
func (s *Server) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"csrfToken": func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2 Jan 2006 15:04")
		},
		"printfMs": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).
		ParseFS(templatesFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
	}
}

// listGamesFailSoft reads the listing, substituting an empty slice for a
// storage error so the page still renders.
func (s *Server) listGamesFailSoft(r *http.Request) []domain.Game {
	games, err := s.games.List(r.Context())
	if err != nil {
		slog.Error("list_games_failed", "error", err.Error())
		return nil
	}
	return games
}

// mutateSession applies fn to the request's session bag, creating the
// session (and issuing the cookie) if the browser has none yet.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, fn func(*middleware.Session)) {
	token, haveToken := middleware.GetTokenFromContext(r.Context())
	session, haveSession := middleware.GetSessionFromContext(r.Context())
	if !haveToken || !haveSession {
		token = s.sessions.Create()
		session, _ = s.sessions.Get(token)
		middleware.SetSessionCookie(w, token)
	}
	fn(&session)
	s.sessions.Update(token, session)
}

// matchesSecret reports whether the trimmed submission matches the hash.
// Comparison is exact: trim-sensitive on the input, case-sensitive throughout.
func matchesSecret(hash []byte, submitted string) bool {
	trimmed := strings.TrimSpace(submitted)
	return bcrypt.CompareHashAndPassword(hash, []byte(trimmed)) == nil
}

// handleIndex handles GET / — the public listing.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// "/" is the mux catch-all; anything else is a 404.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, _ := middleware.GetSessionFromContext(r.Context())
	s.renderTemplate(w, r, "index.html", map[string]any{
		"Games":        s.listGamesFailSoft(r),
		"PassUnlocked": session.PassUnlocked,
	})
}

// handleUnlockPass handles POST /unlock-pass.
// A correct passcode sets PassUnlocked; a wrong one explicitly clears it.
func (s *Server) handleUnlockPass(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	unlocked := matchesSecret(s.passcodeHash, r.FormValue("passcode"))
	s.mutateSession(w, r, func(sess *middleware.Session) {
		sess.PassUnlocked = unlocked
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAdminLogin handles GET (form) and POST (check) for /admin/login.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		// Already logged in admins go straight to the panel.
		if session, ok := middleware.GetSessionFromContext(r.Context()); ok && session.IsAdmin {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		s.renderTemplate(w, r, "login.html", map[string]any{
			"Error": "",
		})
		return
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}

		if !matchesSecret(s.adminHash, r.FormValue("password")) {
			s.renderTemplate(w, r, "login.html", map[string]any{
				"Error": "Invalid password",
			})
			return
		}

		s.mutateSession(w, r, func(sess *middleware.Session) {
			sess.IsAdmin = true
		})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	w.WriteHeader(http.StatusMethodNotAllowed)
}

// handleAdminLogout handles GET /admin/logout.
// The whole session is destroyed, clearing IsAdmin and PassUnlocked alike.
func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if token, ok := middleware.GetTokenFromContext(r.Context()); ok {
		s.sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAdminPanel handles GET /admin (behind RequireAdmin).
func (s *Server) handleAdminPanel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	games := s.listGamesFailSoft(r)
	s.renderTemplate(w, r, "admin.html", map[string]any{
		"Games":   games,
		"Count":   len(games),
		"Message": "",
	})
}

// handleAdminAdd handles POST /admin/add (behind RequireAdmin).
// Keeps the historical quirk of re-rendering the panel with an empty
// listing when validation or the insert fails.
func (s *Server) handleAdminAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	g := domain.Game{
		Name:        r.FormValue("name"),
		Size:        r.FormValue("size"),
		URL:         r.FormValue("url"),
		Description: r.FormValue("description"),
	}
	g.Normalize()
	if err := g.Validate(); err != nil {
		s.renderTemplate(w, r, "admin.html", map[string]any{
			"Games":   []domain.Game(nil),
			"Count":   0,
			"Message": "Name and Download Link are required.",
		})
		return
	}

	if _, err := s.games.Insert(r.Context(), g); err != nil {
		slog.Error("insert_game_failed", "error", err.Error())
		s.renderTemplate(w, r, "admin.html", map[string]any{
			"Games":   []domain.Game(nil),
			"Count":   0,
			"Message": "Error saving game.",
		})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminDelete handles POST /admin/delete (behind RequireAdmin).
// A zero or unparseable id redirects without deleting anything.
func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("id")), 10, 64)
	if err != nil || id == 0 {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if err := s.games.Delete(r.Context(), id); err != nil {
		slog.Error("delete_game_failed", "game_id", id, "error", err.Error())
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// handleAdminPerf handles GET /admin/perf (behind RequireAdmin): the
// request/query timing dashboard for the last hour.
func (s *Server) handleAdminPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.collector == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	snap := s.collector.Snapshot(time.Now().Add(-time.Hour), 10)
	s.renderTemplate(w, r, "perf.html", map[string]any{
		"Snapshot": snap,
	})
}

// handlePing handles GET /ping — the liveness check.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
