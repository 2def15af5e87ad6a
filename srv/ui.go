// Package srv is the HTTP surface of bookforge: it accepts generation
// requests, streams progress over websockets, serves the paginated book
// view, and produces export downloads.
package srv

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/opd-ai/bookforge/srv/generator"
	bookforge "github.com/opd-ai/bookforge/src"
	"github.com/opd-ai/bookforge/store"
)

// BookUI owns the router and per-session generation state.
type BookUI struct {
	router     chi.Router
	config     bookforge.Config
	store      *store.Store
	sessions   map[string]*generator.GenerationProgress
	sessionsM  sync.RWMutex
	msgHistory map[string]*MessageHistory
	exporting  map[string]bool
	cache      *cache.Cache
}

// NewBookUI wires the routes and starts the background session cleanup.
func NewBookUI(cfg bookforge.Config, st *store.Store) *BookUI {
	ui := &BookUI{
		router:     chi.NewRouter(),
		config:     cfg,
		store:      st,
		sessions:   make(map[string]*generator.GenerationProgress),
		msgHistory: make(map[string]*MessageHistory),
		exporting:  make(map[string]bool),
		cache:      cache.New(24*time.Hour, time.Hour),
	}
	generator.SetMessageEmitter(ui.emitMessage)
	ui.setupRoutes()
	ui.startCleanup()
	return ui
}

func (ui *BookUI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ui.router.ServeHTTP(w, r)
}

func (ui *BookUI) setupRoutes() {
	ui.router.Use(middleware.Logger)
	ui.router.Use(middleware.Recoverer)
	ui.router.Use(corsMiddleware)
	if ui.config.RateLimit > 0 {
		ui.router.Use(httprate.LimitByIP(ui.config.RateLimit, time.Minute))
	}

	// Ensure session cookie exists
	ui.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_id")
			if err != nil || cookie.Value == "" {
				http.SetCookie(w, &http.Cookie{
					Name:     "session_id",
					Value:    uuid.New().String(),
					Path:     "/",
					MaxAge:   86400,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r)
		})
	})

	ui.router.Get("/health", ui.handleHealth)
	ui.router.Post("/generate", ui.handleGenerate)
	ui.router.Get("/ws/{sessionID}", ui.handleWebSocket)
	ui.router.Get("/book/{sessionID}/pages", ui.handlePages)
	ui.router.Get("/book/{sessionID}/export/{format}", ui.handleExport)
	ui.router.Get("/history", ui.handleHistory)
	ui.router.Delete("/history", ui.handleClearHistory)
}

func (ui *BookUI) startCleanup() {
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			ui.cleanupOldSessions()
		}
	}()
}

// cleanupOldSessions drops sessions whose last progress message is stale.
// Liveness is checked outside sessionsM: progress updates take the session
// lock first and sessionsM second, so holding them in the opposite order
// here would invert the lock order.
func (ui *BookUI) cleanupOldSessions() {
	type candidate struct {
		sessionID string
		progress  *generator.GenerationProgress
	}

	ui.sessionsM.RLock()
	var stale []candidate
	for sessionID, history := range ui.msgHistory {
		if last, ok := history.Last(); ok && time.Since(last.Timestamp) > time.Hour {
			stale = append(stale, candidate{sessionID, ui.sessions[sessionID]})
		}
	}
	ui.sessionsM.RUnlock()

	for _, c := range stale {
		if c.progress != nil && c.progress.IsStillActive() {
			continue
		}
		ui.sessionsM.Lock()
		delete(ui.msgHistory, c.sessionID)
		delete(ui.sessions, c.sessionID)
		ui.sessionsM.Unlock()
		log.Debug().Str("session", c.sessionID).Msg("cleaned up stale session")
	}
}

func (ui *BookUI) emitMessage(sessionID string, msg generator.WSMessage) error {
	ui.sessionsM.Lock()
	history, ok := ui.msgHistory[sessionID]
	if !ok {
		history = &MessageHistory{}
		ui.msgHistory[sessionID] = history
	}
	ui.sessionsM.Unlock()
	history.AddMessage(msg)
	return nil
}

func (ui *BookUI) session(sessionID string) (*generator.GenerationProgress, bool) {
	ui.sessionsM.RLock()
	defer ui.sessionsM.RUnlock()
	p, ok := ui.sessions[sessionID]
	return p, ok
}
