// ABOUTME: Web UI for the rentnav chat surface - HTMX shell, sidebar, and chat view
// ABOUTME: Pure consumer of the session manager; handlers never mutate state directly

package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rentnav/rentnav/internal/dedupe"
	"github.com/rentnav/rentnav/internal/nav"
	"github.com/rentnav/rentnav/internal/session"
)

const (
	// dedupeTTL is the window within which an identical submission to the
	// same conversation is dropped as a double-submit.
	dedupeTTL = 5 * time.Second

	dedupeMaxSize = 1024
)

// Server serves the chat UI. It holds no conversation state of its own;
// everything rendered comes from the session manager.
type Server struct {
	session *session.Manager
	dedupe  *dedupe.Cache
	logger  *slog.Logger
}

// New creates the web server around a session manager.
func New(mgr *session.Manager) *Server {
	return &Server{
		session: mgr,
		dedupe:  dedupe.New(dedupeTTL, dedupeMaxSize),
		logger:  slog.Default().With("component", "web"),
	}
}

// Close releases the dedupe cache resources.
func (s *Server) Close() {
	s.dedupe.Close()
}

// Handler returns the route mux for the chat UI.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/chat", http.StatusFound)
	})
	mux.HandleFunc("GET /chat", s.handleChatPage)
	mux.HandleFunc("GET /chat/threads", s.handleThreadsList)
	mux.HandleFunc("GET /chat/view/{id}", s.handleThreadView)
	mux.HandleFunc("POST /chat/send", s.handleSend)
	mux.HandleFunc("POST /chat/new", s.handleNewChat)
	mux.HandleFunc("POST /chat/rename/{id}", s.handleRename)
	mux.HandleFunc("POST /chat/delete/{id}", s.handleDelete)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// handleChatPage is the full-page session mount. The address query
// parameters are the navigation binding's startup parameters, consumed
// exactly once here.
func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	params := nav.Params{
		SeedPrompt: r.URL.Query().Get(nav.ParamSeedPrompt),
		TargetID:   r.URL.Query().Get(nav.ParamTargetID),
	}

	rec := &recorder{}
	s.session.Mount(r.Context(), params, rec)

	// When resolution re-addressed the session, a redirect gives the
	// browser the replace semantics: the original (seed-prompt or bare)
	// address does not stay in history.
	if rec.replaced != "" && rec.replaced != params.TargetID {
		http.Redirect(w, r, chatURL(rec.replaced), http.StatusSeeOther)
		return
	}

	s.renderShell(w)
}

// handleThreadsList returns the sidebar conversation list (HTMX partial)
func (s *Server) handleThreadsList(w http.ResponseWriter, r *http.Request) {
	s.renderSidebar(w)
}

// handleThreadView activates a conversation from a sidebar click (HTMX).
// List-click activation is user-initiated navigation, so it pushes a
// history entry.
func (s *Server) handleThreadView(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.session.SetActive(id); err != nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}
	hxBinding{w}.Push(id)
	s.renderChatView(w, id)
}

// handleSend appends the user's message and answers it (HTMX).
// Double-submits within the dedupe window render the current view without
// sending again.
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	id := r.FormValue("conversation_id")
	text := r.FormValue("text")
	if id == "" || text == "" {
		http.Error(w, "conversation_id and text required", http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("%s:%s", id, text)
	if s.dedupe.CheckAndMark(key) {
		s.logger.Debug("duplicate submission ignored", "conversation_id", id)
	} else {
		s.session.Send(r.Context(), id, text)
	}

	w.Header().Set("HX-Trigger", "rentnav:threads-changed")
	s.renderChatView(w, id)
}

// handleNewChat starts a fresh conversation (HTMX)
func (s *Server) handleNewChat(w http.ResponseWriter, r *http.Request) {
	id := s.session.StartNew(r.Context(), hxBinding{w})
	w.Header().Set("HX-Trigger", "rentnav:threads-changed")
	s.renderChatView(w, id)
}

// handleRename replaces a conversation title (HTMX)
func (s *Server) handleRename(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	s.session.Rename(r.Context(), id, r.FormValue("title"))
	s.renderSidebar(w)
}

// handleDelete removes a conversation (HTMX). If the active conversation
// was deleted, the manager repoints and the binding rewrites the address.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.session.Delete(r.Context(), id, hxBinding{w})
	w.Header().Set("HX-Trigger", "rentnav:threads-changed")
	s.renderChatView(w, s.session.Active())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "ok")
}
