// ABOUTME: Template rendering for the chat UI
// ABOUTME: Loads embedded templates and converts assistant markdown to HTML

package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/rentnav/rentnav/internal/store"
)

// shellData holds data for the main chat shell page
type shellData struct {
	Title   string
	Sidebar sidebarData
	Active  *chatViewData
}

// sidebarData holds data for the conversation list sidebar
type sidebarData struct {
	Conversations []conversationItem
}

// conversationItem represents a single conversation in the sidebar
type conversationItem struct {
	ID       string
	Title    string
	Active   bool
	Messages int
}

// chatViewData holds data for the chat view partial
type chatViewData struct {
	ID       string
	Title    string
	Messages []messageView
}

// messageView is a single rendered message bubble
type messageView struct {
	IsUser bool
	Text   string        // user messages, escaped by the template
	HTML   template.HTML // assistant messages, rendered from markdown
}

// renderShell renders the full chat page
func (s *Server) renderShell(w http.ResponseWriter) {
	data := shellData{
		Title:   "RentNav",
		Sidebar: s.sidebarData(),
	}
	if active := s.session.Active(); active != "" {
		if view := s.chatViewData(active); view != nil {
			data.Active = view
		}
	}

	tmpl := template.Must(template.ParseFS(templateFS,
		"templates/base.html",
		"templates/partials/sidebar.html",
		"templates/partials/chat_view.html",
	))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		s.logger.Error("failed to render chat shell", "error", err)
	}
}

// renderSidebar renders the conversation list partial
func (s *Server) renderSidebar(w http.ResponseWriter) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/partials/sidebar.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "sidebar", s.sidebarData()); err != nil {
		s.logger.Error("failed to render sidebar", "error", err)
	}
}

// renderChatView renders the active-thread partial
func (s *Server) renderChatView(w http.ResponseWriter, id string) {
	view := s.chatViewData(id)
	if view == nil {
		http.Error(w, "Conversation not found", http.StatusNotFound)
		return
	}

	tmpl := template.Must(template.ParseFS(templateFS, "templates/partials/chat_view.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "chat_view", view); err != nil {
		s.logger.Error("failed to render chat view", "error", err)
	}
}

// sidebarData builds the conversation list from the session manager
func (s *Server) sidebarData() sidebarData {
	active := s.session.Active()
	var items []conversationItem
	for _, c := range s.session.List() {
		items = append(items, conversationItem{
			ID:       c.ID,
			Title:    c.Title,
			Active:   c.ID == active,
			Messages: len(c.Messages),
		})
	}
	return sidebarData{Conversations: items}
}

// chatViewData builds the active-thread view, or nil for unknown ids
func (s *Server) chatViewData(id string) *chatViewData {
	conv, ok := s.session.Get(id)
	if !ok {
		return nil
	}

	view := &chatViewData{ID: conv.ID, Title: conv.Title}
	for _, msg := range conv.Messages {
		if msg.Role == store.RoleUser {
			view.Messages = append(view.Messages, messageView{IsUser: true, Text: msg.Text})
			continue
		}
		view.Messages = append(view.Messages, messageView{HTML: renderMarkdown(msg.Text)})
	}
	return view
}

// renderMarkdown converts assistant markdown to HTML. On conversion
// failure the raw text is shown escaped instead.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}
