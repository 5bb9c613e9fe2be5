// ABOUTME: Handler tests for the chat web UI
// ABOUTME: Verifies mount redirects, HTMX address headers, send flow, and dedupe

package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnav/rentnav/internal/nav"
	"github.com/rentnav/rentnav/internal/session"
	"github.com/rentnav/rentnav/internal/store"
)

// stubAnswer returns a fixed reply for every question.
type stubAnswer struct {
	reply string
}

func (s *stubAnswer) Ask(ctx context.Context, text string) (string, error) {
	return s.reply, nil
}

func newTestServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	mgr := session.New(store.NewMemoryStore(), &stubAnswer{reply: "Here are some options"}, nil)
	srv := New(mgr)
	t.Cleanup(srv.Close)
	return srv, mgr
}

func TestChatPage_EmptyStoreRedirectsToNewConversation(t *testing.T) {
	srv, mgr := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	loc := rr.Header().Get("Location")
	assert.Equal(t, "/chat?id="+url.QueryEscape(mgr.Active()), loc)
}

func TestChatPage_RendersResolvedConversation(t *testing.T) {
	srv, _ := newTestServer(t)

	// First mount resolves and redirects
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chat", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)

	// Following the redirect renders the shell without another redirect
	loc := rr.Header().Get("Location")
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, loc, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), session.PlaceholderTitle)
}

func TestChatPage_SeedPromptCreatesAnsweredConversation(t *testing.T) {
	srv, mgr := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/chat?prompt="+url.QueryEscape("Find pet-friendly flats"), nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	// The seed address must not survive in history: redirect to the new id
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/chat?id="+url.QueryEscape(mgr.Active()), rr.Header().Get("Location"))

	conv, ok := mgr.Get(mgr.Active())
	require.True(t, ok)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "Find pet-friendly flats", conv.Messages[0].Text)
	assert.Equal(t, "Here are some options", conv.Messages[1].Text)
}

func TestSend_RendersReplyAndSignalsSidebar(t *testing.T) {
	srv, mgr := newTestServer(t)
	mgr.Mount(context.Background(), nav.Params{}, nav.NewHistory("/chat"))
	id := mgr.Active()

	form := url.Values{"conversation_id": {id}, "text": {"Any flats in Midtown?"}}
	req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "rentnav:threads-changed", rr.Header().Get("HX-Trigger"))

	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), "Any flats in Midtown?")
	assert.Contains(t, string(body), "Here are some options")
}

func TestSend_DoubleSubmitIsDropped(t *testing.T) {
	srv, mgr := newTestServer(t)
	mgr.Mount(context.Background(), nav.Params{}, nav.NewHistory("/chat"))
	id := mgr.Active()

	send := func() {
		form := url.Values{"conversation_id": {id}, "text": {"same question"}}
		req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}
	send()
	send()

	conv, _ := mgr.Get(id)
	assert.Len(t, conv.Messages, 2, "second identical submission must not send again")
}

func TestSend_MissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/chat/send", strings.NewReader("text=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestThreadView_PushesAddress(t *testing.T) {
	srv, mgr := newTestServer(t)
	mgr.Mount(context.Background(), nav.Params{}, nav.NewHistory("/chat"))
	first := mgr.Active()
	mgr.StartNew(context.Background(), nil)

	req := httptest.NewRequest(http.MethodGet, "/chat/view/"+first, nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/chat?id="+url.QueryEscape(first), rr.Header().Get("HX-Push-Url"))
	assert.Equal(t, first, mgr.Active())

	// Unknown ids 404
	rr = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/chat/view/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNewChat_PushesAddress(t *testing.T) {
	srv, mgr := newTestServer(t)
	mgr.Mount(context.Background(), nav.Params{}, nav.NewHistory("/chat"))

	req := httptest.NewRequest(http.MethodPost, "/chat/new", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	id := mgr.Active()
	assert.Equal(t, "/chat?id="+url.QueryEscape(id), rr.Header().Get("HX-Push-Url"))
	assert.Equal(t, "rentnav:threads-changed", rr.Header().Get("HX-Trigger"))
}

func TestDelete_ActiveConversationReplacesAddress(t *testing.T) {
	srv, mgr := newTestServer(t)
	mgr.Mount(context.Background(), nav.Params{}, nav.NewHistory("/chat"))
	first := mgr.Active()
	second := mgr.StartNew(context.Background(), nil)

	req := httptest.NewRequest(http.MethodPost, "/chat/delete/"+second, nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, first, mgr.Active())
	assert.Equal(t, "/chat?id="+url.QueryEscape(first), rr.Header().Get("HX-Replace-Url"))
}

func TestRename_ReturnsSidebar(t *testing.T) {
	srv, mgr := newTestServer(t)
	mgr.Mount(context.Background(), nav.Params{}, nav.NewHistory("/chat"))
	id := mgr.Active()

	form := url.Values{"title": {"Budget flats"}}
	req := httptest.NewRequest(http.MethodPost, "/chat/rename/"+id, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), "Budget flats")

	conv, _ := mgr.Get(id)
	assert.Equal(t, "Budget flats", conv.Title)
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Equal(t, "ok\n", string(body))
}

func TestRenderMarkdown(t *testing.T) {
	html := string(renderMarkdown("**12 listings** found"))
	assert.Contains(t, html, "<strong>12 listings</strong>")
}
