// ABOUTME: Tests for the answer client
// ABOUTME: Verifies reply decoding and classification of the three failure kinds

package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Ask(t *testing.T) {
	var gotBody askRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{"reply": "Here are some options"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	reply, err := c.Ask(context.Background(), "Find pet-friendly flats")
	require.NoError(t, err)
	assert.Equal(t, "Here are some options", reply)
	assert.Equal(t, "Find pet-friendly flats", gotBody.Message)
}

func TestClient_Ask_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestClient_Ask_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "ACCESS_TOKEN not found"})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceError)
}

func TestClient_Ask_MalformedReply(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>nope</html>"},
		{"missing fields", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second)
			_, err := c.Ask(context.Background(), "hi")
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestClient_Ask_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the connection is refused

	c := New(srv.URL, time.Second)
	_, err := c.Ask(context.Background(), "hi")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadStatus)
	assert.NotErrorIs(t, err, ErrServiceError)
}
