package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/challengeme/client/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:         srv.URL,
		Token:           StaticToken("test-token"),
		RetryMaxElapsed: -1, // deterministic single attempts unless a test opts in
	})
}

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode([]models.Challenge{})
	})

	if _, err := c.ListChallenges(context.Background()); err != nil {
		t.Fatalf("ListChallenges() = %v, want nil", err)
	}

	if auth := got.Get("Authorization"); auth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer test-token")
	}
	if accept := got.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
	if got.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestPayloadRequestsSetContentType(t *testing.T) {
	var contentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		json.NewEncoder(w).Encode(models.Challenge{ID: "c1"})
	})

	_, err := c.CreateChallenge(context.Background(), models.ChallengeDraft{Title: "x"})
	if err != nil {
		t.Fatalf("CreateChallenge() = %v, want nil", err)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", contentType)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
	}

	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
		})

		err := c.DeleteChallenge(context.Background(), "c1")
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d mapped to %v, want %v", tt.status, err, tt.want)
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d error is %T, want *Error", tt.status, err)
		}
		if apiErr.Status != tt.status || apiErr.Message != "nope" {
			t.Errorf("error = {%d %q}, want {%d %q}", apiErr.Status, apiErr.Message, tt.status, "nope")
		}
	}
}

func TestErrorMessageFallsBackToMessageField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "already enrolled"})
	})

	err := c.DeleteChallenge(context.Background(), "c1")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "already enrolled" {
		t.Errorf("error = %v, want message %q surfaced", err, "already enrolled")
	}
}

func TestUnstructuredErrorBodyStaysOutOfMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html><body>Bad Gateway</body></html>"))
	})

	err := c.DeleteChallenge(context.Background(), "c1")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if apiErr.Message != "" {
		t.Errorf("Message = %q, want empty for an unstructured body", apiErr.Message)
	}
	if got, want := apiErr.Error(), "api: server returned 502"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestGetRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]models.Badge{{ID: "b1"}})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: StaticToken("t")})

	badges, err := c.ListBadges(context.Background())
	if err != nil {
		t.Fatalf("ListBadges() = %v, want success after retries", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(badges) != 1 || badges[0].ID != "b1" {
		t.Errorf("badges = %v, want the eventual response", badges)
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Token: StaticToken("t")})

	if _, err := c.ListBadges(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListBadges() = %v, want ErrNotFound", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (4xx is permanent)", attempts)
	}
}

func TestNoContentResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteParticipation(context.Background(), "p1"); err != nil {
		t.Errorf("DeleteParticipation() = %v, want nil", err)
	}
}
