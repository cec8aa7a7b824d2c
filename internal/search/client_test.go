package search_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edgard/nagbot/internal/config"
	"github.com/edgard/nagbot/internal/search"
)

func newTestClient(t *testing.T, payload string) *search.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("format = %q, want %q", got, "json")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)

	cfg := config.SearchConfig{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}
	return search.NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInstant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    string
		wantText   string
		wantSource string
	}{
		{
			name:     "direct answer wins",
			payload:  `{"Answer": "42", "AbstractText": "ignored"}`,
			wantText: "42",
		},
		{
			name:       "abstract fallback",
			payload:    `{"Heading": "Go", "AbstractText": "Go is a programming language.", "AbstractURL": "https://en.wikipedia.org/wiki/Go"}`,
			wantText:   "Go is a programming language.",
			wantSource: "https://en.wikipedia.org/wiki/Go",
		},
		{
			name:       "related topic fallback",
			payload:    `{"RelatedTopics": [{"Text": "Golang - an open source language", "FirstURL": "https://golang.org"}]}`,
			wantText:   "Golang - an open source language",
			wantSource: "https://golang.org",
		},
		{
			name:     "no results",
			payload:  `{}`,
			wantText: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, tc.payload)

			got, err := client.Instant(context.Background(), "test query")
			if err != nil {
				t.Fatalf("Instant() error = %v", err)
			}
			if got.Text != tc.wantText {
				t.Errorf("Instant().Text = %q, want %q", got.Text, tc.wantText)
			}
			if got.Source != tc.wantSource {
				t.Errorf("Instant().Source = %q, want %q", got.Source, tc.wantSource)
			}
		})
	}

	t.Run("empty query is rejected locally", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, `{}`)
		if _, err := client.Instant(context.Background(), "   "); err == nil {
			t.Fatal("Instant() with blank query returned nil error")
		}
	})
}
