package translate

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNoop(t *testing.T) {
	got := Noop{}.Translate(context.Background(), "selam", "en")
	if got != "selam" {
		t.Fatalf("got %q, want input unchanged", got)
	}
}

func TestTranslateMemoizes(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if got := r.URL.Query().Get("target"); got != "en" {
			t.Errorf("target=%q, want en", got)
		}
		w.Write([]byte(`{"data":{"translations":[{"translatedText":"hello"}]}}`))
	}))
	defer ts.Close()

	c := NewClient("test-key", time.Second, discardLogger())
	c.endpoint = ts.URL

	for i := 0; i < 3; i++ {
		if got := c.Translate(context.Background(), "selam", "en"); got != "hello" {
			t.Fatalf("got %q, want hello", got)
		}
	}
	if calls != 1 {
		t.Fatalf("api called %d times, want 1", calls)
	}
	if c.CacheSize() != 1 {
		t.Fatalf("CacheSize=%d, want 1", c.CacheSize())
	}
}

func TestTranslateFallsBackOnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer ts.Close()

	c := NewClient("test-key", time.Second, discardLogger())
	c.endpoint = ts.URL

	if got := c.Translate(context.Background(), "selam", "en"); got != "selam" {
		t.Fatalf("got %q, want original text on API failure", got)
	}
	// Failures are not memoized; the next call retries.
	if c.CacheSize() != 0 {
		t.Fatalf("CacheSize=%d, want 0", c.CacheSize())
	}
}

func TestTranslateFallsBackOnEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"translations":[]}}`))
	}))
	defer ts.Close()

	c := NewClient("test-key", time.Second, discardLogger())
	c.endpoint = ts.URL

	if got := c.Translate(context.Background(), "selam", "en"); got != "selam" {
		t.Fatalf("got %q, want original text", got)
	}
}
