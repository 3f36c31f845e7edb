package suggest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"listily/internal/model"
)

func newFakeAPI(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
}

func newTestClient(url string) *Client {
	return New(Config{APIKey: "test-key", BaseURL: url + "/v1"}, zerolog.Nop())
}

func TestTasksParsesLines(t *testing.T) {
	srv := newFakeAPI(t, "1. Water the plants\n- Call the dentist\n\nFile taxes", http.StatusOK)
	defer srv.Close()

	got := newTestClient(srv.URL).Tasks(context.Background(), "Home", []model.Task{
		{Text: "buy milk"},
	})
	want := []string{"Water the plants", "Call the dentist", "File taxes"}
	if len(got) != len(want) {
		t.Fatalf("got %d suggestions, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("suggestion %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTasksCapsAtFive(t *testing.T) {
	srv := newFakeAPI(t, "a\nb\nc\nd\ne\nf\ng", http.StatusOK)
	defer srv.Close()

	got := newTestClient(srv.URL).Tasks(context.Background(), "Home", nil)
	if len(got) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(got))
	}
}

func TestTasksFailureYieldsEmpty(t *testing.T) {
	srv := newFakeAPI(t, "", http.StatusInternalServerError)
	defer srv.Close()

	if got := newTestClient(srv.URL).Tasks(context.Background(), "Home", nil); len(got) != 0 {
		t.Fatalf("expected no suggestions on API failure, got %v", got)
	}
}

func TestBuildPromptListsTasks(t *testing.T) {
	p := buildPrompt("Errands", []model.Task{
		{Text: "buy milk"},
		{Text: "post parcel", Completed: true},
	})
	for _, want := range []string{"Errands", "- buy milk", "- post parcel (done)"} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}
