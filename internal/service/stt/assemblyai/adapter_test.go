package assemblyai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"audio-notebook-service/internal/service/stt"
)

func newTestServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)

		if r.Header.Get("Authorization") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/upload":
			body, _ := io.ReadAll(r.Body)
			if len(body) == 0 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio-1"})

		case r.Method == http.MethodPost && r.URL.Path == "/v2/transcript":
			var req map[string]any
			json.NewDecoder(r.Body).Decode(&req)
			if req["audio_url"] != "https://cdn.example/audio-1" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if req["speaker_labels"] != true || req["language_code"] != "es" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "tr-1", "status": "queued"})

		case r.Method == http.MethodGet && r.URL.Path == "/v2/transcript/tr-1":
			json.NewEncoder(w).Encode(map[string]any{
				"id":             "tr-1",
				"status":         "completed",
				"text":           "hola mundo",
				"audio_duration": 59.0,
				"utterances": []map[string]string{
					{"speaker": "A", "text": "hola"},
					{"speaker": "B", "text": "mundo"},
				},
			})

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestNew_RequiresAPIKey(t *testing.T) {
	if _, err := New("", "", time.Second); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestSubmitAndPoll(t *testing.T) {
	srv, paths := newTestServer(t)

	a, err := New("test-key", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	ctx := context.Background()
	job, err := a.Submit(ctx, []byte("mp3-bytes"), stt.Config{SpeakerLabels: true, LanguageCode: "es"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.ID != "tr-1" {
		t.Fatalf("expected job id 'tr-1', got %s", job.ID)
	}

	tr, err := a.Poll(ctx, job.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if tr.Status != stt.StatusCompleted {
		t.Errorf("expected completed, got %s", tr.Status)
	}
	if tr.Text != "hola mundo" {
		t.Errorf("expected text 'hola mundo', got %q", tr.Text)
	}
	if tr.AudioDuration != 59 {
		t.Errorf("expected duration 59, got %v", tr.AudioDuration)
	}
	if len(tr.Utterances) != 2 || tr.Utterances[0].Speaker != "A" {
		t.Errorf("unexpected utterances: %+v", tr.Utterances)
	}

	want := []string{"POST /v2/upload", "POST /v2/transcript", "GET /v2/transcript/tr-1"}
	if len(*paths) != len(want) {
		t.Fatalf("expected %d requests, got %v", len(want), *paths)
	}
	for i, p := range want {
		if (*paths)[i] != p {
			t.Errorf("request %d: expected %s, got %s", i, p, (*paths)[i])
		}
	}
}

func TestSubmit_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	a, err := New("test-key", srv.URL, time.Second)
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}

	if _, err := a.Submit(context.Background(), []byte("x"), stt.Config{}); err == nil {
		t.Fatal("expected error from failing provider")
	}
}
