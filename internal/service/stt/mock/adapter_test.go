package mock

import (
	"context"
	"testing"

	"audio-notebook-service/internal/service/stt"
)

func TestDefaultScript(t *testing.T) {
	a := New()
	ctx := context.Background()

	job, err := a.Submit(ctx, []byte("audio"), stt.Config{SpeakerLabels: true, LanguageCode: "es"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected a job id")
	}

	want := []stt.Status{stt.StatusQueued, stt.StatusProcessing, stt.StatusCompleted}
	for i, expected := range want {
		tr, err := a.Poll(ctx, job.ID)
		if err != nil {
			t.Fatalf("poll %d: %v", i, err)
		}
		if tr.Status != expected {
			t.Errorf("poll %d: expected status %s, got %s", i, expected, tr.Status)
		}
	}

	// Script exhausted: further polls keep reporting the result.
	tr, err := a.Poll(ctx, job.ID)
	if err != nil {
		t.Fatalf("poll after completion: %v", err)
	}
	if tr.Status != stt.StatusCompleted {
		t.Errorf("expected completed to stick, got %s", tr.Status)
	}
	if len(tr.Utterances) != 2 {
		t.Errorf("expected 2 utterances, got %d", len(tr.Utterances))
	}
	if tr.AudioDuration != 125 {
		t.Errorf("expected duration 125s, got %v", tr.AudioDuration)
	}
}

func TestPollBeforeSubmit(t *testing.T) {
	a := New()
	if _, err := a.Poll(context.Background(), "nope"); err == nil {
		t.Fatal("expected error when polling before submit")
	}
}

func TestFailingScript(t *testing.T) {
	a := NewFailing("audio too short")
	ctx := context.Background()

	job, err := a.Submit(ctx, []byte("x"), stt.Config{})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	tr, err := a.Poll(ctx, job.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if tr.Status != stt.StatusQueued {
		t.Fatalf("expected queued first, got %s", tr.Status)
	}

	tr, err = a.Poll(ctx, job.ID)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if tr.Status != stt.StatusError {
		t.Fatalf("expected error status, got %s", tr.Status)
	}
	if tr.Error != "audio too short" {
		t.Errorf("expected error detail preserved, got %q", tr.Error)
	}
	if !tr.Status.Terminal() {
		t.Error("error status should be terminal")
	}
}
