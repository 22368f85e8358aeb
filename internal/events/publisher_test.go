package events

import (
	"context"
	"testing"

	"audio-notebook-service/internal/models"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerCompleted != nil {
				t.Error("expected nil completed writer when disabled")
			}
			if p.writerFailed != nil {
				t.Error("expected nil failed writer when disabled")
			}
			if p.writerDeleted != nil {
				t.Error("expected nil deleted writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		Brokers:        []string{"localhost:9092"},
		TopicCompleted: "test.completed",
		TopicFailed:    "test.failed",
		TopicDeleted:   "test.deleted",
		Principal:      "test-principal",
	}

	p := New(cfg)

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicCompleted != "test.completed" {
		t.Errorf("expected topic completed 'test.completed', got %s", p.topicCompleted)
	}
	if p.topicFailed != "test.failed" {
		t.Errorf("expected topic failed 'test.failed', got %s", p.topicFailed)
	}
	if p.topicDeleted != "test.deleted" {
		t.Errorf("expected topic deleted 'test.deleted', got %s", p.topicDeleted)
	}
}

func TestPublisher_Publish_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})
	ctx := context.Background()

	if err := p.PublishCompleted(ctx, "k", map[string]string{"text": "done"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if err := p.PublishFailed(ctx, "k", map[string]string{"reason": "boom"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if err := p.PublishDeleted(ctx, "k", map[string]string{"id": "1"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_Publish_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Create an unmarshalable value (channel)
	event := make(chan int)
	if err := p.PublishCompleted(context.Background(), "test-key", event); err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	err := p.Close()
	if err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_NilPublisher(t *testing.T) {
	p := &Publisher{}

	err := p.Close()
	if err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}

func TestPublisher_PublishCompleted_ValidEvent(t *testing.T) {
	p := New(&Config{
		Enabled:        false,
		TopicCompleted: "test.completed",
		Principal:      "test-svc",
	})

	event := models.TranscriptionCompleted{
		EventType:       "notebook.transcription.completed",
		WorkspaceID:     "ws-1",
		Filename:        "reunion.mp3",
		NotebookID:      7,
		TranscriptionID: 12,
		AudioDuration:   "2:05",
		Timestamp:       1756700000,
	}

	err := p.PublishCompleted(context.Background(), "ws-1", event)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestPublisher_PublishDeleted_ValidEvent(t *testing.T) {
	p := New(&Config{
		Enabled:      false,
		TopicDeleted: "test.deleted",
		Principal:    "test-svc",
	})

	event := models.TranscriptionDeleted{
		EventType:       "notebook.transcription.deleted",
		WorkspaceID:     "ws-1",
		TranscriptionID: 12,
		NotebookID:      7,
		Timestamp:       1756700000,
	}

	err := p.PublishDeleted(context.Background(), "ws-1", event)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
