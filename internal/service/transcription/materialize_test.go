package transcription

import (
	"strings"
	"testing"
	"time"

	"audio-notebook-service/internal/service/stt"
)

func TestDisplayText_WithUtterances(t *testing.T) {
	tr := &stt.Transcript{
		Text: "texto plano",
		Utterances: []stt.Utterance{
			{Speaker: "A", Text: "Buenos días."},
			{Speaker: "B", Text: "Hola."},
		},
	}

	got := displayText(tr)
	if !strings.HasPrefix(got, "## Transcripción con Identificación de Hablantes\n\n") {
		t.Errorf("missing speaker heading: %q", got)
	}
	if !strings.Contains(got, "**Hablante A:** Buenos días.") {
		t.Errorf("missing speaker A line: %q", got)
	}
	if !strings.Contains(got, "**Hablante A:** Buenos días.\n\n**Hablante B:** Hola.") {
		t.Errorf("utterances not joined by blank lines: %q", got)
	}
}

func TestDisplayText_PlainText(t *testing.T) {
	tr := &stt.Transcript{Text: "solo texto"}
	if got := displayText(tr); got != "solo texto" {
		t.Errorf("expected plain text passthrough, got %q", got)
	}
}

func TestDisplayText_Empty(t *testing.T) {
	if got := displayText(&stt.Transcript{}); got != "" {
		t.Errorf("expected empty display text, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{125, "2:05"},
		{59, "0:59"},
		{0, "0:00"},
		{60, "1:00"},
		{600, "10:00"},
		{3725, "62:05"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%v): expected %q, got %q", tt.seconds, tt.want, got)
		}
	}
}

func TestNotebookTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"reunion.mp3", "Transcripción - reunion"},
		{"sin_extension", "Transcripción - sin_extension"},
		{"dos.puntos.mp3", "Transcripción - dos.puntos"},
	}

	for _, tt := range tests {
		if got := notebookTitle(tt.filename); got != tt.want {
			t.Errorf("notebookTitle(%q): expected %q, got %q", tt.filename, tt.want, got)
		}
	}
}

func TestBuildNotebook(t *testing.T) {
	now := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	doc := buildNotebook("Transcripción - reunion", "reunion.mp3", "hola", now)

	if len(doc.Cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(doc.Cells))
	}

	header := doc.Cells[0]
	if header.CellType != "markdown" {
		t.Errorf("expected markdown header cell, got %s", header.CellType)
	}
	if header.Source[0] != "# Transcripción - reunion\n\n" {
		t.Errorf("unexpected title line: %q", header.Source[0])
	}
	if header.Source[1] != "**Archivo:** reunion.mp3\n\n" {
		t.Errorf("unexpected filename line: %q", header.Source[1])
	}
	if header.Source[2] != "**Generado:** 09/03/2026 a las 14:30\n\n" {
		t.Errorf("unexpected generated line: %q", header.Source[2])
	}
	if header.Source[3] != "---\n\n" {
		t.Errorf("missing divider: %q", header.Source[3])
	}

	body := doc.Cells[1]
	if body.Source[0] != "## 📝 Transcripción Completa\n\n" {
		t.Errorf("unexpected body heading: %q", body.Source[0])
	}
	if body.Source[1] != "hola\n\n" {
		t.Errorf("unexpected body text: %q", body.Source[1])
	}

	ks := doc.Metadata.Kernelspec
	if ks.DisplayName != "Audio Transcription" || ks.Language != "markdown" || ks.Name != "audio_transcription" {
		t.Errorf("unexpected kernelspec: %+v", ks)
	}
}
