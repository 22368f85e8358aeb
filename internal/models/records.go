// Package models defines the persisted records, list projections and
// event payloads for the service.
package models

import "time"

// TranscriptionRecord is a persisted transcription scoped to one workspace.
// Records are created once per successful job and never updated in place.
type TranscriptionRecord struct {
	ID            int64
	Filename      string
	Text          string
	AudioDuration string // formatted M:SS
	WorkspaceID   string
	NotebookID    int64 // 0 when the notebook is absent
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NotebookRecord is a persisted notebook document.
type NotebookRecord struct {
	ID           int64
	Title        string
	Content      string // serialized notebook document JSON
	WorkspaceID  string
	NotebookType string
	CreatedAt    time.Time
}

// NotebookTypeTranscription tags notebooks generated from audio transcriptions.
const NotebookTypeTranscription = "transcription"

// TranscriptionSummary is the read-only list projection of a
// TranscriptionRecord. Text is truncated for display.
type TranscriptionSummary struct {
	ID            int64  `json:"id"`
	Filename      string `json:"filename"`
	Text          string `json:"transcriptionText"`
	AudioDuration string `json:"audioDuration"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
	NotebookID    int64  `json:"notebookId"`
}
