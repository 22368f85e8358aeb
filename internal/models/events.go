package models

// Event type discriminators carried in each payload.
const (
	EventTranscriptionCompleted = "notebook.transcription.completed"
	EventTranscriptionFailed    = "notebook.transcription.failed"
	EventTranscriptionDeleted   = "notebook.transcription.deleted"
)

// TranscriptionCompleted is published when a job finishes and its notebook
// has been persisted.
type TranscriptionCompleted struct {
	EventType       string `json:"eventType"`
	WorkspaceID     string `json:"workspaceId"`
	Filename        string `json:"filename"`
	NotebookID      int64  `json:"notebookId"`
	TranscriptionID int64  `json:"transcriptionId"`
	AudioDuration   string `json:"audioDuration"`
	Timestamp       int64  `json:"timestamp"`
}

// TranscriptionFailed is published when a job aborts before materializing.
type TranscriptionFailed struct {
	EventType   string `json:"eventType"`
	WorkspaceID string `json:"workspaceId"`
	Filename    string `json:"filename"`
	Reason      string `json:"reason"`
	Timestamp   int64  `json:"timestamp"`
}

// TranscriptionDeleted is published when a user removes a transcription
// from their history.
type TranscriptionDeleted struct {
	EventType       string `json:"eventType"`
	WorkspaceID     string `json:"workspaceId"`
	TranscriptionID int64  `json:"transcriptionId"`
	NotebookID      int64  `json:"notebookId"`
	Timestamp       int64  `json:"timestamp"`
}
