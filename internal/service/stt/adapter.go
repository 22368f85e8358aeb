// Package stt defines the interface for asynchronous speech-to-text
// providers that accept a job and are polled until a terminal status.
package stt

import "context"

// Status is the provider-reported state of a transcription job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal returns true when polling should stop.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Config carries the per-job transcription options.
type Config struct {
	SpeakerLabels bool
	LanguageCode  string
}

// Job identifies a submitted transcription job.
type Job struct {
	ID string
}

// Utterance is one speaker-labeled segment of a diarized transcript.
type Utterance struct {
	Speaker string
	Text    string
}

// Transcript is the polled state of a job. Text, AudioDuration and
// Utterances are only meaningful once Status is StatusCompleted; Error only
// when Status is StatusError.
type Transcript struct {
	ID            string
	Status        Status
	Text          string
	Error         string
	AudioDuration float64 // seconds
	Utterances    []Utterance
}

// Adapter defines the interface for async transcription providers
// (AssemblyAI, mock, ...).
type Adapter interface {
	// Submit uploads the audio and starts a transcription job.
	Submit(ctx context.Context, audio []byte, cfg Config) (Job, error)

	// Poll fetches the current state of a job.
	Poll(ctx context.Context, id string) (*Transcript, error)
}
