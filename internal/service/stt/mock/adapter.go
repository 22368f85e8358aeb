// Package mock provides a scripted transcription adapter for testing and
// for running the service without provider credentials. It walks a fixed
// sequence of statuses and then reports a canned result.
package mock

import (
	"context"
	"fmt"
	"sync"

	"audio-notebook-service/internal/service/stt"
)

// DefaultResult is the transcript reported once the script completes.
var DefaultResult = stt.Transcript{
	Status:        stt.StatusCompleted,
	Text:          "Buenos días. Quiero cancelar mi suscripción.",
	AudioDuration: 125,
	Utterances: []stt.Utterance{
		{Speaker: "A", Text: "Buenos días."},
		{Speaker: "B", Text: "Quiero cancelar mi suscripción."},
	},
}

// Adapter implements stt.Adapter with scripted responses.
type Adapter struct {
	mu        sync.Mutex
	script    []stt.Status // non-terminal statuses reported before the result
	result    stt.Transcript
	submitted bool
	polls     int
	jobSeq    int
}

// New creates a mock adapter with the default queued → processing script
// and DefaultResult.
func New() *Adapter {
	return &Adapter{
		script: []stt.Status{stt.StatusQueued, stt.StatusProcessing},
		result: DefaultResult,
	}
}

// NewScripted creates a mock adapter with a custom status script and
// terminal result.
func NewScripted(script []stt.Status, result stt.Transcript) *Adapter {
	return &Adapter{script: script, result: result}
}

// NewFailing creates a mock adapter whose job terminates in an error status
// carrying the given detail.
func NewFailing(detail string) *Adapter {
	return &Adapter{
		script: []stt.Status{stt.StatusQueued},
		result: stt.Transcript{Status: stt.StatusError, Error: detail},
	}
}

// Submit records the job and returns a synthetic id.
func (a *Adapter) Submit(ctx context.Context, audio []byte, cfg stt.Config) (stt.Job, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.submitted = true
	a.polls = 0
	a.jobSeq++
	return stt.Job{ID: fmt.Sprintf("mock-job-%d", a.jobSeq)}, nil
}

// Poll walks the script one status per call, then reports the result.
func (a *Adapter) Poll(ctx context.Context, id string) (*stt.Transcript, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.submitted {
		return nil, fmt.Errorf("poll before submit: %s", id)
	}

	var t stt.Transcript
	if a.polls < len(a.script) {
		t = stt.Transcript{Status: a.script[a.polls]}
	} else {
		t = a.result
	}
	a.polls++
	t.ID = id
	return &t, nil
}

// Polls returns how many times Poll was called.
func (a *Adapter) Polls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.polls
}
