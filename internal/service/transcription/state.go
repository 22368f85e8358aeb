// Package transcription implements the per-session transcription workflow:
// a mutex-guarded state container the UI observes, a job runner that
// submits audio to an async provider and polls it from a detached
// background goroutine, and the materializer that turns a finished
// transcript into a notebook plus a persisted transcription record.
package transcription

import (
	"sync"

	"audio-notebook-service/internal/models"
)

// SuccessSentinel is the CurrentTranscription value that marks a job as
// materialized. The UI keys its success panel off this value.
const SuccessSentinel = "SUCCESS"

// Notification levels for one-shot toasts.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
)

// Notification is a one-shot toast. It rides on exactly one snapshot and
// is cleared afterwards.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// View is the UI-visible snapshot of a session's transcription state.
type View struct {
	Transcribing         bool                          `json:"transcribing"`
	ProgressMessage      string                        `json:"progressMessage"`
	ErrorMessage         string                        `json:"errorMessage"`
	CurrentTranscription string                        `json:"currentTranscription"`
	Transcriptions       []models.TranscriptionSummary `json:"transcriptions"`
	UploadedFiles        []string                      `json:"uploadedFiles"`
	Notification         *Notification                 `json:"notification,omitempty"`
}

// pendingJob buffers the upload between the foreground handler and the
// background lifecycle.
type pendingJob struct {
	audio       []byte
	filename    string
	workspaceID string
}

// subscriberBuffer bounds each subscriber channel. A slow subscriber loses
// intermediate snapshots but still observes the remainder in order.
const subscriberBuffer = 16

// State is the mutex-guarded session state container. Every mutation goes
// through Update so the foreground handlers and the background lifecycle
// never interleave partial writes, and every mutation is published to
// subscribers as one snapshot.
type State struct {
	mu      sync.Mutex
	view    View
	pending pendingJob

	subscribers map[int]chan View
	nextSub     int
}

// NewState creates an empty state container.
func NewState() *State {
	return &State{subscribers: make(map[int]chan View)}
}

// Update runs fn with exclusive access to the view, then publishes the
// resulting snapshot. A notification set by fn is delivered on this
// snapshot only.
func (s *State) Update(fn func(*View)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.view)
	snap := s.snapshotLocked()
	s.view.Notification = nil
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Snapshot returns a copy of the current view.
func (s *State) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) snapshotLocked() View {
	snap := s.view
	snap.Transcriptions = append([]models.TranscriptionSummary(nil), s.view.Transcriptions...)
	snap.UploadedFiles = append([]string(nil), s.view.UploadedFiles...)
	if s.view.Notification != nil {
		n := *s.view.Notification
		snap.Notification = &n
	}
	return snap
}

// Reset clears the upload state for a new transcription. Idempotent: a
// second call observes the already-cleared state and publishes an
// identical snapshot.
func (s *State) Reset() {
	s.mu.Lock()
	s.pending = pendingJob{}
	s.mu.Unlock()

	s.Update(func(v *View) {
		v.Transcribing = false
		v.ProgressMessage = ""
		v.ErrorMessage = ""
		v.CurrentTranscription = ""
		v.UploadedFiles = nil
	})
}

// Subscribe registers a snapshot channel. Snapshots arrive in emission
// order; the channel is closed by Unsubscribe.
func (s *State) Subscribe() (int, <-chan View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan View, subscriberBuffer)
	s.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *State) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *State) setPending(job pendingJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = job
}

// pendingSnapshot copies the buffered job without clearing it.
func (s *State) pendingSnapshot() pendingJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := s.pending
	job.audio = append([]byte(nil), s.pending.audio...)
	return job
}

func (s *State) clearPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = pendingJob{}
}
