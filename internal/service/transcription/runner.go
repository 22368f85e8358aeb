package transcription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"audio-notebook-service/internal/config"
	"audio-notebook-service/internal/events"
	"audio-notebook-service/internal/identity"
	"audio-notebook-service/internal/models"
	"audio-notebook-service/internal/observability/logging"
	"audio-notebook-service/internal/observability/metrics"
	"audio-notebook-service/internal/service/stt"
	"audio-notebook-service/internal/store"
)

// mp3ContentType is the only MIME type accepted for upload.
const mp3ContentType = "audio/mpeg"

// ErrLoginRequired is returned when an operation needs an authenticated
// workspace but the session resolved to the public one.
var ErrLoginRequired = errors.New("login required")

// UploadRejectedError reports a file turned away by the MIME gate before
// any processing started.
type UploadRejectedError struct {
	Filename string
}

func (e *UploadRejectedError) Error() string {
	return fmt.Sprintf("'%s' no es un MP3.", e.Filename)
}

// Runner drives one session's transcription workflow. The foreground
// Submit handler validates and buffers the upload, then hands off to a
// detached background goroutine that submits, polls and materializes.
// All UI-visible effects go through the State container.
type Runner struct {
	state     *State
	resolver  *identity.Resolver
	store     *store.Store
	adapter   stt.Adapter
	publisher *events.Publisher
	cfg       config.ProviderConfig
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a Runner for one session. A nil adapter is allowed;
// jobs then fail with a configuration error without affecting the rest of
// the service.
func NewRunner(resolver *identity.Resolver, st *store.Store, adapter stt.Adapter, publisher *events.Publisher, cfg config.ProviderConfig) *Runner {
	return &Runner{
		state:     NewState(),
		resolver:  resolver,
		store:     st,
		adapter:   adapter,
		publisher: publisher,
		cfg:       cfg,
		logger:    logging.WithComponent("transcription"),
		metrics:   metrics.DefaultMetrics,
		now:       time.Now,
	}
}

// State returns the session state container.
func (r *Runner) State() *State {
	return r.state
}

// Submit validates the upload, publishes immediate progress, resolves the
// workspace and detaches the background job. It returns once the job is
// running; outcomes surface through the state.
func (r *Runner) Submit(ctx context.Context, filename, contentType string, reader io.Reader) error {
	if contentType != mp3ContentType {
		r.metrics.RecordUploadRejected()
		return &UploadRejectedError{Filename: filename}
	}

	// Feedback before any slow work.
	r.state.Update(func(v *View) {
		v.Transcribing = true
		v.ProgressMessage = fmt.Sprintf(msgStartingFmt, filename)
		v.ErrorMessage = ""
	})

	r.state.Update(func(v *View) { v.ProgressMessage = msgReadingFile })
	audio, err := io.ReadAll(reader)
	if err != nil {
		msg := fmt.Sprintf(msgReadErrFmt, err)
		r.state.Update(func(v *View) {
			v.ErrorMessage = msg
			v.Transcribing = false
			v.Notification = &Notification{Level: NotifyError, Message: msg}
		})
		return fmt.Errorf("read upload: %w", err)
	}

	// Workspace is resolved before the handoff; the background goroutine
	// must not touch session identity.
	r.state.Update(func(v *View) { v.ProgressMessage = msgCheckingCreds })
	workspaceID := r.resolver.Resolve(ctx)

	r.state.Update(func(v *View) { v.ProgressMessage = fmt.Sprintf(msgPreparingSubmitFmt, filename) })

	r.state.setPending(pendingJob{audio: audio, filename: filename, workspaceID: workspaceID})
	r.state.Update(func(v *View) { v.UploadedFiles = []string{filename} })
	r.metrics.RecordUploadAccepted(len(audio))

	jobCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(jobCtx)
	return nil
}

// run is the background lifecycle: submit, poll until terminal,
// materialize. Every failure lands in the state; Transcribing is never
// left true.
func (r *Runner) run(ctx context.Context) {
	defer r.wg.Done()

	start := r.now()
	r.metrics.RecordJobStart()

	job := r.state.pendingSnapshot()
	r.state.Update(func(v *View) { v.ErrorMessage = "" })

	jobID := uuid.NewString()
	logger := logging.WithJob(jobID, job.workspaceID, job.filename)

	if len(job.audio) == 0 {
		logger.Warn().Msg("No buffered audio for background job")
		r.state.Update(func(v *View) {
			v.ErrorMessage = msgNoAudioData
			v.Transcribing = false
		})
		r.metrics.RecordJobEnd(false, "validate", time.Since(start).Seconds())
		return
	}

	if r.adapter == nil {
		r.fail(ctx, logger, start, "config", job, errors.New(msgNoAPIKey))
		return
	}

	r.state.Update(func(v *View) { v.ProgressMessage = msgUploading })

	submitStart := r.now()
	submitted, err := r.adapter.Submit(ctx, job.audio, stt.Config{
		SpeakerLabels: r.cfg.SpeakerLabels,
		LanguageCode:  r.cfg.LanguageCode,
	})
	r.metrics.RecordSubmit(time.Since(submitStart).Seconds())
	if err != nil {
		r.metrics.RecordProviderError("submit")
		r.fail(ctx, logger, start, "submit", job, err)
		return
	}

	logger.Info().Str("providerJobId", submitted.ID).Msg("Transcription job submitted")
	r.state.Update(func(v *View) { v.ProgressMessage = msgSubmitted })

	interval := r.cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	for {
		tr, err := r.adapter.Poll(ctx, submitted.ID)
		r.metrics.RecordPoll()
		if err != nil {
			r.metrics.RecordProviderError("poll")
			r.fail(ctx, logger, start, "poll", job, err)
			return
		}

		switch tr.Status {
		case stt.StatusCompleted:
			r.state.Update(func(v *View) {
				v.ProgressMessage = msgGenerating
				v.ErrorMessage = ""
			})
			if err := r.materialize(ctx, logger, job, tr); err != nil {
				r.fail(ctx, logger, start, "materialize", job, err)
				return
			}
			r.state.clearPending()
			r.state.Update(func(v *View) {
				v.Transcribing = false
				v.ProgressMessage = ""
				v.ErrorMessage = ""
				v.Notification = &Notification{
					Level:   NotifySuccess,
					Message: fmt.Sprintf(msgSuccessToastFmt, job.filename),
				}
			})
			r.metrics.RecordJobEnd(true, "", time.Since(start).Seconds())
			logger.Info().Msg("Transcription job completed")
			return

		case stt.StatusError:
			r.metrics.RecordProviderError("job")
			r.fail(ctx, logger, start, "provider", job, fmt.Errorf("el proveedor reportó un error: %s", tr.Error))
			return

		default:
			r.state.Update(func(v *View) { v.ProgressMessage = statusMessage(tr.Status) })
			select {
			case <-ctx.Done():
				r.fail(ctx, logger, start, "canceled", job, ctx.Err())
				return
			case <-time.After(interval):
			}
		}
	}
}

// fail records a terminal job failure: full detail to the log, a short
// message to the state, flag reset, buffer cleared, failed event emitted.
func (r *Runner) fail(ctx context.Context, logger zerolog.Logger, start time.Time, stage string, job pendingJob, err error) {
	logger.Error().Err(err).Str("stage", stage).Msg("Transcription job failed")

	msg := fmt.Sprintf(msgProcessErrFmt, err)
	r.state.clearPending()
	r.state.Update(func(v *View) {
		v.ErrorMessage = msg
		v.Transcribing = false
		v.Notification = &Notification{Level: NotifyError, Message: msg}
	})
	r.metrics.RecordJobEnd(false, stage, time.Since(start).Seconds())

	ev := models.TranscriptionFailed{
		EventType:   models.EventTranscriptionFailed,
		WorkspaceID: job.workspaceID,
		Filename:    job.filename,
		Reason:      err.Error(),
		Timestamp:   r.now().Unix(),
	}
	if pubErr := r.publisher.PublishFailed(ctx, job.workspaceID, ev); pubErr != nil {
		logger.Warn().Err(pubErr).Msg("Failed to publish failed event")
	}
}

// LoadList refreshes the transcription list into the state. An empty
// workspaceID resolves the session identity first.
func (r *Runner) LoadList(ctx context.Context, workspaceID string) error {
	if workspaceID == "" {
		workspaceID = r.resolver.Resolve(ctx)
	}

	list, err := r.store.List(ctx, workspaceID)
	if err != nil {
		r.metrics.RecordStoreError("list")
		r.state.Update(func(v *View) { v.ErrorMessage = fmt.Sprintf(msgLoadListErrFmt, err) })
		return fmt.Errorf("load transcriptions: %w", err)
	}

	r.state.Update(func(v *View) { v.Transcriptions = list })
	return nil
}

// Refresh clears the error message and reloads the list.
func (r *Runner) Refresh(ctx context.Context) error {
	r.state.Update(func(v *View) { v.ErrorMessage = "" })
	return r.LoadList(ctx, "")
}

// Delete removes a transcription and its notebook. Public sessions are
// rejected before any query.
func (r *Runner) Delete(ctx context.Context, id int64) error {
	workspaceID := r.resolver.Resolve(ctx)
	if workspaceID == identity.PublicWorkspace {
		r.state.Update(func(v *View) {
			v.ErrorMessage = msgDeleteLogin
			v.Notification = &Notification{Level: NotifyError, Message: msgDeleteLogin}
		})
		return ErrLoginRequired
	}

	deletedNotebook, err := r.store.Delete(ctx, id, workspaceID)
	if errors.Is(err, store.ErrNotFound) {
		r.state.Update(func(v *View) {
			v.ErrorMessage = msgDeleteNotFound
			v.Notification = &Notification{Level: NotifyError, Message: msgDeleteNotFound}
		})
		return err
	}
	if err != nil {
		r.metrics.RecordStoreError("delete")
		msg := fmt.Sprintf(msgDeleteErrFmt, err)
		r.state.Update(func(v *View) {
			v.ErrorMessage = msg
			v.Notification = &Notification{Level: NotifyError, Message: msg}
		})
		return fmt.Errorf("delete transcription: %w", err)
	}
	r.metrics.RecordTranscriptionDeleted()

	if err := r.LoadList(ctx, workspaceID); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to reload list after delete")
	}
	r.state.Update(func(v *View) {
		v.Notification = &Notification{Level: NotifySuccess, Message: msgDeleted}
	})

	ev := models.TranscriptionDeleted{
		EventType:       models.EventTranscriptionDeleted,
		WorkspaceID:     workspaceID,
		TranscriptionID: id,
		NotebookID:      deletedNotebook,
		Timestamp:       r.now().Unix(),
	}
	if pubErr := r.publisher.PublishDeleted(ctx, workspaceID, ev); pubErr != nil {
		r.logger.Warn().Err(pubErr).Msg("Failed to publish deleted event")
	}
	return nil
}

// Notebook returns one of the session workspace's notebooks.
func (r *Runner) Notebook(ctx context.Context, id int64) (*models.NotebookRecord, error) {
	return r.store.GetNotebook(ctx, id, r.resolver.Resolve(ctx))
}

// Reset clears the upload state for a new transcription.
func (r *Runner) Reset() {
	r.state.Reset()
}

// Close cancels any in-flight background job and waits for it to finish.
// Nothing in the UI triggers cancellation; the handle exists for session
// teardown.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// Wait blocks until the current background job (if any) finishes. Test
// helper and shutdown aid.
func (r *Runner) Wait() {
	r.wg.Wait()
}
