package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"audio-notebook-service/internal/models"
	"audio-notebook-service/internal/service/stt"
	"audio-notebook-service/internal/store"
)

const speakerHeading = "## Transcripción con Identificación de Hablantes\n\n"

// displayText renders the transcript for display. Diarized transcripts get
// a heading plus one speaker-labeled line per utterance; otherwise the
// plain text is used as-is (empty is valid).
func displayText(tr *stt.Transcript) string {
	if len(tr.Utterances) == 0 {
		return tr.Text
	}
	lines := make([]string, len(tr.Utterances))
	for i, u := range tr.Utterances {
		lines[i] = fmt.Sprintf("**Hablante %s:** %s", u.Speaker, u.Text)
	}
	return speakerHeading + strings.Join(lines, "\n\n")
}

// formatDuration renders seconds as M:SS (125 -> "2:05", 0 -> "0:00").
func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// notebookTitle derives the notebook title from the uploaded filename.
func notebookTitle(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return "Transcripción - " + base
}

// buildNotebook assembles the notebook document: a header cell with title,
// filename and generation timestamp, and a body cell with the transcript.
func buildNotebook(title, filename, text string, now time.Time) models.NotebookDocument {
	generated := now.Format("02/01/2006 a las 15:04")
	return models.NotebookDocument{
		Cells: []models.NotebookCell{
			{
				CellType: "markdown",
				Source: []string{
					fmt.Sprintf("# %s\n\n", title),
					fmt.Sprintf("**Archivo:** %s\n\n", filename),
					fmt.Sprintf("**Generado:** %s\n\n", generated),
					"---\n\n",
				},
			},
			{
				CellType: "markdown",
				Source: []string{
					"## 📝 Transcripción Completa\n\n",
					fmt.Sprintf("%s\n\n", text),
				},
			},
		},
		Metadata: models.NotebookMetadata{
			Kernelspec: models.NotebookKernelspec{
				DisplayName: "Audio Transcription",
				Language:    "markdown",
				Name:        "audio_transcription",
			},
		},
	}
}

// materialize persists the finished transcript as a notebook plus a
// transcription record, reloads the workspace list and publishes the
// success snapshot carrying the sentinel. The two inserts share one
// transaction, so the transcription's notebook reference never dangles.
func (r *Runner) materialize(ctx context.Context, logger zerolog.Logger, job pendingJob, tr *stt.Transcript) error {
	text := displayText(tr)
	title := notebookTitle(job.filename)
	duration := formatDuration(tr.AudioDuration)

	doc := buildNotebook(title, job.filename, text, r.now())
	content, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}

	notebookID, transcriptionID, err := r.store.CreateTranscriptionNotebook(ctx, store.CreateParams{
		Filename:        job.filename,
		Text:            text,
		AudioDuration:   duration,
		WorkspaceID:     job.workspaceID,
		NotebookTitle:   title,
		NotebookContent: string(content),
	})
	if err != nil {
		r.metrics.RecordStoreError("create")
		return fmt.Errorf("persist transcription: %w", err)
	}
	r.metrics.RecordNotebookCreated()

	list, err := r.store.List(ctx, job.workspaceID)
	if err != nil {
		r.metrics.RecordStoreError("list")
		return fmt.Errorf("reload transcriptions: %w", err)
	}

	// Terminal state changes happen after persistence has succeeded.
	r.state.Update(func(v *View) {
		v.Transcriptions = list
		v.CurrentTranscription = SuccessSentinel
		v.UploadedFiles = nil
	})

	logger.Info().
		Int64("notebookId", notebookID).
		Int64("transcriptionId", transcriptionID).
		Str("audioDuration", duration).
		Msg("Transcription materialized")

	ev := models.TranscriptionCompleted{
		EventType:       models.EventTranscriptionCompleted,
		WorkspaceID:     job.workspaceID,
		Filename:        job.filename,
		NotebookID:      notebookID,
		TranscriptionID: transcriptionID,
		AudioDuration:   duration,
		Timestamp:       r.now().Unix(),
	}
	if err := r.publisher.PublishCompleted(ctx, job.workspaceID, ev); err != nil {
		logger.Warn().Err(err).Msg("Failed to publish completed event")
	}
	return nil
}
