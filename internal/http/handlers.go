package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"audio-notebook-service/internal/service/transcription"
	"audio-notebook-service/internal/store"
)

// maxUploadMemory bounds the in-memory part of multipart parsing.
const maxUploadMemory = 32 << 20

type handler struct {
	registry *Registry
	logger   zerolog.Logger
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The UI is served from a different origin in dev.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *handler) runner(w http.ResponseWriter, r *http.Request) *transcription.Runner {
	return h.registry.Runner(sessionToken(w, r))
}

// upload accepts one MP3 in the "file" multipart field and starts the
// background job. 202 means accepted, not finished.
func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	runner := h.runner(w, r)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field")
		return
	}
	defer file.Close()

	err = runner.Submit(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	var rejected *transcription.UploadRejectedError
	if errors.As(err, &rejected) {
		writeError(w, http.StatusBadRequest, rejected.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("Upload failed")
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":   "accepted",
		"filename": header.Filename,
	})
}

// list reloads and returns the workspace's transcriptions. An explicit
// workspaceId query overrides the session's resolved workspace.
func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	runner := h.runner(w, r)

	runner.State().Update(func(v *transcription.View) { v.ErrorMessage = "" })
	if err := runner.LoadList(r.Context(), r.URL.Query().Get("workspaceId")); err != nil {
		writeError(w, http.StatusInternalServerError, runner.State().Snapshot().ErrorMessage)
		return
	}

	writeJSON(w, http.StatusOK, runner.State().Snapshot().Transcriptions)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	runner := h.runner(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transcription id")
		return
	}

	err = runner.Delete(r.Context(), id)
	switch {
	case errors.Is(err, transcription.ErrLoginRequired):
		writeError(w, http.StatusUnauthorized, runner.State().Snapshot().ErrorMessage)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, runner.State().Snapshot().ErrorMessage)
	case err != nil:
		writeError(w, http.StatusInternalServerError, runner.State().Snapshot().ErrorMessage)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

func (h *handler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.runner(w, r).State().Snapshot())
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	h.runner(w, r).Reset()
	w.WriteHeader(http.StatusNoContent)
}

// notebook returns one generated notebook with its document inlined.
func (h *handler) notebook(w http.ResponseWriter, r *http.Request) {
	runner := h.runner(w, r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notebook id")
		return
	}

	nb, err := runner.Notebook(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "notebook not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Int64("notebookId", id).Msg("Notebook lookup failed")
		writeError(w, http.StatusInternalServerError, "notebook lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":           nb.ID,
		"title":        nb.Title,
		"notebookType": nb.NotebookType,
		"createdAt":    nb.CreatedAt,
		"content":      json.RawMessage(nb.Content),
	})
}

// stream upgrades to a websocket and pushes state snapshots in emission
// order, starting with the current one.
func (h *handler) stream(w http.ResponseWriter, r *http.Request) {
	runner := h.runner(w, r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	state := runner.State()
	id, ch := state.Subscribe()
	defer state.Unsubscribe(id)

	if err := conn.WriteJSON(state.Snapshot()); err != nil {
		return
	}

	// Reader goroutine detects the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
