// Package assemblyai provides an AssemblyAI adapter for async
// transcription: upload audio, create a transcript job, poll it by id.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audio-notebook-service/internal/service/stt"
)

// DefaultBaseURL is the AssemblyAI REST endpoint.
const DefaultBaseURL = "https://api.assemblyai.com"

// Adapter implements stt.Adapter against the AssemblyAI v2 REST API.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates an AssemblyAI adapter. The submit timeout bounds the upload
// and job-creation calls; polling requests use it as well, one poll at a
// time.
func New(apiKey, baseURL string, submitTimeout time.Duration) (*Adapter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("AssemblyAI API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Adapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: submitTimeout},
	}, nil
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL      string `json:"audio_url"`
	SpeakerLabels bool   `json:"speaker_labels"`
	LanguageCode  string `json:"language_code,omitempty"`
}

type transcriptResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Text          string  `json:"text"`
	Error         string  `json:"error"`
	AudioDuration float64 `json:"audio_duration"`
	Utterances    []struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	} `json:"utterances"`
}

// Submit uploads the audio bytes and creates a transcript job.
func (a *Adapter) Submit(ctx context.Context, audio []byte, cfg stt.Config) (stt.Job, error) {
	uploadURL, err := a.upload(ctx, audio)
	if err != nil {
		return stt.Job{}, fmt.Errorf("upload audio: %w", err)
	}

	body, err := json.Marshal(transcriptRequest{
		AudioURL:      uploadURL,
		SpeakerLabels: cfg.SpeakerLabels,
		LanguageCode:  cfg.LanguageCode,
	})
	if err != nil {
		return stt.Job{}, fmt.Errorf("encode transcript request: %w", err)
	}

	var resp transcriptResponse
	if err := a.do(ctx, http.MethodPost, "/v2/transcript", "application/json", bytes.NewReader(body), &resp); err != nil {
		return stt.Job{}, fmt.Errorf("create transcript: %w", err)
	}
	if resp.ID == "" {
		return stt.Job{}, fmt.Errorf("create transcript: empty job id")
	}
	return stt.Job{ID: resp.ID}, nil
}

// Poll fetches the current state of a transcript job.
func (a *Adapter) Poll(ctx context.Context, id string) (*stt.Transcript, error) {
	var resp transcriptResponse
	if err := a.do(ctx, http.MethodGet, "/v2/transcript/"+id, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("poll transcript %s: %w", id, err)
	}

	t := &stt.Transcript{
		ID:            resp.ID,
		Status:        stt.Status(resp.Status),
		Text:          resp.Text,
		Error:         resp.Error,
		AudioDuration: resp.AudioDuration,
	}
	for _, u := range resp.Utterances {
		t.Utterances = append(t.Utterances, stt.Utterance{Speaker: u.Speaker, Text: u.Text})
	}
	return t, nil
}

func (a *Adapter) upload(ctx context.Context, audio []byte) (string, error) {
	var resp uploadResponse
	if err := a.do(ctx, http.MethodPost, "/v2/upload", "application/octet-stream", bytes.NewReader(audio), &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("empty upload_url")
	}
	return resp.UploadURL, nil
}

func (a *Adapter) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", a.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(detail))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
