package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/lehuyba/InterviewAce/config"
	"github.com/rs/zerolog/log"
)

// Transcriber converts captured audio to text via the hosted speech-to-text
// service. Callers treat any failure as recoverable: the assembler substitutes
// the transcription-failure sentinel and moves on.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

type httpTranscriber struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewTranscriber(cfg *config.Config) Transcriber {
	if cfg.Transcription.Endpoint == "" {
		log.Warn().Msg("TRANSCRIPTION_ENDPOINT is not set. Hosted transcription is disabled; answers without a live transcript will carry the failure sentinel.")
	}
	return &httpTranscriber{
		endpoint: cfg.Transcription.Endpoint,
		apiKey:   cfg.Transcription.APIKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (t *httpTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	if t.endpoint == "" {
		return "", fmt.Errorf("transcription service is not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to read audio for transcription: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to create transcription request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("Transcription request failed")
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error().Int("status", resp.StatusCode).Str("body", string(raw)).Msg("Transcription service returned non-OK status")
		return "", fmt.Errorf("transcription service returned status %d", resp.StatusCode)
	}

	var parsed transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return parsed.Text, nil
}
