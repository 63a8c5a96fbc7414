// Package whisper provides an HTTP client for an OpenAI-compatible audio
// transcription endpoint. It implements the transcriber port.
package whisper

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/voxpilot/voxpilot/internal/domain"
	"github.com/voxpilot/voxpilot/internal/port/transcriber"
	"github.com/voxpilot/voxpilot/internal/resilience"
)

const transcriptionsPath = "/v1/audio/transcriptions"

// minAudioBytes rejects recordings too small to contain speech.
const minAudioBytes = 100

// Client talks to an OpenAI-compatible Whisper transcription API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *resilience.Breaker
	now        func() time.Time // for testing
}

// NewClient creates a new Whisper transcription client.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// SetBreaker attaches a circuit breaker to all outgoing HTTP calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe decodes the base64 audio and sends it to the transcription API.
// Failures map to the AppError taxonomy so the API layer can distinguish
// empty audio from a busy service from unrecognized speech.
func (c *Client) Transcribe(ctx context.Context, audioBase64 string) (transcriber.Transcription, error) {
	start := c.now()

	if strings.TrimSpace(audioBase64) == "" {
		return transcriber.Transcription{}, domain.NewAudioEmpty()
	}

	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return transcriber.Transcription{}, domain.NewInvalidRequest("audio is not valid base64")
	}
	if len(audio) < minAudioBytes {
		return transcriber.Transcription{}, domain.NewAudioEmpty()
	}

	body, contentType, err := multipartBody(audio, c.model)
	if err != nil {
		return transcriber.Transcription{}, domain.NewInternal(fmt.Errorf("build multipart body: %w", err))
	}

	data, err := c.doRequest(ctx, body, contentType)
	if err != nil {
		return transcriber.Transcription{}, err
	}

	var resp transcriptionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return transcriber.Transcription{}, domain.NewTranscriptionFailed(
			"Couldn't understand the transcription service response",
			"Try again in a moment",
		).WithCause(err)
	}

	durationMs := c.now().Sub(start).Milliseconds()
	slog.Info("transcription complete", "text_length", len(resp.Text), "duration_ms", durationMs)

	language := resp.Language
	if language == "" {
		language = "en"
	}

	// Whisper does not report confidence; assume high when text came back.
	confidence := 0.0
	if resp.Text != "" {
		confidence = 0.9
	}

	return transcriber.Transcription{
		RawText:    resp.Text,
		Confidence: confidence,
		Language:   language,
		DurationMs: durationMs,
	}, nil
}

// multipartBody assembles the file + model form the transcription endpoint
// expects. WAV input is recognized by its RIFF header; anything else is sent
// as webm.
func multipartBody(audio []byte, model string) (*bytes.Buffer, string, error) {
	fileName := "audio.webm"
	if len(audio) >= 4 && string(audio[:4]) == "RIFF" {
		fileName = "audio.wav"
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("model", model); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("language", "en"); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("response_format", "verbose_json"); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

func (c *Client) doRequest(ctx context.Context, body *bytes.Buffer, contentType string) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+transcriptionsPath, body)
		if err != nil {
			return domain.NewInternal(fmt.Errorf("create request: %w", err))
		}

		req.Header.Set("Content-Type", contentType)
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return domain.NewTranscriptionFailed(
				"Couldn't reach the transcription service",
				"Check your connection and try again",
			).WithCause(err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return domain.NewTranscriptionFailed(
				"Transcription service response was cut off",
				"Try again in a moment",
			).WithCause(err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return domain.NewServiceBusy("The transcription service")
		case resp.StatusCode == http.StatusBadRequest:
			return domain.NewTranscriptionFailed(
				"Couldn't process that audio",
				"Try speaking more clearly",
			)
		case resp.StatusCode >= 400:
			return domain.NewTranscriptionFailed(
				"Transcription failed",
				"Try recording again",
			).WithCause(fmt.Errorf("whisper API error %d: %s", resp.StatusCode, string(data)))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			if err == resilience.ErrCircuitOpen {
				return nil, domain.NewServiceBusy("The transcription service").WithCause(err)
			}
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
