// Package transcriber defines the speech-to-text port (interface).
package transcriber

import "context"

// Transcription is the result of one speech-to-text call.
type Transcription struct {
	RawText    string
	Confidence float64
	Language   string
	DurationMs int64
}

// Transcriber is the port interface for the external speech-to-text service.
// It consumes base64-encoded audio and returns recognized text. Failures are
// returned as domain.AppError values so the API layer can distinguish empty
// audio from a busy service from unrecognized speech.
type Transcriber interface {
	Transcribe(ctx context.Context, audioBase64 string) (Transcription, error)
}
