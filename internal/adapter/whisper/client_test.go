package whisper

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/voxpilot/voxpilot/internal/domain"
	"github.com/voxpilot/voxpilot/internal/resilience"
)

// wavAudio returns base64 of a fake RIFF payload above the size floor.
func wavAudio() string {
	raw := append([]byte("RIFF"), bytes.Repeat([]byte{0x01}, 200)...)
	return base64.StdEncoding.EncodeToString(raw)
}

func appErrCode(t *testing.T, err error) domain.Code {
	t.Helper()
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("err %v is not an AppError", err)
	}
	return appErr.Code
}

func TestTranscribeSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q", got)
		}
		fh := r.MultipartForm.File["file"]
		if len(fh) != 1 || fh[0].Filename != "audio.wav" {
			t.Errorf("file = %+v, want audio.wav", fh)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"text": "fix the broken login", "language": "en"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "whisper-1", 5*time.Second)
	got, err := c.Transcribe(context.Background(), wavAudio())
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got.RawText != "fix the broken login" {
		t.Fatalf("RawText = %q", got.RawText)
	}
	if got.Confidence != 0.9 {
		t.Fatalf("Confidence = %v, want 0.9", got.Confidence)
	}
	if got.Language != "en" {
		t.Fatalf("Language = %q", got.Language)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", "whisper-1", time.Second)

	if _, err := c.Transcribe(context.Background(), "   "); appErrCode(t, err) != domain.CodeAudioEmpty {
		t.Fatalf("blank input: code = %v", appErrCode(t, err))
	}

	tiny := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := c.Transcribe(context.Background(), tiny); appErrCode(t, err) != domain.CodeAudioEmpty {
		t.Fatalf("tiny input: wrong code")
	}
}

func TestTranscribeInvalidBase64(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "", "whisper-1", time.Second)
	_, err := c.Transcribe(context.Background(), "not-base64!!!")
	if appErrCode(t, err) != domain.CodeInvalidRequest {
		t.Fatalf("code = %v, want INVALID_REQUEST", appErrCode(t, err))
	}
}

func TestTranscribeServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode domain.Code
	}{
		{"rate limited", http.StatusTooManyRequests, domain.CodeServiceUnavailable},
		{"bad audio", http.StatusBadRequest, domain.CodeTranscriptionFailed},
		{"server error", http.StatusInternalServerError, domain.CodeTranscriptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "", "whisper-1", 5*time.Second)
			_, err := c.Transcribe(context.Background(), wavAudio())
			if got := appErrCode(t, err); got != tt.wantCode {
				t.Fatalf("code = %v, want %v", got, tt.wantCode)
			}
		})
	}
}

func TestTranscribeOpenBreakerMapsToServiceBusy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "whisper-1", 5*time.Second)
	c.SetBreaker(resilience.NewBreaker("whisper", 1, time.Minute))

	// First call trips the breaker.
	if _, err := c.Transcribe(context.Background(), wavAudio()); err == nil {
		t.Fatal("expected failure")
	}

	_, err := c.Transcribe(context.Background(), wavAudio())
	if appErrCode(t, err) != domain.CodeServiceUnavailable {
		t.Fatalf("code = %v, want SERVICE_UNAVAILABLE from open breaker", appErrCode(t, err))
	}
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("err chain should include ErrCircuitOpen, got %v", err)
	}
}

func TestMultipartBodyFileNaming(t *testing.T) {
	riff := append([]byte("RIFF"), bytes.Repeat([]byte{0}, 200)...)
	_, ct, err := multipartBody(riff, "whisper-1")
	if err != nil {
		t.Fatalf("multipartBody: %v", err)
	}
	if ct == "" {
		t.Fatal("missing content type")
	}
}
