// Package anthropic provides an HTTP client for the Anthropic Messages API,
// used to enhance rule-based prompts. It implements the enhancer port.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/voxpilot/voxpilot/internal/port/enhancer"
	"github.com/voxpilot/voxpilot/internal/resilience"
)

const (
	messagesPath = "/v1/messages"
	apiVersion   = "2023-06-01"

	// Low temperature keeps enhancement output stable across retries of
	// similar utterances.
	temperature = 0.3
)

// systemPrompt is the fixed instruction sent with every enhancement call.
const systemPrompt = `You are an expert prompt engineer for software development. Your job is to take a basic coding prompt and enhance it to be more specific, actionable, and context-aware.

Given:
- The user's spoken request (transcribed)
- The detected intent (bug_fix, add_feature, explain_code, spec_generation)
- A basic template-based prompt

Enhance the prompt by:
1. Adding specific technical details inferred from the request
2. Breaking down complex requests into clear steps
3. Adding relevant constraints and best practices
4. Making the output actionable for an LLM coding assistant

Keep the response concise (under 400 words) and in markdown format.
Do NOT add fluff or unnecessary sections.
Do NOT change the core intent - enhance, don't replace.

If the original prompt is already good, return it with minor improvements.`

// Client talks to the Anthropic Messages API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
	breaker    *resilience.Breaker
	now        func() time.Time // for testing latency measurement
}

// NewClient creates a new Anthropic client. An empty apiKey yields a client
// that reports Available() == false and never issues requests.
func NewClient(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
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

// Available reports whether the service credential is configured.
func (c *Client) Available() bool {
	return c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	System      string    `json:"system"`
	Messages    []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Enhance calls the Messages API once. Any failure degrades gracefully: the
// rule-based prompt comes back unchanged with WasEnhanced=false and the
// cause captured for logging. Never returns an error to the pipeline.
func (c *Client) Enhance(ctx context.Context, req enhancer.Request) enhancer.Result {
	start := c.now()

	fallback := func(err error) enhancer.Result {
		latency := c.now().Sub(start).Milliseconds()
		slog.Warn("ai enhancement failed, using rule-based fallback",
			"error", err,
			"latency_ms", latency,
		)
		return enhancer.Result{
			EnhancedPrompt: req.RuleBasedPrompt,
			WasEnhanced:    false,
			Model:          "rule-based-fallback",
			LatencyMs:      latency,
			Err:            err,
		}
	}

	if c.apiKey == "" {
		return fallback(fmt.Errorf("anthropic api key not configured"))
	}

	text, err := c.complete(ctx, userMessage(req))
	if err != nil {
		return fallback(err)
	}

	latency := c.now().Sub(start).Milliseconds()
	slog.Debug("ai enhancement succeeded", "model", c.model, "latency_ms", latency)

	return enhancer.Result{
		EnhancedPrompt: text,
		WasEnhanced:    true,
		Model:          c.model,
		LatencyMs:      latency,
	}
}

// userMessage embeds the original utterance, detected intent, IDE context
// and the rule-based prompt into one enhancement request.
func userMessage(req enhancer.Request) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "## User's Spoken Request\n%q\n\n", req.OriginalText)
	fmt.Fprintf(&b, "## Detected Intent\n%s\n\n", req.Intent)

	file := req.Context.ActiveFile
	if file == "" {
		file = "unknown"
	}
	ide := string(req.Context.IDEType)
	if ide == "" {
		ide = "unknown"
	}
	fmt.Fprintf(&b, "## Context\n- File: %s\n- IDE: %s\n", file, ide)
	if req.Context.SelectedCode != "" {
		fmt.Fprintf(&b, "- Selected Code:\n```\n%s\n```\n", req.Context.SelectedCode)
	}

	fmt.Fprintf(&b, "\n## Current Template-Based Prompt\n%s\n\n---\n\n", req.RuleBasedPrompt)
	b.WriteString("Please enhance this prompt to be more specific and actionable. Keep the same structure but add technical depth.")
	return b.String()
}

// complete performs one Messages API round trip and extracts the first text
// content block.
func (c *Client) complete(ctx context.Context, user string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		System:      systemPrompt,
		Messages:    []message{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	data, err := c.doRequest(ctx, body)
	if err != nil {
		return "", err
	}

	var resp messagesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	var result []byte
	call := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("anthropic API error %d: %s", resp.StatusCode, string(data))
		}

		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}
