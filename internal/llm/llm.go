// Package llm talks to the two model backends: a local Ollama server and
// the hosted Gemini API.
package llm

import (
	"context"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Request is one chat completion request.
type Request struct {
	Model  string
	System string
	Prompt string
	// Temperature is sent only when non-nil.
	Temperature *float64
	// MaxTokens is sent only when positive.
	MaxTokens int
}

// Client is a chat-completion backend.
type Client interface {
	// Complete returns the full response text.
	Complete(ctx context.Context, req Request) (string, error)
	// Stream yields response fragments in order. A non-nil error is the
	// last value yielded.
	Stream(ctx context.Context, req Request) iter.Seq2[string, error]
}

// Float returns a pointer to f, for Request.Temperature.
func Float(f float64) *float64 { return &f }

// APIError is a non-2xx response from a backend.
type APIError struct {
	Backend    string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Backend, e.StatusCode, e.Message)
}

// readAPIError builds an APIError from a failed response. msgPath is the
// gjson path of the error message in the backend's error body.
func readAPIError(backend string, resp *http.Response, msgPath string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := gjson.GetBytes(body, msgPath).String()
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Backend: backend, StatusCode: resp.StatusCode, Message: msg}
}
