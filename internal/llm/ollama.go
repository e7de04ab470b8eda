package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultOllamaHost is used when OLLAMA_HOST is unset.
const DefaultOllamaHost = "http://localhost:11434"

// Ollama is a client for the Ollama /api/chat endpoint.
type Ollama struct {
	host       string
	httpClient *http.Client
}

// NewOllama creates an Ollama client. host may omit the scheme.
func NewOllama(host string, timeout time.Duration) *Ollama {
	if host == "" {
		host = DefaultOllamaHost
	}
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return &Ollama{
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumPredict  int      `json:"num_predict,omitempty"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

func (o *Ollama) post(ctx context.Context, req Request, stream bool) (*http.Response, error) {
	body := ollamaChatRequest{Model: req.Model, Stream: stream}
	if req.System != "" {
		body.Messages = append(body.Messages, ollamaMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, ollamaMessage{Role: "user", Content: req.Prompt})
	if req.Temperature != nil || req.MaxTokens > 0 {
		body.Options = &ollamaOptions{Temperature: req.Temperature, NumPredict: req.MaxTokens}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/chat", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readAPIError("ollama", resp, "error")
	}
	return resp, nil
}

// Complete sends a non-streaming chat request.
func (o *Ollama) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := o.post(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", fmt.Errorf("ollama: read response: %w", err)
	}
	res := gjson.ParseBytes(buf.Bytes())
	if msg := res.Get("error").String(); msg != "" {
		return "", fmt.Errorf("ollama: %s", msg)
	}
	return res.Get("message.content").String(), nil
}

// Stream sends a streaming chat request and yields each content fragment
// from the NDJSON response as it is decoded.
func (o *Ollama) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := o.post(ctx, req, true)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			if !gjson.ValidBytes(line) {
				yield("", fmt.Errorf("ollama: malformed stream line %q", string(line)))
				return
			}
			chunk := gjson.ParseBytes(line)
			if msg := chunk.Get("error").String(); msg != "" {
				yield("", fmt.Errorf("ollama: %s", msg))
				return
			}
			if text := chunk.Get("message.content").String(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
			if chunk.Get("done").Bool() {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("ollama: read stream: %w", err))
			return
		}
		yield("", errors.New("ollama: stream ended before completion"))
	}
}
