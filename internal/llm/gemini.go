package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultGeminiModel   = "gemini-2.5-flash"
)

// ErrNoAPIKey is returned by NewGemini when no key is configured.
var ErrNoAPIKey = errors.New("GEMINI_API_KEY not found in environment variables")

// Gemini is a client for the Gemini generateContent API.
type Gemini struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGemini creates a Gemini client. An empty apiKey returns ErrNoAPIKey so
// callers can refuse to send anything.
func NewGemini(baseURL, apiKey string, timeout time.Duration) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	return &Gemini{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

func (g *Gemini) post(ctx context.Context, req Request, method string, query url.Values) (*http.Response, error) {
	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	if req.Temperature != nil || req.MaxTokens > 0 {
		body.GenerationConfig = &geminiGenerationConfig{Temperature: req.Temperature, MaxOutputTokens: req.MaxTokens}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:%s", g.baseURL, url.PathEscape(req.Model), method)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, readAPIError("gemini", resp, "error.message")
	}
	return resp, nil
}

// candidateText joins the text parts of the first candidate.
func candidateText(res gjson.Result) string {
	var b strings.Builder
	for _, part := range res.Get("candidates.0.content.parts").Array() {
		b.WriteString(part.Get("text").String())
	}
	return b.String()
}

// blockReason reports why Gemini refused to answer, if it did.
func blockReason(res gjson.Result) string {
	return res.Get("promptFeedback.blockReason").String()
}

// Complete calls generateContent.
func (g *Gemini) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := g.post(ctx, req, "generateContent", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	res := gjson.ParseBytes(data)
	if reason := blockReason(res); reason != "" {
		return "", fmt.Errorf("gemini: prompt blocked: %s", reason)
	}
	return candidateText(res), nil
}

// Stream calls streamGenerateContent with server-sent events and yields the
// text of each event.
func (g *Gemini) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := g.post(ctx, req, "streamGenerateContent", url.Values{"alt": {"sse"}})
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			payload, ok := strings.CutPrefix(line, "data:")
			if !ok {
				continue
			}
			payload = strings.TrimSpace(payload)
			if payload == "" || payload == "[DONE]" {
				continue
			}
			if !gjson.Valid(payload) {
				yield("", fmt.Errorf("gemini: malformed event %q", payload))
				return
			}
			res := gjson.Parse(payload)
			if msg := res.Get("error.message").String(); msg != "" {
				yield("", fmt.Errorf("gemini: %s", msg))
				return
			}
			if reason := blockReason(res); reason != "" {
				yield("", fmt.Errorf("gemini: prompt blocked: %s", reason))
				return
			}
			if text := candidateText(res); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", fmt.Errorf("gemini: read stream: %w", err))
		}
	}
}
