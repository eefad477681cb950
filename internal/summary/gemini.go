// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/scopus-monitor/internal/httputil"
	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// geminiAPIBase is the Gemini generateContent endpoint prefix. Package-level
// var for test substitution.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// DefaultModel is used when no model identifier is configured.
const DefaultModel = "gemini-2.0-flash"

const geminiDefaultTimeout = 60 * time.Second

// GeminiBackend calls the Gemini generateContent API.
//
// Construct it only when an API key is present; a missing key means
// summarization is disabled and callers should pass a nil Backend instead.
type GeminiBackend struct {
	apiKey     string
	model      string
	maxRetries int
	client     *http.Client
}

// NewGeminiBackend builds a backend from cfg, applying defaults for unset
// fields. It returns nil when cfg carries no API key; callers must check the
// concrete pointer before storing it in a Backend interface.
func NewGeminiBackend(cfg types.SummaryConfig) *GeminiBackend {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = geminiDefaultTimeout
	}
	return &GeminiBackend{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: timeout},
	}
}

// Model returns the configured model identifier.
func (b *GeminiBackend) Model() string { return b.model }

// geminiRequest is the request body for the generateContent API.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// geminiResponse is the subset of the generateContent response we consume.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt to the Gemini API and returns the concatenated text
// of the first candidate. Rate-limited calls are retried with backoff before
// the error is surfaced to the caller.
func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s:generateContent", geminiAPIBase, b.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", b.apiKey)

	resp, err := httputil.DoWithRetry(ctx, b.client, req, b.maxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return "", fmt.Errorf("Gemini API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", fmt.Errorf("parsing Gemini response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("Gemini response contained no candidates")
	}

	var parts []string
	for _, p := range gr.Candidates[0].Content.Parts {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, ""), nil
}
