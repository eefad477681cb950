// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summary produces trend and research-direction prose from record
// metadata via a generative text service. The service is best-effort: a
// missing credential or a failed call degrades the digest, it never aborts
// the run.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// Backend generates free text from a prompt. The Gemini implementation is the
// production backend; tests supply a mock.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Status classifies the outcome of one summarization request, so callers can
// tell a degraded mode from a failure without inspecting the text.
type Status string

const (
	// StatusProduced means the service returned usable text.
	StatusProduced Status = "produced"

	// StatusSkipped means summarization was not attempted: no backend
	// configured or no input records. A valid degraded mode, not an error.
	StatusSkipped Status = "skipped"

	// StatusFailed means the service call was attempted and failed. The run
	// continues with an empty section.
	StatusFailed Status = "failed"
)

// Result is the outcome of one summarization request. Text is non-empty only
// when Status is StatusProduced; Err is non-nil only when Status is
// StatusFailed.
type Result struct {
	Status Status
	Text   string
	Err    error
}

// defaultContextCap bounds how many records are serialized into the prompt.
const defaultContextCap = 60

// TrendSummary asks the backend for a one-paragraph trend summary of the
// records, grounded only in their metadata. A nil backend or empty record
// list yields StatusSkipped.
func TrendSummary(ctx context.Context, b Backend, records []types.Record, contextCap int) Result {
	if b == nil || len(records) == 0 {
		return Result{Status: StatusSkipped}
	}

	prompt, err := renderTrendPrompt(records, contextCap)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("rendering trend prompt: %w", err)}
	}
	return generate(ctx, b, prompt)
}

// ResearchDirections asks the backend for five proposed research directions
// tailored to labContext. An empty labContext is replaced with a generic
// placeholder rather than dropped, so the prompt shape stays stable.
func ResearchDirections(ctx context.Context, b Backend, records []types.Record, labContext string, contextCap int) Result {
	if b == nil || len(records) == 0 {
		return Result{Status: StatusSkipped}
	}

	prompt, err := renderDirectionsPrompt(records, labContext, contextCap)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("rendering directions prompt: %w", err)}
	}
	return generate(ctx, b, prompt)
}

func generate(ctx context.Context, b Backend, prompt string) Result {
	text, err := b.Generate(ctx, prompt)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Status: StatusFailed, Err: fmt.Errorf("model returned no text")}
	}
	return Result{Status: StatusProduced, Text: text}
}

// buildMetadataContext serializes up to contextCap records (input order, not
// ranked) into the metadata block embedded in prompts.
func buildMetadataContext(records []types.Record, contextCap int) string {
	if contextCap <= 0 {
		contextCap = defaultContextCap
	}
	if len(records) > contextCap {
		records = records[:contextCap]
	}

	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "- Title: %s\n", r.Title)
		fmt.Fprintf(&b, "  Author: %s\n", r.Creator)
		fmt.Fprintf(&b, "  Affiliation: %s\n", r.PrimaryAffiliation())
		fmt.Fprintf(&b, "  Journal: %s\n", r.PublicationName)
		fmt.Fprintf(&b, "  CoverDate: %s\n", r.CoverDate)
		fmt.Fprintf(&b, "  Keywords: %s\n", r.AuthKeywords)
	}
	return strings.TrimRight(b.String(), "\n")
}
