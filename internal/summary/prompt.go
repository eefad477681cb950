// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summary

import (
	"strings"
	"text/template"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// trendPromptTmpl asks for a single-paragraph trend summary. The prompt pins
// the model to the supplied metadata: unsupported claims must be flagged as
// insufficient evidence, never invented.
var trendPromptTmpl = template.Must(template.New("trend").Parse(`You are a research-trend analyst for additive manufacturing (AM) and superalloys.
Write ONE paragraph (5-7 sentences) summarizing the newly indexed papers of the last 30 days, based ONLY on the metadata below.

Requirements:
- Name the recurring themes and problems (e.g. cracking, microstructure, creep).
- Describe process and materials trends where the metadata supports them.
- Mention notable institutions or countries only if clearly supported; otherwise state "insufficient evidence".
- No exaggeration. Do not invent facts that are not present in the metadata.

Metadata:
{{.Context}}
`))

// directionsPromptTmpl asks for exactly five research directions tailored to
// the lab context, with a fixed per-direction structure.
var directionsPromptTmpl = template.Must(template.New("directions").Parse(`You are a senior research planner in materials and manufacturing (AM and superalloys).
Review the last-30-days paper metadata below and propose exactly 5 new research directions tailored to the lab context.

Lab context:
{{.LabContext}}

For each direction include:
1) Title (12 words or fewer)
2) Rationale grounded in the metadata (recurring keywords, themes, institution spread)
3) Key hypothesis (1 sentence)
4) Minimal validation plan (2-3 experiments, analyses, or simulations feasible for the lab)
5) Expected impact (1-2 sentences)
6) Risks and mitigation (1-2 bullets)

Constraints:
- Do not invent facts that the metadata cannot support; state "insufficient evidence" instead.
- Synthesize across papers rather than listing them one by one.

Paper metadata:
{{.Context}}
`))

// genericLabContext substitutes for a missing lab-context block so the
// directions prompt keeps its shape.
const genericLabContext = "(Lab context not provided. Propose feasible directions assuming common AM/superalloy lab capabilities.)"

func renderTrendPrompt(records []types.Record, contextCap int) (string, error) {
	var b strings.Builder
	err := trendPromptTmpl.Execute(&b, struct{ Context string }{
		Context: buildMetadataContext(records, contextCap),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderDirectionsPrompt(records []types.Record, labContext string, contextCap int) (string, error) {
	if strings.TrimSpace(labContext) == "" {
		labContext = genericLabContext
	}
	var b strings.Builder
	err := directionsPromptTmpl.Execute(&b, struct{ LabContext, Context string }{
		LabContext: labContext,
		Context:    buildMetadataContext(records, contextCap),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
