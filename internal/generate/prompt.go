// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/mrd-engine/pkg/types"
)

// draftPromptTmpl instructs a model to draft all twelve MRD sections and
// reply with a single JSON object.
var draftPromptTmpl = template.Must(template.New("draft").Parse(`You are a product sourcing analyst drafting a Market Requirements Document (MRD) for a consumer product. Write every section listed below in markdown, grounded in the product brief and the research sources.

Sections to write:
{{range .Sections}}{{.Number}}. {{.Title}}
{{end}}
Product brief:
- Name: {{.Brief.ProductName}}
- Description: {{.Brief.ProductDescription}}
- Target market: {{.Brief.TargetMarket}}
{{- if .Brief.Features}}
- Features:
{{- range .Brief.Features}}
  - {{.}}
{{- end}}
{{- end}}
- Minimum order quantity: {{.Brief.MOQ}}
- Target price: {{.Brief.TargetPrice}}
{{- if .Brief.Competitors}}
- Competitors:
{{- range .Brief.Competitors}}
  - {{.}}
{{- end}}
{{- end}}
{{- if .Sources}}

Research sources:
{{- range .Sources}}
- {{.Title}} ({{.URL}})
{{- end}}
{{- end}}

For each section provide:
- number: the section number from the list above
- title: the section title
- content: the section body in markdown; prefer bullet points, include concrete figures, and cite source URLs inline where they support a claim
- confidence: a number between 0.0 and 1.0 for how well the brief and sources support the content

Respond with a JSON object holding a "sections" array and no other text.

Example response:
{"sections": [{"number": 1, "title": "Executive Summary", "content": "- A compact travel kettle targeting frequent flyers...", "confidence": 0.8}]}`))

// renderPrompt executes the draft prompt template for one request.
func renderPrompt(req Request) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Brief    types.Brief
		Sources  []types.SourceRef
		Sections []types.SectionDef
	}{
		Brief:    req.Brief,
		Sources:  req.Sources,
		Sections: types.DefaultSections(),
	}
	if err := draftPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// parseDraftJSON decodes a model reply into a Response. Models sometimes wrap
// the object in a markdown code fence despite instructions, so the fence is
// stripped first.
func parseDraftJSON(text string) (*Response, error) {
	var resp Response
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &resp); err != nil {
		return nil, fmt.Errorf("parsing draft JSON: %w", err)
	}
	return &resp, nil
}

// stripCodeFence removes a surrounding ``` fence when present.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if i := strings.LastIndex(trimmed, "```"); i >= 0 {
		trimmed = trimmed[:i]
	}
	return strings.TrimSpace(trimmed)
}
