package api

import (
	"fmt"
	"unicode/utf8"

	"github.com/csheth/indicure/internal/report"
	"github.com/csheth/indicure/internal/workflow"
)

const (
	// MinQueryLength is counted in characters.
	MinQueryLength = 10
	OutputFormat   = "Summary + Risks + Recommendation"
)

// AnalyzeRequest is the body of POST /analyze and POST /export/pdf.
type AnalyzeRequest struct {
	Query        string `json:"query"`
	Mode         string `json:"mode,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	Geography    string `json:"geography,omitempty"`
}

// Validate fills defaults and checks every field.
func (r *AnalyzeRequest) Validate() error {
	if n := utf8.RuneCountInString(r.Query); n < MinQueryLength {
		return fmt.Errorf("query must be at least %d characters, got %d", MinQueryLength, n)
	}
	r.Mode = valueOr(r.Mode, string(workflow.ModeGeneral))
	r.Geography = valueOr(r.Geography, string(workflow.GeographyIndia))
	r.OutputFormat = valueOr(r.OutputFormat, OutputFormat)
	if r.OutputFormat != OutputFormat {
		return fmt.Errorf("unsupported output_format %q", r.OutputFormat)
	}
	_, err := parseRunConfig(r.Mode, r.Geography)
	return err
}

func (r AnalyzeRequest) runConfig() workflow.RunConfig {
	cfg, _ := parseRunConfig(r.Mode, r.Geography)
	return cfg
}

// AnalyzeResponse is the JSON report returned by POST /analyze.
type AnalyzeResponse struct {
	Normalized       report.Normalized      `json:"normalized"`
	Trace            []report.TraceItem     `json:"trace"`
	ExecutiveSummary string                 `json:"executive_summary"`
	Evidence         report.Evidence        `json:"evidence"`
	UnmetNeed        report.UnmetNeed       `json:"unmet_need"`
	RiskFeasibility  report.RiskFeasibility `json:"risk_feasibility"`
	Recommendation   string                 `json:"recommendation"`
	References       []report.Reference     `json:"references"`
}

func parseRunConfig(mode, geo string) (workflow.RunConfig, error) {
	m, ok := workflow.ParseMode(mode)
	if !ok {
		return workflow.RunConfig{}, unknownValueError("mode", mode, modeNames())
	}
	g, ok := workflow.ParseGeography(geo)
	if !ok {
		return workflow.RunConfig{}, unknownValueError("geography", geo, geographyNames())
	}
	return workflow.RunConfig{Mode: m, Geography: g}, nil
}

func modeNames() []string {
	names := make([]string, 0, len(workflow.Modes))
	for _, mode := range workflow.Modes {
		names = append(names, string(mode))
	}
	return names
}

func geographyNames() []string {
	names := make([]string, 0, len(workflow.Geographies))
	for _, geo := range workflow.Geographies {
		names = append(names, string(geo))
	}
	return names
}
