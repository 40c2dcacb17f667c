package report

import "github.com/csheth/indicure/internal/workflow"

// Section is the content of one results tab.
type Section struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
	Footnote   string
}

// Section returns the dashboard content for tab. Unknown tabs fall back to the
// summary.
func (r *Report) Section(tab workflow.Tab) Section {
	switch tab {
	case workflow.TabEvidence:
		return Section{
			Heading: "Clinical & Mechanistic Evidence",
			Bullets: []string{
				"↑ LVEDV (p < 0.001)",
				"↓ E/E′ (p = 0.05)",
				"No BP / HR / QT risk",
				"Late Na⁺ current inhibition → ↓ Ca²⁺ overload",
			},
		}
	case workflow.TabFeasibility:
		return Section{
			Heading: "Feasibility",
			Bullets: []string{
				"Off-patent / low FTO risk",
				"Oral, affordable therapy",
				"Supplemental indication pathway",
			},
		}
	case workflow.TabRecommendation:
		return Section{
			Heading: "Recommendation",
			Paragraphs: []string{
				"Proceed with targeted Phase II/III Indian clinical trials evaluating " +
					"Ranolazine as adjunct therapy for HFpEF, focusing on diastolic endpoints " +
					"and hospitalization reduction.",
			},
		}
	default:
		return Section{
			Heading: "Executive Summary",
			Paragraphs: []string{
				"Ranolazine, currently approved for chronic angina, demonstrates strong " +
					"mechanistic and clinical potential for repurposing in HFpEF, a major, " +
					"undertreated cardiac condition in India. Clinical evidence shows " +
					"significant improvement in diastolic parameters without hemodynamic " +
					"compromise.",
			},
			Footnote: r.Footnote(),
		}
	}
}

// Trace lists what each agent contributed, ending with the report generator.
func Trace() []TraceItem {
	notes := map[workflow.Agent]string{
		workflow.AgentOrchestration: "Parsed query, identified drug/indication/geography.",
		workflow.AgentClinical:      "Extracted endpoints and safety signals.",
		workflow.AgentWeb:           "Captured India-specific unmet need and guidance gap.",
		workflow.AgentPatent:        "Assessed patent/FTO feasibility (prototype).",
		workflow.AgentMarket:        "Summarized market rationale (prototype).",
		workflow.AgentInternal:      "Produced mechanistic rationale and differentiation.",
	}
	trace := make([]TraceItem, 0, len(workflow.Agents)+1)
	for _, agent := range workflow.Agents {
		trace = append(trace, TraceItem{Agent: agent.DisplayName(), Status: "completed", Note: notes[agent]})
	}
	return append(trace, TraceItem{
		Agent:  GeneratorAgent,
		Status: "completed",
		Note:   "Assembled dashboard fields and export-ready report.",
	})
}

// GeneratorAgent is the trace entry that assembles the final report.
const GeneratorAgent = "Report Generator Agent"
