// Package report holds the static Ranolazine → HFpEF analysis payload shown on
// the results tabs, served by /analyze and rendered into the exported PDF.
package report

import (
	"fmt"

	"github.com/csheth/indicure/internal/workflow"
)

const (
	Drug       = "Ranolazine"
	Indication = "HFpEF"
	CurrentUse = "Chronic stable angina / ischaemic heart disease"

	// DefaultQuery is the text the query box starts with.
	DefaultQuery = "Assess repurposing potential of Ranolazine for Heart Failure with Preserved Ejection Fraction (HFpEF) in the Indian population. Provide mechanistic rationale, clinical evidence, unmet need, and next steps."
	// ExportQuery is the query the PDF endpoint analyses.
	ExportQuery = "Assess repurposing potential of Ranolazine for HFpEF"
)

// Metric is one signal dashboard tile.
type Metric struct {
	Name      string `json:"metric"`
	Rating    string `json:"rating"`
	Rationale string `json:"rationale"`
	Warn      bool   `json:"warn,omitempty"`
}

type Endpoint struct {
	Metric       string `json:"metric"`
	Result       string `json:"result"`
	Significance string `json:"significance"`
}

// Outcome is a row of the key outcomes table in the PDF.
type Outcome struct {
	Parameter string `json:"parameter"`
	Result    string `json:"result"`
	PValue    string `json:"p_value"`
}

type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Normalized is the parsed form of a free-text query.
type Normalized struct {
	Drug              string `json:"drug"`
	CurrentUse        string `json:"current_use"`
	RepurposingTarget string `json:"repurposing_target"`
	Geography         string `json:"geography"`
}

type ClinicalEvidence struct {
	KeyFindings []string   `json:"key_findings"`
	Endpoints   []Endpoint `json:"endpoints"`
	Safety      string     `json:"safety"`
}

type MechanismEvidence struct {
	Mechanism       []string `json:"mechanism"`
	Differentiation string   `json:"differentiation"`
}

type Evidence struct {
	Clinical  ClinicalEvidence  `json:"clinical"`
	Mechanism MechanismEvidence `json:"mechanism"`
}

type UnmetNeed struct {
	IndiaBurden  []string `json:"india_burden"`
	GuidelineGap []string `json:"guideline_gap"`
	Implication  string   `json:"implication"`
}

type MarketNotes struct {
	MarketTrend         string `json:"market_trend"`
	PatientGap          string `json:"patient_gap"`
	CommercialRationale string `json:"commercial_rationale"`
}

type RiskFeasibility struct {
	PatentRisk     string      `json:"patent_risk"`
	PatentNotes    string      `json:"patent_notes"`
	RegulatoryPath string      `json:"regulatory_path"`
	CostProfile    string      `json:"cost_profile"`
	MarketNotes    MarketNotes `json:"market_notes"`
}

// TraceItem records what one agent contributed to a report.
type TraceItem struct {
	Agent  string `json:"agent"`
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Report is the full analysis for one run configuration.
type Report struct {
	Mode      workflow.Mode      `json:"mode"`
	Geography workflow.Geography `json:"geography"`

	Normalized       Normalized      `json:"normalized"`
	ExecutiveSummary string          `json:"executive_summary"`
	Metrics          []Metric        `json:"signal_dashboard"`
	Evidence         Evidence        `json:"evidence"`
	Outcomes         []Outcome       `json:"clinical_outcomes"`
	UnmetNeed        UnmetNeed       `json:"unmet_need"`
	RiskFeasibility  RiskFeasibility `json:"risk_feasibility"`
	Feasibility      []string        `json:"feasibility"`
	Recommendation   string          `json:"recommendation"`
	Conclusion       string          `json:"conclusion"`
	Limitations      []string        `json:"limitations"`
	References       []Reference     `json:"references"`
	// LVEDVChange is the mean LVEDV change in ml per arm, in chart order.
	LVEDVChange []ChartBar `json:"lvedv_change_ml"`
}

type ChartBar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Subtitle is the one-line header under the report title.
func (r *Report) Subtitle() string {
	return fmt.Sprintf("Drug: %s   Proposed Indication: %s (%s)   Analysis Mode: %s", Drug, Indication, r.Geography, r.Mode)
}

// Footnote is the mode and geography line shown under the summary.
func (r *Report) Footnote() string {
	return fmt.Sprintf("Mode: %s • Geography: %s", r.Mode, r.Geography)
}

// Build assembles the report for cfg. The content is fixed apart from the
// mode and geography it is labelled with.
func Build(cfg workflow.RunConfig) *Report {
	return BuildForQuery(cfg, ExportQuery)
}

// BuildForQuery is Build with the normalized form of query attached.
func BuildForQuery(cfg workflow.RunConfig, query string) *Report {
	r := &Report{
		Mode:             cfg.Mode,
		Geography:        cfg.Geography,
		Normalized:       Normalize(query),
		ExecutiveSummary: executiveSummary,
		Metrics:          metrics(),
		Evidence: Evidence{
			Clinical: ClinicalEvidence{
				KeyFindings: []string{
					"Improved diastolic performance (↑ LVEDV, ↓ E/E′).",
					"No significant adverse hemodynamic changes (BP/HR/QT).",
					"Likely symptom/quality-of-life benefit in HFpEF context.",
				},
				Endpoints: []Endpoint{
					{"LVEDV", "↑ (mean diff ~33.34 ml)", "p < 0.001"},
					{"E/E′", "↓ (mean diff ~0.45)", "p = 0.05"},
					{"Peak O₂", "trend ↑", "p = 0.09 (NS)"},
					{"Exercise duration", "trend ↑", "p = 0.18 (NS)"},
					{"BP/HR", "no difference", "p > 0.05"},
					{"QT interval", "no difference", "p = 0.27"},
				},
				Safety: "Favorable safety profile; adverse effects mild and comparable to placebo.",
			},
			Mechanism: MechanismEvidence{
				Mechanism: []string{
					"Inhibits late sodium current (INaL) → reduces intracellular Na⁺.",
					"Reduces Ca²⁺ overload → improves diastolic relaxation and filling.",
					"Addresses ionic dysfunction central to HFpEF pathophysiology.",
					"Evidence supports improvements in diastolic indices without BP/HR compromise.",
				},
				Differentiation: "Mechanistically distinct from SGLT2 inhibitors / ARNIs; complements existing therapy.",
			},
		},
		Outcomes: []Outcome{
			{"LVEDV", "↑ Significant improvement", "< 0.001"},
			{"E/E′", "↓ Improved diastolic function", "0.05"},
			{"Blood Pressure / HR", "No meaningful change", "> 0.05"},
			{"QT Interval", "No prolongation signal", "0.27"},
		},
		UnmetNeed: UnmetNeed{
			IndiaBurden: []string{
				"HFpEF accounts for ~15–30% of HF cases in India.",
				"High burden with ~40% mortality at ~3 years in reported cohorts.",
				"Underdiagnosed and increasing prevalence.",
			},
			GuidelineGap: []string{
				"Only SGLT2 inhibitors have proven benefit in HFpEF.",
				"No single curative/disease-modifying drug established.",
				"Ionic dysfunction (Na⁺/Ca²⁺ handling) central to HFpEF pathophysiology.",
			},
			Implication: "Clear therapeutic gap supports mechanism-driven repurposing candidates.",
		},
		RiskFeasibility: RiskFeasibility{
			PatentRisk:     "Low (prototype).",
			PatentNotes:    "Off-patent / near-expiry positioning (prototype assumption for demo).",
			RegulatoryPath: "Supplemental indication pathway (conceptual; depends on regulator and evidence).",
			CostProfile:    "Favorable (repurposed small molecule).",
			MarketNotes: MarketNotes{
				MarketTrend:         "Growing HF burden in India driven by aging, diabetes, and lifestyle risk factors.",
				PatientGap:          "Large underdiagnosed population suggests significant screening and treatment opportunity.",
				CommercialRationale: "Affordable repurposed therapy could fit unmet need and resource constraints.",
			},
		},
		Feasibility: []string{
			"Off-patent or reduced exclusivity risk profile relative to novel entities (confirm claim scope).",
			"Oral administration supports outpatient adoption and affordability assumptions.",
			"Regulatory pathway may be supplemental indication (jurisdiction-specific validation required).",
		},
		Recommendation: recommendation,
		Conclusion:     conclusion,
		Limitations: []string{
			"Evidence summarized here may include heterogeneous study designs and endpoints; external validation required.",
			"Signal strength depends on patient phenotyping and comparators; India-specific epidemiology may differ.",
			"Patent/FTO requires a dedicated legal search for jurisdictional claims and formulation/use patents.",
		},
		References: []Reference{
			{"HFpEF Guidelines (JAPI 2022)", "https://heartfailure.org.in/assets/Uploads/guidelines/HFPEF_Guidelines_JAPI_2022.pdf"},
			{"HFpEF India Review (2025)", "https://journals.lww.com/jicc/fulltext/2025/04000/heart_failure_with_preserved_ejection_fraction_in.2.aspx"},
			{"Clinical evidence summary (HFpEF/Ranolazine meta-analysis)", "https://pmc.ncbi.nlm.nih.gov/articles/PMC9947928/"},
			{"Ranolazine mechanism overview (AJC abstract)", "https://www.ajconline.org/article/S0002-9149(23)01060-3/abstract"},
			{"RALI-DHF proof-of-concept (JACC HF 2013)", "https://www.sciencedirect.com/science/article/pii/S2213177913000383"},
		},
		LVEDVChange: []ChartBar{{"Placebo", 0}, {"Ranolazine", 33.34}},
	}
	return r
}

// Normalize extracts drug, indication and geography from a free-text query.
// The demo subject is fixed, so every query maps onto it.
func Normalize(string) Normalized {
	return Normalized{
		Drug:              Drug,
		CurrentUse:        CurrentUse,
		RepurposingTarget: Indication,
		Geography:         string(workflow.GeographyIndia),
	}
}

func metrics() []Metric {
	return []Metric{
		{Name: "Clinical Signal", Rating: "Positive", Rationale: "Reported diastolic-function improvements with tolerated hemodynamics in referenced endpoints."},
		{Name: "Safety", Rating: "Favorable", Rationale: "No major BP/HR changes reported; QT signal not elevated in the summarized evidence set."},
		{Name: "Patent Risk", Rating: "Low", Rationale: "Repurposing typically reduces FTO risk versus de novo development; monitor any formulation/use claims."},
		{Name: "India Unmet Need", Rating: "High", Rationale: "HFpEF remains underdiagnosed and undertreated; accessible options and evidence generation are needed.", Warn: true},
	}
}

const (
	executiveSummary = "Ranolazine, approved for chronic angina, demonstrates strong mechanistic and clinical potential " +
		"for repurposing in HFpEF: a major, undertreated cardiac condition in India. " +
		"Clinical evidence shows statistically significant improvement in diastolic indices without " +
		"hemodynamic compromise. Given the therapy gap in Indian HFpEF guidance and Ranolazine's favorable " +
		"safety and cost profile, it is a viable mechanism-driven repurposing candidate."

	recommendation = "Proceed with targeted Phase II/III Indian clinical trials evaluating Ranolazine as an adjunct therapy " +
		"for HFpEF, prioritizing diastolic function endpoints (E/E′, LVEDV), symptoms/quality of life, and " +
		"hospitalization reduction; stratify patients by phenotype and comorbidities."

	conclusion = "Overall, the current evidence suggests a positive clinical signal for diastolic-function improvement " +
		"with a favorable tolerability profile in the summarized datasets. The primary value-creation step is " +
		"a well-designed India-focused clinical program with clearly defined HFpEF phenotyping, diastolic endpoints, " +
		"and pragmatic outcomes (including hospitalization and functional status)."
)
