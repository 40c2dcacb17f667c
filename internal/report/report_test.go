package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/indicure/internal/workflow"
)

func TestBuildLabelsModeAndGeography(t *testing.T) {
	r := Build(workflow.RunConfig{Mode: workflow.ModeClinical, Geography: workflow.GeographyIndia})

	assert.Equal(t, "Mode: Clinical • Geography: India", r.Footnote())
	assert.Contains(t, r.Subtitle(), "Analysis Mode: Clinical")
	assert.Equal(t, Drug, r.Normalized.Drug)
	assert.Equal(t, Indication, r.Normalized.RepurposingTarget)
	assert.Len(t, r.References, 5)
	assert.Len(t, r.Evidence.Clinical.Endpoints, 6)
}

func TestMetricsMatchDashboard(t *testing.T) {
	r := Build(workflow.DefaultRunConfig())
	require.Len(t, r.Metrics, 4)

	got := map[string]string{}
	for _, m := range r.Metrics {
		got[m.Name] = m.Rating
	}
	assert.Equal(t, map[string]string{
		"Clinical Signal":  "Positive",
		"Safety":           "Favorable",
		"Patent Risk":      "Low",
		"India Unmet Need": "High",
	}, got)
	assert.True(t, r.Metrics[3].Warn)
	assert.False(t, r.Metrics[0].Warn)
}

func TestSectionPerTab(t *testing.T) {
	r := Build(workflow.RunConfig{Mode: workflow.ModePatent, Geography: workflow.GeographyIndia})

	tests := []struct {
		tab     workflow.Tab
		heading string
		bullets int
	}{
		{workflow.TabSummary, "Executive Summary", 0},
		{workflow.TabEvidence, "Clinical & Mechanistic Evidence", 4},
		{workflow.TabFeasibility, "Feasibility", 3},
		{workflow.TabRecommendation, "Recommendation", 0},
	}
	for _, tc := range tests {
		t.Run(string(tc.tab), func(t *testing.T) {
			s := r.Section(tc.tab)
			assert.Equal(t, tc.heading, s.Heading)
			assert.Len(t, s.Bullets, tc.bullets)
		})
	}

	assert.Equal(t, "Mode: Patent • Geography: India", r.Section(workflow.TabSummary).Footnote)
	assert.Empty(t, r.Section(workflow.TabEvidence).Footnote)
	assert.Equal(t, "Executive Summary", r.Section("appendix").Heading)
}

func TestTraceEndsWithGenerator(t *testing.T) {
	trace := Trace()
	require.Len(t, trace, 7)
	assert.Equal(t, "Master Orchestration Agent", trace[0].Agent)
	assert.Equal(t, "Internal Knowledge Agent", trace[5].Agent)
	assert.Equal(t, GeneratorAgent, trace[6].Agent)
	for _, item := range trace {
		assert.Equal(t, "completed", item.Status)
		assert.NotEmpty(t, item.Note, item.Agent)
	}
}

func TestReportJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(Build(workflow.DefaultRunConfig()))
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"normalized", "executive_summary", "evidence", "unmet_need", "risk_feasibility", "recommendation", "references"} {
		assert.Contains(t, fields, key)
	}
}
