package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structuredFindings = "```json\n" + `{
  "tam": "$12 billion",
  "growth_rate": "18% CAGR",
  "market_stage": "Growing",
  "competitors": [
    {"name": "Acme Health", "position": "market leader", "funding": "$80 million"},
    "Tiny Startup"
  ],
  "market_gaps": [{"description": "Rural clinics lack scheduling", "opportunity": "high"}],
  "trends": ["Telehealth adoption"],
  "barriers": [{"description": "HIPAA compliance", "severity": "High"}, "Sales cycles"],
  "recommendations": [{"action": "Pilot with 3 clinics", "rationale": "validate demand"}]
}` + "\n```"

const proseFindings = `Here is what I found about the market.

**Market size:** roughly $800 million in North America
Growth rate: steady, around 7% per year
This is an emerging market with few incumbents.

## Competitors
- ClinicFlow - market leader, raised $30M
- SlotBook: small bootstrapped team

## Market gaps
1. No offline mode for rural areas
2. Poor Spanish-language support

Trends:
* Shift to value-based care

## Barriers to entry
- Integration with EHR systems (high effort)
`

func TestNormalize_Structured(t *testing.T) {
	intel := Normalize(structuredFindings)

	assert.Equal(t, SourceStructured, intel.Source)
	assert.Equal(t, "$12 billion", intel.TAM)
	assert.Equal(t, "18% CAGR", intel.GrowthRate)
	assert.Equal(t, StageGrowing, intel.Stage)
	require.Len(t, intel.Competitors, 2)
	assert.Equal(t, Competitor{Name: "Acme Health", Position: "market leader", Funding: "$80 million"}, intel.Competitors[0])
	assert.Equal(t, "Tiny Startup", intel.Competitors[1].Name)
	require.Len(t, intel.Gaps, 1)
	assert.Equal(t, "high", intel.Gaps[0].Opportunity)
	assert.Equal(t, []Trend{{Name: "Telehealth adoption"}}, intel.Trends)
	require.Len(t, intel.Barriers, 2)
	assert.Equal(t, SeverityHigh, intel.Barriers[0].Severity)
	assert.Equal(t, SeverityMedium, intel.Barriers[1].Severity)
	require.Len(t, intel.Recommendations, 1)
	assert.Equal(t, "validate demand", intel.Recommendations[0].Rationale)
}

func TestNormalize_Prose(t *testing.T) {
	intel := Normalize(proseFindings)

	assert.Equal(t, SourceBasic, intel.Source)
	assert.Equal(t, "roughly $800 million in North America", intel.TAM)
	assert.Equal(t, "steady, around 7% per year", intel.GrowthRate)
	assert.Equal(t, StageEmerging, intel.Stage)

	require.Len(t, intel.Competitors, 2)
	assert.Equal(t, "ClinicFlow", intel.Competitors[0].Name)
	assert.Equal(t, "market leader", intel.Competitors[0].Position)
	assert.Equal(t, "SlotBook", intel.Competitors[1].Name)

	assert.Len(t, intel.Gaps, 2)
	assert.Equal(t, []Trend{{Name: "Shift to value-based care"}}, intel.Trends)
	require.Len(t, intel.Barriers, 1)
	assert.Equal(t, SeverityHigh, intel.Barriers[0].Severity)
}

func TestNormalize_Merge(t *testing.T) {
	intel := Normalize(proseFindings, structuredFindings, "", "   ")

	assert.Equal(t, SourceStructured, intel.Source, "any structured pass upgrades the source")
	assert.Equal(t, "roughly $800 million in North America", intel.TAM, "first informative scalar wins")
	assert.Equal(t, StageEmerging, intel.Stage)
	assert.Len(t, intel.Competitors, 4)

	dup := Normalize(structuredFindings, structuredFindings)
	assert.Len(t, dup.Competitors, 2, "duplicates are dropped")
	assert.Len(t, dup.Barriers, 2)
}

func TestNormalize_Nothing(t *testing.T) {
	tests := []struct {
		name     string
		findings []string
	}{
		{"no findings", nil},
		{"blank", []string{"", "  \n"}},
		{"chatter", []string{"I could not find anything useful, sorry."}},
		{"json without known fields", []string{`{"foo": "bar"}`}},
		{"placeholders", []string{`{"tam": "N/A", "growth_rate": "unknown", "competitors": []}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intel := Normalize(tt.findings...)
			assert.True(t, intel.IsEmpty())
			assert.Equal(t, SourceNone, intel.Source)
			assert.Equal(t, NeutralScores(), Score(intel))
		})
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		text string
		want Stage
	}{
		{"emerging", StageEmerging},
		{"Mature", StageMature},
		{" growing ", StageGrowing},
		{"Early / nascent", StageEmerging},
		{"saturated", StageMature},
		{"Declining", StageDeclining},
		{"rapidly growing", StageGrowing},
		{"immature", StageEmerging},
		{"an immature segment", StageEmerging},
		{"emerging, not yet mature", StageEmerging},
		{"pre-maturity", StageEmerging},
		{"not yet mature", StageUnknown},
		{"no longer growing, now declining", StageDeclining},
		{"mature but still growing", StageMature},
		{"n/a", StageUnknown},
		{"", StageUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStage(tt.text))
		})
	}
}

func TestStageFromProse(t *testing.T) {
	tests := []struct {
		text string
		want Stage
	}{
		{"This is an emerging market with few incumbents.", StageEmerging},
		{"Dental scheduling is an immature market today.", StageEmerging},
		{"It is not yet a mature market, but a growing market overall.", StageGrowing},
		{"A saturated market dominated by two vendors.", StageMature},
		{"Nothing about the stage here.", StageUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, stageFromProse(tt.text))
		})
	}
}
