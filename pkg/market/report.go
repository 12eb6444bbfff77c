package market

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
)

// Display limits for report lists.
const (
	MaxReportCompetitors = 5
	MaxReportItems       = 3
)

// Label maps a score to high (>= 0.7), medium (>= 0.4) or low.
func Label(score float64) string {
	switch {
	case score >= 0.7:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// Rating formats an overall score on the 0-10 scale with one decimal.
func Rating(overall float64) string {
	return fmt.Sprintf("%.1f", overall*10)
}

type reportData struct {
	Idea   string
	Scores Scores
	Intel  Intelligence
}

var reportFuncs = template.FuncMap{
	"label":  Label,
	"rating": Rating,
	"upper":  strings.ToUpper,
	"sub":    func(a, b int) int { return a - b },
	"score":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct":    func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	"orNA": func(v string) string {
		if IsPlaceholder(v) {
			return "Not yet quantified"
		}
		return v
	},
	"stageName": func(s Stage) string {
		if s == StageUnknown {
			return "Not yet determined"
		}
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	},
	"competitors": func(cs []Competitor) []Competitor { return limit(cs, MaxReportCompetitors) },
	"gaps":        func(gs []Gap) []Gap { return limit(gs, MaxReportItems) },
	"trends":      func(ts []Trend) []Trend { return limit(ts, MaxReportItems) },
	"barriers":    func(bs []Barrier) []Barrier { return limit(bs, MaxReportItems) },
	"recs":        func(rs []Recommendation) []Recommendation { return limit(rs, MaxReportItems) },
	"sourceText": func(s Source) string {
		switch s {
		case SourceStructured:
			return "structured market research"
		case SourceBasic:
			return "a basic research pass"
		default:
			return "limited available data"
		}
	},
}

var reportTemplate = template.Must(template.New("report").Funcs(reportFuncs).Parse(
	`# 📊 Market Validation Report: {{.Idea}}

**Overall Opportunity Rating: {{rating .Scores.OverallScore}}/10 ({{upper (label .Scores.OverallScore)}})**

## Score Breakdown
- **Market Opportunity:** {{score .Scores.MarketOpportunity}} ({{label .Scores.MarketOpportunity}})
- **Competitive Landscape:** {{score .Scores.CompetitiveLandscape}} ({{label .Scores.CompetitiveLandscape}})
- **Execution Feasibility:** {{score .Scores.ExecutionFeasibility}} ({{label .Scores.ExecutionFeasibility}})
- **Innovation Potential:** {{score .Scores.InnovationPotential}} ({{label .Scores.InnovationPotential}})

## Market Overview
- **Total Addressable Market:** {{orNA .Intel.TAM}}
- **Growth Rate:** {{orNA .Intel.GrowthRate}}
- **Market Stage:** {{stageName .Intel.Stage}}

## Competitive Landscape
{{- with competitors .Intel.Competitors}}
{{- range .}}
- **{{.Name}}**{{with .Position}} ({{.}}){{end}}{{with .Funding}}, funding: {{.}}{{end}}{{with .Users}}, users: {{.}}{{end}}
{{- end}}
{{- if gt (len $.Intel.Competitors) (len .)}}
- _...and {{sub (len $.Intel.Competitors) (len .)}} more_
{{- end}}
{{- else}}
No direct competitors were identified. That can signal an untapped market, or that the space needs deeper research.
{{- end}}

## Market Gaps
{{- with gaps .Intel.Gaps}}
{{- range .}}
- {{.Description}}{{with .Opportunity}}: {{.}}{{end}}
{{- end}}
{{- else}}
No clear market gaps surfaced yet. Customer interviews are the best way to find them.
{{- end}}

## Key Trends
{{- with trends .Intel.Trends}}
{{- range .}}
- {{.Name}}{{with .Impact}} ({{.}}){{end}}
{{- end}}
{{- else}}
No notable trends were identified.
{{- end}}

## Barriers to Entry
{{- with barriers .Intel.Barriers}}
{{- range .}}
- {{.Description}}{{with .Severity}} [{{.}}]{{end}}
{{- end}}
{{- else}}
No significant barriers to entry were identified.
{{- end}}

## Recommendations
{{- with recs .Intel.Recommendations}}
{{- range .}}
- {{.Action}}{{with .Rationale}}: {{.}}{{end}}
{{- end}}
{{- else}}
- Validate the problem with at least ten target customers before building.
{{- end}}

## Confidence
This assessment has {{label .Scores.Confidence}} confidence ({{pct .Scores.Confidence}}), based on {{sourceText .Intel.Source}}.

**Would you like to move on to defining product requirements, or dig deeper into any of these findings?**
`))

// executeReport is swapped in tests.
var executeReport = func(w io.Writer, data reportData) error {
	return reportTemplate.Execute(w, data)
}

// Render produces the markdown validation report. It never fails: any
// formatting problem yields a minimal report with the raw scores.
func Render(idea string, scores Scores, intel Intelligence) (report string) {
	if strings.TrimSpace(idea) == "" {
		idea = "Your Startup Idea"
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Report rendering panicked, using minimal report", "panic", r)
			report = minimalReport(idea, scores)
		}
	}()

	var buf bytes.Buffer
	if err := executeReport(&buf, reportData{Idea: idea, Scores: scores, Intel: intel}); err != nil {
		slog.Error("Report rendering failed, using minimal report", "error", err)
		return minimalReport(idea, scores)
	}
	return buf.String()
}

func minimalReport(idea string, s Scores) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Market Validation Report: %s\n\n", idea)
	fmt.Fprintf(&b, "Overall Opportunity Rating: %s/10\n\n", Rating(s.OverallScore))
	fmt.Fprintf(&b, "- Market Opportunity: %.2f\n", s.MarketOpportunity)
	fmt.Fprintf(&b, "- Competitive Landscape: %.2f\n", s.CompetitiveLandscape)
	fmt.Fprintf(&b, "- Execution Feasibility: %.2f\n", s.ExecutionFeasibility)
	fmt.Fprintf(&b, "- Innovation Potential: %.2f\n", s.InnovationPotential)
	fmt.Fprintf(&b, "- Confidence: %.2f\n", s.Confidence)
	return b.String()
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
