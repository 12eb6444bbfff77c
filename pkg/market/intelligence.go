// Package market turns web-research findings into structured market
// intelligence, scores it along four dimensions and renders the scores into
// a validation report. Scoring and rendering are pure and deterministic.
package market

import (
	"regexp"
	"strings"
)

// Stage is the lifecycle stage of the target market.
type Stage string

const (
	StageUnknown   Stage = ""
	StageEmerging  Stage = "emerging"
	StageGrowing   Stage = "growing"
	StageMature    Stage = "mature"
	StageDeclining Stage = "declining"
)

// stageCue is a word-anchored phrase that names a market stage.
type stageCue struct {
	stage Stage
	re    *regexp.Regexp
}

var (
	stageWordCues = []stageCue{
		{StageDeclining, regexp.MustCompile(`\b(?:declin\w*|shrink\w*)`)},
		{StageEmerging, regexp.MustCompile(`\b(?:emerg\w*|nascent|early|immature|pre-?maturity)`)},
		{StageMature, regexp.MustCompile(`\b(?:matur\w*|saturat\w*)`)},
		{StageGrowing, regexp.MustCompile(`\b(?:grow\w*|expan\w*)`)},
	}

	// negatedCue matches text immediately before a cue that negates it
	// ("not yet mature", "no longer growing", "pre-maturity").
	negatedCue = regexp.MustCompile(`(?:\bnot(?:\s+yet)?(?:\s+a)?|\bno\s+longer(?:\s+a)?|\bpre)[\s-]*$`)
)

// ParseStage maps free text ("an emerging market", "Mature") to a Stage.
// Exact stage names win; otherwise the earliest cue that is not negated
// decides. Unrecognized text maps to StageUnknown.
func ParseStage(text string) Stage {
	t := strings.ToLower(strings.TrimSpace(text))
	switch Stage(t) {
	case StageEmerging, StageGrowing, StageMature, StageDeclining:
		return Stage(t)
	}
	return earliestStage(t, stageWordCues)
}

// earliestStage returns the stage of the first non-negated cue match in t.
func earliestStage(t string, cues []stageCue) Stage {
	best, bestPos := StageUnknown, len(t)+1
	for _, cue := range cues {
		for _, loc := range cue.re.FindAllStringIndex(t, -1) {
			if negatedCue.MatchString(t[:loc[0]]) {
				continue
			}
			if loc[0] < bestPos {
				best, bestPos = cue.stage, loc[0]
			}
			break
		}
	}
	return best
}

// Source records which research pass produced the intelligence.
type Source string

const (
	// SourceNone means no usable findings were gathered.
	SourceNone Source = "none"
	// SourceBasic means findings were extracted heuristically from free text.
	SourceBasic Source = "basic"
	// SourceStructured means the research collaborator returned structured JSON.
	SourceStructured Source = "structured"
)

// Severity of a barrier to entry.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity maps free text to a Severity, defaulting to medium.
func ParseSeverity(text string) Severity {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "high"), strings.Contains(t, "severe"), strings.Contains(t, "critical"):
		return SeverityHigh
	case strings.Contains(t, "low"), strings.Contains(t, "minor"):
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Competitor is an identified player in the market.
type Competitor struct {
	Name        string `json:"name"`
	Position    string `json:"position,omitempty"`
	Funding     string `json:"funding,omitempty"`
	Users       string `json:"users,omitempty"`
	Description string `json:"description,omitempty"`
}

// Gap is an unmet need in the market.
type Gap struct {
	Description string `json:"description"`
	Opportunity string `json:"opportunity,omitempty"`
}

// Trend is a market trend.
type Trend struct {
	Name   string `json:"name"`
	Impact string `json:"impact,omitempty"`
}

// Barrier is a barrier to entry.
type Barrier struct {
	Description string   `json:"description"`
	Severity    Severity `json:"severity,omitempty"`
}

// Recommendation is a suggested next action.
type Recommendation struct {
	Action    string `json:"action"`
	Rationale string `json:"rationale,omitempty"`
}

// Intelligence is the normalized result of market research.
type Intelligence struct {
	TAM             string           `json:"tam,omitempty"`
	GrowthRate      string           `json:"growth_rate,omitempty"`
	Stage           Stage            `json:"market_stage,omitempty"`
	Competitors     []Competitor     `json:"competitors,omitempty"`
	Gaps            []Gap            `json:"market_gaps,omitempty"`
	Trends          []Trend          `json:"trends,omitempty"`
	Barriers        []Barrier        `json:"barriers,omitempty"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Source          Source           `json:"source,omitempty"`
}

// IsEmpty reports whether the intelligence carries no findings at all.
func (i Intelligence) IsEmpty() bool {
	return IsPlaceholder(i.TAM) &&
		IsPlaceholder(i.GrowthRate) &&
		i.Stage == StageUnknown &&
		len(i.Competitors) == 0 &&
		len(i.Gaps) == 0 &&
		len(i.Trends) == 0 &&
		len(i.Barriers) == 0 &&
		len(i.Recommendations) == 0
}

var placeholders = map[string]bool{
	"":              true,
	"unknown":       true,
	"n/a":           true,
	"na":            true,
	"none":          true,
	"not available": true,
	"tbd":           true,
	"-":             true,
	"null":          true,
}

// IsPlaceholder reports whether a scalar finding carries no information.
func IsPlaceholder(value string) bool {
	return placeholders[strings.ToLower(strings.TrimSpace(value))]
}
