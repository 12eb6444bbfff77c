package market

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Dimension weights for the overall score, in the order opportunity,
// competitive, feasibility, innovation.
const (
	WeightOpportunity = 0.30
	WeightCompetitive = 0.25
	WeightFeasibility = 0.25
	WeightInnovation  = 0.20
)

// Neutral values returned for degenerate input.
const (
	NeutralScore      = 0.5
	NeutralConfidence = 0.3
)

// Scores is the four-dimension market assessment. Pure value type.
type Scores struct {
	MarketOpportunity    float64 `json:"market_opportunity"`
	CompetitiveLandscape float64 `json:"competitive_landscape"`
	ExecutionFeasibility float64 `json:"execution_feasibility"`
	InnovationPotential  float64 `json:"innovation_potential"`
	OverallScore         float64 `json:"overall_score"`
	Confidence           float64 `json:"confidence"`
}

// NeutralScores is the fixed result for intelligence without findings.
func NeutralScores() Scores {
	return Scores{
		MarketOpportunity:    NeutralScore,
		CompetitiveLandscape: NeutralScore,
		ExecutionFeasibility: NeutralScore,
		InnovationPotential:  NeutralScore,
		OverallScore:         NeutralScore,
		Confidence:           NeutralConfidence,
	}
}

var (
	percentPattern     = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:%|percent)`)
	shortMagnitude     = regexp.MustCompile(`\d(?:\.\d+)?\s*(?:m|mm|b|bn)\b`)
	highGrowthCues     = []string{"rapid", "explosive", "exponential", "high growth", "high-growth", "fast growing", "fast-growing", "booming"}
	moderateGrowthCues = []string{"steady", "moderate", "stable growth", "healthy"}
	leaderCues         = []string{"leader", "leading", "dominant", "incumbent"}
)

// Score computes the market scores for the given intelligence.
// Deterministic: identical input yields identical output.
func Score(intel Intelligence) Scores {
	if intel.IsEmpty() {
		return NeutralScores()
	}

	s := Scores{
		MarketOpportunity:    marketOpportunity(intel),
		CompetitiveLandscape: competitiveLandscape(intel),
		ExecutionFeasibility: executionFeasibility(intel),
		InnovationPotential:  innovationPotential(intel),
		Confidence:           confidence(intel),
	}
	overall := s.MarketOpportunity*WeightOpportunity +
		s.CompetitiveLandscape*WeightCompetitive +
		s.ExecutionFeasibility*WeightFeasibility +
		s.InnovationPotential*WeightInnovation
	s.OverallScore = round2(clamp(overall))
	return s
}

func marketOpportunity(intel Intelligence) float64 {
	score := 0.5

	if !IsPlaceholder(intel.TAM) {
		tam := strings.ToLower(intel.TAM)
		switch {
		case strings.Contains(tam, "billion"):
			score += 0.3
		case strings.Contains(tam, "million"):
			score += 0.2
		default:
			score += 0.1
		}
	}

	switch growthTier(intel.GrowthRate) {
	case growthHigh:
		score += 0.2
	case growthModerate:
		score += 0.1
	}

	switch intel.Stage {
	case StageGrowing:
		score += 0.2
	case StageEmerging:
		score += 0.15
	case StageDeclining:
		score -= 0.2
	}

	score += math.Min(0.1*float64(len(intel.Gaps)), 0.3)
	return clamp(score)
}

func competitiveLandscape(intel Intelligence) float64 {
	score := 1.0

	n := len(intel.Competitors)
	switch {
	case n >= 10:
		score -= 0.4
	case n >= 5:
		score -= 0.3
	case n >= 2:
		score -= 0.2
	case n == 1:
		score -= 0.1
	}

	strong := 0
	for _, c := range intel.Competitors {
		if isStrongCompetitor(c) {
			strong++
		}
	}
	score -= math.Min(0.15*float64(strong), 0.4)
	return clamp(score)
}

func executionFeasibility(intel Intelligence) float64 {
	score := 0.7

	for _, b := range intel.Barriers {
		switch b.Severity {
		case SeverityHigh:
			score -= 0.2
		case SeverityMedium:
			score -= 0.1
		}
	}

	switch intel.Stage {
	case StageMature:
		score += 0.2
	case StageEmerging:
		score -= 0.1
	}

	if len(intel.Competitors) > 0 {
		score += 0.1
	}
	return clamp(score)
}

func innovationPotential(intel Intelligence) float64 {
	score := 0.5

	score += math.Min(0.2*float64(len(intel.Gaps)), 0.4)

	switch intel.Stage {
	case StageEmerging:
		score += 0.3
	case StageGrowing:
		score += 0.2
	case StageMature:
		score -= 0.1
	}

	score += math.Min(0.1*float64(len(intel.Trends)), 0.2)

	n := len(intel.Competitors)
	switch {
	case n <= 2:
		score += 0.2
	case n <= 5:
		score += 0.1
	}
	return clamp(score)
}

func confidence(intel Intelligence) float64 {
	score := 0.3

	switch intel.Source {
	case SourceStructured:
		score += 0.4
	case SourceBasic:
		score += 0.2
	}

	if !IsPlaceholder(intel.TAM) {
		score += 0.1
	}
	if !IsPlaceholder(intel.GrowthRate) {
		score += 0.1
	}
	if len(intel.Competitors) > 0 {
		score += 0.1
	}
	if len(intel.Gaps) > 0 {
		score += 0.05
	}
	if len(intel.Trends) > 0 {
		score += 0.05
	}
	return clamp(score)
}

type growth int

const (
	growthNone growth = iota
	growthModerate
	growthHigh
)

// growthTier classifies a growth-rate description. The largest percentage
// mentioned wins over keyword cues.
func growthTier(rate string) growth {
	if IsPlaceholder(rate) {
		return growthNone
	}
	text := strings.ToLower(rate)

	maxPct := -1.0
	for _, m := range percentPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > maxPct {
			maxPct = v
		}
	}
	switch {
	case maxPct >= 15:
		return growthHigh
	case maxPct >= 5:
		return growthModerate
	case maxPct >= 0:
		return growthNone
	}

	for _, cue := range highGrowthCues {
		if strings.Contains(text, cue) {
			return growthHigh
		}
	}
	for _, cue := range moderateGrowthCues {
		if strings.Contains(text, cue) {
			return growthModerate
		}
	}
	return growthNone
}

// isStrongCompetitor: a market-leader position, or funding/users phrased in
// millions or billions.
func isStrongCompetitor(c Competitor) bool {
	position := strings.ToLower(c.Position + " " + c.Description)
	for _, cue := range leaderCues {
		if strings.Contains(position, cue) {
			return true
		}
	}
	return hasMagnitude(c.Funding) || hasMagnitude(c.Users)
}

func hasMagnitude(value string) bool {
	v := strings.ToLower(value)
	if strings.Contains(v, "million") || strings.Contains(v, "billion") {
		return true
	}
	return shortMagnitude.MatchString(v)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
