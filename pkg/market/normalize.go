package market

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ventureforge/ventureforge/pkg/llmjson"
)

// Normalize merges raw research findings into one Intelligence value.
//
// Each finding is first read as structured JSON (as produced by the
// structured research prompt); findings that carry no JSON are mined
// heuristically. Scalars keep the first informative value, lists are
// concatenated with duplicates removed.
func Normalize(findings ...string) Intelligence {
	merged := Intelligence{Source: SourceNone}
	for _, f := range findings {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if intel, ok := parseStructured(f); ok {
			merged = merge(merged, intel)
			continue
		}
		if intel := parseBasic(f); !intel.IsEmpty() {
			merged = merge(merged, intel)
		}
	}
	return merged
}

// rawIntelligence accepts the field spellings models tend to use.
type rawIntelligence struct {
	TAM             string          `json:"tam"`
	MarketSize      string          `json:"market_size"`
	GrowthRate      string          `json:"growth_rate"`
	Growth          string          `json:"growth"`
	MarketStage     string          `json:"market_stage"`
	Stage           string          `json:"stage"`
	Competitors     json.RawMessage `json:"competitors"`
	MarketGaps      json.RawMessage `json:"market_gaps"`
	Gaps            json.RawMessage `json:"gaps"`
	Trends          json.RawMessage `json:"trends"`
	Barriers        json.RawMessage `json:"barriers"`
	Recommendations json.RawMessage `json:"recommendations"`
}

func parseStructured(text string) (Intelligence, bool) {
	var raw rawIntelligence
	if err := llmjson.Decode(text, &raw); err != nil {
		return Intelligence{}, false
	}

	intel := Intelligence{
		TAM:        firstInformative(raw.TAM, raw.MarketSize),
		GrowthRate: firstInformative(raw.GrowthRate, raw.Growth),
		Stage:      ParseStage(firstInformative(raw.MarketStage, raw.Stage)),
		Source:     SourceStructured,
	}
	for _, item := range listItems(raw.Competitors) {
		c := Competitor{
			Name:        item.pick("name", "company", "text"),
			Position:    item.pick("position", "market_position"),
			Funding:     item.pick("funding", "total_funding"),
			Users:       item.pick("users", "user_base", "customers"),
			Description: item.pick("description", "summary"),
		}
		if c.Name != "" {
			intel.Competitors = append(intel.Competitors, c)
		}
	}
	gaps := raw.MarketGaps
	if len(gaps) == 0 {
		gaps = raw.Gaps
	}
	for _, item := range listItems(gaps) {
		g := Gap{
			Description: item.pick("description", "gap", "name", "text"),
			Opportunity: item.pick("opportunity", "potential"),
		}
		if g.Description != "" {
			intel.Gaps = append(intel.Gaps, g)
		}
	}
	for _, item := range listItems(raw.Trends) {
		tr := Trend{
			Name:   item.pick("name", "trend", "description", "text"),
			Impact: item.pick("impact"),
		}
		if tr.Name != "" {
			intel.Trends = append(intel.Trends, tr)
		}
	}
	for _, item := range listItems(raw.Barriers) {
		desc := item.pick("description", "barrier", "name", "text")
		if desc == "" {
			continue
		}
		sev := item.pick("severity", "level")
		if sev == "" {
			sev = desc
		}
		intel.Barriers = append(intel.Barriers, Barrier{Description: desc, Severity: ParseSeverity(sev)})
	}
	for _, item := range listItems(raw.Recommendations) {
		r := Recommendation{
			Action:    item.pick("action", "recommendation", "description", "text"),
			Rationale: item.pick("rationale", "reason"),
		}
		if r.Action != "" {
			intel.Recommendations = append(intel.Recommendations, r)
		}
	}

	if intel.IsEmpty() {
		return Intelligence{}, false
	}
	return intel, true
}

// listItem is one element of a findings list: either a bare string (stored
// under "text") or an object.
type listItem map[string]any

func (li listItem) pick(keys ...string) string {
	for _, k := range keys {
		switch v := li[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return fmt.Sprintf("%g", v)
		}
	}
	return ""
}

func listItems(raw json.RawMessage) []listItem {
	if len(raw) == 0 {
		return nil
	}
	var elems []any
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	items := make([]listItem, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case string:
			items = append(items, listItem{"text": v})
		case map[string]any:
			items = append(items, listItem(v))
		}
	}
	return items
}

var (
	tamLine    = regexp.MustCompile(`(?i)^(?:tam|total addressable market|market size)\b[^:]*:\s*(.+)$`)
	growthLine = regexp.MustCompile(`(?i)^(?:growth rate|growth|cagr)\b[^:]*:\s*(.+)$`)
	stageLine  = regexp.MustCompile(`(?i)^(?:market stage|stage|market maturity)\b[^:]*:\s*(.+)$`)
	bulletLine = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+(.+)$`)
	nameSplit  = regexp.MustCompile(`\s+[-–—:]\s+|:\s+`)
)

type section int

const (
	sectionNone section = iota
	sectionCompetitors
	sectionGaps
	sectionTrends
	sectionBarriers
	sectionRecommendations
)

// parseBasic mines headline figures and bulleted sections from prose.
func parseBasic(text string) Intelligence {
	intel := Intelligence{Source: SourceBasic}
	current := sectionNone

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		content := line
		bullet := bulletLine.FindStringSubmatch(line)
		if bullet != nil {
			content = bullet[1]
		}
		content = cleanValue(content)

		if m := tamLine.FindStringSubmatch(content); m != nil && intel.TAM == "" {
			intel.TAM = cleanValue(m[1])
			continue
		}
		if m := growthLine.FindStringSubmatch(content); m != nil && intel.GrowthRate == "" {
			intel.GrowthRate = cleanValue(m[1])
			continue
		}
		if m := stageLine.FindStringSubmatch(content); m != nil && intel.Stage == StageUnknown {
			intel.Stage = ParseStage(m[1])
			continue
		}

		if bullet != nil {
			addBullet(&intel, current, content)
			continue
		}

		if s, ok := headingSection(content); ok {
			current = s
		}
	}

	if intel.Stage == StageUnknown {
		intel.Stage = stageFromProse(text)
	}
	return intel
}

func headingSection(line string) (section, bool) {
	heading := strings.ToLower(strings.TrimSpace(strings.TrimLeft(line, "# ")))
	if !strings.HasPrefix(line, "#") && !strings.HasSuffix(heading, ":") {
		return sectionNone, false
	}
	switch {
	case strings.Contains(heading, "competitor"), strings.Contains(heading, "competition"):
		return sectionCompetitors, true
	case strings.Contains(heading, "gap"), strings.Contains(heading, "unmet"), strings.Contains(heading, "opportunit"):
		return sectionGaps, true
	case strings.Contains(heading, "trend"):
		return sectionTrends, true
	case strings.Contains(heading, "barrier"), strings.Contains(heading, "risk"):
		return sectionBarriers, true
	case strings.Contains(heading, "recommend"), strings.Contains(heading, "next step"):
		return sectionRecommendations, true
	default:
		return sectionNone, true
	}
}

func addBullet(intel *Intelligence, s section, item string) {
	if item == "" {
		return
	}
	switch s {
	case sectionCompetitors:
		name, rest := splitName(item)
		c := Competitor{Name: name, Description: rest}
		lower := strings.ToLower(rest)
		if strings.Contains(lower, "leader") || strings.Contains(lower, "dominant") {
			c.Position = "market leader"
		}
		if strings.Contains(lower, "fund") || strings.Contains(lower, "raised") {
			c.Funding = rest
		}
		intel.Competitors = append(intel.Competitors, c)
	case sectionGaps:
		intel.Gaps = append(intel.Gaps, Gap{Description: item})
	case sectionTrends:
		intel.Trends = append(intel.Trends, Trend{Name: item})
	case sectionBarriers:
		intel.Barriers = append(intel.Barriers, Barrier{Description: item, Severity: ParseSeverity(item)})
	case sectionRecommendations:
		intel.Recommendations = append(intel.Recommendations, Recommendation{Action: item})
	}
}

func splitName(item string) (string, string) {
	parts := nameSplit.Split(item, 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return item, ""
}

var stageProseCues = []stageCue{
	{StageDeclining, regexp.MustCompile(`\b(?:declining|shrinking) market`)},
	{StageEmerging, regexp.MustCompile(`\b(?:emerging|nascent|immature) market`)},
	{StageMature, regexp.MustCompile(`\b(?:mature|saturated) market`)},
	{StageGrowing, regexp.MustCompile(`\bgrowing market`)},
}

func stageFromProse(text string) Stage {
	return earliestStage(strings.ToLower(text), stageProseCues)
}

func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*_"))
}

func firstInformative(values ...string) string {
	for _, v := range values {
		if !IsPlaceholder(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func merge(into, from Intelligence) Intelligence {
	into.TAM = firstInformative(into.TAM, from.TAM)
	into.GrowthRate = firstInformative(into.GrowthRate, from.GrowthRate)
	if into.Stage == StageUnknown {
		into.Stage = from.Stage
	}
	into.Competitors = appendUnique(into.Competitors, from.Competitors, func(c Competitor) string { return c.Name })
	into.Gaps = appendUnique(into.Gaps, from.Gaps, func(g Gap) string { return g.Description })
	into.Trends = appendUnique(into.Trends, from.Trends, func(t Trend) string { return t.Name })
	into.Barriers = appendUnique(into.Barriers, from.Barriers, func(b Barrier) string { return b.Description })
	into.Recommendations = appendUnique(into.Recommendations, from.Recommendations, func(r Recommendation) string { return r.Action })

	switch {
	case into.Source == SourceStructured || from.Source == SourceStructured:
		into.Source = SourceStructured
	case from.Source == SourceBasic:
		into.Source = SourceBasic
	}
	return into
}

func appendUnique[T any](dst, src []T, key func(T) string) []T {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[strings.ToLower(key(v))] = true
	}
	for _, v := range src {
		k := strings.ToLower(key(v))
		if seen[k] {
			continue
		}
		seen[k] = true
		dst = append(dst, v)
	}
	return dst
}
