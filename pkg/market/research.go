package market

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Researcher runs one web-research query and returns the raw findings.
type Researcher interface {
	Research(ctx context.Context, query string) (string, error)
}

// Facet names one research angle.
type Facet string

const (
	FacetMarketSize  Facet = "market_size"
	FacetCompetitors Facet = "competitors"
	FacetTrends      Facet = "trends"
	FacetBarriers    Facet = "barriers"
)

// Query is one research question of a plan.
type Query struct {
	Facet Facet
	Text  string
}

// BuildQueries returns the research plan for an idea, one query per facet.
func BuildQueries(idea, industry string) []Query {
	subject := strings.TrimSpace(idea)
	if subject == "" {
		subject = "a new startup"
	}
	scope := ""
	if industry = strings.TrimSpace(industry); industry != "" {
		scope = fmt.Sprintf(" in the %s industry", industry)
	}
	return []Query{
		{FacetMarketSize, fmt.Sprintf("Total addressable market size, annual growth rate and market stage for %s%s", subject, scope)},
		{FacetCompetitors, fmt.Sprintf("Main competitors for %s%s, with market position, funding and user numbers", subject, scope)},
		{FacetTrends, fmt.Sprintf("Key trends and unmet needs (market gaps) relevant to %s%s", subject, scope)},
		{FacetBarriers, fmt.Sprintf("Barriers to entry, regulatory hurdles and their severity for %s%s", subject, scope)},
	}
}

// FacetResult is the outcome of one research query.
type FacetResult struct {
	Query    Query
	Findings string
	Err      error
}

// Gatherer fans research queries out to a Researcher with bounded
// concurrency. A failing query never cancels its siblings.
type Gatherer struct {
	researcher  Researcher
	timeout     time.Duration
	concurrency int
}

// NewGatherer creates a Gatherer. Non-positive timeout means no per-query
// deadline; non-positive concurrency means one query at a time.
func NewGatherer(researcher Researcher, timeout time.Duration, concurrency int) *Gatherer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Gatherer{researcher: researcher, timeout: timeout, concurrency: concurrency}
}

// Gather runs every query and returns results in plan order.
func (g *Gatherer) Gather(ctx context.Context, queries []Query) []FacetResult {
	results := make([]FacetResult, len(queries))

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, q := range queries {
		eg.Go(func() error {
			results[i] = g.runQuery(ctx, q)
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

func (g *Gatherer) runQuery(ctx context.Context, q Query) FacetResult {
	res := FacetResult{Query: q}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	qctx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	findings, err := g.researcher.Research(qctx, q.Text)
	if err != nil {
		slog.Warn("Research query failed",
			"facet", q.Facet,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		res.Err = err
		return res
	}
	slog.Debug("Research query completed",
		"facet", q.Facet,
		"duration_ms", time.Since(start).Milliseconds(),
		"findings_length", len(findings))
	res.Findings = findings
	return res
}

// Investigate researches an idea and normalizes the findings. Queries that
// fail are skipped; with no findings at all the result is empty
// intelligence, which scores neutrally.
func (g *Gatherer) Investigate(ctx context.Context, idea, industry string) Intelligence {
	results := g.Gather(ctx, BuildQueries(idea, industry))
	findings := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err == nil && strings.TrimSpace(r.Findings) != "" {
			findings = append(findings, r.Findings)
		}
	}
	return Normalize(findings...)
}

// Assess runs the full pipeline: research, normalize, score, render.
// It returns the rendered report together with the scores.
func (g *Gatherer) Assess(ctx context.Context, idea, industry string) (string, Scores, Intelligence) {
	intel := g.Investigate(ctx, idea, industry)
	scores := Score(intel)
	return Render(idea, scores, intel), scores, intel
}
