package market

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeResearcher struct {
	mu       sync.Mutex
	queries  []string
	inFlight atomic.Int32
	peak     atomic.Int32
	respond  func(ctx context.Context, query string) (string, error)
}

func (f *fakeResearcher) Research(ctx context.Context, query string) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.respond(ctx, query)
}

func TestBuildQueries(t *testing.T) {
	qs := BuildQueries("AI tutor", "edtech")
	require.Len(t, qs, 4)
	for _, q := range qs {
		assert.Contains(t, q.Text, "AI tutor")
		assert.Contains(t, q.Text, "edtech industry")
	}
	assert.Equal(t, FacetMarketSize, qs[0].Facet)

	bare := BuildQueries("  ", "")
	assert.Contains(t, bare[0].Text, "a new startup")
	assert.NotContains(t, bare[0].Text, "industry")
}

func TestGatherer_PartialFailure(t *testing.T) {
	r := &fakeResearcher{respond: func(_ context.Context, query string) (string, error) {
		switch {
		case strings.HasPrefix(query, "Main competitors"):
			return "", errors.New("search quota exceeded")
		case strings.HasPrefix(query, "Total addressable market"):
			return `{"tam": "$3 billion", "market_stage": "emerging"}`, nil
		default:
			return "", nil
		}
	}}
	g := NewGatherer(r, time.Second, 2)

	results := g.Gather(context.Background(), BuildQueries("idea", ""))
	require.Len(t, results, 4)
	assert.Error(t, results[1].Err, "competitor query fails")
	assert.Equal(t, FacetCompetitors, results[1].Query.Facet)

	intel := g.Investigate(context.Background(), "idea", "")
	assert.Equal(t, "$3 billion", intel.TAM)
	assert.Equal(t, StageEmerging, intel.Stage)
	assert.Equal(t, SourceStructured, intel.Source)
}

func TestGatherer_ConcurrencyLimit(t *testing.T) {
	r := &fakeResearcher{respond: func(context.Context, string) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "", nil
	}}
	NewGatherer(r, 0, 2).Gather(context.Background(), BuildQueries("x", "y"))

	assert.LessOrEqual(t, r.peak.Load(), int32(2))
	assert.Len(t, r.queries, 4)
}

func TestGatherer_Timeout(t *testing.T) {
	r := &fakeResearcher{respond: func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	results := NewGatherer(r, 10*time.Millisecond, 4).Gather(context.Background(), BuildQueries("x", ""))
	for _, res := range results {
		assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	}
}

func TestGatherer_CancelledContext(t *testing.T) {
	r := &fakeResearcher{respond: func(context.Context, string) (string, error) {
		return "should not be called", nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	intel := NewGatherer(r, time.Second, 4).Investigate(ctx, "x", "")
	assert.True(t, intel.IsEmpty())
	assert.Empty(t, r.queries)
}

func TestGatherer_Assess(t *testing.T) {
	r := &fakeResearcher{respond: func(context.Context, string) (string, error) {
		return "", errors.New("offline")
	}}
	report, scores, intel := NewGatherer(r, time.Second, 4).Assess(context.Background(), "Pet insurance", "")

	assert.True(t, intel.IsEmpty())
	assert.Equal(t, NeutralScores(), scores)
	assert.Contains(t, report, "Pet insurance")
	assert.Contains(t, report, "5.0/10")
}
