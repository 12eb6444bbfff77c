package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ventureforge/ventureforge/pkg/market"
	"github.com/ventureforge/ventureforge/pkg/models"
)

func TestBuildMarketReport(t *testing.T) {
	t.Run("scores and renders supplied intelligence", func(t *testing.T) {
		resp, err := BuildMarketReport(models.MarketReportRequest{
			Idea: "LedgerLy",
			Intelligence: market.Intelligence{
				TAM:        "$12B",
				GrowthRate: "18% CAGR",
				Stage:      market.StageGrowing,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, market.Rating(resp.Scores.OverallScore), resp.Rating)
		assert.Contains(t, resp.Report, "LedgerLy")
		assert.Greater(t, resp.Scores.MarketOpportunity, market.NeutralScore)
	})

	t.Run("empty intelligence gets neutral scores", func(t *testing.T) {
		resp, err := BuildMarketReport(models.MarketReportRequest{Idea: "Anything"})
		require.NoError(t, err)
		assert.Equal(t, market.NeutralScores(), resp.Scores)
		assert.Equal(t, "5.0", resp.Rating)
	})

	t.Run("rejects oversized idea", func(t *testing.T) {
		_, err := BuildMarketReport(models.MarketReportRequest{Idea: strings.Repeat("i", MaxIdeaLength+1)})
		assert.True(t, IsValidationError(err))
	})
}
