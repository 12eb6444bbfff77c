package services

import (
	"fmt"
	"strings"

	"github.com/ventureforge/ventureforge/pkg/market"
	"github.com/ventureforge/ventureforge/pkg/models"
)

// MaxIdeaLength caps the idea title accepted for offline reports.
const MaxIdeaLength = 500

// BuildMarketReport scores caller-supplied intelligence and renders the
// validation report without running any research.
func BuildMarketReport(req models.MarketReportRequest) (*models.MarketReportResponse, error) {
	idea := strings.TrimSpace(req.Idea)
	if len(idea) > MaxIdeaLength {
		return nil, NewValidationError("idea", fmt.Sprintf("must be at most %d characters", MaxIdeaLength))
	}

	intel := req.Intelligence
	switch {
	case intel.Source != "":
	case intel.IsEmpty():
		intel.Source = market.SourceNone
	default:
		intel.Source = market.SourceStructured
	}
	scores := market.Score(intel)
	return &models.MarketReportResponse{
		Scores: scores,
		Rating: market.Rating(scores.OverallScore),
		Report: market.Render(idea, scores, intel),
	}, nil
}
