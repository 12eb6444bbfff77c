package models

import "github.com/ventureforge/ventureforge/pkg/market"

// MarketReportRequest asks for an offline score and report over
// caller-supplied market intelligence.
type MarketReportRequest struct {
	Idea         string              `json:"idea"`
	Intelligence market.Intelligence `json:"intelligence"`
}

// MarketReportResponse carries the scores and the rendered markdown.
type MarketReportResponse struct {
	Scores market.Scores `json:"scores"`
	Rating string        `json:"rating"`
	Report string        `json:"report"`
}
