package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ventureforge/ventureforge/pkg/models"
	"github.com/ventureforge/ventureforge/pkg/services"
)

// marketReportHandler handles POST /api/v1/market/report.
// Scores caller-supplied intelligence; no research is performed.
func (s *Server) marketReportHandler(c *gin.Context) {
	var req models.MarketReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	resp, err := services.BuildMarketReport(req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
