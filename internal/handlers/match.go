package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betwise/betwise-backend/internal/services"
)

type MatchHandler struct {
	oddsService   services.OddsService
}

func NewMatchHandler(oddsService services.OddsService) *MatchHandler {
	return &MatchHandler{oddsService: oddsService}
}

func (mh *MatchHandler) GetMatches(c *gin.Context) {
	matches, err := mh.oddsService.GetMatches(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}
