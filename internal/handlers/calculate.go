package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betwise/betwise-backend/internal/services"
)

type CalculateHandler struct {
	valueService  services.ValueService
}

func NewCalculateHandler(valueService services.ValueService) *CalculateHandler {
	return &CalculateHandler{valueService: valueService}
}

// Calculate is the validating boundary in front of the calculator: the
// service itself performs no range checks, so malformed input must be
// rejected here.
func (ch *CalculateHandler) Calculate(c *gin.Context) {
	var req struct {
		BookmakerOdd      *float64    `json:"bookmakerOdd"`
		YourProbability   *float64    `json:"yourProbability"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.BookmakerOdd == nil || req.YourProbability == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookmakerOdd and yourProbability are required"})
		return
	}
	if *req.BookmakerOdd <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookmakerOdd must be positive"})
		return
	}
	if *req.YourProbability <= 0 || *req.YourProbability > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "yourProbability must be in (0, 100]"})
		return
	}

	result := ch.valueService.CalculateValue(*req.BookmakerOdd, *req.YourProbability)
	c.JSON(http.StatusOK, result)
}
