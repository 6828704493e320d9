package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/betwise/betwise-backend/internal/services"
)

type FavoriteHandler struct {
	userService   services.UserService
}

func NewFavoriteHandler(userService services.UserService) *FavoriteHandler {
	return &FavoriteHandler{userService: userService}
}

func (fh *FavoriteHandler) List(c *gin.Context) {
	favorites, err := fh.userService.ListFavorites(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (fh *FavoriteHandler) Add(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("matchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	favorite, err := fh.userService.AddFavorite(c.Request.Context(), matchID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": favorite})
}

func (fh *FavoriteHandler) Remove(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("matchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match id"})
		return
	}
	if err := fh.userService.RemoveFavorite(c.Request.Context(), matchID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from favorites"})
}
