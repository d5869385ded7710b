package controller

import (
	"errors"
	"net/http"

	"github.com/gemcompare/gemcompare-backend/internal/app/service"
	apperrors "github.com/gemcompare/gemcompare-backend/internal/errors"
	"github.com/gemcompare/gemcompare-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type WatchlistController struct {
	watchlistService service.WatchlistService
}

func NewWatchlistController(watchlistService service.WatchlistService) *WatchlistController {
	return &WatchlistController{
		watchlistService: watchlistService,
	}
}

type WatchlistItemRequest struct {
	ProductID uint   `form:"product_id" json:"product_id" binding:"required"`
	Source    string `form:"source" json:"source" binding:"required"`
}

// GetWatchlist returns the user's watchlist with price comparisons
// GET /api/v1/watchlist
func (ctrl *WatchlistController) GetWatchlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	entries, err := ctrl.watchlistService.GetUserWatchlist(userID)
	if err != nil {
		log.Error("Failed to fetch watchlist", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch watchlist")
		return
	}

	log.Info("Watchlist fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(entries),
	})

	c.JSON(http.StatusOK, gin.H{
		"watchlist_items": entries,
		"count":           len(entries),
	})
}

// AddToWatchlist pins a (product, source) pair for the user
// POST /api/v1/watchlist
func (ctrl *WatchlistController) AddToWatchlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req WatchlistItemRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid watchlist add request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product and source are required")
		return
	}

	item, err := ctrl.watchlistService.AddToWatchlist(userID, req.ProductID, req.Source)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrWatchlistDuplicate):
			apperrors.Conflict(c, apperrors.WatchlistDuplicate, "This product and source is already in your watchlist")
		default:
			log.Error("Failed to add to watchlist", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add to watchlist")
		}
		return
	}

	log.Info("Added to watchlist", map[string]interface{}{
		"user_id":           userID,
		"watchlist_item_id": item.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Added to watchlist",
		"item":    item,
	})
}

// RemoveFromWatchlist drops a (product, source) pair from the watchlist.
// Removing something that is not there succeeds with removed=false, so a
// double-click on the remove button is harmless.
// POST /api/v1/watchlist/remove
func (ctrl *WatchlistController) RemoveFromWatchlist(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req WatchlistItemRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid watchlist remove request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Product and source are required")
		return
	}

	removed, err := ctrl.watchlistService.RemoveFromWatchlist(userID, req.ProductID, req.Source)
	if err != nil {
		log.Error("Failed to remove from watchlist", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "remove from watchlist")
		return
	}

	log.Info("Watchlist removal handled", map[string]interface{}{
		"user_id": userID,
		"removed": removed,
	})

	message := "Removed from watchlist"
	if !removed {
		message = "Item was not in your watchlist"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": removed,
		"message": message,
	})
}
