package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gemcompare/gemcompare-backend/internal/app/service"
	apperrors "github.com/gemcompare/gemcompare-backend/internal/errors"
	"github.com/gemcompare/gemcompare-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// ListProducts returns a page of the catalog with each product's latest
// GeM quote and best alternative, optionally filtered
// GET /api/v1/products?category=Kitchen&search=mixer&page=1&page_size=20
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := service.ProductListOptions{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	opts.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}

	summaries, total, err := ctrl.productService.ListProducts(opts)
	if err != nil {
		log.Error("Failed to list products", err, map[string]interface{}{
			"category": opts.Category,
			"search":   opts.Search,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	log.Info("Products listed", map[string]interface{}{
		"count": len(summaries),
		"total": total,
	})

	c.JSON(http.StatusOK, gin.H{
		"products":  summaries,
		"count":     len(summaries),
		"total":     total,
		"page":      opts.Page,
		"page_size": opts.PageSize,
	})
}

// GetProduct returns a product with its latest quote from each source
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product ID must be a number")
		return
	}

	comparison, err := ctrl.productService.GetProductComparison(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product comparison", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// GetPriceHistory returns past quotes for one product and source
// GET /api/v1/products/:id/prices?source=Amazon&limit=30
func (ctrl *ProductController) GetPriceHistory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Product ID must be a number")
		return
	}

	source := c.Query("source")
	if source == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Source is required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))

	history, err := ctrl.productService.GetPriceHistory(uint(productID), source, limit)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch price history", err, map[string]interface{}{
			"product_id": productID,
			"source":     source,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch price history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prices": history,
		"count":  len(history),
	})
}
