package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
	"github.com/sm8ta/webike_rental_storefront/internal/core/ports"
	"github.com/sm8ta/webike_rental_storefront/internal/core/services"
)

type CatalogHandler struct {
	catalog ports.CatalogService
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

type SearchRequest struct {
	Text string `json:"text" example:"honda"`
}

type PriceRangeRequest struct {
	Min float64 `json:"min" example:"20"`
	Max float64 `json:"max" example:"80"`
}

type FacetRequest struct {
	Name string `json:"name" binding:"required" example:"Honda"`
}

type SortRequest struct {
	Sort string `json:"sort" binding:"required" example:"price-asc"`
}

func NewCatalogHandler(catalog ports.CatalogService, logger ports.LoggerPort, metrics ports.MetricsPort) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
		metrics: metrics,
	}
}

// @Summary Catalog view
// @Description Filtered and sorted catalog with the filter sidebar state. The catalog is loaded on first use.
// @Tags catalog
// @Produce json
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}
	if ws.Catalog.Len() == 0 {
		// failure is reported in the snapshot
		_ = ws.Catalog.Load(c.Request.Context())
	}
	c.JSON(http.StatusOK, ws.Catalog.Snapshot())
}

// @Summary Reload catalog
// @Description Refetches the catalog and recomputes the price bounds
// @Tags catalog
// @Produce json
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog/reload [post]
func (h *CatalogHandler) Reload(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}
	if err := ws.Catalog.Load(c.Request.Context()); err != nil {
		h.logger.Warn("Catalog reload failed", map[string]interface{}{
			"error":      err.Error(),
			"visitor_id": ws.ID,
		})
	}
	c.JSON(http.StatusOK, ws.Catalog.Snapshot())
}

// @Summary Set search text
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Search"
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog/filters/search [put]
func (h *CatalogHandler) SetSearch(c *gin.Context) {
	var req SearchRequest
	h.mutate(c, &req, func(s *services.CatalogStore) error {
		s.SetSearchText(req.Text)
		return nil
	})
}

// @Summary Set price range
// @Description The range is clamped into the catalog bounds
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body PriceRangeRequest true "Range"
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog/filters/price [put]
func (h *CatalogHandler) SetPriceRange(c *gin.Context) {
	var req PriceRangeRequest
	h.mutate(c, &req, func(s *services.CatalogStore) error {
		s.SetPriceRange(domain.PriceRange{Min: req.Min, Max: req.Max})
		return nil
	})
}

// @Summary Toggle brand
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body FacetRequest true "Brand name"
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog/filters/brands [post]
func (h *CatalogHandler) ToggleBrand(c *gin.Context) {
	var req FacetRequest
	h.mutate(c, &req, func(s *services.CatalogStore) error {
		s.ToggleBrand(req.Name)
		return nil
	})
}

// @Summary Toggle category
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body FacetRequest true "Category name"
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog/filters/categories [post]
func (h *CatalogHandler) ToggleCategory(c *gin.Context) {
	var req FacetRequest
	h.mutate(c, &req, func(s *services.CatalogStore) error {
		s.ToggleCategory(req.Name)
		return nil
	})
}

// @Summary Set sort option
// @Description featured, price-asc, price-desc, newest or rating-desc
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body SortRequest true "Sort"
// @Success 200 {object} services.CatalogSnapshot
// @Failure 400 {object} errorResponse
// @Router /catalog/filters/sort [put]
func (h *CatalogHandler) SetSort(c *gin.Context) {
	var req SortRequest
	h.mutate(c, &req, func(s *services.CatalogStore) error {
		opt, ok := domain.ParseSortOption(req.Sort)
		if !ok {
			return errUnknownSort
		}
		s.SetSortOption(opt)
		return nil
	})
}

// @Summary Reset filters
// @Tags catalog
// @Produce json
// @Success 200 {object} services.CatalogSnapshot
// @Router /catalog/filters [delete]
func (h *CatalogHandler) ResetFilters(c *gin.Context) {
	h.mutate(c, nil, func(s *services.CatalogStore) error {
		s.ResetFilters()
		return nil
	})
}

// mutate binds req when given, applies fn and answers with the new view.
func (h *CatalogHandler) mutate(c *gin.Context, req interface{}, fn func(*services.CatalogStore) error) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ws, ok := getWorkspace(c)
	if !ok {
		newErrorResponse(c, http.StatusInternalServerError, "Workspace missing")
		return
	}
	if req != nil {
		if err := c.ShouldBindJSON(req); err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
			return
		}
	}
	if err := fn(ws.Catalog); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Catalog.Snapshot())
}

// @Summary Motorbike detail
// @Tags catalog
// @Produce json
// @Param id path string true "Motorbike ID"
// @Success 200 {object} domain.Motorbike
// @Failure 404 {object} errorResponse
// @Router /motorbikes/{id} [get]
func (h *CatalogHandler) GetMotorbike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := h.catalog.GetMotorbike(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bike)
}
