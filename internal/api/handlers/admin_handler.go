package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/metrics"
	"github.com/paintflow/inventory-engine/internal/recommendation"
	"github.com/paintflow/inventory-engine/internal/service"
)

type AdminHandler struct {
	inventory *service.InventoryService
	dealers   *service.DealerService
	transfers *recommendation.Transfers
	models    *forecast.ModelStore
	metrics   *metrics.Metrics
}

func NewAdminHandler(
	inventory *service.InventoryService,
	dealers *service.DealerService,
	transfers *recommendation.Transfers,
	models *forecast.ModelStore,
	m *metrics.Metrics,
) *AdminHandler {
	return &AdminHandler{
		inventory: inventory,
		dealers:   dealers,
		transfers: transfers,
		models:    models,
		metrics:   m,
	}
}

func (h *AdminHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.inventory.DashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch dashboard summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *AdminHandler) InventoryHealth(c *gin.Context) {
	locations, err := h.inventory.HealthSummary(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch inventory health", err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *AdminHandler) LocationInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.inventory.LocationDetail(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch location inventory", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *AdminHandler) DeadStock(c *gin.Context) {
	items, err := h.inventory.DeadStock(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch dead stock", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AdminHandler) RecommendedTransfers(c *gin.Context) {
	transfers, err := h.transfers.List(c.Request.Context())
	if err != nil {
		respondError(c, "failed to fetch transfers", err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func (h *AdminHandler) ApproveTransfer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.transfers.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to approve transfer", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) DealerPerformance(c *gin.Context) {
	regionID, ok := queryInt(c, "region_id", 0)
	if !ok {
		return
	}

	ranking, err := h.dealers.Performance(c.Request.Context(), int64(regionID))
	if err != nil {
		respondError(c, "failed to fetch dealer performance", err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}

func (h *AdminHandler) TopItems(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}

	items, err := h.inventory.TopItems(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "failed to fetch top items", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ReloadModels re-reads the model artifacts and swaps them in. The previous
// set stays live if loading fails.
func (h *AdminHandler) ReloadModels(c *gin.Context) {
	n, err := h.models.Reload(c.Request.Context())
	if err != nil {
		respondError(c, "failed to reload forecast models", err)
		return
	}
	h.metrics.SetModelsLoaded(n)
	c.JSON(http.StatusOK, gin.H{"models_loaded": n})
}
