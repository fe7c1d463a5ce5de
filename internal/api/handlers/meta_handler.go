package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/forecast"
	"github.com/paintflow/inventory-engine/internal/scenario"
	"github.com/paintflow/inventory-engine/internal/service"
)

const appName = "PaintFlow.ai"

type MetaHandler struct {
	simulationDate string
	scenarios      *scenario.Simulator
	models         *forecast.ModelStore
	inventory      *service.InventoryService
}

func NewMetaHandler(simulationDate string, scenarios *scenario.Simulator, models *forecast.ModelStore, inventory *service.InventoryService) *MetaHandler {
	return &MetaHandler{
		simulationDate: simulationDate,
		scenarios:      scenarios,
		models:         models,
		inventory:      inventory,
	}
}

func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "app": appName})
}

func (h *MetaHandler) Meta(c *gin.Context) {
	ids := make([]string, 0, h.scenarios.Len())
	for _, s := range h.scenarios.List() {
		ids = append(ids, s.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"app_simulation_date": h.simulationDate,
		"scenarios":           ids,
		"models_loaded":       h.models.Len(),
	})
}

// Snapshot returns the inventory context text used by the copilot.
func (h *MetaHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"inventory_snapshot": h.inventory.Snapshot(c.Request.Context())})
}
