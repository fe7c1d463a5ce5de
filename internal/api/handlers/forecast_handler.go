package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/service"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

// RegionalSummary serves GET /forecast/regional/summary.
func (h *ForecastHandler) RegionalSummary(c *gin.Context) {
	summary, err := h.service.RegionalSummary(c.Request.Context())
	if err != nil {
		respondError(c, "failed to build regional summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ItemForecast serves GET /forecast/:item_id?region_id=&horizon=.
// region_id defaults to 1 and horizon to 30 days.
func (h *ForecastHandler) ItemForecast(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	regionID, ok := queryInt(c, "region_id", 1)
	if !ok {
		return
	}
	horizon, ok := queryInt(c, "horizon", service.DefaultHorizonDays)
	if !ok {
		return
	}

	result, err := h.service.ItemForecast(c.Request.Context(), itemID, int64(regionID), horizon)
	if err != nil {
		respondError(c, "failed to build forecast", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
