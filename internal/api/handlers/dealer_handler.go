package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/service"
)

type DealerHandler struct {
	service *service.DealerService
}

func NewDealerHandler(service *service.DealerService) *DealerHandler {
	return &DealerHandler{service: service}
}

func (h *DealerHandler) Dashboard(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch dealer dashboard", err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *DealerHandler) SmartOrders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	orders, err := h.service.SmartOrders(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to build smart orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *DealerHandler) Alerts(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	alerts, err := h.service.Alerts(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch dealer alerts", err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}
