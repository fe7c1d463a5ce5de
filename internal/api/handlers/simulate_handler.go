package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintflow/inventory-engine/internal/scenario"
)

type SimulateHandler struct {
	simulator *scenario.Simulator
}

func NewSimulateHandler(simulator *scenario.Simulator) *SimulateHandler {
	return &SimulateHandler{simulator: simulator}
}

func (h *SimulateHandler) Scenarios(c *gin.Context) {
	c.JSON(http.StatusOK, h.simulator.List())
}

func (h *SimulateHandler) Scenario(c *gin.Context) {
	result, err := h.simulator.Get(c.Param("id"))
	if err != nil {
		respondError(c, "scenario not found", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
