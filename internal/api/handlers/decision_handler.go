package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gatewise/geofence/internal/services"
)

type DecisionHandler struct {
	service *services.DecisionService
}

func NewDecisionHandler(service *services.DecisionService) *DecisionHandler {
	return &DecisionHandler{service: service}
}

// List returns the most recent rejection decisions.
func (h *DecisionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	decisions, err := h.service.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, decisions)
}

// Purge deletes decisions older than the given number of days.
func (h *DecisionHandler) Purge(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	purged, err := h.service.PurgeOlderThan(days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}
