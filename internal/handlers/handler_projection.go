package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
	"github.com/openledgerhq/bankledger/internal/middleware"
)

// projectionHandler exposes the projection maintenance endpoints.
type projectionHandler struct {
	projectionService portssvc.ProjectionSvc
}

// newProjectionHandler creates a new projectionHandler.
func newProjectionHandler(ps portssvc.ProjectionSvc) *projectionHandler {
	return &projectionHandler{projectionService: ps}
}

// registerProjectionRoutes registers the projection maintenance routes.
func registerProjectionRoutes(rg *gin.RouterGroup, projectionService portssvc.ProjectionSvc) {
	h := newProjectionHandler(projectionService)

	projections := rg.Group("/projections")
	{
		projections.POST("/rebuild", h.rebuild)
		projections.GET("/status", h.status)
	}
}

// rebuild truncates every read model and replays the full event log.
func (h *projectionHandler) rebuild(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received projection rebuild request")

	if err := h.projectionService.Rebuild(c.Request.Context()); err != nil {
		logger.Error("Projection rebuild failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Projection rebuild failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "Projections rebuilt."})
}

// status reports each projection's cursor and its lag behind the event log.
func (h *projectionHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.projectionService.Status(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute projection status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute projection status"})
		return
	}
	c.JSON(http.StatusOK, status)
}
