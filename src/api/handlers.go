package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roamstack/travel-concierge/src/config"
	"github.com/roamstack/travel-concierge/src/mcpclient"
	"github.com/roamstack/travel-concierge/src/orchestrator"
)

type handlers struct {
	cfg        config.Config
	manager    *mcpclient.Manager
	dispatcher *orchestrator.Dispatcher
}

func newHandlers(cfg config.Config, manager *mcpclient.Manager, dispatcher *orchestrator.Dispatcher) *handlers {
	return &handlers{cfg: cfg, manager: manager, dispatcher: dispatcher}
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

type connectRequest struct {
	Target string `json:"target"`
}

// Query answers one user query, establishing the provider session first if
// none exists.
func (h *handlers) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "query is required"})
		return
	}

	if !h.manager.Connected() {
		if err := h.manager.Connect(c.Request.Context(), h.cfg.ProviderTarget); err != nil {
			log.Printf("api: auto-connect: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
			return
		}
	}

	result, err := h.dispatcher.Ask(c.Request.Context(), req.Query)
	if err != nil {
		status := http.StatusInternalServerError
		var modelErr *orchestrator.ModelError
		switch {
		case errors.Is(err, mcpclient.ErrNotConnected):
			status = http.StatusBadRequest
		case errors.As(err, &modelErr):
			status = http.StatusBadGateway
		}
		log.Printf("api: query: %v", err)
		c.JSON(status, gin.H{"err": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Tools lists the provider's current capability descriptors.
func (h *handlers) Tools(c *gin.Context) {
	tools, err := h.manager.ListCapabilities(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, mcpclient.ErrNotConnected) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tools": tools})
}

// Connect establishes a provider session. An empty target selects the
// configured default.
func (h *handlers) Connect(c *gin.Context) {
	var req connectRequest
	_ = c.ShouldBindJSON(&req)
	target := req.Target
	if target == "" {
		target = h.cfg.ProviderTarget
	}

	if err := h.manager.Connect(c.Request.Context(), target); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true, "target": target})
}

// Disconnect tears the provider session down.
func (h *handlers) Disconnect(c *gin.Context) {
	h.manager.Disconnect()
	c.JSON(http.StatusOK, gin.H{"connected": false})
}

// Health reports liveness and whether a provider session exists.
func (h *handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "connected": h.manager.Connected()})
}
