package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/requestdata"
	"github.com/onropepro/onrope-backend/internal/services"
)

type AssistantHandler struct {
	log              *logger.Logger
	assistantService services.AssistantService
	indexerService   services.IndexerService
}

func NewAssistantHandler(log *logger.Logger, asvc services.AssistantService, isvc services.IndexerService) *AssistantHandler {
	return &AssistantHandler{
		log:              log.With("handler", "AssistantHandler"),
		assistantService: asvc,
		indexerService:   isvc,
	}
}

type queryRequest struct {
	Message string                 `json:"message"`
	History []services.ChatMessage `json:"history"`
}

// POST /api/assistant/query
// Routes one free-text question and returns a typed assistant result.
func (h *AssistantHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Message == "" {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("message is required"))
		return
	}

	rd := requestdata.GetRequestData(c.Request.Context())
	result := h.assistantService.Query(c.Request.Context(), rd, req.Message, req.History)
	RespondOK(c, result)
}

// POST /api/assistant/reindex
// Rebuilds the article index from the embedded content registry. Admin only,
// enforced by route middleware.
func (h *AssistantHandler) Reindex(c *gin.Context) {
	report, err := h.indexerService.Reindex(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "reindex_failed", err)
		return
	}
	RespondOK(c, report)
}
