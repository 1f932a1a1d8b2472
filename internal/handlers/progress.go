package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/services"
	"github.com/brightloop/brightloop-backend/internal/types"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) RecordProgress(c *gin.Context) {
	var req struct {
		StandardID uuid.UUID  `json:"standard_id"`
		SourceType string     `json:"source_type"`
		SourceID   *uuid.UUID `json:"source_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = types.ProgressSourceManual
	}
	userID := requestdata.UserID(c.Request.Context())
	rec, err := h.progressService.RecordProgress(c.Request.Context(), userID, req.StandardID, sourceType, req.SourceID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, rec)
}

func (h *ProgressHandler) ListProgress(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	rows, err := h.progressService.ListProgress(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": rows})
}
