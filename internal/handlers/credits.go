package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/services"
)

type CreditsHandler struct {
	creditsService services.CreditsService
}

func NewCreditsHandler(creditsService services.CreditsService) *CreditsHandler {
	return &CreditsHandler{creditsService: creditsService}
}

func (h *CreditsHandler) Totals(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	totals, err := h.creditsService.Totals(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"totals": totals})
}

func (h *CreditsHandler) Recompute(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	totals, err := h.creditsService.Recompute(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"totals": totals})
}
