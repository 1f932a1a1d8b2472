package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/services"
)

type StandardsHandler struct {
	standardsService services.StandardsService
	gapService       services.GapService
}

func NewStandardsHandler(standardsService services.StandardsService, gapService services.GapService) *StandardsHandler {
	return &StandardsHandler{standardsService: standardsService, gapService: gapService}
}

func (h *StandardsHandler) Resolve(c *gin.Context) {
	code := c.Query("code")
	jurisdiction := c.Query("jurisdiction")
	std, err := h.standardsService.Resolve(c.Request.Context(), code, jurisdiction)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, std)
}

func (h *StandardsHandler) Create(c *gin.Context) {
	var req services.StandardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	std, err := h.standardsService.Create(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, std)
}

func (h *StandardsHandler) AttachComponents(c *gin.Context) {
	standardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Components []string `json:"components"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	components, err := h.standardsService.AttachComponents(c.Request.Context(), standardID, req.Components)
	if err != nil {
		// Earlier components may have landed before the failure; hand
		// back what did.
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"components": components})
}

func (h *StandardsHandler) Components(c *gin.Context) {
	standardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	components, err := h.standardsService.Components(c.Request.Context(), standardID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"components": components})
}

func (h *StandardsHandler) Catalog(c *gin.Context) {
	var subject *string
	if s := c.Query("subject"); s != "" {
		subject = &s
	}
	catalog, err := h.standardsService.Catalog(c.Request.Context(), c.Query("jurisdiction"), c.Query("grade_level"), subject)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"standards": catalog})
}

// Gaps lists catalog standards the learner has no progress against.
func (h *StandardsHandler) Gaps(c *gin.Context) {
	var subject *string
	if s := c.Query("subject"); s != "" {
		subject = &s
	}
	userID := requestdata.UserID(c.Request.Context())
	unmet, err := h.gapService.UnmetStandards(c.Request.Context(), userID, c.Query("jurisdiction"), c.Query("grade_level"), subject)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"standards": unmet})
}
