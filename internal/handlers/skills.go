package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/services"
	"github.com/brightloop/brightloop-backend/internal/types"
)

var errEmptySkills = errors.New("skills must not be empty")

type SkillsHandler struct {
	masteryService services.MasteryService
}

func NewSkillsHandler(masteryService services.MasteryService) *SkillsHandler {
	return &SkillsHandler{masteryService: masteryService}
}

// ProcessSkills records demonstrated skills directly, outside the activity
// flow. Every name gets an outcome; the call itself never fails on a
// single bad skill.
func (h *SkillsHandler) ProcessSkills(c *gin.Context) {
	var req struct {
		Skills []string `json:"skills"`
		Source string   `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if len(req.Skills) == 0 {
		RespondError(c, http.StatusBadRequest, "invalid_body", errEmptySkills)
		return
	}
	source := req.Source
	if source == "" {
		source = types.SkillSourceManual
	}
	userID := requestdata.UserID(c.Request.Context())
	results := h.masteryService.ProcessSkills(c.Request.Context(), userID, req.Skills, source)
	RespondOK(c, gin.H{"results": results})
}
