package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightloop/brightloop-backend/internal/requestdata"
	"github.com/brightloop/brightloop-backend/internal/services"
)

type PlanHandler struct {
	plannerService services.PlannerService
}

func NewPlanHandler(plannerService services.PlannerService) *PlanHandler {
	return &PlanHandler{plannerService: plannerService}
}

// TodayPlan returns the canonical plan for the requested date (default
// today); the first call of the day materializes it.
func (h *PlanHandler) TodayPlan(c *gin.Context) {
	planDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_date", err)
			return
		}
		planDate = parsed
	}
	userID := requestdata.UserID(c.Request.Context())
	plan, err := h.plannerService.GetOrCreateDailyPlan(c.Request.Context(), userID, planDate)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, plan)
}

func (h *PlanHandler) Standings(c *gin.Context) {
	userID := requestdata.UserID(c.Request.Context())
	standings, err := h.plannerService.Standings(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"standings": standings})
}
