package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liftlab/liftlab-backend/internal/middleware"
	"github.com/liftlab/liftlab-backend/internal/services"
)

// FatigueHandler serves the fatigue/readiness scores the workout generator
// and the client recommendations screen consume.
type FatigueHandler struct {
	fatigueService   services.FatigueService
	readinessService services.ReadinessService
}

func NewFatigueHandler(fatigueService services.FatigueService, readinessService services.ReadinessService) *FatigueHandler {
	return &FatigueHandler{fatigueService: fatigueService, readinessService: readinessService}
}

func (h *FatigueHandler) GetFatigue(c *gin.Context) {
	userID := middleware.UserID(c)
	now := time.Now().UTC()

	fatigue, err := h.fatigueService.GetMuscleFatigue(c.Request.Context(), nil, userID, now)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "fatigue_failed", err)
		return
	}
	readiness, err := h.readinessService.GetReadiness(c.Request.Context(), nil, userID, now)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "readiness_failed", err)
		return
	}

	bands := map[string]string{}
	for muscle, f := range fatigue {
		bands[muscle] = services.FatigueBand(f.FatigueScore)
	}

	RespondOK(c, gin.H{
		"fatigue":   fatigue,
		"bands":     bands,
		"readiness": readiness,
	})
}
