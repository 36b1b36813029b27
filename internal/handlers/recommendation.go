package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liftlab/liftlab-backend/internal/middleware"
	"github.com/liftlab/liftlab-backend/internal/services"
)

type RecommendationHandler struct {
	userService           services.UserService
	recommendationService services.RecommendationService
}

func NewRecommendationHandler(userService services.UserService, recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{userService: userService, recommendationService: recommendationService}
}

func (h *RecommendationHandler) GetNextSplit(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.userService.GetByID(c.Request.Context(), nil, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "user_not_found", err)
		return
	}

	result, err := h.recommendationService.GetNextSplit(c.Request.Context(), nil, user, time.Now().UTC())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recommendation_failed", err)
		return
	}
	RespondOK(c, result)
}
