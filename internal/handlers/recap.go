package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/liftlab/liftlab-backend/internal/middleware"
	"github.com/liftlab/liftlab-backend/internal/services"
)

type RecapHandler struct {
	userService  services.UserService
	recapService services.RecapService
}

func NewRecapHandler(userService services.UserService, recapService services.RecapService) *RecapHandler {
	return &RecapHandler{userService: userService, recapService: recapService}
}

func (h *RecapHandler) GetRecap(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.userService.GetByID(c.Request.Context(), nil, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "user_not_found", err)
		return
	}

	recap, err := h.recapService.GetRecap(c.Request.Context(), nil, user, time.Now().UTC())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "recap_failed", err)
		return
	}
	RespondOK(c, recap)
}
