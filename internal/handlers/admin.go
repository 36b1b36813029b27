package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftlab/liftlab-backend/internal/services"
)

// AdminHandler exposes the ops force-run entry point. It executes a full
// evaluation pass immediately, bypassing the due-time gate but none of the
// dedup windows or caps.
type AdminHandler struct {
	scheduler services.SchedulerService
}

func NewAdminHandler(scheduler services.SchedulerService) *AdminHandler {
	return &AdminHandler{scheduler: scheduler}
}

func (h *AdminHandler) ForceRun(c *gin.Context) {
	processed, err := h.scheduler.RunPass(c.Request.Context(), true)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "pass_failed", err)
		return
	}
	RespondOK(c, gin.H{"users_processed": processed})
}
