package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftlab/liftlab-backend/internal/middleware"
	"github.com/liftlab/liftlab-backend/internal/services"
)

type NotificationHandler struct {
	userService  services.UserService
	inboxService services.InboxService
}

func NewNotificationHandler(userService services.UserService, inboxService services.InboxService) *NotificationHandler {
	return &NotificationHandler{userService: userService, inboxService: inboxService}
}

func (h *NotificationHandler) ListInbox(c *gin.Context) {
	userID := middleware.UserID(c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	events, err := h.inboxService.List(c.Request.Context(), nil, userID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "inbox_failed", err)
		return
	}
	RespondOK(c, gin.H{"notifications": events})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.mark(c, h.inboxService.MarkRead)
}

func (h *NotificationHandler) MarkClicked(c *gin.Context) {
	h.mark(c, h.inboxService.MarkClicked)
}

func (h *NotificationHandler) mark(c *gin.Context, fn func(ctx context.Context, tx *gorm.DB, userID, eventID uuid.UUID) error) {
	userID := middleware.UserID(c)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := fn(c.Request.Context(), nil, userID, eventID); err != nil {
		RespondError(c, http.StatusInternalServerError, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	userID := middleware.UserID(c)

	user, err := h.userService.GetByID(c.Request.Context(), nil, userID)
	if err != nil {
		RespondError(c, http.StatusNotFound, "user_not_found", err)
		return
	}
	RespondOK(c, user.Preferences)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	userID := middleware.UserID(c)

	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	user, err := h.userService.UpdateNotificationPreferences(c.Request.Context(), nil, userID, patch)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			RespondError(c, http.StatusBadRequest, "invalid_preferences", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "update_failed", err)
		return
	}
	RespondOK(c, user.Preferences)
}

func (h *NotificationHandler) RegisterPushToken(c *gin.Context) {
	userID := middleware.UserID(c)

	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if err := h.userService.RegisterPushToken(c.Request.Context(), nil, userID, body.Token); err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			RespondError(c, http.StatusBadRequest, "invalid_token", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "update_failed", err)
		return
	}
	RespondOK(c, gin.H{"ok": true})
}
