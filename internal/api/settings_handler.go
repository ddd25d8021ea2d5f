package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/todoapi/server/internal/api/shared"
	"github.com/todoapi/server/internal/domain"
)

// NotificationSettings reads and writes a user's reminder preference.
// It is satisfied by *service.NotificationService.
type NotificationSettings interface {
	GetNotificationPreference(ctx context.Context, userID uuid.UUID) (domain.NotificationPreference, error)
	SetNotificationPreference(ctx context.Context, userID uuid.UUID, raw string) (domain.NotificationPreference, error)
}

// SettingsHandler serves the notification settings endpoints.
type SettingsHandler struct {
	settings  NotificationSettings
	validator *validator.Validate
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings NotificationSettings) *SettingsHandler {
	return &SettingsHandler{settings: settings, validator: newValidator()}
}

// GetNotifications handles GET /api/settings/notifications.
func (h *SettingsHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	pref, err := h.settings.GetNotificationPreference(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read notification settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NotificationSettingsResponse{Notification: pref.String()})
}

// UpdateNotifications handles PATCH /api/settings/notifications.
func (h *SettingsHandler) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req NotificationSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	pref, err := h.settings.SetNotificationPreference(r.Context(), userID, req.Notification)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update notification settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NotificationSettingsResponse{Notification: pref.String()})
}
