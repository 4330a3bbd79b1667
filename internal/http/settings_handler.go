package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/class-timetable/internal/application"
	"github.com/example/class-timetable/internal/timetable"
)

type settingsService interface {
	Current() timetable.ReminderSettings
	Update(ctx context.Context, patch application.SettingsPatch) (timetable.ReminderSettings, error)
}

type SettingsHandler struct {
	service   settingsService
	responder responder
}

func NewSettingsHandler(service settingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, responder: newResponder(logger)}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(h.service.Current()))
}

// Update applies a partial change; omitted fields keep their value.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var patch application.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	settings, err := h.service.Update(r.Context(), patch)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSettingsDTO(settings))
}

type settingsDTO struct {
	Enabled     bool  `json:"enabled"`
	LeadMinutes int   `json:"lead_minutes"`
	Options     []int `json:"lead_minute_options"`
}

func toSettingsDTO(s timetable.ReminderSettings) settingsDTO {
	return settingsDTO{
		Enabled:     s.Enabled,
		LeadMinutes: s.LeadMinutes,
		Options:     timetable.LeadMinuteOptions,
	}
}
