package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/mo"

	"github.com/example/class-timetable/internal/application"
	"github.com/example/class-timetable/internal/timetable"
)

type sessionService interface {
	CreateSession(ctx context.Context, input timetable.SessionInput) (timetable.Session, error)
	UpdateSession(ctx context.Context, id string, input timetable.SessionInput) (timetable.Session, error)
	DeleteSession(ctx context.Context, id string) error
	GetSession(ctx context.Context, id string) (timetable.Session, error)
	ListSessions(ctx context.Context, day mo.Option[timetable.Day]) []timetable.Session
	CheckConflicts(ctx context.Context, input timetable.SessionInput, excludeID string) error
}

type SessionHandler struct {
	service   sessionService
	responder responder
}

func NewSessionHandler(service sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{service: service, responder: newResponder(logger)}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req timetable.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session, err := h.service.CreateSession(r.Context(), req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Location", "/sessions/"+session.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toSessionDTO(session))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSessionDTO(session))
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	var req timetable.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session, err := h.service.UpdateSession(r.Context(), sessionID, req)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toSessionDTO(session))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	if err := h.service.DeleteSession(r.Context(), sessionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// List returns the whole week, or one day when ?day= is given as a number
// (1-6) or an English weekday name.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	day := mo.None[timetable.Day]()
	if raw := strings.TrimSpace(r.URL.Query().Get("day")); raw != "" {
		parsed, err := timetable.ParseDay(raw)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDay)
			return
		}
		day = mo.Some(parsed)
	}

	sessions := h.service.ListSessions(r.Context(), day)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{Sessions: toSessionDTOs(sessions)})
}

// CheckConflicts answers whether a prospective session could be saved. An
// overlap is a regular answer; malformed input is still a 4xx.
func (h *SessionHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req conflictCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	err := h.service.CheckConflicts(r.Context(), req.SessionInput, strings.TrimSpace(req.ExcludeID))
	var conflict *application.ConflictError
	switch {
	case err == nil:
		h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictCheckResponse{OK: true, ConflictingIDs: []string{}})
	case errors.As(err, &conflict):
		handlerLogger(r.Context(), h.responder.logger, "SessionHandler", "CheckConflicts",
			"exclude_id", req.ExcludeID, "conflicting_ids", conflict.ConflictingIDs).
			DebugContext(r.Context(), "prospective session overlaps")
		h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictCheckResponse{ConflictingIDs: conflict.ConflictingIDs})
	default:
		h.responder.handleServiceError(r.Context(), w, err)
	}
}

type sessionDTO struct {
	ID              string `json:"id"`
	Day             int    `json:"day"`
	DayName         string `json:"day_name"`
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
	Subject         string `json:"subject"`
	ClassName       string `json:"class_name,omitempty"`
	Room            string `json:"room,omitempty"`
	Participants    int    `json:"participants"`
	Type            string `json:"type"`
}

type listSessionsResponse struct {
	Sessions []sessionDTO `json:"sessions"`
}

type conflictCheckRequest struct {
	timetable.SessionInput
	ExcludeID string `json:"exclude_id"`
}

type conflictCheckResponse struct {
	OK             bool     `json:"ok"`
	ConflictingIDs []string `json:"conflicting_ids"`
}

func toSessionDTO(s timetable.Session) sessionDTO {
	return sessionDTO{
		ID:              s.ID,
		Day:             int(s.Day),
		DayName:         s.Day.String(),
		Start:           s.Start.String(),
		End:             s.End.String(),
		DurationMinutes: int(s.Duration().Minutes()),
		Subject:         s.Subject,
		ClassName:       s.ClassName,
		Room:            s.Room,
		Participants:    s.Participants,
		Type:            string(s.Type),
	}
}

func toSessionDTOs(sessions []timetable.Session) []sessionDTO {
	out := make([]sessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionDTO(s))
	}
	return out
}
