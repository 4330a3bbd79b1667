package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/example/class-timetable/internal/application"
	"github.com/example/class-timetable/internal/export"
	"github.com/example/class-timetable/internal/recurrence"
	"github.com/example/class-timetable/internal/scheduler"
	"github.com/example/class-timetable/internal/timetable"
)

type timetableService interface {
	Now(ctx context.Context) (time.Time, application.Resolution)
	Statistics(ctx context.Context) scheduler.Statistics
	Week(ctx context.Context, ref time.Time) ([]recurrence.Occurrence, error)
	ListSessions(ctx context.Context, day mo.Option[timetable.Day]) []timetable.Session
	Engine() *recurrence.Engine
	Clock() time.Time
}

// TimetableHandler serves read models derived from the whole week.
type TimetableHandler struct {
	service   timetableService
	responder responder
	logger    *slog.Logger
}

func NewTimetableHandler(service timetableService, logger *slog.Logger) *TimetableHandler {
	return &TimetableHandler{service: service, responder: newResponder(logger), logger: defaultLogger(logger)}
}

func (h *TimetableHandler) Now(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	now, res := h.service.Now(r.Context())
	payload := nowResponse{Now: now.Format(time.RFC3339)}
	if current, ok := res.Current.Get(); ok {
		dto := toSessionDTO(current)
		payload.Current = &dto
	}
	if next, ok := res.Next.Get(); ok {
		dto := toSessionDTO(next)
		payload.Next = &dto
	}
	if occ, ok := res.NextOccurrence.Get(); ok {
		startsAt := occ.Start.Format(time.RFC3339)
		payload.NextStartsAt = &startsAt
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

func (h *TimetableHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStatistics(&buf, h.service.Statistics(r.Context()), h.service.Clock()); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Week lists the dated occurrences of the calendar week containing ?date=
// (YYYY-MM-DD), defaulting to the current week.
func (h *TimetableHandler) Week(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	ref, ok := h.dateParam(r, "date")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}

	occurrences, err := h.service.Week(r.Context(), ref)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	byID := make(map[string]timetable.Session)
	for _, s := range h.service.ListSessions(r.Context(), mo.None[timetable.Day]()) {
		byID[s.ID] = s
	}

	payload := weekResponse{Occurrences: make([]occurrenceDTO, 0, len(occurrences))}
	for _, occ := range occurrences {
		session, ok := byID[occ.SessionID]
		if !ok {
			continue
		}
		payload.Occurrences = append(payload.Occurrences, occurrenceDTO{
			Date:     occ.Date,
			StartsAt: occ.Start.Format(time.RFC3339),
			EndsAt:   occ.End.Format(time.RFC3339),
			Session:  toSessionDTO(session),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, payload)
}

// ExportICS renders the timetable as an iCalendar feed. Each session becomes
// one weekly event anchored on its first occurrence on or after ?from=.
func (h *TimetableHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	from, ok := h.dateParam(r, "from")
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDate)
		return
	}
	now := h.service.Clock()
	if from.IsZero() {
		from = now
	}

	sessions := h.service.ListSessions(r.Context(), mo.None[timetable.Day]())
	cal, err := export.Calendar(h.service.Engine(), sessions, export.CalendarOptions{
		Name:  strings.TrimSpace(r.URL.Query().Get("name")),
		From:  from,
		Stamp: now,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, cal); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	handlerLogger(r.Context(), h.logger, "TimetableHandler", "ExportICS").
		DebugContext(r.Context(), "calendar exported", "events", len(sessions))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="timetable.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// dateParam parses a YYYY-MM-DD query value in the engine's location. A
// missing value yields the zero time.
func (h *TimetableHandler) dateParam(r *http.Request, name string) (time.Time, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.ParseInLocation(recurrence.DateLayout, raw, h.service.Engine().Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type nowResponse struct {
	Now          string      `json:"now"`
	Current      *sessionDTO `json:"current"`
	Next         *sessionDTO `json:"next"`
	NextStartsAt *string     `json:"next_starts_at"`
}

type occurrenceDTO struct {
	Date     string     `json:"date"`
	StartsAt string     `json:"starts_at"`
	EndsAt   string     `json:"ends_at"`
	Session  sessionDTO `json:"session"`
}

type weekResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
}
