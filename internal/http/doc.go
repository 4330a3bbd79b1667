// Package http provides HTTP handlers and middleware for the timetable API.
//
// The router exposes the following endpoints:
//   - GET /sessions?day=N, POST /sessions: list the week (or one day) and add a
//     session. Bodies use the `timetable.SessionInput` JSON shape; responses the
//     `sessionDTO` payload defined in session_handler.go.
//   - GET /sessions/{id}, PUT /sessions/{id}, DELETE /sessions/{id}: read,
//     replace and remove one session. An overlap answers 409 with
//     `conflicting_ids`; an end not after the start answers 422.
//   - POST /conflicts/check: dry run of a create or update. Overlaps are
//     reported as {"ok": false, "conflicting_ids": [...]} with status 200.
//   - GET /timetable/now: {"now","current","next","next_starts_at"}.
//   - GET /timetable/stats: the statistics report.
//   - GET /timetable/week?date=YYYY-MM-DD: dated occurrences of one week.
//   - GET /timetable/export.ics?from=YYYY-MM-DD: iCalendar feed with one weekly
//     event per session.
//   - GET /settings/reminders, PUT /settings/reminders: reminder settings with
//     partial updates.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
