package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/class-timetable/internal/persistence"
)

const sessionColumns = `id, owner_id, day, start_time, end_time, subject, class_name, room, participants, type, created_at, updated_at`

// CreateSession inserts a new session row.
func (s *Storage) CreateSession(ctx context.Context, session persistence.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, session.OwnerID, session.Day, session.StartTime, session.EndTime,
		session.Subject, session.ClassName, session.Room, session.Participants, session.Type,
		formatTime(session.CreatedAt), formatTime(session.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: create session %s: %w", session.ID, mapError(err))
	}
	return nil
}

// UpdateSession replaces the mutable columns of an existing session.
func (s *Storage) UpdateSession(ctx context.Context, session persistence.Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			day = ?, start_time = ?, end_time = ?, subject = ?, class_name = ?,
			room = ?, participants = ?, type = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?`,
		session.Day, session.StartTime, session.EndTime, session.Subject, session.ClassName,
		session.Room, session.Participants, session.Type, formatTime(session.UpdatedAt),
		session.OwnerID, session.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update session %s: %w", session.ID, mapError(err))
	}
	return requireAffected(res)
}

// GetSession returns one session of the owner.
func (s *Storage) GetSession(ctx context.Context, ownerID, id string) (persistence.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? AND id = ?`, ownerID, id)
	session, err := scanSession(row)
	if err != nil {
		return persistence.Session{}, mapError(err)
	}
	return session, nil
}

// ListSessions returns the owner's sessions ordered by day and start time.
func (s *Storage) ListSessions(ctx context.Context, ownerID string) ([]persistence.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? ORDER BY day, start_time, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []persistence.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession removes one session of the owner.
func (s *Storage) DeleteSession(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE owner_id = ? AND id = ?`, ownerID, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete session %s: %w", id, mapError(err))
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var (
		session            persistence.Session
		createdAt, updated string
	)
	if err := row.Scan(
		&session.ID, &session.OwnerID, &session.Day, &session.StartTime, &session.EndTime,
		&session.Subject, &session.ClassName, &session.Room, &session.Participants, &session.Type,
		&createdAt, &updated,
	); err != nil {
		if err == sql.ErrNoRows {
			return persistence.Session{}, err
		}
		return persistence.Session{}, fmt.Errorf("sqlite: scan session: %w", err)
	}

	var err error
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}
