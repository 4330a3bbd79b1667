package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

// ErrChecksumMismatch is returned when an applied migration differs from the
// embedded file with the same version.
var ErrChecksumMismatch = errors.New("sqlite: migration checksum mismatch")

// Migration is one embedded schema change.
type Migration struct {
	Version     string
	Description string
	SQL         string
	Checksum    string
}

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Migrate applies every pending embedded migration in version order, each in
// its own transaction, and records it in schema_migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	migrations, err := loadMigrations(migrationFS)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			checksum TEXT NOT NULL,
			execution_time_ms INTEGER NOT NULL DEFAULT 0
		)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	applied, err := s.AppliedMigrations(ctx)
	if err != nil {
		return err
	}
	checksums := make(map[string]string, len(applied))
	for _, m := range applied {
		checksums[m.Version] = m.Checksum
	}

	for _, m := range migrations {
		if sum, ok := checksums[m.Version]; ok {
			if sum != m.Checksum {
				return fmt.Errorf("%w: version %s", ErrChecksumMismatch, m.Version)
			}
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) apply(ctx context.Context, m Migration) error {
	started := time.Now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for i, stmt := range splitStatements(m.SQL) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: migration %s statement %d: %w", m.Version, i+1, err)
			}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, applied_at, checksum, execution_time_ms) VALUES (?, ?, ?, ?)`,
			m.Version, formatTime(time.Now()), m.Checksum, time.Since(started).Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("sqlite: record migration %s: %w", m.Version, err)
		}
		return nil
	})
}

// AppliedMigrations lists the recorded migrations ordered by version.
func (s *Storage) AppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, applied_at, checksum, execution_time_ms FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list applied migrations: %w", err)
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var (
			m         AppliedMigration
			appliedAt string
			elapsedMS int64
		)
		if err := rows.Scan(&m.Version, &appliedAt, &m.Checksum, &elapsedMS); err != nil {
			return nil, fmt.Errorf("sqlite: scan applied migration: %w", err)
		}
		if m.AppliedAt, err = parseTime(appliedAt); err != nil {
			return nil, err
		}
		m.ExecutionTime = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, m)
	}
	return out, rows.Err()
}

func loadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("sqlite: read migrations: %w", err)
	}

	seen := make(map[string]string)
	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		matches := migrationFilePattern.FindStringSubmatch(entry.Name())
		if matches == nil {
			return nil, fmt.Errorf("sqlite: migration file %q does not match {version}_{description}.sql", entry.Name())
		}
		version := matches[1]
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("sqlite: migration version %s found in both %s and %s", version, other, entry.Name())
		}
		seen[version] = entry.Name()

		raw, err := fs.ReadFile(fsys, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("sqlite: read migration %s: %w", entry.Name(), err)
		}
		content := string(raw)
		if len(splitStatements(content)) == 0 {
			return nil, fmt.Errorf("sqlite: migration %s has no statements", entry.Name())
		}

		description := descriptionFrom(content)
		if description == "" {
			description = strings.ReplaceAll(matches[2], "_", " ")
		}
		migrations = append(migrations, Migration{
			Version:     version,
			Description: description,
			SQL:         content,
			Checksum:    fmt.Sprintf("%x", sha256.Sum256(raw)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		vi, _ := strconv.Atoi(migrations[i].Version)
		vj, _ := strconv.Atoi(migrations[j].Version)
		return vi < vj
	})
	return migrations, nil
}

// splitStatements splits a script on semicolons and drops comment-only lines.
// Migration files must not contain semicolons inside literals.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) > 0 {
			out = append(out, strings.TrimSpace(strings.Join(lines, "\n")))
		}
	}
	return out
}

func descriptionFrom(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}
		if rest, ok := strings.CutPrefix(line, "-- Description:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
