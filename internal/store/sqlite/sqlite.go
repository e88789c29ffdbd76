package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/store"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS holiday (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_en TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		description_en TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'approved',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_holiday_name_start ON holiday (name, start_date)`,
	`CREATE INDEX IF NOT EXISTS idx_holiday_start ON holiday (start_date)`,
}

const selectColumns = "SELECT id, name, name_en, start_date, end_date, description, description_en, status FROM holiday"

// Store implements store.Store using SQLite
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Open opens the database at path and initializes the schema.
// ":memory:" opens a private in-memory database.
func Open(path string, logger *zap.Logger) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := New(db, logger)
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store opened", zap.String("path", path))
	return s, nil
}

// New wraps an open database. The schema must already exist, see InitSchema.
func New(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// InitSchema creates the holiday table and its indexes
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Create inserts a holiday with a new id
func (s *Store) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = uuid.NewString()
	ts := s.now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO holiday (id, name, name_en, start_date, end_date, description, description_en, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Name, h.NameEn, h.StartDate, h.EndDate, h.Description, h.DescriptionEn, string(h.Status), ts, ts,
	)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("%w: failed to insert holiday %q: %w", holiday.ErrPersistence, h.Name, err)
	}

	return h, nil
}

// Get retrieves a holiday by its id
func (s *Store) Get(ctx context.Context, id string) (holiday.Holiday, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)

	h, err := scanHoliday(row)
	if errors.Is(err, sql.ErrNoRows) {
		return holiday.Holiday{}, fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("%w: failed to get holiday: %w", holiday.ErrPersistence, err)
	}
	return h, nil
}

// Patch sets the non-nil fields of p
func (s *Store) Patch(ctx context.Context, id string, p holiday.Patch) error {
	if p.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*p.Status))
	}
	if p.NameEn != nil {
		sets = append(sets, "name_en = ?")
		args = append(args, *p.NameEn)
	}
	if p.DescriptionEn != nil {
		sets = append(sets, "description_en = ?")
		args = append(args, *p.DescriptionEn)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().UTC().Format(time.RFC3339), id)

	res, err := s.db.ExecContext(ctx, "UPDATE holiday SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("%w: failed to patch holiday %s: %w", holiday.ErrPersistence, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return nil
}

// Fetch retrieves holidays matching q ordered by start date
func (s *Store) Fetch(ctx context.Context, q store.Query) ([]holiday.Holiday, error) {
	var where []string
	var args []interface{}

	if from, to, ok := q.Bounds(); ok {
		where = append(where, "start_date >= ? AND start_date <= ?")
		args = append(args, from, to)
	}
	if len(q.Statuses) > 0 {
		placeholders := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ", ")+")")
	}
	if q.Untranslated {
		where = append(where, "name_en = ''")
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_date, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query holidays: %w", holiday.ErrPersistence, err)
	}
	defer rows.Close()

	results := []holiday.Holiday{}
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan holiday: %w", holiday.ErrPersistence, err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read holidays: %w", holiday.ErrPersistence, err)
	}
	return results, nil
}

// Exists reports whether a holiday with this start date and name is stored
func (s *Store) Exists(ctx context.Context, startDate, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM holiday WHERE name = ? AND start_date = ?", name, startDate,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check holiday: %w", holiday.ErrPersistence, err)
	}
	return n > 0, nil
}

// Delete removes a holiday by id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM holiday WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete holiday %s: %w", holiday.ErrPersistence, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return nil
}

// DeleteAll removes every holiday
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM holiday")
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete holidays: %w", holiday.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count deleted holidays: %w", holiday.ErrPersistence, err)
	}

	s.logger.Info("All holidays deleted", zap.Int64("count", n))
	return int(n), nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHoliday(row scanner) (holiday.Holiday, error) {
	var h holiday.Holiday
	var status string
	err := row.Scan(&h.ID, &h.Name, &h.NameEn, &h.StartDate, &h.EndDate, &h.Description, &h.DescriptionEn, &status)
	if err != nil {
		return holiday.Holiday{}, err
	}
	h.Status = holiday.Status(status)
	return h, nil
}
