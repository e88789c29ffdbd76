package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/store"
)

// Store implements store.Store using PostgreSQL through GORM
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL and migrates the holidays table
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&holidayModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("PostgreSQL store opened")
	return New(db, logger), nil
}

// New wraps an open GORM connection
func New(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Create inserts a holiday with a new id
func (s *Store) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = uuid.NewString()
	m := toModel(h)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return holiday.Holiday{}, fmt.Errorf("%w: failed to insert holiday %q: %w", holiday.ErrPersistence, h.Name, err)
	}
	return m.toHoliday(), nil
}

// Get retrieves a holiday by its id
func (s *Store) Get(ctx context.Context, id string) (holiday.Holiday, error) {
	if !validID(id) {
		return holiday.Holiday{}, fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	var m holidayModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return holiday.Holiday{}, fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("%w: failed to get holiday: %w", holiday.ErrPersistence, err)
	}
	return m.toHoliday(), nil
}

// Patch sets the non-nil fields of p
func (s *Store) Patch(ctx context.Context, id string, p holiday.Patch) error {
	if p.IsEmpty() {
		return nil
	}
	if !validID(id) {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}

	res := s.db.WithContext(ctx).Model(&holidayModel{}).Where("id = ?", id).Updates(patchColumns(p))
	if res.Error != nil {
		return fmt.Errorf("%w: failed to patch holiday %s: %w", holiday.ErrPersistence, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return nil
}

// Fetch retrieves holidays matching q ordered by start date
func (s *Store) Fetch(ctx context.Context, q store.Query) ([]holiday.Holiday, error) {
	tx := s.db.WithContext(ctx).Model(&holidayModel{})
	if from, to, ok := q.Bounds(); ok {
		tx = tx.Where("start_date BETWEEN ? AND ?", from, to)
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		tx = tx.Where("status IN ?", statuses)
	}
	if q.Untranslated {
		tx = tx.Where("name_en = ''")
	}

	var models []holidayModel
	if err := tx.Order("start_date ASC, name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to query holidays: %w", holiday.ErrPersistence, err)
	}

	results := make([]holiday.Holiday, 0, len(models))
	for _, m := range models {
		results = append(results, m.toHoliday())
	}
	return results, nil
}

// Exists reports whether a holiday with this start date and name is stored
func (s *Store) Exists(ctx context.Context, startDate, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&holidayModel{}).
		Where("name = ? AND start_date = ?", name, startDate).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("%w: failed to check holiday: %w", holiday.ErrPersistence, err)
	}
	return count > 0, nil
}

// Delete removes a holiday by id
func (s *Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&holidayModel{})
	if res.Error != nil {
		return fmt.Errorf("%w: failed to delete holiday %s: %w", holiday.ErrPersistence, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return nil
}

// DeleteAll removes every holiday
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&holidayModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: failed to delete holidays: %w", holiday.ErrPersistence, res.Error)
	}

	s.logger.Info("All holidays deleted", zap.Int64("count", res.RowsAffected))
	return int(res.RowsAffected), nil
}

// validID reports whether id can exist in the uuid id column
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
