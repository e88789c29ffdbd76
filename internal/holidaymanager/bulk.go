package holidaymanager

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/username/holiday-calendar/internal/holiday"
)

// UpdateStatus sets the status of a single holiday
func (m *Manager) UpdateStatus(ctx context.Context, id string, status holiday.Status) error {
	if err := validateIDs([]string{id}); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", holiday.ErrValidation, status)
	}

	if err := m.store.Patch(ctx, id, holiday.StatusPatch(status)); err != nil {
		return fmt.Errorf("failed to update holiday %s: %w", id, err)
	}

	m.logger.Info("Holiday updated",
		zap.String("id", id),
		zap.String("status", string(status)))
	return nil
}

// BulkUpdate sets the same status on every id. Each patch is independent:
// failed ids are reported and never stop the others.
func (m *Manager) BulkUpdate(ctx context.Context, ids []string, status holiday.Status) (UpdateResult, error) {
	if err := validateIDs(ids); err != nil {
		return UpdateResult{}, err
	}
	if !status.IsValid() {
		return UpdateResult{}, fmt.Errorf("%w: invalid status %q", holiday.ErrValidation, status)
	}

	patch := holiday.StatusPatch(status)
	updated, failed := m.fanOut(ctx, ids, func(ctx context.Context, id string) error {
		return m.store.Patch(ctx, id, patch)
	})

	result := UpdateResult{Status: status, Updated: updated, Errors: failed}
	m.logger.Info("Bulk update completed",
		zap.String("status", string(status)),
		zap.Int("updated", result.Updated),
		zap.Int("failed", len(result.Errors)))

	return result, nil
}

// DeleteMany removes every id, reporting the ids that failed
func (m *Manager) DeleteMany(ctx context.Context, ids []string) (DeleteResult, error) {
	if err := validateIDs(ids); err != nil {
		return DeleteResult{}, err
	}

	deleted, failed := m.fanOut(ctx, ids, m.store.Delete)

	result := DeleteResult{Deleted: deleted, Errors: failed}
	m.logger.Info("Bulk delete completed",
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", len(result.Errors)))

	return result, nil
}

// DeleteAll removes every stored holiday
func (m *Manager) DeleteAll(ctx context.Context) (DeleteResult, error) {
	deleted, err := m.store.DeleteAll(ctx)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to delete all holidays: %w", err)
	}
	return DeleteResult{Deleted: deleted, Errors: []string{}}, nil
}

// BulkSave promotes candidates to holidays with the given status.
// Candidates are saved one by one; each is re-checked against the store
// right before its create so a stale preview never produces duplicates.
func (m *Manager) BulkSave(ctx context.Context, candidates []holiday.Candidate, status holiday.Status) (SaveResult, error) {
	if candidates == nil {
		return SaveResult{}, fmt.Errorf("%w: holidays are required", holiday.ErrValidation)
	}
	if !status.IsValid() {
		return SaveResult{}, fmt.Errorf("%w: invalid status %q", holiday.ErrValidation, status)
	}
	if len(candidates) == 0 {
		return SaveResult{}, nil
	}

	m.logger.Info("Saving holidays",
		zap.Int("count", len(candidates)),
		zap.String("status", string(status)))

	var result SaveResult
	for _, c := range candidates {
		h := c.Holiday
		h.ID = ""
		h.Status = status
		if h.EndDate == "" {
			h.EndDate = h.StartDate
		}

		if err := h.Validate(); err != nil {
			m.logger.Warn("Invalid holiday skipped",
				zap.String("name", h.Name),
				zap.String("start_date", h.StartDate),
				zap.Error(err))
			result.Errors++
			continue
		}

		exists, err := m.store.Exists(ctx, h.StartDate, h.Name)
		if err != nil {
			m.logger.Error("Failed to check holiday",
				zap.String("key", h.Key()),
				zap.Error(err))
			result.Errors++
			continue
		}
		if exists {
			m.logger.Debug("Holiday already exists, skipping", zap.String("key", h.Key()))
			result.Skipped++
			continue
		}

		if m.config.Translation.OnSave {
			m.fillTranslation(&h)
		}

		if _, err := m.store.Create(ctx, h); err != nil {
			m.logger.Error("Failed to save holiday",
				zap.String("key", h.Key()),
				zap.Error(err))
			result.Errors++
			continue
		}
		result.Saved++
	}

	m.logger.Info("Holidays saved",
		zap.Int("saved", result.Saved),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors))

	return result, nil
}

// fanOut runs fn for every id with bounded concurrency. It returns how many
// calls succeeded and the failed ids in input order.
func (m *Manager) fanOut(ctx context.Context, ids []string, fn func(ctx context.Context, id string) error) (int, []string) {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		done   int
		failed = make([]bool, len(ids))
	)
	g.SetLimit(m.config.Bulk.GetMaxConcurrency())

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			err := fn(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.logger.Warn("Bulk item failed",
					zap.String("id", id),
					zap.Error(err))
				failed[i] = true
				return nil
			}
			done++
			return nil
		})
	}
	_ = g.Wait()

	errs := []string{}
	for i, f := range failed {
		if f {
			errs = append(errs, ids[i])
		}
	}
	return done, errs
}
