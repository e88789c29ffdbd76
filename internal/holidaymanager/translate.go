package holidaymanager

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/store"
	"github.com/username/holiday-calendar/internal/translate"
)

// TranslateMissing fills the English name and description of every
// holiday that has no English name yet
func (m *Manager) TranslateMissing(ctx context.Context) (TranslateResult, error) {
	pending, err := m.store.Fetch(ctx, store.Query{Untranslated: true})
	if err != nil {
		return TranslateResult{}, fmt.Errorf("failed to load untranslated holidays: %w", err)
	}

	m.logger.Info("Holidays without English translation", zap.Int("count", len(pending)))

	result := TranslateResult{ErrorsList: []string{}}
	for _, h := range pending {
		patch := m.translationPatch(h)
		if patch.IsEmpty() {
			continue
		}

		if err := m.store.Patch(ctx, h.ID, patch); err != nil {
			m.logger.Error("Failed to translate holiday",
				zap.String("id", h.ID),
				zap.String("name", h.Name),
				zap.Error(err))
			result.Errors++
			result.ErrorsList = append(result.ErrorsList, fmt.Sprintf("%s: %v", h.Name, err))
			continue
		}

		m.logger.Debug("Holiday translated", zap.String("name", h.Name))
		result.Translated++
	}

	return result, nil
}

// translationPatch builds the English fields missing from h
func (m *Manager) translationPatch(h holiday.Holiday) holiday.Patch {
	var p holiday.Patch
	if h.NameEn == "" {
		nameEn := m.translator.TranslateName(h.Name)
		p.NameEn = &nameEn
	}
	if h.DescriptionEn == "" && h.Description != "" {
		descEn := m.translator.TranslateDescription(h.Description, translate.KindFromDescription(h.Description))
		p.DescriptionEn = &descEn
	}
	return p
}

func (m *Manager) fillTranslation(h *holiday.Holiday) {
	p := m.translationPatch(*h)
	if p.NameEn != nil {
		h.NameEn = *p.NameEn
	}
	if p.DescriptionEn != nil {
		h.DescriptionEn = *p.DescriptionEn
	}
}
