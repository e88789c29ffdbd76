package holidaymanager

import (
	"fmt"

	"github.com/username/holiday-calendar/internal/holiday"
)

// UpdateResult is the outcome of a bulk status update
type UpdateResult struct {
	Status  holiday.Status `json:"status"`
	Updated int            `json:"updated"`
	Errors  []string       `json:"errors"` // ids whose patch failed
}

func (r UpdateResult) Message() string {
	msg := fmt.Sprintf("%d holidays updated to: %s", r.Updated, r.Status)
	if len(r.Errors) > 0 {
		msg += fmt.Sprintf(" (%d failed)", len(r.Errors))
	}
	return msg
}

// SaveResult is the outcome of a bulk save
type SaveResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

func (r SaveResult) Message() string {
	return fmt.Sprintf("Saved %d holidays to database", r.Saved)
}

// ImportResult is the outcome of importing a whole year
type ImportResult struct {
	Year     int `json:"year"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

func (r ImportResult) Message() string {
	return fmt.Sprintf("API import completed: %d imported, %d skipped, %d errors",
		r.Imported, r.Skipped, r.Errors)
}

// DeleteResult is the outcome of a delete
type DeleteResult struct {
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors"`
}

func (r DeleteResult) Message() string {
	msg := fmt.Sprintf("Deleted %d holidays", r.Deleted)
	if len(r.Errors) > 0 {
		msg += fmt.Sprintf(" (%d failed)", len(r.Errors))
	}
	return msg
}

// TranslateResult is the outcome of translating stored holidays
type TranslateResult struct {
	Translated int      `json:"translated"`
	Errors     int      `json:"errors"`
	ErrorsList []string `json:"errorsList,omitempty"`
}

func (r TranslateResult) Message() string {
	if r.Translated == 0 && r.Errors == 0 {
		return "All holidays already have English translations!"
	}
	return fmt.Sprintf("Translated %d holidays", r.Translated)
}
