package holiday

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/holiday-calendar/pkg/dateutil"
)

// Status is the category assigned to a holiday
type Status string

const (
	// StatusApproved is a non-working official holiday
	StatusApproved Status = "approved"
	// StatusWorking is nominally a holiday but staff works
	StatusWorking Status = "working"
	// StatusCustom is an organization-specific day off
	StatusCustom Status = "custom"
	// StatusExisting marks a candidate that is already persisted. Never stored.
	StatusExisting Status = "existing"
)

// Statuses lists every status a persisted holiday may carry
var Statuses = []Status{StatusApproved, StatusWorking, StatusCustom}

// IsValid reports whether s can be persisted
func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusWorking, StatusCustom:
		return true
	}
	return false
}

// ParseStatus converts a string into a persistable status
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: status must be approved, working or custom, got %q", ErrValidation, s)
	}
	return status, nil
}

// Language selects the display language of a holiday
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Holiday is a persisted holiday record
type Holiday struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	NameEn        string `json:"nameEn,omitempty"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Description   string `json:"description,omitempty"`
	DescriptionEn string `json:"descriptionEn,omitempty"`
	Status        Status `json:"status"`
}

// Key returns the de-duplication key of the holiday
func (h Holiday) Key() string {
	return Key(h.StartDate, h.Name)
}

// Range parses the start and end dates of the holiday
func (h Holiday) Range() (start, end time.Time, err error) {
	start, err = dateutil.ParseDateString(h.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	end, err = dateutil.ParseDateString(h.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	return start, end, nil
}

// Validate checks that the holiday can be persisted
func (h Holiday) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	start, end, err := h.Range()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start date %s is after end date %s", ErrValidation, h.StartDate, h.EndDate)
	}
	if !h.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrValidation, h.Status)
	}
	return nil
}

// DisplayName returns the name to show for the given language.
// English falls back to the Spanish name when no translation exists.
func (h Holiday) DisplayName(lang Language) string {
	if lang == LanguageEnglish && h.NameEn != "" {
		return h.NameEn
	}
	return h.Name
}

// DisplayDescription returns the description to show for the given language
func (h Holiday) DisplayDescription(lang Language) string {
	if lang == LanguageEnglish && h.DescriptionEn != "" {
		return h.DescriptionEn
	}
	return h.Description
}

// Candidate is a holiday fetched from a source that is not persisted yet
type Candidate struct {
	Holiday
	ExistsInDB bool `json:"existsInDB"`
}

// SourceHoliday is a record returned by a holiday source
type SourceHoliday struct {
	Date string `json:"date"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// Patch holds the fields a patch may set. Nil fields are left untouched.
type Patch struct {
	Status        *Status `json:"status,omitempty"`
	NameEn        *string `json:"nameEn,omitempty"`
	DescriptionEn *string `json:"descriptionEn,omitempty"`
}

// IsEmpty reports whether the patch sets nothing
func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.NameEn == nil && p.DescriptionEn == nil
}

// Fields returns the patch as a field map keyed by wire names
func (p Patch) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, 3)
	if p.Status != nil {
		fields["status"] = string(*p.Status)
	}
	if p.NameEn != nil {
		fields["nameEn"] = *p.NameEn
	}
	if p.DescriptionEn != nil {
		fields["descriptionEn"] = *p.DescriptionEn
	}
	return fields
}

// StatusPatch builds a patch that only changes the status
func StatusPatch(status Status) Patch {
	return Patch{Status: &status}
}

// Key builds the de-duplication key from a start date and a name
func Key(startDate, name string) string {
	return startDate + "_" + name
}
