package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/username/holiday-calendar/internal/holiday"
)

func TestModelRoundTrip(t *testing.T) {
	h := holiday.Holiday{
		ID:            "0b8f7c8e-7d3a-4f0c-9f5e-1d2b3c4d5e6f",
		Name:          "Navidad",
		NameEn:        "Christmas",
		StartDate:     "2025-12-25",
		EndDate:       "2025-12-25",
		Description:   "Feriado oficial (inamovible)",
		DescriptionEn: "Official holiday (fixed)",
		Status:        holiday.StatusApproved,
	}

	if got := toModel(h).toHoliday(); got != h {
		t.Errorf("round trip = %+v, want %+v", got, h)
	}
	if (holidayModel{}).TableName() != "holidays" {
		t.Errorf("TableName() = %q", (holidayModel{}).TableName())
	}
}

func TestPatchColumns(t *testing.T) {
	nameEn := "Christmas"
	status := holiday.StatusCustom

	tests := []struct {
		name  string
		patch holiday.Patch
		want  map[string]interface{}
	}{
		{"status only", holiday.Patch{Status: &status}, map[string]interface{}{"status": "custom"}},
		{"translation", holiday.Patch{NameEn: &nameEn}, map[string]interface{}{"name_en": "Christmas"}},
		{"empty", holiday.Patch{}, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := patchColumns(tt.patch)
			if len(got) != len(tt.want) {
				t.Fatalf("patchColumns() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("patchColumns()[%s] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	base := NewGormLogger(logger)

	silent := base.LogMode(gormLogger.Silent)
	if silent == base {
		t.Error("LogMode() should return a copy")
	}

	// Must not invoke the SQL callback when silent
	silent.Trace(context.Background(), time.Now(), func() (string, int64) {
		t.Error("Trace() evaluated SQL in silent mode")
		return "", 0
	}, errors.New("boom"))

	called := false
	base.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT 1", 1
	}, errors.New("boom"))
	if !called {
		t.Error("Trace() should log failed queries at warn level")
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"6f1c2a4e-8b3d-4f5a-9c7e-1d2b3a4c5e6f", true},
		{"missing", false},
		{"temp_2025-01-01_0", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := validID(tt.id); got != tt.want {
				t.Errorf("validID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
