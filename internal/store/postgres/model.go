package postgres

import (
	"time"

	"github.com/username/holiday-calendar/internal/holiday"
)

// holidayModel is the holidays table row
type holidayModel struct {
	ID            string    `gorm:"column:id;type:uuid;primaryKey"`
	Name          string    `gorm:"column:name;not null;uniqueIndex:idx_holidays_name_start"`
	NameEn        string    `gorm:"column:name_en;not null;default:''"`
	StartDate     string    `gorm:"column:start_date;type:char(10);not null;uniqueIndex:idx_holidays_name_start;index"`
	EndDate       string    `gorm:"column:end_date;type:char(10);not null"`
	Description   string    `gorm:"column:description;not null;default:''"`
	DescriptionEn string    `gorm:"column:description_en;not null;default:''"`
	Status        string    `gorm:"column:status;type:varchar(16);not null;default:'approved'"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (holidayModel) TableName() string { return "holidays" }

func toModel(h holiday.Holiday) holidayModel {
	return holidayModel{
		ID:            h.ID,
		Name:          h.Name,
		NameEn:        h.NameEn,
		StartDate:     h.StartDate,
		EndDate:       h.EndDate,
		Description:   h.Description,
		DescriptionEn: h.DescriptionEn,
		Status:        string(h.Status),
	}
}

func (m holidayModel) toHoliday() holiday.Holiday {
	return holiday.Holiday{
		ID:            m.ID,
		Name:          m.Name,
		NameEn:        m.NameEn,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Description:   m.Description,
		DescriptionEn: m.DescriptionEn,
		Status:        holiday.Status(m.Status),
	}
}

// patchColumns maps a patch onto column names
func patchColumns(p holiday.Patch) map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.NameEn != nil {
		cols["name_en"] = *p.NameEn
	}
	if p.DescriptionEn != nil {
		cols["description_en"] = *p.DescriptionEn
	}
	return cols
}
