package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/username/holiday-calendar/internal/holiday"
)

type scrapeRequest struct {
	Year      int  `json:"year" validate:"omitempty,min=1,max=9999"`
	Temporary bool `json:"temporary"`
}

type saveRequest struct {
	Holidays []holiday.Candidate `json:"holidays" validate:"required"`
	Status   string              `json:"status" validate:"required,oneof=approved working custom"`
}

type updateRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=approved working custom"`
}

type bulkUpdateRequest struct {
	IDs    []string `json:"ids" validate:"required,min=1,dive,required"`
	Status string   `json:"status" validate:"required,oneof=approved working custom"`
}

type deleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// bind parses the JSON body into req and validates it
func (s *Server) bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", holiday.ErrValidation, err)
	}
	return s.validate.Struct(req)
}
