package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/username/holiday-calendar/internal/calendar"
	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/store"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// GET /api/holidays?year=&status=
func (s *Server) handleHolidays(c *fiber.Ctx) error {
	year, err := queryYear(c, 0)
	if err != nil {
		return err
	}
	q := store.Query{Year: year}
	if raw := c.Query("status"); raw != "" {
		status, err := holiday.ParseStatus(raw)
		if err != nil {
			return err
		}
		q.Statuses = []holiday.Status{status}
	}

	holidays, err := s.manager.List(c.UserContext(), q)
	if err != nil {
		return err
	}

	maxAge := int(s.config.Server.GetCacheMaxAge().Seconds())
	c.Set(fiber.HeaderCacheControl, fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=86400", maxAge))
	return c.JSON(fiber.Map{
		"success":  true,
		"holidays": holidays,
		"count":    len(holidays),
	})
}

// GET /api/calendar?year=&lang=
func (s *Server) handleCalendar(c *fiber.Ctx) error {
	year, err := queryYear(c, time.Now().Year())
	if err != nil {
		return err
	}

	view, err := s.manager.Calendar(c.UserContext(), year, queryLanguage(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"calendar": view,
	})
}

// GET /api/calendar.ics?year=&lang=
func (s *Server) handleCalendarICS(c *fiber.Ctx) error {
	year, err := queryYear(c, time.Now().Year())
	if err != nil {
		return err
	}

	holidays, err := s.manager.Overlapping(c.UserContext(), year)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="holidays-%d.ics"`, year))
	return calendar.WriteICS(c.Response().BodyWriter(), holidays, calendar.ICSOptions{
		Name:     fmt.Sprintf("Holidays %d", year),
		Language: queryLanguage(c),
	})
}

// GET /api/get-all-holidays
func (s *Server) handleGetAll(c *fiber.Ctx) error {
	holidays, err := s.manager.List(c.UserContext(), store.Query{})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"holidays": holidays,
	})
}

// POST /api/scrape-holidays {year, temporary}
func (s *Server) handleScrape(c *fiber.Ctx) error {
	var req scrapeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	if req.Temporary {
		result, err := s.manager.Preview(c.UserContext(), req.Year)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  result.Message(),
			"holidays": result.Holidays,
			"stats":    result.Stats,
		})
	}

	result, err := s.manager.Import(c.UserContext(), req.Year)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": result.Message(),
		"results": result,
	})
}

// POST /api/save-approved-holidays {holidays, status}
func (s *Server) handleSave(c *fiber.Ctx) error {
	var req saveRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	result, err := s.manager.BulkSave(c.UserContext(), req.Holidays, holiday.Status(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": result.Message(),
		"results": result,
	})
}

// POST /api/update-holiday {id, status}
func (s *Server) handleUpdate(c *fiber.Ctx) error {
	var req updateRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	if err := s.manager.UpdateStatus(c.UserContext(), req.ID, holiday.Status(req.Status)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Holiday updated to: " + req.Status,
	})
}

// POST /api/bulk-update-holidays {ids, status}
func (s *Server) handleBulkUpdate(c *fiber.Ctx) error {
	var req bulkUpdateRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	result, err := s.manager.BulkUpdate(c.UserContext(), req.IDs, holiday.Status(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": len(result.Errors) == 0,
		"message": result.Message(),
		"updated": result.Updated,
		"errors":  result.Errors,
	})
}

// POST /api/translate-holidays
func (s *Server) handleTranslate(c *fiber.Ctx) error {
	result, err := s.manager.TranslateMissing(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    result.Message(),
		"translated": result.Translated,
		"errors":     result.Errors,
		"errorsList": result.ErrorsList,
	})
}

// POST /api/delete-holidays {ids}
func (s *Server) handleDelete(c *fiber.Ctx) error {
	var req deleteRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	result, err := s.manager.DeleteMany(c.UserContext(), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": len(result.Errors) == 0,
		"message": result.Message(),
		"deleted": result.Deleted,
		"errors":  result.Errors,
	})
}

// POST /api/delete-all-holidays
func (s *Server) handleDeleteAll(c *fiber.Ctx) error {
	result, err := s.manager.DeleteAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": result.Message(),
		"deleted": result.Deleted,
	})
}

func queryYear(c *fiber.Ctx, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query("year"))
	if raw == "" {
		return fallback, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("%w: invalid year %q", holiday.ErrValidation, raw)
	}
	return year, nil
}

func queryLanguage(c *fiber.Ctx) holiday.Language {
	if strings.EqualFold(c.Query("lang"), string(holiday.LanguageEnglish)) {
		return holiday.LanguageEnglish
	}
	return holiday.LanguageSpanish
}
