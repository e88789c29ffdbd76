package sanity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/store"
)

const (
	documentType = "holiday"
	projection   = `{_id, name, nameEn, startDate, endDate, description, descriptionEn, status}`
)

// document is the holiday document stored in the content lake
type document struct {
	ID            string `json:"_id,omitempty"`
	Type          string `json:"_type,omitempty"`
	Name          string `json:"name"`
	NameEn        string `json:"nameEn,omitempty"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	Description   string `json:"description,omitempty"`
	DescriptionEn string `json:"descriptionEn,omitempty"`
	Status        string `json:"status"`
}

func toDocument(h holiday.Holiday) document {
	return document{
		ID:            h.ID,
		Type:          documentType,
		Name:          h.Name,
		NameEn:        h.NameEn,
		StartDate:     h.StartDate,
		EndDate:       h.EndDate,
		Description:   h.Description,
		DescriptionEn: h.DescriptionEn,
		Status:        string(h.Status),
	}
}

func (d document) toHoliday() holiday.Holiday {
	return holiday.Holiday{
		ID:            d.ID,
		Name:          d.Name,
		NameEn:        d.NameEn,
		StartDate:     d.StartDate,
		EndDate:       d.EndDate,
		Description:   d.Description,
		DescriptionEn: d.DescriptionEn,
		Status:        holiday.Status(d.Status),
	}
}

// Store implements store.Store on top of the Sanity HTTP API
type Store struct {
	client *Client
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Sanity-backed store
func NewStore(client *Client, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		logger: logger,
	}
}

// Create inserts a holiday document
func (s *Store) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = uuid.NewString()

	resp, err := s.client.Mutate(ctx, Mutation{Create: toDocument(h)})
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("%w: failed to create holiday %q: %w", holiday.ErrPersistence, h.Name, err)
	}
	if len(resp.Results) > 0 && resp.Results[0].ID != "" {
		h.ID = resp.Results[0].ID
	}

	s.logger.Debug("Holiday created",
		zap.String("id", h.ID),
		zap.String("name", h.Name),
		zap.String("date", h.StartDate))

	return h, nil
}

// Get retrieves a holiday by its document id
func (s *Store) Get(ctx context.Context, id string) (holiday.Holiday, error) {
	var doc *document
	groq := `*[_type == $type && _id == $id][0]` + projection
	if err := s.client.Query(ctx, groq, map[string]interface{}{"type": documentType, "id": id}, &doc); err != nil {
		return holiday.Holiday{}, fmt.Errorf("%w: failed to get holiday: %w", holiday.ErrPersistence, err)
	}
	if doc == nil {
		return holiday.Holiday{}, fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return doc.toHoliday(), nil
}

// Patch sets the non-nil fields of p on the document
func (s *Store) Patch(ctx context.Context, id string, p holiday.Patch) error {
	if p.IsEmpty() {
		return nil
	}

	resp, err := s.client.Mutate(ctx, Mutation{Patch: &PatchMutation{ID: id, Set: p.Fields()}})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
		}
		return fmt.Errorf("%w: failed to patch holiday %s: %w", holiday.ErrPersistence, id, err)
	}
	if len(resp.Results) == 0 {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return nil
}

// Fetch retrieves holidays matching q ordered by start date
func (s *Store) Fetch(ctx context.Context, q store.Query) ([]holiday.Holiday, error) {
	groq, params := buildQuery(q)

	var docs []document
	if err := s.client.Query(ctx, groq, params, &docs); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch holidays: %w", holiday.ErrPersistence, err)
	}

	results := make([]holiday.Holiday, 0, len(docs))
	for _, d := range docs {
		results = append(results, d.toHoliday())
	}
	return results, nil
}

func buildQuery(q store.Query) (string, map[string]interface{}) {
	filters := []string{"_type == $type"}
	params := map[string]interface{}{"type": documentType}

	if from, to, ok := q.Bounds(); ok {
		filters = append(filters, "startDate >= $from", "startDate <= $to")
		params["from"] = from
		params["to"] = to
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, st := range q.Statuses {
			statuses[i] = string(st)
		}
		filters = append(filters, "status in $statuses")
		params["statuses"] = statuses
	}
	if q.Untranslated {
		filters = append(filters, `(!defined(nameEn) || nameEn == "")`)
	}

	groq := "*[" + strings.Join(filters, " && ") + "] | order(startDate asc, name asc) " + projection
	return groq, params
}

// Exists reports whether a holiday with this start date and name is stored
func (s *Store) Exists(ctx context.Context, startDate, name string) (bool, error) {
	var count int
	groq := `count(*[_type == $type && name == $name && startDate == $startDate])`
	params := map[string]interface{}{"type": documentType, "name": name, "startDate": startDate}
	if err := s.client.Query(ctx, groq, params, &count); err != nil {
		return false, fmt.Errorf("%w: failed to check holiday: %w", holiday.ErrPersistence, err)
	}
	return count > 0, nil
}

// Delete removes a holiday document by id
func (s *Store) Delete(ctx context.Context, id string) error {
	resp, err := s.client.Mutate(ctx, Mutation{Delete: &DeleteMutation{ID: id}})
	if err != nil {
		return fmt.Errorf("%w: failed to delete holiday %s: %w", holiday.ErrPersistence, id, err)
	}
	if len(resp.Results) == 0 {
		return fmt.Errorf("%w: %s", holiday.ErrNotFound, id)
	}
	return nil
}

// DeleteAll removes every holiday document
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	resp, err := s.client.Mutate(ctx, Mutation{Delete: &DeleteMutation{Query: `*[_type == "holiday"]`}})
	if err != nil {
		return 0, fmt.Errorf("%w: failed to delete holidays: %w", holiday.ErrPersistence, err)
	}

	s.logger.Info("All holidays deleted", zap.Int("count", len(resp.Results)))
	return len(resp.Results), nil
}

// Close is a no-op, the client holds no resources
func (s *Store) Close() error {
	return nil
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
