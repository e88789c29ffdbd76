package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/username/holiday-calendar/internal/config"
	"github.com/username/holiday-calendar/internal/holiday"
	"github.com/username/holiday-calendar/internal/holidaymanager"
	"github.com/username/holiday-calendar/internal/store"
	"github.com/username/holiday-calendar/internal/store/sqlite"
	"github.com/username/holiday-calendar/internal/translate"
)

type stubSource struct {
	records []holiday.SourceHoliday
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(_ context.Context, _ int) ([]holiday.SourceHoliday, error) {
	return s.records, nil
}

func year2025() []holiday.SourceHoliday {
	return []holiday.SourceHoliday{
		{Date: "2025-12-25", Type: "inamovible", Name: "Navidad"},
		{Date: "2025-01-01", Type: "inamovible", Name: "Año Nuevo"},
		{Date: "2025-05-01", Type: "inamovible", Name: "Día del Trabajador"},
		{Date: "2025-05-25", Type: "inamovible", Name: "Día de la Revolución de Mayo"},
		{Date: "2025-07-09", Type: "inamovible", Name: "Día de la Independencia"},
		{Date: "2025-06-16", Type: "trasladable", Name: "Paso a la Inmortalidad del General Martín Miguel de Güemes"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, src *stubSource) (*Server, store.Store) {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	st, err := sqlite.Open(":memory:", logger)
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	m := holidaymanager.NewManager(cfg, st, src, translate.New(nil), logger)
	return New(cfg, m, logger), st
}

type response struct {
	status int
	header http.Header
	body   map[string]interface{}
	raw    string
}

func doRequest(t *testing.T, s *Server, method, path string, body interface{}, setup ...func(*http.Request)) response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range setup {
		fn(req)
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := response{status: resp.StatusCode, header: resp.Header, raw: string(raw)}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &out.body); err != nil {
			t.Fatalf("failed to decode %s: %v", raw, err)
		}
	}
	return out
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t, &config.Config{}, &stubSource{})
	if resp := doRequest(t, s, http.MethodGet, "/health", nil); resp.status != http.StatusOK {
		t.Errorf("GET /health status = %d", resp.status)
	}
}

func TestServer_ScrapeSaveAndList(t *testing.T) {
	s, _ := newTestServer(t, &config.Config{}, &stubSource{records: year2025()})

	preview := doRequest(t, s, http.MethodPost, "/api/scrape-holidays", map[string]interface{}{"year": 2025, "temporary": true})
	if preview.status != http.StatusOK {
		t.Fatalf("preview status = %d, body = %s", preview.status, preview.raw)
	}
	if preview.body["message"] != "Found 6 holidays: 6 new, 0 already exist in database" {
		t.Errorf("preview message = %v", preview.body["message"])
	}

	candidates := preview.body["holidays"].([]interface{})
	save := doRequest(t, s, http.MethodPost, "/api/save-approved-holidays", map[string]interface{}{
		"holidays": candidates[:2],
		"status":   "working",
	})
	if save.status != http.StatusOK || save.body["message"] != "Saved 2 holidays to database" {
		t.Fatalf("save = %d %s", save.status, save.raw)
	}

	imported := doRequest(t, s, http.MethodPost, "/api/scrape-holidays", map[string]interface{}{"year": 2025})
	if imported.body["message"] != "API import completed: 4 imported, 2 skipped, 0 errors" {
		t.Errorf("import message = %v", imported.body["message"])
	}

	list := doRequest(t, s, http.MethodGet, "/api/holidays?year=2025", nil)
	if list.status != http.StatusOK {
		t.Fatalf("list status = %d", list.status)
	}
	if list.body["count"] != float64(6) {
		t.Errorf("count = %v, want 6", list.body["count"])
	}
	if cc := list.header.Get("Cache-Control"); cc != "public, s-maxage=3600, stale-while-revalidate=86400" {
		t.Errorf("Cache-Control = %q", cc)
	}
	first := list.body["holidays"].([]interface{})[0].(map[string]interface{})
	if first["startDate"] != "2025-01-01" || first["status"] != "working" {
		t.Errorf("first holiday = %v", first)
	}

	working := doRequest(t, s, http.MethodGet, "/api/holidays?status=working", nil)
	if working.body["count"] != float64(2) {
		t.Errorf("working count = %v, want 2", working.body["count"])
	}
}

func TestServer_StatusCodes(t *testing.T) {
	short := &stubSource{records: year2025()[:3]}
	s, _ := newTestServer(t, &config.Config{}, short)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"bad year query", http.MethodGet, "/api/holidays?year=abc", nil, http.StatusBadRequest},
		{"bad status query", http.MethodGet, "/api/holidays?status=holiday", nil, http.StatusBadRequest},
		{"save without holidays", http.MethodPost, "/api/save-approved-holidays", map[string]interface{}{"status": "approved"}, http.StatusBadRequest},
		{"update with invalid status", http.MethodPost, "/api/update-holiday", map[string]interface{}{"id": "x", "status": "existing"}, http.StatusBadRequest},
		{"bulk update without ids", http.MethodPost, "/api/bulk-update-holidays", map[string]interface{}{"ids": []string{}, "status": "custom"}, http.StatusBadRequest},
		{"update unknown id", http.MethodPost, "/api/update-holiday", map[string]interface{}{"id": "missing", "status": "custom"}, http.StatusNotFound},
		{"short source", http.MethodPost, "/api/scrape-holidays", map[string]interface{}{"year": 2025, "temporary": true}, http.StatusBadGateway},
		{"unknown route", http.MethodGet, "/api/nope", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, s, tt.method, tt.path, tt.body)
			if resp.status != tt.want {
				t.Errorf("status = %d, want %d (body %s)", resp.status, tt.want, resp.raw)
			}
			if resp.body["success"] != false {
				t.Errorf("success = %v, want false", resp.body["success"])
			}
		})
	}
}

func TestServer_SaveEmptyBatch(t *testing.T) {
	s, _ := newTestServer(t, &config.Config{}, &stubSource{})

	resp := doRequest(t, s, http.MethodPost, "/api/save-approved-holidays", map[string]interface{}{
		"holidays": []interface{}{},
		"status":   "approved",
	})
	if resp.status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.status, resp.raw)
	}
	if resp.body["message"] != "Saved 0 holidays to database" {
		t.Errorf("message = %v", resp.body["message"])
	}
	results, _ := resp.body["results"].(map[string]interface{})
	if results["saved"] != float64(0) || results["errors"] != float64(0) {
		t.Errorf("results = %v, want zero counts", results)
	}
}

func TestServer_BulkUpdatePartialFailure(t *testing.T) {
	s, st := newTestServer(t, &config.Config{}, &stubSource{})
	ctx := context.Background()

	var ids []string
	for i := 1; i <= 2; i++ {
		h, err := st.Create(ctx, holiday.Holiday{
			Name:      fmt.Sprintf("Feriado %d", i),
			StartDate: fmt.Sprintf("2025-02-0%d", i),
			EndDate:   fmt.Sprintf("2025-02-0%d", i),
			Status:    holiday.StatusApproved,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, h.ID)
	}

	resp := doRequest(t, s, http.MethodPost, "/api/bulk-update-holidays", map[string]interface{}{
		"ids":    []string{ids[0], "missing", ids[1]},
		"status": "custom",
	})
	if resp.status != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.status, resp.raw)
	}
	if resp.body["updated"] != float64(2) {
		t.Errorf("updated = %v, want 2", resp.body["updated"])
	}
	if errs := resp.body["errors"].([]interface{}); len(errs) != 1 || errs[0] != "missing" {
		t.Errorf("errors = %v, want [missing]", errs)
	}

	for _, id := range ids {
		h, _ := st.Get(ctx, id)
		if h.Status != holiday.StatusCustom {
			t.Errorf("%s status = %s, want custom", id, h.Status)
		}
	}
}

func TestServer_TranslateAndDelete(t *testing.T) {
	s, st := newTestServer(t, &config.Config{}, &stubSource{})
	ctx := context.Background()

	h, err := st.Create(ctx, holiday.Holiday{
		Name: "Navidad", StartDate: "2025-12-25", EndDate: "2025-12-25",
		Description: "Feriado oficial (inamovible)", Status: holiday.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tr := doRequest(t, s, http.MethodPost, "/api/translate-holidays", nil)
	if tr.body["translated"] != float64(1) {
		t.Errorf("translate = %s", tr.raw)
	}
	got, _ := st.Get(ctx, h.ID)
	if got.NameEn != "Christmas" {
		t.Errorf("NameEn = %q, want Christmas", got.NameEn)
	}

	again := doRequest(t, s, http.MethodPost, "/api/translate-holidays", nil)
	if again.body["message"] != "All holidays already have English translations!" {
		t.Errorf("second translate message = %v", again.body["message"])
	}

	del := doRequest(t, s, http.MethodPost, "/api/delete-holidays", map[string]interface{}{"ids": []string{h.ID}})
	if del.status != http.StatusOK || del.body["deleted"] != float64(1) {
		t.Errorf("delete = %d %s", del.status, del.raw)
	}

	all := doRequest(t, s, http.MethodPost, "/api/delete-all-holidays", nil)
	if all.status != http.StatusOK || all.body["deleted"] != float64(0) {
		t.Errorf("delete all = %d %s", all.status, all.raw)
	}
}

func TestServer_Calendar(t *testing.T) {
	s, st := newTestServer(t, &config.Config{}, &stubSource{})
	if _, err := st.Create(context.Background(), holiday.Holiday{
		Name: "Navidad", NameEn: "Christmas", StartDate: "2025-12-25", EndDate: "2025-12-25", Status: holiday.StatusApproved,
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	view := doRequest(t, s, http.MethodGet, "/api/calendar?year=2025&lang=en", nil)
	if view.status != http.StatusOK {
		t.Fatalf("calendar status = %d", view.status)
	}
	cal := view.body["calendar"].(map[string]interface{})
	if months := cal["months"].([]interface{}); len(months) != 12 {
		t.Errorf("months = %d, want 12", len(months))
	}

	ics := doRequest(t, s, http.MethodGet, "/api/calendar.ics?year=2025&lang=en", nil)
	if ics.status != http.StatusOK {
		t.Fatalf("ics status = %d", ics.status)
	}
	if ct := ics.header.Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(ics.raw, "BEGIN:VCALENDAR") || !strings.Contains(ics.raw, "SUMMARY:Christmas") {
		t.Errorf("ics body = %s", ics.raw)
	}
}

func TestServer_AdminAuth(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	cfg := &config.Config{}
	cfg.Server.AdminUser = "admin"
	cfg.Server.AdminPasswordHash = hash
	s, _ := newTestServer(t, cfg, &stubSource{})

	withAuth := func(user, pass string) func(*http.Request) {
		return func(r *http.Request) { r.SetBasicAuth(user, pass) }
	}

	tests := []struct {
		name  string
		path  string
		setup []func(*http.Request)
		want  int
	}{
		{"public route", "/api/holidays", nil, http.StatusOK},
		{"admin without credentials", "/api/get-all-holidays", nil, http.StatusUnauthorized},
		{"admin wrong password", "/api/get-all-holidays", []func(*http.Request){withAuth("admin", "nope")}, http.StatusUnauthorized},
		{"admin wrong user", "/api/get-all-holidays", []func(*http.Request){withAuth("root", "s3cret")}, http.StatusUnauthorized},
		{"admin valid", "/api/get-all-holidays", []func(*http.Request){withAuth("admin", "s3cret")}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, s, http.MethodGet, tt.path, nil, tt.setup...)
			if resp.status != tt.want {
				t.Errorf("status = %d, want %d", resp.status, tt.want)
			}
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Errorf("hash = %q", hash)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  bool
	}{
		{"match", "correct horse", hash, true, false},
		{"mismatch", "battery staple", hash, false, false},
		{"malformed", "x", "not-a-hash", false, true},
		{"wrong algorithm", "x", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
