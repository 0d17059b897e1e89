package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bigfuture-scraper/models"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func intp(n int) *int           { return &n }
func floatp(f float64) *float64 { return &f }

func newTestServer(t *testing.T) (*Server, *storage.Dataset, string) {
	t.Helper()
	dir := t.TempDir()
	logger := newTestLogger()

	dataset, err := storage.NewDataset(filepath.Join(dir, "scanned.csv"), logger)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	keyPath := filepath.Join(dir, "endpoint_key.txt")
	return New(Config{Port: 0, KeyFile: keyPath}, dataset, logger), dataset, keyPath
}

func doRequest(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

type dataPayload struct {
	Success bool                `json:"success"`
	Count   int                 `json:"count"`
	Columns []string            `json:"columns"`
	Data    []map[string]string `json:"data"`
}

func TestGetDataMissingKeyFile(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/getdata?key=whatever")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Server configuration error") {
		t.Errorf("body = %q; want a configuration error", rec.Body.String())
	}
}

func TestGetDataEmptyKeyFile(t *testing.T) {
	s, _, keyPath := newTestServer(t)
	if err := os.WriteFile(keyPath, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(s, http.MethodGet, "/getdata?key=whatever")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500 for a blank key file", rec.Code)
	}
}

func TestGetDataRejectsBadKey(t *testing.T) {
	s, _, keyPath := newTestServer(t)
	if err := os.WriteFile(keyPath, []byte("secret123\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
	}{
		{"wrong key", "/getdata?key=bad"},
		{"missing key", "/getdata"},
	}
	for _, tt := range tests {
		rec := doRequest(s, http.MethodGet, tt.target)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d; want 401", tt.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Unauthorized: invalid key") {
			t.Errorf("%s: body = %q", tt.name, rec.Body.String())
		}
	}
}

func TestGetDataMissingDataset(t *testing.T) {
	s, _, keyPath := newTestServer(t)
	if err := os.WriteFile(keyPath, []byte("secret123"), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(s, http.MethodGet, "/getdata?key=secret123")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404 before the first scrape", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Data file not found") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestGetDataReturnsRows(t *testing.T) {
	s, dataset, keyPath := newTestServer(t)
	if err := os.WriteFile(keyPath, []byte("secret123"), 0o600); err != nil {
		t.Fatal(err)
	}
	err := dataset.WriteAll([]models.Row{
		{
			Name:              "Purdue University",
			CollegeType:       "Public University",
			CollegeYears:      intp(4),
			AcceptanceRatePct: floatp(0.53),
			SAT50:             intp(1300),
			Setting:           "City",
		},
		{Name: "Amherst College", Score: intp(77)},
	})
	if err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	rec := doRequest(s, http.MethodGet, "/getdata?key=secret123")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q; want 200", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var payload dataPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if !payload.Success {
		t.Error("success = false; want true")
	}
	if payload.Count != 2 || len(payload.Data) != 2 {
		t.Fatalf("count = %d, data rows = %d; want 2 and 2", payload.Count, len(payload.Data))
	}
	wantCols := models.Columns()
	if len(payload.Columns) != len(wantCols) {
		t.Fatalf("columns = %d; want %d", len(payload.Columns), len(wantCols))
	}
	for i, col := range wantCols {
		if payload.Columns[i] != col {
			t.Errorf("columns[%d] = %q; want %q", i, payload.Columns[i], col)
		}
	}

	first := payload.Data[0]
	if first["name"] != "Purdue University" {
		t.Errorf("data[0].name = %q; want Purdue University", first["name"])
	}
	if first["sat_50th_percentile"] != "1300" {
		t.Errorf("data[0].sat_50th_percentile = %q; want 1300", first["sat_50th_percentile"])
	}
	if first["acceptance_rate_pct"] != "0.53" {
		t.Errorf("data[0].acceptance_rate_pct = %q; want 0.53", first["acceptance_rate_pct"])
	}
	if payload.Data[1]["college_score"] != "77" {
		t.Errorf("data[1].college_score = %q; want 77", payload.Data[1]["college_score"])
	}

	// Object keys must come out in column order, not map order.
	body := rec.Body.String()
	dataIdx := strings.Index(body, `"data":[`)
	if dataIdx < 0 {
		t.Fatal("response has no data array")
	}
	dataPart := body[dataIdx:]
	if strings.Index(dataPart, `"name"`) > strings.Index(dataPart, `"college_type"`) {
		t.Error("data object keys are not in column order")
	}
}

func TestGetDataRejectsPost(t *testing.T) {
	s, _, keyPath := newTestServer(t)
	if err := os.WriteFile(keyPath, []byte("secret123"), 0o600); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(s, http.MethodPost, "/getdata?key=secret123")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d; want 405", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	var status map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("health response is not valid JSON: %v", err)
	}
	if status["status"] != "ok" {
		t.Errorf("status = %q; want ok", status["status"])
	}
}
