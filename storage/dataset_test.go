package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bigfuture-scraper/models"
	"bigfuture-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func intp(n int) *int           { return &n }
func floatp(f float64) *float64 { return &f }

func newTestDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := NewDataset(filepath.Join(t.TempDir(), "scanned.csv"), newTestLogger())
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return d
}

func TestDatasetUpsertInsertThenUpdate(t *testing.T) {
	d := newTestDataset(t)

	first := models.Row{AcceptanceRatePct: floatp(0.53), SAT50: intp(1300)}
	if _, err := d.Upsert("Purdue University", first, "purdue university"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	second := models.Row{GraduationRatePct: floatp(0.83)}
	merged, err := d.Upsert("Purdue University", second, "purdue university")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if merged.AcceptanceRatePct == nil || *merged.AcceptanceRatePct != 0.53 {
		t.Errorf("merged acceptance = %v; want stored 0.53", merged.AcceptanceRatePct)
	}
	if merged.GraduationRatePct == nil || *merged.GraduationRatePct != 0.83 {
		t.Errorf("merged graduation = %v; want incoming 0.83", merged.GraduationRatePct)
	}

	rows, err := d.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after two upserts of same college, got %d", len(rows))
	}
	if rows[0].Name != "Purdue University" {
		t.Errorf("name = %q; want Purdue University", rows[0].Name)
	}
}

func TestDatasetUpsertKeepsStoredOnEmptyIncoming(t *testing.T) {
	d := newTestDataset(t)

	seeded := models.Row{AcceptanceRatePct: floatp(0.10), Setting: "City"}
	if _, err := d.Upsert("Amherst College", seeded, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	merged, err := d.Upsert("Amherst College", models.Row{SAT50: intp(1460)}, "amherst college")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if merged.AcceptanceRatePct == nil || *merged.AcceptanceRatePct != 0.10 {
		t.Errorf("acceptance = %v; want preserved 0.10", merged.AcceptanceRatePct)
	}
	if merged.Setting != "City" {
		t.Errorf("setting = %q; want preserved City", merged.Setting)
	}
}

func TestDatasetUpsertRenamesToCanonical(t *testing.T) {
	d := newTestDataset(t)

	if _, err := d.Upsert("purdue", models.Row{SAT50: intp(1290)}, ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := d.Upsert("Purdue University", models.Row{ACT50: intp(29)}, "purdue"); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, err := d.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected rename to keep a single row, got %d", len(rows))
	}
	if rows[0].Name != "Purdue University" {
		t.Errorf("name = %q; want canonical Purdue University", rows[0].Name)
	}
	if rows[0].SAT50 == nil || *rows[0].SAT50 != 1290 {
		t.Errorf("SAT50 = %v; want 1290 carried through rename", rows[0].SAT50)
	}
}

func TestDatasetUpsertAppendsNewCollege(t *testing.T) {
	d := newTestDataset(t)

	if _, err := d.Upsert("First College", models.Row{}, ""); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := d.Upsert("Second University", models.Row{}, ""); err != nil {
		t.Fatalf("second: %v", err)
	}

	rows, err := d.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "First College" || rows[1].Name != "Second University" {
		t.Errorf("row order = (%q, %q); want insertion order", rows[0].Name, rows[1].Name)
	}
}

func TestDatasetRoundTrip(t *testing.T) {
	d := newTestDataset(t)

	in := []models.Row{{
		Name:                "Tech Institute",
		CollegeType:         "Private University",
		CollegeYears:        intp(4),
		AcceptanceRatePct:   floatp(0.15),
		SAT25:               intp(1200),
		SAT75:               intp(1400),
		SAT50:               intp(1300),
		GraduationRatePct:   floatp(0.85),
		AvgAfterAidVal:      floatp(19257),
		UndergradStudents:   intp(31133),
		StudentFacultyRatio: floatp(12.5),
		Score:               intp(72),
		Setting:             "City",
		TestOptional:        "Yes",
	}}
	if err := d.WriteAll(in); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}

	out, err := d.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out))
	}

	got := out[0]
	if got.Name != in[0].Name || got.CollegeType != in[0].CollegeType {
		t.Errorf("strings = (%q, %q); want (%q, %q)", got.Name, got.CollegeType, in[0].Name, in[0].CollegeType)
	}
	if got.CollegeYears == nil || *got.CollegeYears != 4 {
		t.Errorf("years = %v; want 4", got.CollegeYears)
	}
	if got.AcceptanceRatePct == nil || *got.AcceptanceRatePct != 0.15 {
		t.Errorf("acceptance = %v; want 0.15", got.AcceptanceRatePct)
	}
	if got.SAT50 == nil || *got.SAT50 != 1300 {
		t.Errorf("SAT50 = %v; want 1300", got.SAT50)
	}
	if got.StudentFacultyRatio == nil || *got.StudentFacultyRatio != 12.5 {
		t.Errorf("ratio = %v; want 12.5", got.StudentFacultyRatio)
	}
	if got.Score == nil || *got.Score != 72 {
		t.Errorf("score = %v; want 72", got.Score)
	}
	if got.SAT25 == nil || got.ACT25 != nil {
		t.Errorf("expected SAT25 present and ACT25 absent, got %v and %v", got.SAT25, got.ACT25)
	}
}

func TestDatasetReadAllMissingFile(t *testing.T) {
	d := newTestDataset(t)
	_, err := d.ReadAll()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadAll on missing file = %v; want os.ErrNotExist", err)
	}
}
