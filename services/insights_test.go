package services

import (
	"testing"

	"bigfuture-scraper/models"
	"bigfuture-scraper/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func sampleRows() []models.Row {
	return []models.Row{
		{Name: "Tech A", Score: intPtr(80), AcceptanceRatePct: floatPtr(0.05), CollegeType: "Private University"},
		{Name: "State B", Score: intPtr(60), AcceptanceRatePct: floatPtr(0.60), CollegeType: "Public University"},
		{Name: "College C", Score: intPtr(70), AcceptanceRatePct: floatPtr(0.30), CollegeType: "Private University"},
		{Name: "Unscored D", CollegeType: "Community College"},
		{Name: "Open E", Score: intPtr(40), AcceptanceRatePct: floatPtr(0.90)},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRows())
	if r.TotalRows != 5 {
		t.Errorf("TotalRows: got %d, want 5", r.TotalRows)
	}
	if r.ScoredRows != 4 {
		t.Errorf("ScoredRows: got %d, want 4", r.ScoredRows)
	}
}

func TestInsightScoreStats(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRows())
	if r.AverageScore != 62.5 {
		t.Errorf("AverageScore: got %.2f, want 62.5", r.AverageScore)
	}
	if r.MinScore != 40 {
		t.Errorf("MinScore: got %d, want 40", r.MinScore)
	}
	if r.MaxScore != 80 {
		t.Errorf("MaxScore: got %d, want 80", r.MaxScore)
	}
}

func TestInsightMostSelective(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRows())
	if r.MostSelective == nil {
		t.Fatal("MostSelective should not be nil")
	}
	if r.MostSelective.Name != "Tech A" {
		t.Errorf("MostSelective: got %q, want %q", r.MostSelective.Name, "Tech A")
	}
}

func TestInsightTopScored(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRows())
	if len(r.TopScored) != 4 {
		t.Errorf("TopScored len: got %d, want 4", len(r.TopScored))
	}
	if r.TopScored[0].Name != "Tech A" {
		t.Errorf("TopScored[0]: got %q, want %q", r.TopScored[0].Name, "Tech A")
	}
	if r.TopScored[3].Name != "Open E" {
		t.Errorf("TopScored[3]: got %q, want %q", r.TopScored[3].Name, "Open E")
	}
}

func TestInsightTypeGrouping(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleRows())
	if r.RowsByType["Private University"] != 2 {
		t.Errorf("Private University count: got %d, want 2", r.RowsByType["Private University"])
	}
	if r.RowsByType["Public University"] != 1 {
		t.Errorf("Public University count: got %d, want 1", r.RowsByType["Public University"])
	}
	if _, ok := r.RowsByType[""]; ok {
		t.Error("rows without a type should not be grouped")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil)
	if r.TotalRows != 0 {
		t.Errorf("expected 0 total rows for empty input")
	}
}
