package services

import (
	"os"
	"path/filepath"
	"testing"
)

const seedCSV = `name,type,acceptance_rate,sat_50th_percentile,act_50th_percentile,graduation_rate,retention_rate,percent_receiving_aid,average_financial_aid,tuition_out_state,tuition_in_state,room_board,enrollment,student_faculty_ratio,campus_setting,application_deadline_fall,test_optional
Purdue University,4 year public,53%,1300,29,0.83,0.92,45%,11000,28794,9992,10030,37101,13:1,City,January 15,True
Amherst College,4-year private,0.09,1460,33,95%,98%,0.6,55000,64100,0,16210,1898,7:1,Town,,false
,4 year,50%,,,,,,,,,,,,,,
Deep Springs,,,,,,,,,0,5000,,26,,"Rural",,maybe
`

func writeSeedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "university_data.csv")
	if err := os.WriteFile(path, []byte(seedCSV), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestImportSeedMapsColumns(t *testing.T) {
	rows, err := ImportSeed(writeSeedFile(t))
	if err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (nameless row dropped), got %d", len(rows))
	}

	purdue := rows[0]
	if purdue.Name != "Purdue University" {
		t.Errorf("name = %q; want Purdue University", purdue.Name)
	}
	if !intPtrEqual(purdue.CollegeYears, intPtr(4)) || purdue.CollegeType != "4 year public" {
		t.Errorf("type = (%v, %q); want (4, 4 year public)", fmtIntPtr(purdue.CollegeYears), purdue.CollegeType)
	}
	if !floatPtrEqual(purdue.AcceptanceRatePct, floatPtr(0.53)) {
		t.Errorf("acceptance = %v; want 0.53", fmtFloatPtr(purdue.AcceptanceRatePct))
	}
	if !intPtrEqual(purdue.SAT50, intPtr(1300)) || !intPtrEqual(purdue.ACT50, intPtr(29)) {
		t.Errorf("midpoints = (%v, %v); want (1300, 29)", fmtIntPtr(purdue.SAT50), fmtIntPtr(purdue.ACT50))
	}
	if !floatPtrEqual(purdue.GraduationRatePct, floatPtr(0.83)) {
		t.Errorf("graduation = %v; want 0.83 from bare fraction", fmtFloatPtr(purdue.GraduationRatePct))
	}
	if !floatPtrEqual(purdue.AvgAfterAidVal, floatPtr(11000)) || !floatPtrEqual(purdue.AvgAidPackageVal, floatPtr(11000)) {
		t.Errorf("aid values = (%v, %v); want (11000, 11000)",
			fmtFloatPtr(purdue.AvgAfterAidVal), fmtFloatPtr(purdue.AvgAidPackageVal))
	}
	if !floatPtrEqual(purdue.AvgAfterAidCostsVal, floatPtr(28794)) {
		t.Errorf("tuition = %v; want out-of-state 28794", fmtFloatPtr(purdue.AvgAfterAidCostsVal))
	}
	if !floatPtrEqual(purdue.StudentFacultyRatio, floatPtr(13)) {
		t.Errorf("faculty ratio = %v; want 13", fmtFloatPtr(purdue.StudentFacultyRatio))
	}
	if purdue.TestOptional != "Yes" {
		t.Errorf("test_optional = %q; want Yes", purdue.TestOptional)
	}
	if purdue.Setting != "City" || purdue.RDDueDate != "January 15" {
		t.Errorf("setting/deadline = (%q, %q)", purdue.Setting, purdue.RDDueDate)
	}
	if purdue.Score == nil || *purdue.Score <= 0 {
		t.Errorf("score = %v; want positive", fmtIntPtr(purdue.Score))
	}
}

func TestImportSeedLoosePercents(t *testing.T) {
	rows, err := ImportSeed(writeSeedFile(t))
	if err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}

	amherst := rows[1]
	if !floatPtrEqual(amherst.AcceptanceRatePct, floatPtr(0.09)) {
		t.Errorf("bare fraction acceptance = %v; want 0.09", fmtFloatPtr(amherst.AcceptanceRatePct))
	}
	if !floatPtrEqual(amherst.GraduationRatePct, floatPtr(0.95)) {
		t.Errorf("percent graduation = %v; want 0.95", fmtFloatPtr(amherst.GraduationRatePct))
	}
	if amherst.TestOptional != "No" {
		t.Errorf("test_optional = %q; want No", amherst.TestOptional)
	}
}

func TestImportSeedTuitionFallback(t *testing.T) {
	rows, err := ImportSeed(writeSeedFile(t))
	if err != nil {
		t.Fatalf("ImportSeed: %v", err)
	}

	deepSprings := rows[2]
	if !floatPtrEqual(deepSprings.AvgAfterAidCostsVal, floatPtr(5000)) {
		t.Errorf("tuition = %v; want in-state fallback 5000", fmtFloatPtr(deepSprings.AvgAfterAidCostsVal))
	}
	if deepSprings.TestOptional != "maybe" {
		t.Errorf("unrecognized test_optional = %q; want passthrough", deepSprings.TestOptional)
	}
	if deepSprings.CollegeYears != nil || deepSprings.CollegeType != "" {
		t.Errorf("empty type = (%v, %q); want (nil, empty)", fmtIntPtr(deepSprings.CollegeYears), deepSprings.CollegeType)
	}
}

func TestImportSeedMissingFile(t *testing.T) {
	if _, err := ImportSeed(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Error("expected error for missing source file")
	}
}
