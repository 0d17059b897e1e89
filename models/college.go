package models

import (
	"math"
	"strconv"
	"strings"
)

// College is one entry of the input institution list. File order
// defines the cyclic processing order of the scrape loop.
type College struct {
	Name string
}

// ScrapeRecord holds the raw text read from one college page visit,
// one field per page location, before any parsing. An empty string
// means the field was absent or timed out.
type ScrapeRecord struct {
	CollegeType      string
	AvgAfterAid      string
	GraduationRate   string
	CollegeBoardCode string

	AcceptanceRate string
	SATRange       string
	ACTRange       string
	RDDueDate      string
	TestOptional   string
	GPAOptional    string

	NumMajors           string
	StudentFacultyRatio string
	RetentionRate       string

	PctReceivingAid  string
	AvgAfterAidCosts string
	AvgAidPackage    string

	Setting           string
	UndergradStudents string
	AvgHousingCost    string
}

// Row is one persisted dataset row. Pointer fields are optional: nil
// serializes as an empty cell and never overwrites a stored value.
type Row struct {
	Name         string
	CollegeType  string
	CollegeYears *int

	AcceptanceRatePct *float64
	SAT25             *int
	SAT75             *int
	SAT50             *int
	ACT25             *int
	ACT75             *int
	ACT50             *int

	GraduationRatePct  *float64
	RetentionRatePct   *float64
	PctReceivingAidPct *float64

	AvgAfterAidVal      *float64
	AvgAfterAidCostsVal *float64
	AvgAidPackageVal    *float64
	AvgHousingCostVal   *float64

	UndergradStudents   *int
	StudentFacultyRatio *float64
	NumMajors           *int
	CollegeBoardCode    *int

	Score *int

	Setting      string
	RDDueDate    string
	TestOptional string
	GPAOptional  string
}

// Columns returns the dataset header in its fixed order. Every
// producer and consumer of the dataset file shares this list.
func Columns() []string {
	return []string{
		"name",
		"college_type",
		"college_years",
		"acceptance_rate_pct",
		"sat_25th_percentile",
		"sat_75th_percentile",
		"sat_50th_percentile",
		"act_25th_percentile",
		"act_75th_percentile",
		"act_50th_percentile",
		"graduation_rate_pct",
		"retention_rate_pct",
		"pct_receiving_aid_pct",
		"avg_after_aid_val",
		"avg_after_aid_costs_val",
		"avg_aid_package_val",
		"avg_housing_cost_val",
		"undergrad_students_num",
		"student_faculty_ratio_num",
		"num_majors_num",
		"college_board_code_num",
		"college_score",
		"setting",
		"rd_due_date",
		"test_optional",
		"gpa_optional",
	}
}

// Values returns the row serialized in Columns order.
func (r Row) Values() []string {
	return []string{
		r.Name,
		r.CollegeType,
		intCell(r.CollegeYears),
		floatCell(r.AcceptanceRatePct),
		intCell(r.SAT25),
		intCell(r.SAT75),
		intCell(r.SAT50),
		intCell(r.ACT25),
		intCell(r.ACT75),
		intCell(r.ACT50),
		floatCell(r.GraduationRatePct),
		floatCell(r.RetentionRatePct),
		floatCell(r.PctReceivingAidPct),
		floatCell(r.AvgAfterAidVal),
		floatCell(r.AvgAfterAidCostsVal),
		floatCell(r.AvgAidPackageVal),
		floatCell(r.AvgHousingCostVal),
		intCell(r.UndergradStudents),
		floatCell(r.StudentFacultyRatio),
		intCell(r.NumMajors),
		intCell(r.CollegeBoardCode),
		intCell(r.Score),
		r.Setting,
		r.RDDueDate,
		r.TestOptional,
		r.GPAOptional,
	}
}

// RowFromValues builds a Row from one CSV record. get must return the
// raw cell for a column name, or "" when the file lacks that column.
func RowFromValues(get func(string) string) Row {
	return Row{
		Name:         get("name"),
		CollegeType:  get("college_type"),
		CollegeYears: intFromCell(get("college_years")),

		AcceptanceRatePct: floatFromCell(get("acceptance_rate_pct")),
		SAT25:             intFromCell(get("sat_25th_percentile")),
		SAT75:             intFromCell(get("sat_75th_percentile")),
		SAT50:             intFromCell(get("sat_50th_percentile")),
		ACT25:             intFromCell(get("act_25th_percentile")),
		ACT75:             intFromCell(get("act_75th_percentile")),
		ACT50:             intFromCell(get("act_50th_percentile")),

		GraduationRatePct:  floatFromCell(get("graduation_rate_pct")),
		RetentionRatePct:   floatFromCell(get("retention_rate_pct")),
		PctReceivingAidPct: floatFromCell(get("pct_receiving_aid_pct")),

		AvgAfterAidVal:      floatFromCell(get("avg_after_aid_val")),
		AvgAfterAidCostsVal: floatFromCell(get("avg_after_aid_costs_val")),
		AvgAidPackageVal:    floatFromCell(get("avg_aid_package_val")),
		AvgHousingCostVal:   floatFromCell(get("avg_housing_cost_val")),

		UndergradStudents:   intFromCell(get("undergrad_students_num")),
		StudentFacultyRatio: floatFromCell(get("student_faculty_ratio_num")),
		NumMajors:           intFromCell(get("num_majors_num")),
		CollegeBoardCode:    intFromCell(get("college_board_code_num")),

		Score: intFromCell(get("college_score")),

		Setting:      get("setting"),
		RDDueDate:    get("rd_due_date"),
		TestOptional: get("test_optional"),
		GPAOptional:  get("gpa_optional"),
	}
}

// Merge copies every non-empty field of in over r. Fields the incoming
// record could not produce keep their stored values.
func (r *Row) Merge(in Row) {
	if in.Name != "" {
		r.Name = in.Name
	}
	if in.CollegeType != "" {
		r.CollegeType = in.CollegeType
	}
	if in.CollegeYears != nil {
		r.CollegeYears = in.CollegeYears
	}
	if in.AcceptanceRatePct != nil {
		r.AcceptanceRatePct = in.AcceptanceRatePct
	}
	if in.SAT25 != nil {
		r.SAT25 = in.SAT25
	}
	if in.SAT75 != nil {
		r.SAT75 = in.SAT75
	}
	if in.SAT50 != nil {
		r.SAT50 = in.SAT50
	}
	if in.ACT25 != nil {
		r.ACT25 = in.ACT25
	}
	if in.ACT75 != nil {
		r.ACT75 = in.ACT75
	}
	if in.ACT50 != nil {
		r.ACT50 = in.ACT50
	}
	if in.GraduationRatePct != nil {
		r.GraduationRatePct = in.GraduationRatePct
	}
	if in.RetentionRatePct != nil {
		r.RetentionRatePct = in.RetentionRatePct
	}
	if in.PctReceivingAidPct != nil {
		r.PctReceivingAidPct = in.PctReceivingAidPct
	}
	if in.AvgAfterAidVal != nil {
		r.AvgAfterAidVal = in.AvgAfterAidVal
	}
	if in.AvgAfterAidCostsVal != nil {
		r.AvgAfterAidCostsVal = in.AvgAfterAidCostsVal
	}
	if in.AvgAidPackageVal != nil {
		r.AvgAidPackageVal = in.AvgAidPackageVal
	}
	if in.AvgHousingCostVal != nil {
		r.AvgHousingCostVal = in.AvgHousingCostVal
	}
	if in.UndergradStudents != nil {
		r.UndergradStudents = in.UndergradStudents
	}
	if in.StudentFacultyRatio != nil {
		r.StudentFacultyRatio = in.StudentFacultyRatio
	}
	if in.NumMajors != nil {
		r.NumMajors = in.NumMajors
	}
	if in.CollegeBoardCode != nil {
		r.CollegeBoardCode = in.CollegeBoardCode
	}
	if in.Score != nil {
		r.Score = in.Score
	}
	if in.Setting != "" {
		r.Setting = in.Setting
	}
	if in.RDDueDate != "" {
		r.RDDueDate = in.RDDueDate
	}
	if in.TestOptional != "" {
		r.TestOptional = in.TestOptional
	}
	if in.GPAOptional != "" {
		r.GPAOptional = in.GPAOptional
	}
}

// DatasetReport holds aggregates derived from the persisted dataset.
type DatasetReport struct {
	TotalRows     int
	ScoredRows    int
	AverageScore  float64
	MinScore      int
	MaxScore      int
	MostSelective *Row
	TopScored     []Row
	RowsByType    map[string]int
}

func intCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func floatCell(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// intFromCell tolerates float-formatted integers left behind by
// earlier exports of the same data.
func intFromCell(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(math.Round(f))
		return &n
	}
	return nil
}

func floatFromCell(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return &f
	}
	return nil
}
