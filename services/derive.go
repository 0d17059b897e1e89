package services

import (
	"math"

	"bigfuture-scraper/models"
)

// Derive converts the raw text of one page visit into a typed dataset
// row, including the composite score. Unparseable fields stay absent
// without affecting the rest.
func Derive(rec *models.ScrapeRecord) models.Row {
	var row models.Row

	row.CollegeYears, row.CollegeType = SplitCollegeType(rec.CollegeType)

	row.AcceptanceRatePct = ParsePercent(rec.AcceptanceRate)
	row.GraduationRatePct = ParsePercent(rec.GraduationRate)
	row.RetentionRatePct = ParsePercent(rec.RetentionRate)
	row.PctReceivingAidPct = ParsePercent(rec.PctReceivingAid)

	row.SAT25, row.SAT75 = ParseRange(rec.SATRange)
	row.ACT25, row.ACT75 = ParseRange(rec.ACTRange)
	row.SAT50 = midpoint(row.SAT25, row.SAT75)
	row.ACT50 = midpoint(row.ACT25, row.ACT75)

	row.AvgAfterAidVal = ParseMoney(rec.AvgAfterAid)
	row.AvgAfterAidCostsVal = ParseMoney(rec.AvgAfterAidCosts)
	row.AvgAidPackageVal = ParseMoney(rec.AvgAidPackage)
	row.AvgHousingCostVal = ParseMoney(rec.AvgHousingCost)

	row.UndergradStudents = ParseInt(rec.UndergradStudents)
	row.StudentFacultyRatio = ParseRatio(rec.StudentFacultyRatio)
	row.NumMajors = ParseInt(rec.NumMajors)
	row.CollegeBoardCode = ParseInt(rec.CollegeBoardCode)

	row.Setting = rec.Setting
	row.RDDueDate = rec.RDDueDate
	row.TestOptional = rec.TestOptional
	row.GPAOptional = rec.GPAOptional

	score := Score(Metrics{
		AcceptanceRate: row.AcceptanceRatePct,
		SAT50:          row.SAT50,
		ACT50:          row.ACT50,
		GraduationRate: row.GraduationRatePct,
		RetentionRate:  row.RetentionRatePct,
		Enrollment:     row.UndergradStudents,
		FacultyRatio:   row.StudentFacultyRatio,
	})
	row.Score = &score

	return row
}

// midpoint rounds the mean of a score range. Absent unless both ends
// are present and nonzero.
func midpoint(low, high *int) *int {
	if low == nil || high == nil || *low == 0 || *high == 0 {
		return nil
	}
	mid := int(math.Round(float64(*low+*high) / 2))
	return &mid
}
