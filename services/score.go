package services

import "math"

// Metric weights for the composite college score. They sum to 1.0.
const (
	weightSelectivity  = 0.30
	weightTestScores   = 0.25
	weightGraduation   = 0.15
	weightRetention    = 0.10
	weightEarnings     = 0.10
	weightEnrollment   = 0.05
	weightFacultyRatio = 0.05
)

// Metrics carries the inputs of the composite score. Nil fields
// contribute zero to their weighted term.
type Metrics struct {
	AcceptanceRate *float64
	SAT50          *int
	ACT50          *int
	GraduationRate *float64
	RetentionRate  *float64
	Earnings       *float64
	Enrollment     *int
	FacultyRatio   *float64
}

// Score reduces metrics to a single integer in [0, 100]. Selectivity
// gets a capped boost below a 20% acceptance rate, test scores take
// the better of the SAT and ACT midpoints, and enrollment follows a
// piecewise curve that peaks at mid-sized student bodies.
func Score(m Metrics) int {
	var selectivity float64
	if m.AcceptanceRate != nil && *m.AcceptanceRate >= 0 && *m.AcceptanceRate <= 1 {
		selectivity = 1 - *m.AcceptanceRate
		if *m.AcceptanceRate < 0.2 {
			selectivity = math.Min(1, selectivity*1.2)
		}
	}

	var satNorm, actNorm float64
	if m.SAT50 != nil && *m.SAT50 != 0 {
		satNorm = clamp01(float64(*m.SAT50-400) / (1600 - 400))
	}
	if m.ACT50 != nil && *m.ACT50 != 0 {
		actNorm = clamp01(float64(*m.ACT50-1) / (36 - 1))
	}
	testScores := math.Max(satNorm, actNorm)

	var graduation float64
	if m.GraduationRate != nil {
		graduation = clamp01(*m.GraduationRate)
	}

	var retention float64
	if m.RetentionRate != nil {
		retention = clamp01(*m.RetentionRate)
	}

	var earnings float64
	if m.Earnings != nil && *m.Earnings != 0 {
		earnings = clamp01((*m.Earnings - 30000) / (150000 - 30000))
	}

	var enrollment float64
	if m.Enrollment != nil && *m.Enrollment != 0 {
		n := float64(*m.Enrollment)
		switch {
		case n >= 5000 && n <= 30000:
			enrollment = 0.8 + 0.2*(1-math.Abs(n-15000)/15000)
		case n > 30000:
			enrollment = 0.7
		default:
			enrollment = math.Min(0.6, n/5000)
		}
		enrollment = clamp01(enrollment)
	}

	var facultyRatio float64
	if m.FacultyRatio != nil && *m.FacultyRatio != 0 {
		facultyRatio = clamp01(1 - (*m.FacultyRatio-5)/20)
	}

	composite := weightSelectivity*selectivity +
		weightTestScores*testScores +
		weightGraduation*graduation +
		weightRetention*retention +
		weightEarnings*earnings +
		weightEnrollment*enrollment +
		weightFacultyRatio*facultyRatio

	return int(math.Round(composite * 100))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
