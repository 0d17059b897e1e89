package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"bigfuture-scraper/models"
)

// yearsRegexp reads the year count out of blurbs like "4 year" or "2-year".
var yearsRegexp = regexp.MustCompile(`(\d+)\s*-?\s*year`)

// ImportSeed performs the one-time transform of a raw source export
// into dataset rows, reusing the live parsers and score engine. Rows
// come back in source order; rows without a name are dropped.
func ImportSeed(sourcePath string) ([]models.Row, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("importer: open %q: %w", sourcePath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("importer: read header of %q: %w", sourcePath, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}

	var rows []models.Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("importer: read %q: %w", sourcePath, err)
		}

		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return record[i]
			}
			return ""
		}

		name := strings.TrimSpace(get("name"))
		if name == "" {
			continue
		}

		row := models.Row{Name: name}
		row.CollegeYears, row.CollegeType = importCollegeType(get("type"))

		row.AcceptanceRatePct = parsePercentLoose(get("acceptance_rate"))
		row.SAT50 = ParseInt(get("sat_50th_percentile"))
		row.ACT50 = ParseInt(get("act_50th_percentile"))
		row.GraduationRatePct = parsePercentLoose(get("graduation_rate"))
		row.RetentionRatePct = parsePercentLoose(get("retention_rate"))
		row.PctReceivingAidPct = parsePercentLoose(get("percent_receiving_aid"))

		aid := intAsMoney(ParseInt(get("average_financial_aid")))
		row.AvgAfterAidVal = aid
		row.AvgAidPackageVal = aid
		row.AvgAfterAidCostsVal = importTuition(get("tuition_out_state"), get("tuition_in_state"))
		row.AvgHousingCostVal = intAsMoney(ParseInt(get("room_board")))

		row.UndergradStudents = ParseInt(get("enrollment"))
		row.StudentFacultyRatio = ParseRatio(get("student_faculty_ratio"))

		row.Setting = strings.TrimSpace(get("campus_setting"))
		row.RDDueDate = strings.TrimSpace(get("application_deadline_fall"))
		row.TestOptional = normalizeYesNo(get("test_optional"))

		score := Score(Metrics{
			AcceptanceRate: nonZeroFloat(row.AcceptanceRatePct),
			SAT50:          nonZeroInt(row.SAT50),
			ACT50:          nonZeroInt(row.ACT50),
			GraduationRate: nonZeroFloat(row.GraduationRatePct),
			RetentionRate:  nonZeroFloat(row.RetentionRatePct),
			Enrollment:     nonZeroInt(row.UndergradStudents),
			FacultyRatio:   nonZeroFloat(row.StudentFacultyRatio),
		})
		row.Score = &score

		rows = append(rows, row)
	}
	return rows, nil
}

// importCollegeType reads the source export's type blurb. Its format
// differs from the live page: years come from an "N year" token and
// the label keeps the full original text.
func importCollegeType(raw string) (*int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}
	var years *int
	if m := yearsRegexp.FindStringSubmatch(strings.ToLower(raw)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			years = &n
		}
	}
	return years, raw
}

// parsePercentLoose accepts either a percent string or a bare 0-1
// fraction, both of which appear in source exports.
func parsePercentLoose(val string) *float64 {
	text := strings.TrimSpace(val)
	if text == "" {
		return nil
	}
	if p := ParsePercent(text); p != nil {
		return p
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f < 0 || f > 1 {
		return nil
	}
	return &f
}

// importTuition prefers the out-of-state figure and falls back to the
// in-state one.
func importTuition(outState, inState string) *float64 {
	if out := ParseInt(outState); out != nil && *out != 0 {
		return intAsMoney(out)
	}
	return intAsMoney(ParseInt(inState))
}

func normalizeYesNo(val string) string {
	switch v := strings.TrimSpace(val); v {
	case "True", "true", "1", "Yes", "yes":
		return "Yes"
	case "False", "false", "0", "No", "no":
		return "No"
	default:
		return v
	}
}

func intAsMoney(p *int) *float64 {
	if p == nil {
		return nil
	}
	f := float64(*p)
	return &f
}

func nonZeroInt(p *int) *int {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}

func nonZeroFloat(p *float64) *float64 {
	if p == nil || *p == 0 {
		return nil
	}
	return p
}
