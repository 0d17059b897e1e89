package services

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// percentRegexp captures "45%" or "45.5 %" style values
	percentRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	// rangeRegexp captures score ranges like "1200-1400" or "25–32"
	rangeRegexp = regexp.MustCompile(`(\d{2,4})\s*[–-]\s*(\d{2,4})`)
	// ratioRegexp captures "15:1" style student-faculty ratios
	ratioRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*:\s*(\d+(?:\.\d+)?)`)
	// intRegexp captures the first integer, tolerating thousands separators
	intRegexp = regexp.MustCompile(`([\d,]+)`)
	// moneyRegexp captures "$12,345" or "12345.50" dollar amounts
	moneyRegexp = regexp.MustCompile(`\$?\s*([\d,]+(?:\.\d+)?)`)

	footnoteRegexp  = regexp.MustCompile(`\*+$`)
	nonWordRegexp   = regexp.MustCompile(`[^\w\s]`)
	stopWordRegexp  = regexp.MustCompile(`\b(university|college|institute|school|of|the|at)\b`)
	spaceRegexp     = regexp.MustCompile(`\s+`)
	slugStripRegexp = regexp.MustCompile(`[^\w\s-]`)
	typeSepRegexp   = regexp.MustCompile(`[•|\-]`)
)

// CleanText strips surrounding whitespace and trailing footnote
// asterisks from scraped page text.
func CleanText(text string) string {
	text = strings.TrimSpace(text)
	text = footnoteRegexp.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ParsePercent reads a percentage and scales it to a 0-1 fraction.
func ParsePercent(text string) *float64 {
	m := percentRegexp.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	v /= 100
	return &v
}

// ParseRange reads a low-high pair of 2 to 4 digit numbers separated
// by a plain or en dash.
func ParseRange(text string) (*int, *int) {
	m := rangeRegexp.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	low, errLow := strconv.Atoi(m[1])
	high, errHigh := strconv.Atoi(m[2])
	if errLow != nil || errHigh != nil {
		return nil, nil
	}
	return &low, &high
}

// ParseRatio reads an "A:B" pair and returns A/B, or nil when B is zero.
func ParseRatio(text string) *float64 {
	m := ratioRegexp.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	a, errA := strconv.ParseFloat(m[1], 64)
	b, errB := strconv.ParseFloat(m[2], 64)
	if errA != nil || errB != nil || b == 0 {
		return nil
	}
	v := a / b
	return &v
}

// ParseInt reads the first integer in the text, dropping thousands
// separators.
func ParseInt(text string) *int {
	m := intRegexp.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// ParseMoney reads a dollar amount, keeping cents only when the source
// text carries them.
func ParseMoney(text string) *float64 {
	m := moneyRegexp.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

// NormalizeName lowercases a college name, strips punctuation and
// generic institutional words, and collapses whitespace. Used for
// fuzzy comparison, never for display.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = nonWordRegexp.ReplaceAllString(name, " ")
	name = stopWordRegexp.ReplaceAllString(name, " ")
	return strings.TrimSpace(spaceRegexp.ReplaceAllString(name, " "))
}

// Slugify converts a display name into the URL slug form used by
// college profile paths.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = slugStripRegexp.ReplaceAllString(slug, "")
	slug = spaceRegexp.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// SwapCollegeUniversity exchanges the first occurrence of "College"
// and "University" in a name, preserving capitalization. Institutions
// are sometimes listed under the other term.
func SwapCollegeUniversity(name string) string {
	name = strings.Replace(name, "College", "TEMP_SWAP", 1)
	name = strings.Replace(name, "University", "College", 1)
	name = strings.Replace(name, "TEMP_SWAP", "University", 1)
	name = strings.Replace(name, "college", "temp_swap", 1)
	name = strings.Replace(name, "university", "college", 1)
	name = strings.Replace(name, "temp_swap", "university", 1)
	return name
}

// SplitCollegeType separates a raw type blurb such as "4. Private
// University" or "4-year • Public" into a year count and a type label.
// Unrecognized blurbs come back unchanged as the label.
func SplitCollegeType(raw string) (*int, string) {
	if raw == "" {
		return nil, ""
	}

	if strings.Contains(raw, ".") {
		left, right, _ := strings.Cut(raw, ".")
		return ParseInt(strings.TrimSpace(left)), strings.TrimSpace(right)
	}

	var parts []string
	if strings.Contains(raw, "•") {
		parts = strings.Split(raw, "•")
	} else {
		parts = typeSepRegexp.Split(raw, -1)
	}

	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			trimmed = append(trimmed, p)
		}
	}

	var years *int
	for _, p := range trimmed {
		if strings.Contains(p, "year") {
			years = ParseInt(p)
		}
	}

	label := raw
	if len(trimmed) > 0 {
		label = trimmed[len(trimmed)-1]
	}
	return years, label
}
