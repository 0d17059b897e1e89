// Package bigfuture scrapes college profiles from the College Board
// BigFuture site into the local dataset. The site is a client-rendered
// SPA, so field locations are absolute XPaths into the rendered DOM
// and every section tab needs a settle pause after opening.
package bigfuture

import "time"

const (
	baseURL        = "https://bigfuture.collegeboard.org"
	searchURL      = baseURL + "/college-search"
	collegesPrefix = "bigfuture.collegeboard.org/colleges/"

	searchInputSel = `input[placeholder="Search by college name"]`

	navTimeout      = 12 * time.Second
	pageLoadTimeout = 20 * time.Second
	fieldTimeout    = 7 * time.Second
	tabTimeout      = 7 * time.Second
	fillTimeout     = 5 * time.Second
	headingTimeout  = 2 * time.Second
	visibleTimeout  = 2 * time.Second

	searchSettle     = 1500 * time.Millisecond
	pageSettle       = 1000 * time.Millisecond
	admissionsSettle = 800 * time.Millisecond
	sectionSettle    = 600 * time.Millisecond

	maxSearchResults = 10
	matchThreshold   = 85
)

// selectors holds the page-relative location of every scraped field,
// grouped by the section tab that reveals it.
var selectors = struct {
	collegeType      string
	avgAfterAid      string
	graduationRate   string
	collegeBoardCode string

	tabAdmissions string
	tabAcademics  string
	tabCosts      string
	tabCampus     string

	acceptanceRate   string
	satRange         string
	satRangeFallback string
	actRange         string
	actRangeFallback string
	rdDueDate        string
	testOptional     string
	gpaOptional      string

	numMajors           string
	studentFacultyRatio string
	retentionRate       string

	pctReceivingAid  string
	avgAfterAidCosts string
	avgAidPackage    string

	setting           string
	undergradStudents string
	avgHousingCost    string
}{
	collegeType:      "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[1]/div/div/div/div[2]",
	avgAfterAid:      "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[3]/div/div/div/div[2]",
	graduationRate:   "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[5]/div/div/div/div[2]",
	collegeBoardCode: "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/div[2]/div[2]",

	tabAdmissions: "/html/body/div[1]/div/main/div[2]/div/div[4]/div[2]/div/div/div/ul/li[2]/a",
	tabAcademics:  "/html/body/div[1]/div/main/div[2]/div/div[4]/div[2]/div/div/div/ul/li[3]/a",
	tabCosts:      "/html/body/div[1]/div/main/div[2]/div/div[4]/div[2]/div/div/div/ul/li[4]/a",
	tabCampus:     "/html/body/div[1]/div/main/div[2]/div/div[4]/div[2]/div/div/div/ul/li[5]/a",

	acceptanceRate:   "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/section[1]/div/ul/li[1]/div/div/div/div[2]",
	satRange:         "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/section[1]/div/ul/li[3]/div/div/div/div[2]",
	satRangeFallback: "//li[.//text()[contains(translate(., 'sat range', 'SAT RANGE'), 'SAT RANGE')]]//*[self::div or self::span][last()]",
	actRange:         "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/section[1]/div/ul/li[4]/div/div/div/div[2]",
	actRangeFallback: "//li[.//text()[contains(translate(., 'act range', 'ACT RANGE'), 'ACT RANGE')]]//*[self::div or self::span][last()]",
	rdDueDate:        "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/section[1]/div/ul/li[2]/div/div/div/div[2]",
	testOptional:     "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/section[3]/div/div/ul/li[4]/span[2]",
	gpaOptional:      "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/section[3]/div/div/ul/li[1]/span[2]",

	numMajors:           "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[2]/div/div/div/div[2]",
	studentFacultyRatio: "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[3]/div/div/div/div[2]",
	retentionRate:       "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[4]/div/div/div/div[2]",

	pctReceivingAid:  "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[2]/div/div/div/div[2]",
	avgAfterAidCosts: "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[1]/div/div/div/div[2]",
	avgAidPackage:    "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[3]/div/div/div/div[2]",

	setting:           "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[1]/div/div/div/div[2]",
	undergradStudents: "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[2]/div/div/div/div[2]",
	avgHousingCost:    "/html/body/div[1]/div/main/div[2]/div/div[5]/div/div[1]/div[1]/section/div/ul/li[3]/div/div/div/div[2]",
}
