package bigfuture

import (
	"context"
	"errors"
	"time"

	"bigfuture-scraper/browser"
	"bigfuture-scraper/models"
	"bigfuture-scraper/services"
	"bigfuture-scraper/utils"
)

// Extractor walks a college profile's overview and section tabs,
// reading every known field location. Individual field misses are
// normal and leave empty strings; only a failed page load aborts the
// visit.
type Extractor struct {
	engine browser.Engine
	logger *utils.Logger
}

// NewExtractor creates an Extractor bound to engine.
func NewExtractor(engine browser.Engine, logger *utils.Logger) *Extractor {
	return &Extractor{engine: engine, logger: logger}
}

// Extract visits url and returns the raw field texts.
func (e *Extractor) Extract(ctx context.Context, url string) (*models.ScrapeRecord, error) {
	if err := e.engine.Navigate(ctx, url, pageLoadTimeout); err != nil {
		return nil, err
	}
	if err := e.engine.Sleep(ctx, pageSettle); err != nil {
		return nil, err
	}

	rec := &models.ScrapeRecord{}

	// Overview
	rec.CollegeType = e.readField(ctx, selectors.collegeType)
	rec.AvgAfterAid = e.readField(ctx, selectors.avgAfterAid)
	rec.GraduationRate = e.readField(ctx, selectors.graduationRate)
	rec.CollegeBoardCode = e.readField(ctx, selectors.collegeBoardCode)

	// Admissions
	if err := e.openTab(ctx, url, "admissions", selectors.tabAdmissions, admissionsSettle); err != nil {
		return nil, err
	}
	rec.AcceptanceRate = e.readField(ctx, selectors.acceptanceRate)
	rec.SATRange = e.readFieldFallback(ctx, selectors.satRange, selectors.satRangeFallback)
	rec.ACTRange = e.readFieldFallback(ctx, selectors.actRange, selectors.actRangeFallback)
	rec.RDDueDate = e.readField(ctx, selectors.rdDueDate)
	rec.TestOptional = e.readField(ctx, selectors.testOptional)
	rec.GPAOptional = e.readField(ctx, selectors.gpaOptional)

	// Academics
	if err := e.openTab(ctx, url, "academics", selectors.tabAcademics, sectionSettle); err != nil {
		return nil, err
	}
	rec.NumMajors = e.readField(ctx, selectors.numMajors)
	rec.StudentFacultyRatio = e.readField(ctx, selectors.studentFacultyRatio)
	rec.RetentionRate = e.readField(ctx, selectors.retentionRate)

	// Costs
	if err := e.openTab(ctx, url, "costs", selectors.tabCosts, sectionSettle); err != nil {
		return nil, err
	}
	rec.PctReceivingAid = e.readField(ctx, selectors.pctReceivingAid)
	rec.AvgAfterAidCosts = e.readField(ctx, selectors.avgAfterAidCosts)
	rec.AvgAidPackage = e.readField(ctx, selectors.avgAidPackage)

	// Campus Life
	if err := e.openTab(ctx, url, "campus", selectors.tabCampus, sectionSettle); err != nil {
		return nil, err
	}
	rec.Setting = e.readField(ctx, selectors.setting)
	rec.UndergradStudents = e.readField(ctx, selectors.undergradStudents)
	rec.AvgHousingCost = e.readField(ctx, selectors.avgHousingCost)

	return rec, nil
}

// openTab clicks a section tab and waits for client rendering to
// settle. A failed click is logged and skipped: the section's fields
// will simply read empty, matching the partial-success contract.
func (e *Extractor) openTab(ctx context.Context, url, tabName, sel string, settle time.Duration) error {
	if err := e.engine.Click(ctx, sel, tabTimeout); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		e.logger.Warn("[extractor] Could not open %s tab for %s: %v", tabName, url, err)
	}
	return e.engine.Sleep(ctx, settle)
}

// readField reads one selector's text, returning "" on absence or
// timeout.
func (e *Extractor) readField(ctx context.Context, sel string) string {
	text, err := e.engine.Text(ctx, sel, fieldTimeout)
	if err != nil {
		return ""
	}
	return services.CleanText(text)
}

// readFieldFallback tries a looser secondary selector when the
// primary location reads empty.
func (e *Extractor) readFieldFallback(ctx context.Context, primary, fallback string) string {
	if text := e.readField(ctx, primary); text != "" {
		return text
	}
	return e.readField(ctx, fallback)
}
