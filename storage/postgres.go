package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"bigfuture-scraper/models"
	"bigfuture-scraper/utils"
)

// MirrorStore pushes merged rows into PostgreSQL for ad-hoc querying.
// The CSV dataset stays the source of truth; mirror failures are
// reported to the caller, who logs and moves on.
type MirrorStore struct {
	db *sql.DB
}

// NewMirrorStore opens a connection, waits for the database to come
// up, and runs schema migration.
func NewMirrorStore(ctx context.Context, dsn string, logger *utils.Logger) (*MirrorStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", db.Ping); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ms := &MirrorStore{db: db}
	if err := ms.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return ms, nil
}

func (ms *MirrorStore) migrate() error {
	_, err := ms.db.Exec(`
		CREATE TABLE IF NOT EXISTS colleges (
			id                        SERIAL PRIMARY KEY,
			name                      TEXT NOT NULL,
			college_type              TEXT NOT NULL DEFAULT '',
			college_years             INTEGER,
			acceptance_rate_pct       NUMERIC(7,4),
			sat_25th_percentile       INTEGER,
			sat_75th_percentile       INTEGER,
			sat_50th_percentile       INTEGER,
			act_25th_percentile       INTEGER,
			act_75th_percentile       INTEGER,
			act_50th_percentile       INTEGER,
			graduation_rate_pct       NUMERIC(7,4),
			retention_rate_pct        NUMERIC(7,4),
			pct_receiving_aid_pct     NUMERIC(7,4),
			avg_after_aid_val         NUMERIC(12,2),
			avg_after_aid_costs_val   NUMERIC(12,2),
			avg_aid_package_val       NUMERIC(12,2),
			avg_housing_cost_val      NUMERIC(12,2),
			undergrad_students_num    INTEGER,
			student_faculty_ratio_num NUMERIC(8,4),
			num_majors_num            INTEGER,
			college_board_code_num    INTEGER,
			college_score             INTEGER,
			setting                   TEXT NOT NULL DEFAULT '',
			rd_due_date               TEXT NOT NULL DEFAULT '',
			test_optional             TEXT NOT NULL DEFAULT '',
			gpa_optional              TEXT NOT NULL DEFAULT '',
			updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_colleges_name  ON colleges (LOWER(name));
		CREATE INDEX IF NOT EXISTS idx_colleges_score ON colleges (college_score);
	`)
	return err
}

// UpsertRow inserts or refreshes the mirror copy of one merged row.
func (ms *MirrorStore) UpsertRow(row models.Row) error {
	_, err := ms.db.Exec(`
		INSERT INTO colleges (
			name, college_type, college_years, acceptance_rate_pct,
			sat_25th_percentile, sat_75th_percentile, sat_50th_percentile,
			act_25th_percentile, act_75th_percentile, act_50th_percentile,
			graduation_rate_pct, retention_rate_pct, pct_receiving_aid_pct,
			avg_after_aid_val, avg_after_aid_costs_val, avg_aid_package_val,
			avg_housing_cost_val, undergrad_students_num, student_faculty_ratio_num,
			num_majors_num, college_board_code_num, college_score,
			setting, rd_due_date, test_optional, gpa_optional, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, NOW()
		)
		ON CONFLICT (LOWER(name)) DO UPDATE SET
			name                      = EXCLUDED.name,
			college_type              = EXCLUDED.college_type,
			college_years             = EXCLUDED.college_years,
			acceptance_rate_pct       = EXCLUDED.acceptance_rate_pct,
			sat_25th_percentile       = EXCLUDED.sat_25th_percentile,
			sat_75th_percentile       = EXCLUDED.sat_75th_percentile,
			sat_50th_percentile       = EXCLUDED.sat_50th_percentile,
			act_25th_percentile       = EXCLUDED.act_25th_percentile,
			act_75th_percentile       = EXCLUDED.act_75th_percentile,
			act_50th_percentile       = EXCLUDED.act_50th_percentile,
			graduation_rate_pct       = EXCLUDED.graduation_rate_pct,
			retention_rate_pct        = EXCLUDED.retention_rate_pct,
			pct_receiving_aid_pct     = EXCLUDED.pct_receiving_aid_pct,
			avg_after_aid_val         = EXCLUDED.avg_after_aid_val,
			avg_after_aid_costs_val   = EXCLUDED.avg_after_aid_costs_val,
			avg_aid_package_val       = EXCLUDED.avg_aid_package_val,
			avg_housing_cost_val      = EXCLUDED.avg_housing_cost_val,
			undergrad_students_num    = EXCLUDED.undergrad_students_num,
			student_faculty_ratio_num = EXCLUDED.student_faculty_ratio_num,
			num_majors_num            = EXCLUDED.num_majors_num,
			college_board_code_num    = EXCLUDED.college_board_code_num,
			college_score             = EXCLUDED.college_score,
			setting                   = EXCLUDED.setting,
			rd_due_date               = EXCLUDED.rd_due_date,
			test_optional             = EXCLUDED.test_optional,
			gpa_optional              = EXCLUDED.gpa_optional,
			updated_at                = NOW()
	`,
		row.Name, row.CollegeType, nullInt(row.CollegeYears), nullFloat(row.AcceptanceRatePct),
		nullInt(row.SAT25), nullInt(row.SAT75), nullInt(row.SAT50),
		nullInt(row.ACT25), nullInt(row.ACT75), nullInt(row.ACT50),
		nullFloat(row.GraduationRatePct), nullFloat(row.RetentionRatePct), nullFloat(row.PctReceivingAidPct),
		nullFloat(row.AvgAfterAidVal), nullFloat(row.AvgAfterAidCostsVal), nullFloat(row.AvgAidPackageVal),
		nullFloat(row.AvgHousingCostVal), nullInt(row.UndergradStudents), nullFloat(row.StudentFacultyRatio),
		nullInt(row.NumMajors), nullInt(row.CollegeBoardCode), nullInt(row.Score),
		row.Setting, row.RDDueDate, row.TestOptional, row.GPAOptional,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert %q: %w", row.Name, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (ms *MirrorStore) Close() error {
	return ms.db.Close()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}
