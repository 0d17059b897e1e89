package services

import (
	"fmt"
	"sort"
	"strings"

	"bigfuture-scraper/models"
	"bigfuture-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(rows []models.Row) *models.DatasetReport {
	report := &models.DatasetReport{
		RowsByType: make(map[string]int),
	}

	if len(rows) == 0 {
		return report
	}

	report.TotalRows = len(rows)

	var scored []models.Row

	for i := range rows {
		r := &rows[i]
		if r.Score != nil {
			scored = append(scored, *r)
		}
		if r.CollegeType != "" {
			report.RowsByType[r.CollegeType]++
		}
		if r.AcceptanceRatePct == nil {
			continue
		}
		if report.MostSelective == nil || *r.AcceptanceRatePct < *report.MostSelective.AcceptanceRatePct {
			report.MostSelective = r
		}
	}

	// Score stats (only rows that have been scored)
	if len(scored) > 0 {
		report.ScoredRows = len(scored)
		report.MinScore = *scored[0].Score
		report.MaxScore = *scored[0].Score
		var total int
		for i := range scored {
			sc := *scored[i].Score
			total += sc
			if sc < report.MinScore {
				report.MinScore = sc
			}
			if sc > report.MaxScore {
				report.MaxScore = sc
			}
		}
		report.AverageScore = round2(float64(total) / float64(len(scored)))
	}

	// Top 10 by score
	sort.Slice(scored, func(i, j int) bool {
		return *scored[i].Score > *scored[j].Score
	})
	if len(scored) > 10 {
		report.TopScored = scored[:10]
	} else {
		report.TopScored = scored
	}

	return report
}

func (s *InsightService) Print(r *models.DatasetReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 COLLEGE DATASET INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total colleges : \033[1m%d\033[0m\n", r.TotalRows)
	fmt.Printf("  Scored rows    : \033[1m%d\033[0m\n", r.ScoredRows)
	fmt.Println()

	// Score Stats
	fmt.Printf("\033[1;33m  Score Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.ScoredRows > 0 {
		fmt.Printf("  Average score : \033[1;32m%.2f\033[0m\n", r.AverageScore)
		fmt.Printf("  Minimum score : \033[1;32m%d\033[0m\n", r.MinScore)
		fmt.Printf("  Maximum score : \033[1;32m%d\033[0m\n", r.MaxScore)
	} else {
		fmt.Printf("  No scored rows yet\n")
	}
	fmt.Println()

	// Most Selective
	if r.MostSelective != nil {
		fmt.Printf("\033[1;33m  Most Selective College\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostSelective.Name, 50))
		fmt.Printf("  Acceptance rate : \033[1;31m%.1f%%\033[0m\n", *r.MostSelective.AcceptanceRatePct*100)
		fmt.Println()
	}

	// Top 10 by Score
	fmt.Printf("\033[1;33m  Top 10 Colleges by Score\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.TopScored) == 0 {
		fmt.Printf("  No scored colleges found\n")
	} else {
		for i, row := range r.TopScored {
			name := truncate(row.Name, 38)
			fmt.Printf("  \033[1m%2d.\033[0m %-40s \033[1;32m%d\033[0m\n",
				i+1, name, *row.Score)
		}
	}
	fmt.Println()

	// Colleges by Type
	fmt.Printf("\033[1;33m  Colleges by Type\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.RowsByType) == 0 {
		fmt.Printf("  No type data\n")
	} else {
		// Sort types by count descending
		type typeCount struct {
			label string
			count int
		}
		var types []typeCount
		for label, cnt := range r.RowsByType {
			if label != "" {
				types = append(types, typeCount{label, cnt})
			}
		}
		sort.Slice(types, func(i, j int) bool {
			return types[i].count > types[j].count
		})
		for _, tc := range types {
			fmt.Printf("  %-30s %d\n", truncate(tc.label, 28), tc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
