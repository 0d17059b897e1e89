package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bigfuture-scraper/config"
	"bigfuture-scraper/services"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print insights for the current dataset",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := utils.NewLogger()

	dataset, err := storage.NewDataset(cfg.DatasetPath(), logger)
	if err != nil {
		return err
	}
	rows, err := dataset.ReadAll()
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(rows))
	return nil
}
