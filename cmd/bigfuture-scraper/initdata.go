package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bigfuture-scraper/config"
	"bigfuture-scraper/services"
	"bigfuture-scraper/storage"
	"bigfuture-scraper/utils"
)

var initdataCmd = &cobra.Command{
	Use:   "initdata",
	Short: "Build the scored dataset from the source CSV",
	Long: `Import the source college CSV, compute scores for every row, and write
the dataset the scraper will keep updating. Overwrites any existing dataset.`,
	RunE: runInitData,
}

func init() {
	rootCmd.AddCommand(initdataCmd)
}

func runInitData(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	logger := utils.NewLogger()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	rows, err := services.ImportSeed(cfg.InputPath())
	if err != nil {
		return fmt.Errorf("import %s: %w", cfg.InputPath(), err)
	}

	dataset, err := storage.NewDataset(cfg.DatasetPath(), logger)
	if err != nil {
		return err
	}
	if err := dataset.WriteAll(rows); err != nil {
		return err
	}

	logger.Info("Imported %d colleges into %s", len(rows), cfg.DatasetPath())
	return nil
}
