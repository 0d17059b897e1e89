// Package main provides the entry point for the BigFuture scraping service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bigfuture-scraper",
	Short: "BigFuture college data scraping service",
	Long: "bigfuture-scraper continuously collects college profile data from BigFuture,\n" +
		"maintains a scored CSV dataset, and serves it over a key-protected HTTP endpoint.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
