package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hackeval",
	Short: "Hackathon idea intake and evaluation pipeline",
	Long:  "Imports bulk idea submissions, extracts attached content, classifies ideas by theme and industry, and scores them against weighted rubrics via Claude.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
