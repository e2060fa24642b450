package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/intake"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv|file.xlsx>",
	Short: "Bulk import ideas from a CSV or XLSX submission file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("import"); err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		path := args[0]
		result, err := intake.NewImporter(st).Import(cmd.Context(), path, filepath.Base(path))
		if err != nil {
			return err
		}

		fmt.Printf("Submission %s: %d rows, %d valid, %d invalid\n",
			result.SubmissionID, result.TotalRows, result.ValidRows, result.InvalidRows)
		for _, re := range result.Errors {
			fmt.Printf("  row %d [%s]: %s\n", re.Row, re.Field, re.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
