package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

var rubricsCmd = &cobra.Command{
	Use:   "rubrics",
	Short: "Manage evaluation rubrics",
}

var rubricsListAll bool

var rubricsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List evaluation rubrics and their weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		rubrics, err := st.ListRubrics(cmd.Context(), !rubricsListAll)
		if err != nil {
			return err
		}

		totalWeight := 0
		for _, r := range rubrics {
			state := "active"
			if !r.IsActive {
				state = "inactive"
			}
			fmt.Printf("%-30s weight=%-3d %s\n", r.Name, r.Weight, state)
			if r.IsActive {
				totalWeight += r.Weight
			}
		}
		fmt.Printf("active weight total: %d\n", totalWeight)
		return nil
	},
}

var (
	rubricWeight   int
	rubricInactive bool
	rubricDesc     string
	rubricOrder    int
)

var rubricsSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a rubric by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("rubrics"); err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		r := &model.Rubric{
			Name:         args[0],
			Description:  rubricDesc,
			Weight:       rubricWeight,
			IsActive:     !rubricInactive,
			DisplayOrder: rubricOrder,
		}
		if err := st.UpsertRubric(cmd.Context(), r); err != nil {
			return err
		}

		fmt.Printf("rubric %q saved (weight=%d active=%t)\n", r.Name, r.Weight, r.IsActive)
		return nil
	},
}

func init() {
	rubricsListCmd.Flags().BoolVar(&rubricsListAll, "all", false, "include inactive rubrics")
	rubricsSetCmd.Flags().IntVar(&rubricWeight, "weight", 0, "rubric weight (0-100)")
	rubricsSetCmd.Flags().BoolVar(&rubricInactive, "inactive", false, "mark the rubric inactive")
	rubricsSetCmd.Flags().StringVar(&rubricDesc, "description", "", "rubric description")
	rubricsSetCmd.Flags().IntVar(&rubricOrder, "order", 0, "display order")

	rubricsCmd.AddCommand(rubricsListCmd, rubricsSetCmd)
	rootCmd.AddCommand(rubricsCmd)
}
