package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sandhiyavisu-16/hackathon-product/internal/model"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the idea evaluation pipeline",
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run extraction, classification and evaluation over all eligible ideas",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.State.TryStart(); err != nil {
			return err
		}

		stats, runErr := env.Pipeline.RunFull(cmd.Context())
		completed := stats.Extraction.Succeeded + stats.Classification.Succeeded + stats.Evaluation.Succeeded
		failed := stats.Extraction.Failed + stats.Classification.Failed + stats.Evaluation.Failed
		env.State.Finish(completed, failed, runErr)

		printStageStats("extraction", stats.Extraction)
		printStageStats("classification", stats.Classification)
		printStageStats("evaluation", stats.Evaluation)
		return runErr
	},
}

var pipelineExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run only the extraction stage",
	RunE: stageRunE(func(env *pipelineEnv, cmd *cobra.Command) (model.StageStats, error) {
		return env.Pipeline.RunExtraction(cmd.Context())
	}, "extraction"),
}

var pipelineClassifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Run only the classification stage",
	RunE: stageRunE(func(env *pipelineEnv, cmd *cobra.Command) (model.StageStats, error) {
		return env.Pipeline.RunClassification(cmd.Context())
	}, "classification"),
}

var pipelineEvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run only the evaluation stage",
	RunE: stageRunE(func(env *pipelineEnv, cmd *cobra.Command) (model.StageStats, error) {
		return env.Pipeline.RunEvaluation(cmd.Context())
	}, "evaluation"),
}

var pipelineStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store-wide pipeline completion counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		counts, err := st.PipelineCounts(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Ideas:           %d\n", counts.Total)
		fmt.Printf("Extracted:       %d (%d failed)\n", counts.Extracted, counts.ExtractionFailed)
		fmt.Printf("Classified:      %d (%d failed)\n", counts.Classified, counts.ClassificationFailed)
		fmt.Printf("Evaluated:       %d (%d failed)\n", counts.Evaluated, counts.EvaluationFailed)
		return nil
	},
}

// stageRunE wires one single-stage subcommand.
func stageRunE(run func(*pipelineEnv, *cobra.Command) (model.StageStats, error), stage string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := initPipeline(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.State.TryStart(); err != nil {
			return err
		}

		stats, runErr := run(env, cmd)
		env.State.Finish(stats.Succeeded, stats.Failed, runErr)
		if runErr != nil {
			zap.L().Error("stage failed", zap.String("stage", stage), zap.Error(runErr))
			return runErr
		}

		printStageStats(stage, stats)
		return nil
	}
}

func printStageStats(stage string, stats model.StageStats) {
	fmt.Printf("%-15s processed=%d succeeded=%d failed=%d\n",
		stage+":", stats.Processed, stats.Succeeded, stats.Failed)
}

func init() {
	pipelineCmd.AddCommand(pipelineRunCmd, pipelineExtractCmd, pipelineClassifyCmd, pipelineEvaluateCmd, pipelineStatusCmd)
	rootCmd.AddCommand(pipelineCmd)
}
