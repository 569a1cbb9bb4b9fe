package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/highlights-cli/internal/pipeline"
)

var (
	batchCSVPath     string
	batchConcurrency int
	batchForce       bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Compute highlights for a CSV of project ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		projectIDs, err := pipeline.ReadProjectIDs(batchCSVPath)
		if err != nil {
			return err
		}
		if len(projectIDs) == 0 {
			return eris.Errorf("no project ids found in %s", batchCSVPath)
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		result, err := env.Processor.ProcessBatch(ctx, projectIDs, concurrency, batchForce)
		if err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("total", result.TotalProjects),
			zap.Int("processed", result.ProcessedCount),
			zap.Int("cached", result.CachedCount),
			zap.Int("failed", result.FailedCount),
		)

		return printJSON(result)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCSVPath, "csv", "", "CSV file with project ids in the first column")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "projects processed in parallel (default from config)")
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "recompute even when cached highlights are fresh")
	_ = batchCmd.MarkFlagRequired("csv")
	rootCmd.AddCommand(batchCmd)
}
