package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	processForce bool
)

var processCmd = &cobra.Command{
	Use:   "process <project-id>",
	Short: "Compute highlights for a single project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID := args[0]

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Processor.ProcessProject(ctx, projectID, processForce)
		if err != nil {
			return err
		}

		zap.L().Info("project processed",
			zap.String("project_id", projectID),
			zap.Int("highlights", result.TotalHighlights),
			zap.Bool("from_cache", result.FromCache),
		)

		return printJSON(result)
	},
}

func init() {
	processCmd.Flags().BoolVar(&processForce, "force", false, "recompute even when cached highlights are fresh")
	rootCmd.AddCommand(processCmd)
}
