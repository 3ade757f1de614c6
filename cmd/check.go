package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/util"
	"weekboard/validation"
)

var checkRepair bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the time fields of every task",
	Long: `Check runs the time validation pass over every task on the board:
missing, negative, or non-finite hours are reported as errors, and an actual
time far above the estimate is reported as a warning. With --repair the
corrected values are written back.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkRepair, "repair", false, "write repaired time values back to the board")
}

func runCheck(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	tasks, err := boardStore.ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("The board is empty.")
		return nil
	}

	if checkRepair {
		report := validation.RepairTaskTimes(tasks)
		if report.RepairedCount == 0 {
			cmd.Printf("Checked %d task(s); nothing to repair.\n", len(tasks))
			return nil
		}
		for _, r := range report.Repairs {
			cmd.Printf("%s  %s\n", util.ShortID(r.TaskID, 0), r.Name)
			for _, e := range r.Errors {
				cmd.Printf("    %s\n", e)
			}
			cmd.Printf("    repaired to estimated=%.2f actual=%.2f\n", r.RepairedEstimated, r.RepairedActual)
			if _, err := boardStore.UpdateTask(r.TaskID, map[string]interface{}{
				"estimated_time": r.RepairedEstimated,
				"actual_time":    r.RepairedActual,
			}); err != nil {
				return fmt.Errorf("failed to save repaired task %s: %w", r.TaskID, err)
			}
		}
		cmd.Printf("\nRepaired %d of %d task(s)\n", report.RepairedCount, len(tasks))
		return nil
	}

	report := validation.CheckAllTaskTimes(tasks)
	for _, result := range report.Results {
		if result.Valid && len(result.Warnings) == 0 {
			continue
		}
		cmd.Printf("%s  %s\n", util.ShortID(result.TaskID, 0), result.Name)
		for _, e := range result.Errors {
			cmd.Printf("    error: %s\n", e)
		}
		for _, w := range result.Warnings {
			cmd.Printf("    warning: %s\n", w)
		}
	}
	cmd.Printf("Checked %d task(s): %d passed, %d failed, %d warning(s)\n",
		report.Checked, report.Passed, report.Failed, report.WarningCount)
	if report.Failed > 0 {
		cmd.Println("Run 'weekboard check --repair' to fix the errors.")
	}
	return nil
}
