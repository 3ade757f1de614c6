package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weekboard/internal/util"
	"weekboard/recurrence"
	"weekboard/validation"
)

var (
	updateName     string
	updateEstimate float64
	updateActual   float64
	updatePriority string
	updateCategory string
	updateDue      string
	updateDetails  string
	updateUntil    string
	updateNoEnd    bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update fields of a task",
	Long: `Update individual fields of a task. Only the flags you pass are
changed. For recurring definitions --until moves the recurrence end date and
--no-end removes it; end dates in the past are rejected.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVar(&updateName, "name", "", "new task name")
	updateCmd.Flags().Float64VarP(&updateEstimate, "estimate", "e", 0, "estimated time in hours")
	updateCmd.Flags().Float64VarP(&updateActual, "actual", "a", 0, "actual time in hours")
	updateCmd.Flags().StringVarP(&updatePriority, "priority", "p", "", "priority (high, medium, low)")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "category")
	updateCmd.Flags().StringVar(&updateDue, "due", "", "due date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateDetails, "details", "", "free-text details")
	updateCmd.Flags().StringVar(&updateUntil, "until", "", "recurrence end date (YYYY-MM-DD)")
	updateCmd.Flags().BoolVar(&updateNoEnd, "no-end", false, "remove the recurrence end date")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	task, err := pickTask(boardStore, args, "Select task to update")
	if err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if cmd.Flags().Changed("name") {
		updates["name"] = updateName
	}
	if cmd.Flags().Changed("estimate") {
		updates["estimated_time"] = validation.Round2(updateEstimate)
	}
	if cmd.Flags().Changed("actual") {
		updates["actual_time"] = validation.Round2(updateActual)
	}
	if cmd.Flags().Changed("priority") {
		updates["priority"] = updatePriority
	}
	if cmd.Flags().Changed("category") {
		updates["category"] = updateCategory
	}
	if cmd.Flags().Changed("due") {
		updates["due_date"] = updateDue
	}
	if cmd.Flags().Changed("details") {
		updates["details"] = updateDetails
	}

	if cmd.Flags().Changed("until") || updateNoEnd {
		if cmd.Flags().Changed("until") && updateNoEnd {
			return fmt.Errorf("--until and --no-end are mutually exclusive")
		}
		var endDate *string
		if cmd.Flags().Changed("until") {
			endDate = &updateUntil
		}
		if !recurrence.UpdateEndDate(&task, endDate, time.Now()) {
			return fmt.Errorf("recurrence end date not changed")
		}
		if task.RecurrenceEndDate != nil {
			updates["recurrence_end_date"] = *task.RecurrenceEndDate
		} else {
			updates["recurrence_end_date"] = nil
		}
	}

	if len(updates) == 0 {
		return fmt.Errorf("nothing to update; pass at least one field flag")
	}

	updated, err := boardStore.UpdateTask(task.ID, updates)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	cmd.Printf("Updated %s: %s\n", util.ShortID(updated.ID, 0), updated.Name)
	return nil
}
