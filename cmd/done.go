package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/util"
	"weekboard/models"
	"weekboard/store"
	"weekboard/validation"
)

var doneActual float64

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task's completion",
	Long: `Toggle a task's completion. With no argument an interactive picker is
shown. Use --actual to record the hours actually spent while completing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

func init() {
	rootCmd.AddCommand(doneCmd)

	doneCmd.Flags().Float64VarP(&doneActual, "actual", "a", -1, "actual time spent in hours")
}

func runDone(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	task, err := pickTask(boardStore, args, "Select task to toggle")
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("actual") {
		if doneActual < 0 {
			return fmt.Errorf("--actual must not be negative")
		}
		_, err = boardStore.UpdateTask(task.ID, map[string]interface{}{
			"actual_time": validation.Round2(doneActual),
		})
		if err != nil {
			return fmt.Errorf("failed to record actual time: %w", err)
		}
	}

	updated, err := boardStore.ToggleComplete(task.ID)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}

	state := "pending"
	if updated.Completed {
		state = "completed"
	}
	cmd.Printf("Task %s is now %s: %s\n", util.ShortID(updated.ID, 0), state, updated.Name)
	return nil
}

// pickTask resolves the positional ID argument or falls back to the
// interactive picker.
func pickTask(boardStore store.BoardStore, args []string, label string) (models.Task, error) {
	if len(args) > 0 {
		return resolveTask(boardStore, args[0])
	}
	task, err := selectTaskInteractive(boardStore, nil, label)
	if errors.Is(err, ErrNoTasksFound) {
		return models.Task{}, fmt.Errorf("the board is empty")
	}
	return task, err
}
