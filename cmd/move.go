package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/dateutil"
	"weekboard/internal/util"
)

var (
	moveTo         string
	moveUnschedule bool
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id]",
	Short: "Reschedule a task to another day",
	Long: `Reschedule a task to another day with --to, or take it off the board
entirely with --unschedule.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)

	moveCmd.Flags().StringVar(&moveTo, "to", "", "target date (YYYY-MM-DD)")
	moveCmd.Flags().BoolVar(&moveUnschedule, "unschedule", false, "remove the task from the board")
}

func runMove(cmd *cobra.Command, args []string) error {
	if moveTo == "" && !moveUnschedule {
		return fmt.Errorf("either --to or --unschedule is required")
	}
	if moveTo != "" && moveUnschedule {
		return fmt.Errorf("--to and --unschedule are mutually exclusive")
	}

	var target *string
	if moveTo != "" {
		if _, err := dateutil.Parse(moveTo); err != nil {
			return fmt.Errorf("invalid --to %q: %w", moveTo, err)
		}
		target = &moveTo
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	task, err := pickTask(boardStore, args, "Select task to move")
	if err != nil {
		return err
	}

	updated, err := boardStore.MoveTask(task.ID, target)
	if err != nil {
		return fmt.Errorf("failed to move task: %w", err)
	}

	if updated.Scheduled() {
		cmd.Printf("Moved %s to %s: %s\n", util.ShortID(updated.ID, 0), *updated.AssignedDate, updated.Name)
	} else {
		cmd.Printf("Unscheduled %s: %s\n", util.ShortID(updated.ID, 0), updated.Name)
	}
	return nil
}
