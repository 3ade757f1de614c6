package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekboard/internal/util"
)

var deleteForce bool

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task permanently",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	task, err := pickTask(boardStore, args, "Select task to delete")
	if err != nil {
		return err
	}

	if !deleteForce {
		cmd.Printf("Delete %q (%s)? [y/N] ", task.Name, util.ShortID(task.ID, 0))
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			cmd.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := boardStore.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	cmd.Printf("Deleted %s: %s\n", util.ShortID(task.ID, 0), task.Name)
	return nil
}
