package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"weekboard/internal/ui"
	"weekboard/internal/util"
	"weekboard/store"
)

var archiveList bool

var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Archive a task, or list the archive",
	Long: `Archive moves a task from the board into the archive, stamping the
archival time. Archived tasks still count into the statistics as completed
work. Use --list to browse the archive instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().BoolVarP(&archiveList, "list", "l", false, "list archived tasks")
}

func runArchive(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	if archiveList {
		return listArchive(cmd, boardStore)
	}

	task, err := pickTask(boardStore, args, "Select task to archive")
	if err != nil {
		return err
	}

	archived, err := boardStore.ArchiveTask(task.ID)
	if err != nil {
		return fmt.Errorf("failed to archive task: %w", err)
	}

	cmd.Printf("Archived %s: %s\n", util.ShortID(archived.ID, 0), archived.Name)
	return nil
}

func listArchive(cmd *cobra.Command, boardStore store.BoardStore) error {
	archive, err := boardStore.ListArchive()
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}
	if len(archive) == 0 {
		cmd.Println("The archive is empty.")
		return nil
	}

	table := ui.Table{
		Headers:  []string{"ID", "Task", "Category", "Est", "Act", "Archived"},
		MaxWidth: 40,
	}
	for _, a := range archive {
		table.Rows = append(table.Rows, []string{
			util.ShortID(a.ID, 0),
			a.Name,
			string(a.Category),
			fmt.Sprintf("%.1fh", a.EstimatedHours()),
			fmt.Sprintf("%.1fh", a.ActualHours()),
			a.ArchivedDate,
		})
	}
	cmd.Print(table.Render())
	cmd.Printf("\n%d archived task(s)\n", len(archive))
	return nil
}
