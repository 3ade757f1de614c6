package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"weekboard/transfer"
)

var importYes bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a board document, replacing the current board",
	Long: `Import reads a document produced by 'weekboard export' and replaces
the current board with it. The existing tasks, archive, and settings are
overwritten, not merged. Incoming tasks get their categories re-validated and
any missing actual_time defaulted to 0.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "skip the confirmation prompt")
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	payload, err := transfer.Parse(data)
	if err != nil {
		return fmt.Errorf("invalid import document: %w", err)
	}
	importStats := transfer.Sanitize(&payload)

	if !importYes {
		cmd.Printf("This replaces the current board with %d task(s) and %d archived task(s). Continue? [y/N] ",
			importStats.Tasks, importStats.ArchivedTasks)
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" && answer != "yes" {
			cmd.Println("Import cancelled.")
			return nil
		}
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	if err := boardStore.ReplaceBoard(payload.Tasks, payload.Archive, payload.Settings); err != nil {
		return fmt.Errorf("failed to import board: %w", err)
	}

	cmd.Printf("Imported %d task(s), %d archived task(s)\n", importStats.Tasks, importStats.ArchivedTasks)
	if importStats.RepairedCategories > 0 {
		cmd.Printf("Repaired %d unknown categor(ies) to 'task'\n", importStats.RepairedCategories)
	}
	if importStats.ActualTimeDefaults > 0 {
		cmd.Printf("Defaulted actual time to 0 on %d task(s)\n", importStats.ActualTimeDefaults)
	}
	if importStats.RecurringTasks > 0 {
		cmd.Printf("%d recurring definition(s) imported\n", importStats.RecurringTasks)
	}
	return nil
}
