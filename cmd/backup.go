package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup [destination]",
	Short: "Copy the board file to a backup location",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <source>",
	Short: "Replace the board file with a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	destination := ""
	if len(args) > 0 {
		destination = args[0]
	} else {
		destination = fmt.Sprintf("%s.backup-%s", GetBoardFilePath(), time.Now().Format("20060102-150405"))
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	if err := boardStore.Backup(destination); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	cmd.Printf("Board backed up to %s\n", destination)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	if err := boardStore.Restore(args[0]); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	cmd.Printf("Board restored from %s\n", args[0])
	return nil
}
