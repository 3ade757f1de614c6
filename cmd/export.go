package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"weekboard/transfer"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the board to a portable JSON document",
	Long: `Export writes the full board, the archive, and the settings to a
single JSON document together with format version metadata. The document can
be imported on another machine with 'weekboard import'.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	tasks, err := boardStore.ListTasks(nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	archive, err := boardStore.ListArchive()
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}
	settings, err := boardStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	payload := transfer.BuildPayload(tasks, settings, archive, time.Now())
	data, err := transfer.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if exportOutput == "" {
		cmd.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	cmd.Printf("Exported %d task(s) and %d archived task(s) to %s\n", len(tasks), len(archive), exportOutput)
	return nil
}
