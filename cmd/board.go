package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weekboard/internal/dateutil"
	"weekboard/internal/ui"
	"weekboard/models"
)

var boardWeekOf string

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show the week board",
	Long:  `Show the board for one week as a column per weekday, Monday first.`,
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)

	boardCmd.Flags().StringVarP(&boardWeekOf, "week", "w", "", "any date inside the week to show (YYYY-MM-DD, default today)")
}

func runBoard(cmd *cobra.Command, args []string) error {
	anchor := time.Now()
	if boardWeekOf != "" {
		parsed, err := dateutil.Parse(boardWeekOf)
		if err != nil {
			return fmt.Errorf("invalid --week %q: %w", boardWeekOf, err)
		}
		anchor = parsed
	}
	monday := dateutil.WeekStart(anchor)
	sunday := monday.AddDate(0, 0, 6)

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	from, to := dateutil.Format(monday), dateutil.Format(sunday)
	tasks, err := boardStore.ListTasks(func(t models.Task) bool {
		return t.Scheduled() && *t.AssignedDate >= from && *t.AssignedDate <= to
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	settings, err := boardStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	cmd.Printf("Week of %s\n\n", from)
	cmd.Println(ui.RenderWeek(monday, tasks, settings))
	return nil
}
