package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"weekboard/internal/dateutil"
	"weekboard/internal/ui"
	"weekboard/internal/util"
	"weekboard/models"
	"weekboard/stats"
)

var (
	statsWeekOf   string
	statsOverruns bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show completion and time statistics",
	Long: `Show the weekly completion rate, time by category and day, and the
estimated-versus-actual variance report. Archived tasks count as completed
work; tasks without an assigned date are left out of the weekly rate.`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsWeekOf, "week", "w", "", "any date inside the week to report on (default today)")
	statsCmd.Flags().BoolVar(&statsOverruns, "overruns", false, "only show tasks that ran over their estimate")
}

func runStats(cmd *cobra.Command, args []string) error {
	anchor := time.Now()
	if statsWeekOf != "" {
		parsed, err := dateutil.Parse(statsWeekOf)
		if err != nil {
			return fmt.Errorf("invalid --week %q: %w", statsWeekOf, err)
		}
		anchor = parsed
	}

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

	if statsOverruns {
		return printOverruns(cmd, tasks)
	}

	rate := stats.WeeklyCompletion(tasks, archive, anchor)
	if !rate.Valid {
		return fmt.Errorf("cannot compute weekly completion: %s", rate.Err)
	}
	monday := dateutil.WeekStart(anchor)
	cmd.Printf("Week of %s\n", dateutil.Format(monday))
	cmd.Printf("Completion: %d/%d (%.2f%%)\n\n", rate.Completed, rate.Total, rate.Rate)

	byCategory := stats.TimeByCategory(tasks)
	if len(byCategory) > 0 {
		table := ui.Table{Headers: []string{"Category", "Estimated"}}
		for _, c := range sortedCategoryKeys(byCategory) {
			table.Rows = append(table.Rows, []string{string(c), fmt.Sprintf("%.2fh", byCategory[c])})
		}
		cmd.Println("Time by category:")
		cmd.Print(table.Render())
		cmd.Println()
	}

	byDate := stats.TimeByDate(tasks)
	if len(byDate) > 0 {
		dates := make([]string, 0, len(byDate))
		for d := range byDate {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		table := ui.Table{Headers: []string{"Date", "Estimated"}}
		for _, d := range dates {
			table.Rows = append(table.Rows, []string{d, fmt.Sprintf("%.2fh", byDate[d])})
		}
		cmd.Println("Time by day:")
		cmd.Print(table.Render())
		cmd.Println()
	}

	cmd.Printf("Total scheduled: %.2fh\n", stats.TotalScheduled(tasks))
	return nil
}

func printOverruns(cmd *cobra.Command, tasks []models.Task) error {
	overruns := stats.Overruns(tasks)
	if len(overruns) == 0 {
		cmd.Println("No overruns. Every task with recorded time came in at or under its estimate.")
		return nil
	}

	table := ui.Table{
		Headers:  []string{"ID", "Task", "Est", "Act", "Over", "Severity"},
		MaxWidth: 40,
	}
	for _, v := range overruns {
		table.Rows = append(table.Rows, []string{
			util.ShortID(v.TaskID, 0),
			v.Name,
			fmt.Sprintf("%.2fh", v.Estimated),
			fmt.Sprintf("%.2fh", v.Actual),
			fmt.Sprintf("+%.2fh", v.Variance),
			string(v.Severity),
		})
	}
	cmd.Print(table.Render())
	cmd.Printf("\n%d overrun(s)\n", len(overruns))
	return nil
}

// sortedCategoryKeys returns the categories present in m in the canonical
// display order.
func sortedCategoryKeys(m map[models.TaskCategory]float64) []models.TaskCategory {
	out := make([]models.TaskCategory, 0, len(m))
	for _, c := range models.Categories() {
		if _, ok := m[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
