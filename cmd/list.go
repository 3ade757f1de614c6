package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"weekboard/internal/ui"
	"weekboard/internal/util"
	"weekboard/models"
)

var (
	listCategory    string
	listDate        string
	listCompleted   bool
	listPending     bool
	listUnscheduled bool
	listSortBy      string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks on the board",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "filter by assigned date (YYYY-MM-DD)")
	listCmd.Flags().BoolVar(&listCompleted, "completed", false, "only completed tasks")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "only pending tasks")
	listCmd.Flags().BoolVar(&listUnscheduled, "unscheduled", false, "only tasks without an assigned date")
	listCmd.Flags().StringVar(&listSortBy, "sort", "date", "sort by: date, priority, name, estimate")
}

func runList(cmd *cobra.Command, args []string) error {
	if listCompleted && listPending {
		return fmt.Errorf("--completed and --pending are mutually exclusive")
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	filterFn := func(t models.Task) bool {
		if listCategory != "" && string(t.Category) != listCategory {
			return false
		}
		if listDate != "" && (!t.Scheduled() || *t.AssignedDate != listDate) {
			return false
		}
		if listCompleted && !t.Completed {
			return false
		}
		if listPending && t.Completed {
			return false
		}
		if listUnscheduled && t.Scheduled() {
			return false
		}
		return true
	}

	tasks, err := boardStore.ListTasks(filterFn, sortTasksBy(listSortBy))
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		cmd.Println("No tasks found.")
		return nil
	}

	table := ui.Table{
		Headers:  []string{"ID", "Task", "Category", "Priority", "Date", "Est", "Act", "Done"},
		MaxWidth: 40,
	}
	for _, t := range tasks {
		date := "-"
		if t.Scheduled() {
			date = *t.AssignedDate
		}
		done := ""
		if t.Completed {
			done = "✔"
		}
		recur := ""
		if t.IsRecurring && t.RecurrencePattern != nil {
			recur = " ↻" + string(*t.RecurrencePattern)
		}
		table.Rows = append(table.Rows, []string{
			util.ShortID(t.ID, 0),
			t.Name + recur,
			string(t.Category),
			string(t.Priority),
			date,
			fmt.Sprintf("%.1fh", t.EstimatedHours()),
			fmt.Sprintf("%.1fh", t.ActualHours()),
			done,
		})
	}
	cmd.Print(table.Render())
	cmd.Printf("\n%d task(s)\n", len(tasks))
	return nil
}

// sortTasksBy maps a sort key to an in-place slice sorter. Unknown keys fall
// back to date order.
func sortTasksBy(key string) func([]models.Task) {
	priorityRank := map[models.TaskPriority]int{
		models.PriorityHigh:   0,
		models.PriorityMedium: 1,
		models.PriorityLow:    2,
	}
	return func(tasks []models.Task) {
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i], tasks[j]
			switch key {
			case "priority":
				return priorityRank[a.Priority] < priorityRank[b.Priority]
			case "name":
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			case "estimate":
				return a.EstimatedHours() > b.EstimatedHours()
			default:
				// Unscheduled tasks sort last.
				switch {
				case !a.Scheduled():
					return false
				case !b.Scheduled():
					return true
				}
				return *a.AssignedDate < *b.AssignedDate
			}
		})
	}
}
