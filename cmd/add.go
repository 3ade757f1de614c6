package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekboard/internal/dateutil"
	"weekboard/internal/util"
	"weekboard/models"
)

var (
	addEstimate float64
	addPriority string
	addCategory string
	addDate     string
	addDue      string
	addDetails  string
	addRecur    string
	addUntil    string
)

// addCmd creates a task, optionally a recurring definition.
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task to the board",
	Long: `Add a task to the board.

Examples:
  weekboard add "Write release notes" --estimate 1.5 --date 2026-08-31
  weekboard add "Standup" --category meeting --recur daily --until 2026-12-31
  weekboard add "Monthly report" --recur monthly --date 2026-08-31`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().Float64VarP(&addEstimate, "estimate", "e", 0, "estimated time in hours")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "priority (high, medium, low)")
	addCmd.Flags().StringVar(&addCategory, "category", "task", "category (task, meeting, review, bugfix, document, research)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "assigned date (YYYY-MM-DD); empty leaves the task unscheduled")
	addCmd.Flags().StringVar(&addDue, "due", "", "due date")
	addCmd.Flags().StringVar(&addDetails, "details", "", "free-text details")
	addCmd.Flags().StringVar(&addRecur, "recur", "", "recurrence pattern (daily, weekly, monthly)")
	addCmd.Flags().StringVar(&addUntil, "until", "", "recurrence end date (YYYY-MM-DD)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("task name cannot be empty")
	}

	task := models.NewTask(name)
	task.EstimatedTime = models.Float(addEstimate)
	task.Priority = models.NormalizePriority(addPriority)
	task.Category = models.NormalizeCategory(addCategory)

	if addDate != "" {
		if _, err := dateutil.Parse(addDate); err != nil {
			return fmt.Errorf("invalid --date %q: %w", addDate, err)
		}
		task.AssignedDate = models.String(addDate)
	}
	if addDue != "" {
		task.DueDate = models.String(addDue)
	}
	if addDetails != "" {
		task.Details = models.String(addDetails)
	}
	if addRecur != "" {
		pattern := models.RecurrencePattern(addRecur)
		if !pattern.Known() {
			return fmt.Errorf("unknown recurrence pattern %q (want daily, weekly, or monthly)", addRecur)
		}
		task.IsRecurring = true
		task.RecurrencePattern = &pattern
		if addUntil != "" {
			if _, err := dateutil.Parse(addUntil); err != nil {
				return fmt.Errorf("invalid --until %q: %w", addUntil, err)
			}
			task.RecurrenceEndDate = models.String(addUntil)
		}
	} else if addUntil != "" {
		return fmt.Errorf("--until requires --recur")
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	created, err := boardStore.CreateTask(task)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	cmd.Printf("Created task %s: %s\n", util.ShortID(created.ID, 0), created.Name)
	if created.IsRecurring {
		cmd.Printf("Recurring %s", *created.RecurrencePattern)
		if created.RecurrenceEndDate != nil {
			cmd.Printf(" until %s", *created.RecurrenceEndDate)
		}
		cmd.Println(" - run 'weekboard generate' to materialize instances")
	}
	return nil
}
