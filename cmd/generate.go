package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weekboard/internal/dateutil"
	"weekboard/models"
	"weekboard/recurrence"
)

var (
	generateFrom   string
	generateTo     string
	generateDryRun bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Materialize recurring task instances for a date range",
	Long: `Generate walks every active recurring task definition and appends one
concrete task instance per occurrence inside the date range. Expired
definitions are skipped entirely. The default range is the current week.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFrom, "from", "", "range start (YYYY-MM-DD, default Monday of this week)")
	generateCmd.Flags().StringVar(&generateTo, "to", "", "range end, inclusive (YYYY-MM-DD, default Sunday of this week)")
	generateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "print the instances without storing them")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	now := time.Now()
	start := dateutil.WeekStart(now)
	end := start.AddDate(0, 0, 6)

	if generateFrom != "" {
		parsed, err := dateutil.Parse(generateFrom)
		if err != nil {
			return fmt.Errorf("invalid --from %q: %w", generateFrom, err)
		}
		start = parsed
	}
	if generateTo != "" {
		parsed, err := dateutil.Parse(generateTo)
		if err != nil {
			return fmt.Errorf("invalid --to %q: %w", generateTo, err)
		}
		end = parsed
	}
	if end.Before(start) {
		return fmt.Errorf("range end %s is before start %s", dateutil.Format(end), dateutil.Format(start))
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	defs, err := boardStore.ListTasks(func(t models.Task) bool {
		return t.IsRecurring
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to list recurring tasks: %w", err)
	}
	if len(defs) == 0 {
		cmd.Println("No recurring task definitions found.")
		return nil
	}

	instances := recurrence.ExpandAll(defs, start, end, now)
	if len(instances) == 0 {
		cmd.Printf("No occurrences between %s and %s.\n", dateutil.Format(start), dateutil.Format(end))
		return nil
	}

	if generateDryRun {
		for _, inst := range instances {
			cmd.Printf("%s  %s\n", *inst.AssignedDate, inst.Name)
		}
		cmd.Printf("\n%d instance(s) would be created (dry run)\n", len(instances))
		return nil
	}

	count, err := boardStore.AppendTasks(instances)
	if err != nil {
		return fmt.Errorf("failed to store generated instances: %w", err)
	}
	cmd.Printf("Generated %d instance(s) for %s..%s from %d definition(s)\n",
		count, dateutil.Format(start), dateutil.Format(end), len(defs))
	return nil
}
