package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weekboard/models"
)

var (
	settingsIdealMinutes int
	settingsHideDays     []string
	settingsShowDays     []string
	settingsReset        bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the board settings",
	Long: `Show or change the board settings: the ideal daily workload and
which weekday columns are visible. Without flags the current settings are
printed. --reset returns to the configured defaults.`,
	RunE: runSettings,
}

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.Flags().IntVar(&settingsIdealMinutes, "ideal-minutes", 0, "ideal daily workload in minutes")
	settingsCmd.Flags().StringSliceVar(&settingsHideDays, "hide", nil, "weekday columns to hide (e.g. saturday,sunday)")
	settingsCmd.Flags().StringSliceVar(&settingsShowDays, "show", nil, "weekday columns to show")
	settingsCmd.Flags().BoolVar(&settingsReset, "reset", false, "reset to the configured defaults")
}

func runSettings(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	settings, err := boardStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	changed := false
	if settingsReset {
		settings = models.DefaultSettings()
		if ideal := GetConfig().Board.IdealDailyMinutes; ideal > 0 {
			settings.IdealDailyMinutes = ideal
		}
		changed = true
	}
	if cmd.Flags().Changed("ideal-minutes") {
		if settingsIdealMinutes <= 0 {
			return fmt.Errorf("--ideal-minutes must be positive")
		}
		settings.IdealDailyMinutes = settingsIdealMinutes
		changed = true
	}
	for _, day := range settingsHideDays {
		day = strings.ToLower(strings.TrimSpace(day))
		if !validWeekday(day) {
			return fmt.Errorf("unknown weekday %q", day)
		}
		settings.WeekdayVisibility[day] = false
		changed = true
	}
	for _, day := range settingsShowDays {
		day = strings.ToLower(strings.TrimSpace(day))
		if !validWeekday(day) {
			return fmt.Errorf("unknown weekday %q", day)
		}
		settings.WeekdayVisibility[day] = true
		changed = true
	}

	if changed {
		if err := boardStore.PutSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	cmd.Printf("Ideal daily workload: %d minutes (%.1fh)\n",
		settings.IdealDailyMinutes, float64(settings.IdealDailyMinutes)/60)
	var visible, hidden []string
	for _, day := range models.WeekdayNames {
		if settings.Visible(day) {
			visible = append(visible, day)
		} else {
			hidden = append(hidden, day)
		}
	}
	cmd.Printf("Visible days: %s\n", strings.Join(visible, ", "))
	if len(hidden) > 0 {
		cmd.Printf("Hidden days:  %s\n", strings.Join(hidden, ", "))
	}
	return nil
}

func validWeekday(day string) bool {
	for _, d := range models.WeekdayNames {
		if d == day {
			return true
		}
	}
	return false
}
