package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"weekboard/internal/util"
	"weekboard/models"
	"weekboard/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weekboard",
	Short: "weekboard manages your weekly task board from the command line.",
	Long: `weekboard is a local-first weekly task board. It schedules tasks across
a 7-day calendar, generates instances of recurring tasks, stamps tasks out of
saved templates, and reports completion and time statistics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.weekboard.yaml or ./.weekboard.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetBoardFilePath returns the full path to the board file.
func GetBoardFilePath() string {
	config := GetConfig()
	return filepath.Join(config.Project.RootDir, config.Data.File)
}

// GetStore initializes and returns the board store from the app config.
func GetStore() (store.BoardStore, error) {
	s := store.NewFileBoardStore()
	config := GetConfig()

	boardFilePath := GetBoardFilePath()
	err := s.Initialize(map[string]string{
		"dataFile":       boardFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", boardFilePath, err)
	}
	return s, nil
}

// selectTaskInteractive presents a prompt to the user to select a task from a
// list, optionally filtered.
func selectTaskInteractive(boardStore store.BoardStore, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks, err := boardStore.ListTasks(filterFn, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks for selection: %w", err)
	}
	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	items := make([]string, len(tasks))
	for i, t := range tasks {
		date := "unscheduled"
		if t.Scheduled() {
			date = *t.AssignedDate
		}
		items[i] = fmt.Sprintf("%s  %s (%s, %s)", util.ShortID(t.ID, 0), t.Name, t.Category, date)
	}

	prompt := promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, fmt.Errorf("selection cancelled: %w", err)
	}
	return tasks[idx], nil
}

// resolveTask finds a task by full ID or unique ID prefix.
func resolveTask(boardStore store.BoardStore, idOrPrefix string) (models.Task, error) {
	tasks, err := boardStore.ListTasks(nil, nil)
	if err != nil {
		return models.Task{}, err
	}
	var matches []models.Task
	for _, t := range tasks {
		if t.ID == idOrPrefix {
			return t, nil
		}
		if len(idOrPrefix) >= 4 && len(t.ID) >= len(idOrPrefix) && t.ID[:len(idOrPrefix)] == idOrPrefix {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("no task matches %q", idOrPrefix)
	case 1:
		return matches[0], nil
	}
	return models.Task{}, fmt.Errorf("ID prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches))
}
