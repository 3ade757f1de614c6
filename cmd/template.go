package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"weekboard/internal/dateutil"
	"weekboard/internal/ui"
	"weekboard/internal/util"
	"weekboard/models"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage reusable task templates",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <name> <task-id>",
	Short: "Save an existing task as a template",
	Args:  cobra.ExactArgs(2),
	RunE:  runTemplateSave,
}

var templateUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Stamp a new task out of a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateUse,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved templates",
	RunE:  runTemplateList,
}

var templateUseDate string

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateUseCmd)
	templateCmd.AddCommand(templateListCmd)

	templateUseCmd.Flags().StringVarP(&templateUseDate, "date", "d", "", "assigned date for the new task (YYYY-MM-DD)")
}

func runTemplateSave(cmd *cobra.Command, args []string) error {
	name, idOrPrefix := args[0], args[1]

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	task, err := resolveTask(boardStore, idOrPrefix)
	if err != nil {
		return err
	}

	tpl, err := boardStore.SaveTemplate(models.NewTemplate(name, task, time.Now()))
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	cmd.Printf("Saved template %q from task %s\n", tpl.Name, util.ShortID(task.ID, 0))
	return nil
}

func runTemplateUse(cmd *cobra.Command, args []string) error {
	var date *string
	if templateUseDate != "" {
		if _, err := dateutil.Parse(templateUseDate); err != nil {
			return fmt.Errorf("invalid --date %q: %w", templateUseDate, err)
		}
		date = &templateUseDate
	}

	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	task, err := boardStore.InstantiateTemplate(args[0], date)
	if err != nil {
		return fmt.Errorf("failed to instantiate template: %w", err)
	}
	cmd.Printf("Created task %s from template %q: %s\n", util.ShortID(task.ID, 0), args[0], task.Name)
	return nil
}

func runTemplateList(cmd *cobra.Command, args []string) error {
	boardStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = boardStore.Close() }()

	templates, err := boardStore.ListTemplates()
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if len(templates) == 0 {
		cmd.Println("No templates saved.")
		return nil
	}

	table := ui.Table{
		Headers:  []string{"Name", "Task", "Category", "Est", "Used", "Created"},
		MaxWidth: 40,
	}
	for _, tpl := range templates {
		table.Rows = append(table.Rows, []string{
			tpl.Name,
			tpl.BaseTask.Name,
			string(tpl.BaseTask.Category),
			fmt.Sprintf("%.1fh", tpl.BaseTask.EstimatedHours()),
			fmt.Sprintf("%d", tpl.UsageCount),
			tpl.CreatedDate,
		})
	}
	cmd.Print(table.Render())
	cmd.Printf("\n%d template(s)\n", len(templates))
	return nil
}
