package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"weekboard/internal/dateutil"
	"weekboard/models"
)

// RenderWeek lays the week's tasks out as one bordered column per visible
// weekday, Monday first. Each column footer shows the day's estimated hours
// against the ideal daily capacity from the settings.
func RenderWeek(monday time.Time, tasks []models.Task, settings models.Settings) string {
	byDate := make(map[string][]models.Task)
	for _, t := range tasks {
		if !t.Scheduled() {
			continue
		}
		byDate[*t.AssignedDate] = append(byDate[*t.AssignedDate], t)
	}

	idealHours := float64(settings.IdealDailyMinutes) / 60

	var columns []string
	for i, day := range models.WeekdayNames {
		if !settings.Visible(day) {
			continue
		}
		date := monday.AddDate(0, 0, i)
		key := dateutil.Format(date)

		var lines []string
		lines = append(lines, StyleTitle.Render(strings.ToUpper(day[:1])+day[1:]))
		lines = append(lines, StyleSubtle.Render(key))

		var total float64
		for _, t := range byDate[key] {
			marker := " "
			if t.Completed {
				marker = "✔"
			}
			line := fmt.Sprintf("%s %s", StyleSuccess.Render(marker), CategoryStyle(t.Category).Render(t.Name))
			lines = append(lines, line)
			total += t.EstimatedHours()
		}

		footer := fmt.Sprintf("%.1fh / %.1fh", total, idealHours)
		if total > idealHours {
			footer = StyleWarning.Render(footer)
		} else {
			footer = StyleSubtle.Render(footer)
		}
		lines = append(lines, footer)

		columns = append(columns, StyleDayColumn.Render(strings.Join(lines, "\n")))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}
