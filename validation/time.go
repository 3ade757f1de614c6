// Package validation implements the time-field check and repair pipeline.
// Task records coming from storage or import pass through here before they
// are trusted by the board: invalid hour fields are coerced to safe defaults
// and reported, never thrown.
package validation

import (
	"fmt"
	"math"

	"weekboard/models"
)

// overrunWarnFactor flags actual time exceeding estimated by more than 50%.
const overrunWarnFactor = 1.5

// TimeCheck is the outcome of validating one task's time fields.
type TimeCheck struct {
	TaskID   string   `json:"task_id"`
	Name     string   `json:"name"`
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// CheckTaskTimes validates and repairs the estimated/actual time fields of a
// task in place. Missing, negative, or non-finite values are errors and are
// coerced to 0; a significant overrun (actual > estimated * 1.5) is a
// warning only. Both fields are unconditionally rounded to 2 decimal places,
// so re-running the check on a valid task is a no-op. Valid is true iff the
// error list is empty; warnings never affect validity.
func CheckTaskTimes(t *models.Task) TimeCheck {
	check := TimeCheck{TaskID: t.ID, Name: t.Name}

	t.EstimatedTime = checkHours("estimated_time", t.EstimatedTime, &check.Errors)
	t.ActualTime = checkHours("actual_time", t.ActualTime, &check.Errors)

	if *t.ActualTime > *t.EstimatedTime*overrunWarnFactor {
		check.Warnings = append(check.Warnings, fmt.Sprintf(
			"significant overrun: actual %.2fh exceeds %.1fx the %.2fh estimate",
			*t.ActualTime, overrunWarnFactor, *t.EstimatedTime))
	}

	*t.EstimatedTime = Round2(*t.EstimatedTime)
	*t.ActualTime = Round2(*t.ActualTime)

	check.Valid = len(check.Errors) == 0
	return check
}

// checkHours coerces one hour field to a safe value, appending any error.
func checkHours(field string, v *float64, errs *[]string) *float64 {
	zero := 0.0
	if v == nil {
		*errs = append(*errs, fmt.Sprintf("%s is missing", field))
		return &zero
	}
	switch {
	case math.IsNaN(*v) || math.IsInf(*v, 0):
		*errs = append(*errs, fmt.Sprintf("%s is not a finite number", field))
		return &zero
	case *v < 0:
		*errs = append(*errs, fmt.Sprintf("%s is negative (%v)", field, *v))
		return &zero
	}
	return v
}

// BatchTimeReport aggregates the per-task checks of a full collection.
type BatchTimeReport struct {
	Checked      int         `json:"checked"`
	Passed       int         `json:"passed"`
	Failed       int         `json:"failed"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Results      []TimeCheck `json:"results"`
}

// CheckAllTaskTimes applies CheckTaskTimes to every task in the slice,
// repairing in place. It never short-circuits on the first failure.
func CheckAllTaskTimes(tasks []models.Task) BatchTimeReport {
	report := BatchTimeReport{Checked: len(tasks), Results: make([]TimeCheck, 0, len(tasks))}
	for i := range tasks {
		check := CheckTaskTimes(&tasks[i])
		if check.Valid {
			report.Passed++
		} else {
			report.Failed++
		}
		report.ErrorCount += len(check.Errors)
		report.WarningCount += len(check.Warnings)
		report.Results = append(report.Results, check)
	}
	return report
}

// TimeRepair records the before/after values of one repaired task for audit
// reporting.
type TimeRepair struct {
	TaskID            string   `json:"task_id"`
	Name              string   `json:"name"`
	OriginalEstimated *float64 `json:"original_estimated"`
	OriginalActual    *float64 `json:"original_actual"`
	RepairedEstimated float64  `json:"repaired_estimated"`
	RepairedActual    float64  `json:"repaired_actual"`
	Errors            []string `json:"errors"`
}

// RepairReport summarizes a repair pass over a collection.
type RepairReport struct {
	RepairedCount int          `json:"repaired_count"`
	Repairs       []TimeRepair `json:"repairs"`
}

// RepairTaskTimes runs the same traversal as CheckAllTaskTimes but records
// only the tasks that had at least one error, capturing original versus
// repaired values.
func RepairTaskTimes(tasks []models.Task) RepairReport {
	var report RepairReport
	for i := range tasks {
		origEst := cloneFloat(tasks[i].EstimatedTime)
		origAct := cloneFloat(tasks[i].ActualTime)
		check := CheckTaskTimes(&tasks[i])
		if check.Valid {
			continue
		}
		report.RepairedCount++
		report.Repairs = append(report.Repairs, TimeRepair{
			TaskID:            tasks[i].ID,
			Name:              tasks[i].Name,
			OriginalEstimated: origEst,
			OriginalActual:    origAct,
			RepairedEstimated: *tasks[i].EstimatedTime,
			RepairedActual:    *tasks[i].ActualTime,
			Errors:            check.Errors,
		})
	}
	return report
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
