package main

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/coursehub/backend/core/analytics"
)

const (
	summarySheet  = "Summary"
	progressSheet = "Progress"
)

// report writes a course's analytics and per-student progress to an XLSX workbook.
func (cli *commandLine) report(courseID, out string) error {
	ctx := cli.ctx()
	stats, err := cli.analyticsSvc.CourseAnalytics(ctx, courseID)
	if err != nil {
		return err
	}
	progress, err := cli.analyticsSvc.StudentProgress(ctx, analytics.ProgressFilter{CourseID: courseID})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating style")
	}

	if err = f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return errors.Wrap(err, "naming summary sheet")
	}
	summary := [][]interface{}{
		{"Course", stats.CourseTitle},
		{"Course ID", stats.CourseID},
		{"Students", stats.TotalStudents},
		{"Assignments", stats.TotalAssignments},
		{"Submissions", stats.TotalSubmissions},
		{"Graded submissions", stats.GradedSubmissions},
		{"Average grade", stats.AverageGrade},
		{"Completion rate (%)", stats.CompletionRate},
	}
	for i, row := range summary {
		if err = setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err = f.SetColStyle(summarySheet, "A", bold); err != nil {
		return errors.Wrap(err, "styling summary")
	}

	if _, err = f.NewSheet(progressSheet); err != nil {
		return errors.Wrap(err, "creating progress sheet")
	}
	header := []interface{}{"Student", "Email", "Submitted", "Graded", "Assignments", "Average grade (%)", "Submission rate (%)"}
	if len(progress) > 0 {
		for _, a := range progress[0].Assignments {
			header = append(header, a.Title)
		}
	}
	if err = setRow(f, progressSheet, 1, header); err != nil {
		return err
	}
	if err = f.SetRowStyle(progressSheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling progress header")
	}
	for i, p := range progress {
		row := []interface{}{p.StudentName, p.StudentEmail, p.SubmittedCount, p.GradedCount, p.TotalAssignments, p.AverageGrade, p.SubmissionRate}
		for _, a := range p.Assignments {
			switch {
			case a.Grade.Valid:
				row = append(row, a.Grade.Float64)
			case a.Submitted:
				row = append(row, "submitted")
			default:
				row = append(row, "")
			}
		}
		if err = setRow(f, progressSheet, i+2, row); err != nil {
			return err
		}
	}

	return errors.Wrapf(f.SaveAs(out), "saving %s", out)
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return errors.Wrap(err, "computing cell name")
	}
	return errors.Wrapf(f.SetSheetRow(sheet, cell, &values), "writing %s row %d", sheet, rowNum)
}
