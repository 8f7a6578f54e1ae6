// Package exportsvc renders attendance reports as spreadsheets.
package exportsvc

import (
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/user"
)

// Sheet names
const (
	SummarySheet = "Summary"
	MonthlySheet = "Monthly"
	RecordsSheet = "Records"
)

var (
	monthlyHeader = []interface{}{"Month", "Present", "Absent", "Late", "Excused", "Total", "Percentage"}
	recordsHeader = []interface{}{"Date", "Class", "Section", "Status", "Notes"}
)

// StudentReport is the attendance of a student over a period.
type StudentReport struct {
	Student  user.User
	From, To string // YYYY-MM-DD, empty when unbounded
	Summary  attendance.Summary
	Monthly  []attendance.MonthlyReport
	Records  []attendance.Record // most recent first
	Classes  map[string]ClassInfo
}

type ClassInfo struct {
	Name    string
	Section string
}

// WriteStudentReport writes the report as an XLSX workbook with a summary, a monthly and a records sheet.
func WriteStudentReport(w io.Writer, rpt StudentReport) error {
	f := excelize.NewFile()
	defer f.Close()

	for _, name := range []string{SummarySheet, MonthlySheet, RecordsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "creating %s sheet", name)
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "deleting default sheet")
	}
	idx, err := f.GetSheetIndex(SummarySheet)
	if err != nil {
		return errors.Wrap(err, "getting summary sheet")
	}
	f.SetActiveSheet(idx)

	sw := sheetWriter{f: f}
	sw.summary(rpt)
	sw.monthly(rpt.Monthly)
	sw.records(rpt)
	if sw.err != nil {
		return sw.err
	}

	return errors.Wrap(f.Write(w), "writing workbook")
}

// sheetWriter stops writing at the first error.
type sheetWriter struct {
	f   *excelize.File
	err error
}

func (sw *sheetWriter) row(sheet string, n int, values ...interface{}) {
	if sw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		sw.err = errors.Wrap(err, "getting cell name")
		return
	}
	if err = sw.f.SetSheetRow(sheet, cell, &values); err != nil {
		sw.err = errors.Wrapf(err, "writing %s!%s", sheet, cell)
	}
}

func (sw *sheetWriter) summary(rpt StudentReport) {
	rows := [][]interface{}{
		{"Student", rpt.Student.Name},
		{"Student ID", rpt.Student.ID},
		{"From", rpt.From},
		{"To", rpt.To},
		{"Total classes", rpt.Summary.TotalClasses},
		{"Present", rpt.Summary.Present},
		{"Absent", rpt.Summary.Absent},
		{"Late", rpt.Summary.Late},
		{"Excused", rpt.Summary.Excused},
		{"Percentage", rpt.Summary.Percentage},
	}
	if rpt.Student.Student != nil {
		rows = append(rows, []interface{}{"Student No", rpt.Student.Student.StudentNo})
	}
	for i, r := range rows {
		sw.row(SummarySheet, i+1, r...)
	}
}

func (sw *sheetWriter) monthly(reports []attendance.MonthlyReport) {
	sw.row(MonthlySheet, 1, monthlyHeader...)
	for i, m := range reports {
		sw.row(MonthlySheet, i+2, m.Month, m.Present, m.Absent, m.Late, m.Excused, m.Total, m.Percentage)
	}
}

func (sw *sheetWriter) records(rpt StudentReport) {
	sw.row(RecordsSheet, 1, recordsHeader...)
	n := 2
	for _, rec := range rpt.Records {
		entry, ok := rec.Entry(rpt.Student.ID)
		if !ok {
			continue
		}
		cls := rpt.Classes[rec.ClassID]
		sw.row(RecordsSheet, n, rec.Date, cls.Name, cls.Section, string(entry.Status), entry.Notes)
		n++
	}
}
