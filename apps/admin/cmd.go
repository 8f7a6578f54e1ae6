package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/mahudhurio/apps/shared"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/class"
	"github.com/trezcool/mahudhurio/core/user"
	exportsvc "github.com/trezcool/mahudhurio/services/export"
)

var (
	// mockable
	isTerminalFunc = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	createFileFunc = func(name string) (io.WriteCloser, error) { return os.Create(name) }

	errHelp        = errors.New("help provided")
	errNotAStudent = errors.New("user is not a student")
)

type commandLine struct {
	app *shared.App
	out io.Writer
}

func newCommandLine(app *shared.App, out io.Writer) *commandLine {
	return &commandLine{app: app, out: out}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  summary -student ID                                 - overall attendance of a student")
	fmt.Fprintln(cli.out, "  classrate [-class ID]                               - attendance rate of one or every class")
	fmt.Fprintln(cli.out, "  monthly -student ID -from DATE -to DATE             - monthly breakdown of a student")
	fmt.Fprintln(cli.out, "  export -student ID -from DATE -to DATE -out FILE    - XLSX report of a student")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	summaryCmd := cli.flagSet("summary")
	summaryStudent := summaryCmd.String("student", "", "The student's ID.")

	classRateCmd := cli.flagSet("classrate")
	classRateClass := classRateCmd.String("class", "", "The class ID. Every class when empty.")

	monthlyCmd := cli.flagSet("monthly")
	monthlyStudent := monthlyCmd.String("student", "", "The student's ID.")
	monthlyFrom := monthlyCmd.String("from", "", "First day, YYYY-MM-DD. Open when empty.")
	monthlyTo := monthlyCmd.String("to", "", "Last day, YYYY-MM-DD. Open when empty.")

	exportCmd := cli.flagSet("export")
	exportStudent := exportCmd.String("student", "", "The student's ID.")
	exportFrom := exportCmd.String("from", "", "First day, YYYY-MM-DD. Open when empty.")
	exportTo := exportCmd.String("to", "", "Last day, YYYY-MM-DD. Open when empty.")
	exportOut := exportCmd.String("out", "", "The XLSX file to write.")

	ctx := context.Background()

	switch args[1] {
	case "summary":
		if err := summaryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *summaryStudent == "" {
			summaryCmd.Usage()
			return errHelp
		}
		return cli.summary(ctx, *summaryStudent)
	case "classrate":
		if err := classRateCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.classRate(ctx, *classRateClass)
	case "monthly":
		if err := monthlyCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *monthlyStudent == "" {
			monthlyCmd.Usage()
			return errHelp
		}
		return cli.monthly(ctx, *monthlyStudent, *monthlyFrom, *monthlyTo)
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportStudent == "" || *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, *exportStudent, *exportFrom, *exportTo, *exportOut)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) summary(ctx context.Context, studentID string) error {
	st, err := cli.student(ctx, studentID)
	if err != nil {
		return err
	}
	sum, err := cli.app.AttendanceSvc.Summary(ctx, st.ID)
	if err != nil {
		return err
	}
	if !isTerminalFunc() {
		return cli.json(sum)
	}
	return cli.table(
		[]string{"STUDENT", "TOTAL", "PRESENT", "ABSENT", "LATE", "EXCUSED", "PERCENTAGE"},
		[]interface{}{st.Name, sum.TotalClasses, sum.Present, sum.Absent, sum.Late, sum.Excused, percent(sum.Percentage)},
	)
}

func (cli *commandLine) classRate(ctx context.Context, classID string) error {
	var classes []class.Class
	if classID != "" {
		cls, err := cli.app.ClassSvc.Get(ctx, classID)
		if err != nil {
			return err
		}
		classes = []class.Class{cls}
	} else {
		var err error
		if classes, err = cli.app.ClassSvc.Query(ctx, nil); err != nil {
			return err
		}
	}
	rates, err := cli.app.AttendanceSvc.ClassRates(ctx, class.IDs(classes))
	if err != nil {
		return err
	}
	if !isTerminalFunc() {
		return cli.json(rates)
	}
	rows := make([][]interface{}, 0, len(rates))
	for i, r := range rates {
		rows = append(rows, []interface{}{r.ClassID, classes[i].Name, classes[i].Section, r.TotalSessions, percent(r.AttendanceRate)})
	}
	return cli.table([]string{"ID", "CLASS", "SECTION", "SESSIONS", "RATE"}, rows...)
}

func (cli *commandLine) monthly(ctx context.Context, studentID, fromStr, toStr string) error {
	st, err := cli.student(ctx, studentID)
	if err != nil {
		return err
	}
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return err
	}
	reports, err := cli.app.AttendanceSvc.Monthly(ctx, st.ID, from, to)
	if err != nil {
		return err
	}
	if !isTerminalFunc() {
		return cli.json(reports)
	}
	rows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []interface{}{r.Month, r.Present, r.Absent, r.Late, r.Excused, r.Total, percent(r.Percentage)})
	}
	return cli.table([]string{"MONTH", "PRESENT", "ABSENT", "LATE", "EXCUSED", "TOTAL", "PERCENTAGE"}, rows...)
}

func (cli *commandLine) export(ctx context.Context, studentID, fromStr, toStr, out string) error {
	st, err := cli.student(ctx, studentID)
	if err != nil {
		return err
	}
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return err
	}
	rpt, err := exportsvc.NewStudentReport(ctx, cli.app.AttendanceSvc, cli.app.ClassSvc, st, from, to)
	if err != nil {
		return err
	}

	f, err := createFileFunc(out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = exportsvc.WriteStudentReport(f, rpt); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "%d records of %s written to %s\n", len(rpt.Records), st.Name, out)
	return nil
}

func (cli *commandLine) student(ctx context.Context, id string) (user.User, error) {
	usr, err := cli.app.UserSvc.GetByID(ctx, core.CleanString(id))
	if err != nil {
		return user.User{}, err
	}
	if !usr.IsStudent() {
		return user.User{}, errNotAStudent
	}
	return usr, nil
}

func (cli *commandLine) json(v interface{}) error {
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (cli *commandLine) table(header []string, rows ...[]interface{}) error {
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// parsePeriod parses the optional bounds of a date range; an empty bound stays open.
func parsePeriod(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr != "" {
		if from, err = core.ParseDate(fromStr); err != nil {
			return from, to, errors.Wrap(err, "invalid -from")
		}
	}
	if toStr != "" {
		if to, err = core.ParseDate(toStr); err != nil {
			return from, to, errors.Wrap(err, "invalid -to")
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, errors.New("-to must not be before -from")
	}
	return from, to, nil
}

func percent(p int) string {
	return fmt.Sprintf("%d%%", p)
}
