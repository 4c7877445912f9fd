// Package report is the Reporter (spec.md §4.7): it projects a solve
// result into a deterministically ordered, human-readable schedule and
// prints the objective breakdown the same way the teacher's own
// report writer renders a placement table.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/univsched/timetable/internal/solve"
	"github.com/univsched/timetable/internal/timegrid"
)

// Row is one printable line of the rendered schedule.
type Row struct {
	Day        timegrid.Day
	Start      int
	Hours      int
	Course     string
	Teacher    string
	Room       string
	Preference int
}

// Build sorts a solve.Result's assignments by (day, start, room) per
// spec.md §4.7. Each row's preference contribution is copied from the
// assignment, where solve computed it with modelbuild.Coefficient.
func Build(result *solve.Result) []Row {
	rows := make([]Row, 0, len(result.Assignments))
	for _, a := range result.Assignments {
		rows = append(rows, Row{
			Day:        a.Day,
			Start:      a.Start,
			Hours:      a.Hours,
			Course:     a.Course,
			Teacher:    a.Teacher,
			Room:       a.Room,
			Preference: a.Preference,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Day != rows[j].Day {
			return rows[i].Day < rows[j].Day
		}
		if rows[i].Start != rows[j].Start {
			return rows[i].Start < rows[j].Start
		}
		return rows[i].Room < rows[j].Room
	})
	return rows
}

// Write renders the schedule as an aligned table followed by the
// solver status and objective total, to w.
func Write(w io.Writer, result *solve.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tTIME\tCOURSE\tTEACHER\tROOM\tPREFERENCE")
	for _, row := range Build(result) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			dayName(row.Day), timeRange(row), row.Course, row.Teacher, row.Room, row.Preference)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nstatus: %s\nobjective: %.0f\nrun: %s\n", result.Status, result.Objective, result.RunID)
	return nil
}

// timeRange renders a row's start and end hour as "09:00-11:00" per
// spec.md §4.7.
func timeRange(row Row) string {
	return fmt.Sprintf("%02d:00-%02d:00", row.Start, row.Start+row.Hours)
}

func dayName(d timegrid.Day) string {
	names := [...]string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	if int(d) < 0 || int(d) >= len(names) {
		return fmt.Sprintf("day%d", d)
	}
	return names[d]
}

// ByCourse indexes a report back by course name. No CLI command uses
// it; the CLI's views are the table and the per-teacher JSON.
func ByCourse(rows []Row) map[string]Row {
	out := make(map[string]Row, len(rows))
	for _, row := range rows {
		out[row.Course] = row
	}
	return out
}

// ByTeacher groups a report's rows by teacher, used by the
// "byinstructor"-style view (spec.md §6).
func ByTeacher(rows []Row) map[string][]Row {
	out := make(map[string][]Row)
	for _, row := range rows {
		out[row.Teacher] = append(out[row.Teacher], row)
	}
	return out
}
