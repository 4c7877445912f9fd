package report

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/univsched/timetable/internal/solve"
)

// WriteJSON renders a solve.Result as one hand-formatted JSON object
// keyed by teacher name, each holding that teacher's placements as
// [course, room, day, time-range] quadruples sorted by day then start
// hour, where time-range is "start:00-end:00" per spec.md §4.7.
// Written by hand rather than through encoding/json.Marshal so the
// output stays readably aligned, the same tradeoff the teacher's own
// schedule writer makes for its placement table.
func WriteJSON(w io.Writer, result *solve.Result) error {
	byTeacher := ByTeacher(Build(result))

	teacherNames := make([]string, 0, len(byTeacher))
	for name := range byTeacher {
		teacherNames = append(teacherNames, name)
	}
	sort.Strings(teacherNames)

	maxCourse, maxRoom := 0, 0
	for _, rows := range byTeacher {
		for _, row := range rows {
			if len(row.Course) > maxCourse {
				maxCourse = len(row.Course)
			}
			if len(row.Room) > maxRoom {
				maxRoom = len(row.Room)
			}
		}
	}
	const timeWidth = len(`"00:00-00:00"`)

	buf := new(bytes.Buffer)
	fmt.Fprintf(buf, "{\n")
	for n, name := range teacherNames {
		rows := byTeacher[name]
		fmt.Fprintf(buf, "    %q: [\n", name)
		for rn, row := range rows {
			sep := ","
			if rn == len(rows)-1 {
				sep = ""
			}
			fmt.Fprintf(buf, "        [%-*q, %-*q, %q, %-*q]%s\n",
				maxCourse+2, row.Course, maxRoom+2, row.Room, dayName(row.Day), timeWidth, timeRange(row), sep)
		}
		closeSep := ","
		if n == len(teacherNames)-1 {
			closeSep = ""
		}
		fmt.Fprintf(buf, "    ]%s\n", closeSep)
	}
	fmt.Fprintf(buf, "}\n")

	_, err := buf.WriteTo(w)
	return err
}
