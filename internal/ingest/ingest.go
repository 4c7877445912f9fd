// Package ingest is the Input Normalizer (spec.md §4.2): it consumes
// the three external CSV tables and produces validated, strongly-typed
// entities.DataSet. Field semantics are canonical regardless of
// physical encoding (spec.md §6).
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/schederr"
)

var validate = validator.New()

type rawCourseRow struct {
	Name             string `validate:"required"`
	Hours            int    `validate:"gte=1"`
	Students         int    `validate:"gte=0"`
	PossibleTeachers string `validate:"required"`
	IsElective       int    `validate:"oneof=0 1"`
	CourseYear       int
}

type rawRoomRow struct {
	Name       string `validate:"required"`
	Capacity   int    `validate:"gte=1"`
	Facilities string
}

type rawTeacherRow struct {
	Name         string `validate:"required"`
	Title        string
	Availability string `validate:"required"`
	Preferences  string `validate:"required"`
}

// Tables bundles the three raw CSV readers the CLI opens from their
// configured paths (spec.md §6).
type Tables struct {
	Courses  io.Reader
	Rooms    io.Reader
	Teachers io.Reader
}

// Normalize parses the three tables and returns a validated DataSet
// (spec.md §4.2, §7). Tables are processed in the order teachers,
// rooms, courses; the first table with any invalid row stops the run,
// and its error aggregates every offending row of that table. Teacher
// parsing happens first so course-to-teacher references can be
// resolved against a complete teacher set.
func Normalize(tables Tables) (*entities.DataSet, error) {
	ds := &entities.DataSet{
		Courses:  make(map[string]*entities.Course),
		Rooms:    make(map[string]*entities.Room),
		Teachers: make(map[string]*entities.Teacher),
	}

	teacherRows, err := readCSV(tables.Teachers)
	if err != nil {
		return nil, schederr.Wrap(err, schederr.CodeInputParseError, schederr.ExitSolverOrInput, "reading teachers table")
	}
	if err := normalizeTeachers(ds, teacherRows); err != nil {
		return nil, err
	}

	roomRows, err := readCSV(tables.Rooms)
	if err != nil {
		return nil, schederr.Wrap(err, schederr.CodeInputParseError, schederr.ExitSolverOrInput, "reading rooms table")
	}
	if err := normalizeRooms(ds, roomRows); err != nil {
		return nil, err
	}

	courseRows, err := readCSV(tables.Courses)
	if err != nil {
		return nil, schederr.Wrap(err, schederr.CodeInputParseError, schederr.ExitSolverOrInput, "reading courses table")
	}
	if err := normalizeCourses(ds, courseRows); err != nil {
		return nil, err
	}

	return ds, nil
}

// readCSV reads a header row plus data rows, returning the data rows
// as a slice of column->value maps keyed by the header names.
func readCSV(r io.Reader) ([]map[string]string, error) {
	if r == nil {
		return nil, nil
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	header := records[0]
	var rows []map[string]string
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func normalizeTeachers(ds *entities.DataSet, rows []map[string]string) error {
	var errs *multierror.Error
	for _, row := range rows {
		raw := rawTeacherRow{
			Name:         row["name"],
			Title:        row["title"],
			Availability: row["availability"],
			Preferences:  row["preferences"],
		}
		if err := validate.Struct(raw); err != nil {
			errs = multierror.Append(errs, schederr.InputParseError("teacher %q: %v", raw.Name, err))
			continue
		}
		if _, dup := ds.Teachers[raw.Name]; dup {
			errs = multierror.Append(errs, schederr.DuplicateEntity("teacher", raw.Name))
			continue
		}

		availability, err := parseCalendarMatrix("teacher "+raw.Name+" availability", raw.Availability)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		preferences, err := parseCalendarMatrix("teacher "+raw.Name+" preferences", raw.Preferences)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		ds.Teachers[raw.Name] = &entities.Teacher{
			Name:         raw.Name,
			Title:        raw.Title,
			Availability: availability,
			Preferences:  preferences,
		}
		ds.TeacherOrder = append(ds.TeacherOrder, raw.Name)
	}
	return errs.ErrorOrNil()
}

func normalizeRooms(ds *entities.DataSet, rows []map[string]string) error {
	var errs *multierror.Error
	for _, row := range rows {
		capacity, err := strconv.Atoi(strings.TrimSpace(row["capacity"]))
		if err != nil || capacity < 0 {
			errs = multierror.Append(errs, schederr.InputParseError("room %q: malformed capacity %q", row["name"], row["capacity"]))
			continue
		}
		raw := rawRoomRow{Name: row["name"], Capacity: capacity, Facilities: row["facilities"]}
		if err := validate.Struct(raw); err != nil {
			errs = multierror.Append(errs, schederr.InputParseError("room %q: %v", raw.Name, err))
			continue
		}
		if _, dup := ds.Rooms[raw.Name]; dup {
			errs = multierror.Append(errs, schederr.DuplicateEntity("room", raw.Name))
			continue
		}
		ds.Rooms[raw.Name] = &entities.Room{Name: raw.Name, Capacity: raw.Capacity, Facilities: raw.Facilities}
		ds.RoomOrder = append(ds.RoomOrder, raw.Name)
	}
	return errs.ErrorOrNil()
}

func normalizeCourses(ds *entities.DataSet, rows []map[string]string) error {
	var errs *multierror.Error
	for _, row := range rows {
		hours, hoursErr := strconv.Atoi(strings.TrimSpace(row["hours"]))
		students, studentsErr := strconv.Atoi(strings.TrimSpace(row["students"]))
		isElective, electiveErr := strconv.Atoi(strings.TrimSpace(row["is_elective"]))
		courseYear, yearErr := strconv.Atoi(strings.TrimSpace(row["course_year"]))
		if hoursErr != nil || studentsErr != nil || electiveErr != nil || yearErr != nil || hours < 1 || students < 0 {
			errs = multierror.Append(errs, schederr.InputParseError("course %q: malformed numeric fields", row["name"]))
			continue
		}

		raw := rawCourseRow{
			Name:             row["name"],
			Hours:            hours,
			Students:         students,
			PossibleTeachers: row["possible_teachers"],
			IsElective:       isElective,
			CourseYear:       courseYear,
		}
		if err := validate.Struct(raw); err != nil {
			errs = multierror.Append(errs, schederr.InputParseError("course %q: %v", raw.Name, err))
			continue
		}
		if _, dup := ds.Courses[raw.Name]; dup {
			errs = multierror.Append(errs, schederr.DuplicateEntity("course", raw.Name))
			continue
		}

		eligible := make(map[string]bool)
		for _, name := range strings.Split(raw.PossibleTeachers, ";") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, present := ds.Teachers[name]; !present {
				errs = multierror.Append(errs, schederr.UnknownTeacherReferenced(raw.Name, name))
				continue
			}
			eligible[name] = true
		}
		if len(eligible) == 0 {
			errs = multierror.Append(errs, schederr.InputParseError("course %q: no valid eligible teachers", raw.Name))
			continue
		}

		code := strings.TrimSpace(row["code"])
		if code == "" {
			code = raw.Name
		}
		ds.Courses[raw.Name] = &entities.Course{
			Name:             raw.Name,
			Code:             code,
			Hours:            raw.Hours,
			Students:         raw.Students,
			EligibleTeachers: eligible,
			IsElective:       raw.IsElective == 1,
			CourseYear:       raw.CourseYear,
		}
		ds.CourseOrder = append(ds.CourseOrder, raw.Name)
	}
	return errs.ErrorOrNil()
}
