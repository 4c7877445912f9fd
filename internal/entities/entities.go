// Package entities holds the strongly-typed, immutable domain objects
// produced by the Input Normalizer (spec.md §3, §4.2): Courses, Rooms,
// and Teachers, shaped to the weekly timegrid.
package entities

import "github.com/univsched/timetable/internal/timegrid"

// Course is a university course awaiting a teacher, room, day, and
// start hour.
type Course struct {
	Name             string
	Code             string // opaque alias; defaults to Name when absent
	Hours            int
	Students         int
	EligibleTeachers map[string]bool
	IsElective       bool
	CourseYear       int
}

// IsMandatory reports whether this course participates in the
// same-year-mandatory non-overlap family (spec.md §4.4 family E).
func (c *Course) IsMandatory() bool {
	return !c.IsElective
}

// Room is a physical classroom.
type Room struct {
	Name       string
	Capacity   int
	Facilities string // opaque; not read by the scheduling core or the Reporter
}

// CalendarWidth is the canonical width of an Availability/Preferences
// row: one column per hour 9..16 (hour_index = hour-9), including the
// unused noon column at index 3 (spec.md §4.1, §9).
const CalendarWidth = 8

// Teacher is a course instructor with a weekly availability gate and a
// weekly preference score.
type Teacher struct {
	Name         string
	Title        string
	Availability [5][CalendarWidth]int // 1 = may teach, indexed by day, hour_index
	Preferences  [5][CalendarWidth]int // preference score, 0 = hard "will not teach"
}

// IsAvailable reports whether t may teach at the given day/hour.
// hour_index 3 (noon) must never be read by callers (spec.md §4.1).
func (t *Teacher) IsAvailable(day timegrid.Day, hour int) bool {
	idx := timegrid.HourIndex(hour)
	return t.Availability[day][idx] == 1
}

// PreferenceAt returns the raw preference score at a day/hour. Callers
// must never query hour_index 3 (noon).
func (t *Teacher) PreferenceAt(day timegrid.Day, hour int) int {
	idx := timegrid.HourIndex(hour)
	return t.Preferences[day][idx]
}

// WillTeachStartingAt reports whether a preference of 0 at the
// *starting* hour forbids this assignment outright (spec.md §4.4
// family D, §4.5's asymmetry).
func (t *Teacher) WillTeachStartingAt(day timegrid.Day, startHour int) bool {
	return t.PreferenceAt(day, startHour) > 0
}

// PreferenceScore sums the teacher's preference across every hour a
// course starting at startHour would occupy, skipping the noon hour
// entirely per the fixed convention (spec.md §4.5, §9).
func (t *Teacher) PreferenceScore(day timegrid.Day, startHour, hours int) int {
	total := 0
	for _, h := range timegrid.CoveredHours(startHour, hours) {
		idx, skip := timegrid.SlotIndex(h)
		if skip {
			continue
		}
		total += t.Preferences[day][idx]
	}
	return total
}

// DataSet is the full normalized input: every course, room, and
// teacher keyed by their unique primary key (name).
type DataSet struct {
	Courses  map[string]*Course
	Rooms    map[string]*Room
	Teachers map[string]*Teacher

	// CourseOrder and friends preserve input order for deterministic
	// iteration and reporting, since Go map iteration is randomized.
	CourseOrder  []string
	RoomOrder    []string
	TeacherOrder []string
}

// OrderedCourses returns courses in input order.
func (d *DataSet) OrderedCourses() []*Course {
	out := make([]*Course, 0, len(d.CourseOrder))
	for _, name := range d.CourseOrder {
		out = append(out, d.Courses[name])
	}
	return out
}

// OrderedRooms returns rooms in input order.
func (d *DataSet) OrderedRooms() []*Room {
	out := make([]*Room, 0, len(d.RoomOrder))
	for _, name := range d.RoomOrder {
		out = append(out, d.Rooms[name])
	}
	return out
}

// OrderedTeachers returns teachers in input order.
func (d *DataSet) OrderedTeachers() []*Teacher {
	out := make([]*Teacher, 0, len(d.TeacherOrder))
	for _, name := range d.TeacherOrder {
		out = append(out, d.Teachers[name])
	}
	return out
}
