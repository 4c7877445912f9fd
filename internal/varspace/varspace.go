// Package varspace is the Variable Enumerator (spec.md §4.3): it
// produces the sparse set of decision variables keyed by
// (course, teacher, room, day, start-hour), pruned so that only
// combinations that could possibly be feasible exist at all.
package varspace

import (
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/schederr"
	"github.com/univsched/timetable/internal/timegrid"
)

// Key identifies one decision variable x[c,t,r,d,s].
type Key struct {
	Course  string
	Teacher string
	Room    string
	Day     timegrid.Day
	Start   int
}

// Rejection tallies, per course, why candidate combinations were
// pruned. This is additive diagnostics (SPEC_FULL.md §4.3), not a new
// constraint: it never changes which variables are enumerated.
type Rejection struct {
	NoEligibleTeacher int
	NoRoomCapacity    int
	NoHalfDaySlot     int
	TeacherUnavailable int
}

// Space is the enumerated variable set plus per-course diagnostics.
type Space struct {
	Keys        []Key
	ByCourse    map[string][]Key
	Diagnostics map[string]*Rejection
}

// Enumerate builds the variable space for a DataSet. It returns a
// single aggregated error (via go-multierror) naming every course with
// zero feasible variables, per spec.md §7's requirement that
// NoFeasibleVariables be "aggregated across all courses so the report
// names every impossible course."
func Enumerate(ds *entities.DataSet) (*Space, error) {
	space := &Space{
		ByCourse:    make(map[string][]Key),
		Diagnostics: make(map[string]*Rejection),
	}

	var errs *multierror.Error
	for _, course := range ds.OrderedCourses() {
		rej := &Rejection{}
		space.Diagnostics[course.Name] = rej

		starts := timegrid.ValidStarts(course.Hours)
		if len(starts) == 0 {
			rej.NoHalfDaySlot++
			errs = multierror.Append(errs, schederr.NoFeasibleVariables(course.Name))
			continue
		}

		names := eligibleTeacherNames(course)
		if len(names) == 0 {
			rej.NoEligibleTeacher++
		}

		before := len(space.Keys)
		for _, teacherName := range names {
			teacher := ds.Teachers[teacherName]
			for _, room := range ds.OrderedRooms() {
				if room.Capacity < course.Students {
					rej.NoRoomCapacity++
					continue
				}
				for _, day := range timegrid.Days {
					for _, start := range starts {
						if !coveredByAvailability(teacher, day, start, course.Hours) {
							rej.TeacherUnavailable++
							continue
						}
						key := Key{Course: course.Name, Teacher: teacherName, Room: room.Name, Day: day, Start: start}
						space.Keys = append(space.Keys, key)
						space.ByCourse[course.Name] = append(space.ByCourse[course.Name], key)
					}
				}
			}
		}
		if len(space.Keys) == before {
			errs = multierror.Append(errs, schederr.NoFeasibleVariables(course.Name))
		}
	}

	return space, errs.ErrorOrNil()
}

// coveredByAvailability implements spec.md §4.3 rule 5: every hour the
// course would occupy must find the teacher available.
func coveredByAvailability(teacher *entities.Teacher, day timegrid.Day, start, hours int) bool {
	for _, h := range timegrid.CoveredHours(start, hours) {
		if !teacher.IsAvailable(day, h) {
			return false
		}
	}
	return true
}

func eligibleTeacherNames(course *entities.Course) []string {
	names := make([]string, 0, len(course.EligibleTeachers))
	for name := range course.EligibleTeachers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
