// Package modelbuild is the Constraint Builder and Objective Builder
// (spec.md §4.4, §4.5): it translates an enumerated variable space into
// a 0/1 integer linear program using github.com/nextmv-io/sdk's MILP
// modeling API, the concrete stand-in for the "black-box 0/1 ILP
// solver" spec.md §1 treats as external.
package modelbuild

import (
	"github.com/nextmv-io/sdk/mip"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/timegrid"
	"github.com/univsched/timetable/internal/varspace"
)

// Built bundles the MILP model with the lookup needed to translate a
// solver solution back into scheduling decisions.
type Built struct {
	Model   mip.Model
	Vars    map[varspace.Key]mip.Bool
	DataSet *entities.DataSet
}

// Build emits the five constraint families of spec.md §4.4 plus the
// objective of spec.md §4.5 against the pruned variable space.
func Build(ds *entities.DataSet, space *varspace.Space) *Built {
	m := mip.NewModel()
	m.Objective().SetMaximize()

	vars := make(map[varspace.Key]mip.Bool, len(space.Keys))
	for _, key := range space.Keys {
		vars[key] = m.NewBool()
	}

	addAssignmentConstraints(m, ds, space, vars)
	addTeacherNonOverlapConstraints(m, ds, space, vars)
	addRoomNonOverlapConstraints(m, ds, space, vars)
	addPreferenceGatingConstraints(m, ds, space, vars)
	addCohortNonOverlapConstraints(m, ds, space, vars)
	addNoonBreakConstraints(m, ds, space, vars)
	addObjective(m, ds, space, vars)

	return &Built{Model: m, Vars: vars, DataSet: ds}
}

// (A) Exactly-one-assignment: every course is placed exactly once.
func addAssignmentConstraints(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	for _, course := range ds.OrderedCourses() {
		keys := space.ByCourse[course.Name]
		if len(keys) == 0 {
			continue // NoFeasibleVariables already reported by the enumerator
		}
		c := m.NewConstraint(mip.Equal, 1.0)
		for _, key := range keys {
			c.NewTerm(1.0, vars[key])
		}
	}
}

// (B) Teacher non-overlap: a teacher may occupy at most one (room,
// course) at any working hour. Availability is already a hard gate at
// enumeration time (spec.md §4.3 rule 5), so no variable exists for an
// unavailable slot; this constraint only needs to forbid overlap among
// the variables that do exist.
func addTeacherNonOverlapConstraints(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	type bucket struct {
		teacher string
		day     timegrid.Day
		hour    int
	}
	buckets := make(map[bucket][]varspace.Key)
	for _, key := range space.Keys {
		course := ds.Courses[key.Course]
		for _, h := range timegrid.CoveredHours(key.Start, course.Hours) {
			b := bucket{key.Teacher, key.Day, h}
			buckets[b] = append(buckets[b], key)
		}
	}
	for _, keys := range buckets {
		if len(keys) < 2 {
			continue
		}
		c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
		for _, key := range keys {
			c.NewTerm(1.0, vars[key])
		}
	}
}

// (C) Room non-overlap: a room may host at most one course at any
// working hour.
func addRoomNonOverlapConstraints(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	type bucket struct {
		room string
		day  timegrid.Day
		hour int
	}
	buckets := make(map[bucket][]varspace.Key)
	for _, key := range space.Keys {
		course := ds.Courses[key.Course]
		for _, h := range timegrid.CoveredHours(key.Start, course.Hours) {
			b := bucket{key.Room, key.Day, h}
			buckets[b] = append(buckets[b], key)
		}
	}
	for _, keys := range buckets {
		if len(keys) < 2 {
			continue
		}
		c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
		for _, key := range keys {
			c.NewTerm(1.0, vars[key])
		}
	}
}

// (D) Preference gating: a preference of 0 at the *starting* hour
// forbids the assignment outright (spec.md §4.4 family D). Non-start
// hours with preference 0 only affect the objective (§4.5).
func addPreferenceGatingConstraints(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	type bucket struct {
		teacher string
		day     timegrid.Day
		start   int
	}
	buckets := make(map[bucket][]varspace.Key)
	for _, key := range space.Keys {
		buckets[bucket{key.Teacher, key.Day, key.Start}] = append(buckets[bucket{key.Teacher, key.Day, key.Start}], key)
	}
	for b, keys := range buckets {
		teacher := ds.Teachers[b.teacher]
		if teacher.WillTeachStartingAt(b.day, b.start) {
			continue
		}
		c := m.NewConstraint(mip.Equal, 0.0)
		for _, key := range keys {
			c.NewTerm(1.0, vars[key])
		}
	}
}

// (E) Mandatory-cohort non-overlap: distinct mandatory courses sharing
// a course_year cannot occupy overlapping intervals on the same day.
// Collapsed per spec.md §9 to one constraint per (c1,c2,d,s1,s2) pair
// over the aggregated per-course-day-start sums, rather than the naive
// per-(teacher,room) quadruple product.
func addCohortNonOverlapConstraints(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	type courseDayStart struct {
		course string
		day    timegrid.Day
		start  int
	}
	sums := make(map[courseDayStart][]varspace.Key)
	for _, key := range space.Keys {
		cds := courseDayStart{key.Course, key.Day, key.Start}
		sums[cds] = append(sums[cds], key)
	}

	mandatory := mandatoryCourses(ds)
	for i, c1 := range mandatory {
		for _, c2 := range mandatory[i+1:] {
			if c1.CourseYear != c2.CourseYear {
				continue
			}
			for _, day := range timegrid.Days {
				for _, s1 := range timegrid.ValidStarts(c1.Hours) {
					keys1 := sums[courseDayStart{c1.Name, day, s1}]
					if len(keys1) == 0 {
						continue
					}
					for _, s2 := range timegrid.ValidStarts(c2.Hours) {
						if !overlaps(s1, c1.Hours, s2, c2.Hours) {
							continue
						}
						keys2 := sums[courseDayStart{c2.Name, day, s2}]
						if len(keys2) == 0 {
							continue
						}
						c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
						for _, key := range keys1 {
							c.NewTerm(1.0, vars[key])
						}
						for _, key := range keys2 {
							c.NewTerm(1.0, vars[key])
						}
					}
				}
			}
		}
	}
}

func overlaps(s1, h1, s2, h2 int) bool {
	return s1 <= s2+h2-1 && s2 <= s1+h1-1
}

func mandatoryCourses(ds *entities.DataSet) []*entities.Course {
	var out []*entities.Course
	for _, c := range ds.OrderedCourses() {
		if c.IsMandatory() {
			out = append(out, c)
		}
	}
	return out
}

// (F) Noon-break exclusion (defensive): redundant with enumeration
// rule 4, which already confines every start to one half-day and thus
// can never span the noon hour. Retained as an invariant barrier per
// spec.md §4.4 family F in case enumeration is ever loosened.
func addNoonBreakConstraints(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	type bucket struct {
		room string
		day  timegrid.Day
	}
	buckets := make(map[bucket][]varspace.Key)
	for _, key := range space.Keys {
		hours := ds.Courses[key.Course].Hours
		if timegrid.SpansNoon(key.Start, hours) {
			buckets[bucket{key.Room, key.Day}] = append(buckets[bucket{key.Room, key.Day}], key)
		}
	}
	for _, keys := range buckets {
		c := m.NewConstraint(mip.Equal, 0.0)
		for _, key := range keys {
			c.NewTerm(1.0, vars[key])
		}
	}
}

// addObjective assigns each variable the coefficient computed by
// Coefficient (spec.md §4.5). Build sets the objective to maximize.
func addObjective(m mip.Model, ds *entities.DataSet, space *varspace.Space, vars map[varspace.Key]mip.Bool) {
	for _, key := range space.Keys {
		w := Coefficient(ds, key)
		if w != 0 {
			m.Objective().NewTerm(float64(w), vars[key])
		}
	}
}

// Coefficient computes w(c,t,r,d,s) = sum of the teacher's preference
// scores across the hours the course would occupy (spec.md §4.5). The
// Reporter recomputes the same formula per-assignment (spec.md §4.7),
// so this is the single source of truth for both.
func Coefficient(ds *entities.DataSet, key varspace.Key) int {
	course := ds.Courses[key.Course]
	teacher := ds.Teachers[key.Teacher]
	return teacher.PreferenceScore(key.Day, key.Start, course.Hours)
}
