package modelbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/timegrid"
	"github.com/univsched/timetable/internal/varspace"
)

func fullAvailability() (out [5][entities.CalendarWidth]int) {
	for d := range out {
		for h := range out[d] {
			out[d][h] = 1
		}
	}
	return out
}

func uniformPreferences(score int) (out [5][entities.CalendarWidth]int) {
	for d := range out {
		for h := range out[d] {
			out[d][h] = score
		}
	}
	return out
}

func smallDataSet() *entities.DataSet {
	ds := &entities.DataSet{
		Courses:  make(map[string]*entities.Course),
		Rooms:    make(map[string]*entities.Room),
		Teachers: make(map[string]*entities.Teacher),
	}
	ds.Teachers["alice"] = &entities.Teacher{
		Name: "alice", Availability: fullAvailability(), Preferences: uniformPreferences(2),
	}
	ds.TeacherOrder = []string{"alice"}
	ds.Rooms["r1"] = &entities.Room{Name: "r1", Capacity: 30}
	ds.RoomOrder = []string{"r1"}
	ds.Courses["c1"] = &entities.Course{
		Name: "c1", Hours: 2, Students: 10, CourseYear: 1,
		EligibleTeachers: map[string]bool{"alice": true},
	}
	ds.CourseOrder = []string{"c1"}
	return ds
}

func TestBuildCreatesOneVariablePerEnumeratedKey(t *testing.T) {
	ds := smallDataSet()
	space, err := varspace.Enumerate(ds)
	require.NoError(t, err)
	require.NotEmpty(t, space.Keys)

	built := Build(ds, space)
	assert.Equal(t, len(space.Keys), len(built.Vars))
	for _, key := range space.Keys {
		_, ok := built.Vars[key]
		assert.True(t, ok, "missing variable for key %+v", key)
	}
}

func TestCoefficientSumsPreferenceAcrossCoveredHours(t *testing.T) {
	ds := smallDataSet()
	key := varspace.Key{Course: "c1", Teacher: "alice", Room: "r1", Day: timegrid.Day(0), Start: 9}
	assert.Equal(t, 4, Coefficient(ds, key)) // 2 hours * preference 2
}

func TestCoefficientZeroWhenTeacherHasNoPreferenceThere(t *testing.T) {
	ds := smallDataSet()
	ds.Teachers["alice"].Preferences = uniformPreferences(0)
	key := varspace.Key{Course: "c1", Teacher: "alice", Room: "r1", Day: timegrid.Day(0), Start: 9}
	assert.Equal(t, 0, Coefficient(ds, key))
}

func TestOverlapsDetectsSharedHours(t *testing.T) {
	assert.True(t, overlaps(9, 2, 10, 2))  // [9,11) vs [10,12) overlap at hour 10
	assert.False(t, overlaps(9, 2, 11, 2)) // [9,11) vs [11,13) do not overlap
}
