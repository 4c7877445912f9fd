package solve

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/ingest"
	"github.com/univsched/timetable/internal/schederr"
	"github.com/univsched/timetable/internal/timegrid"
	"github.com/univsched/timetable/internal/varspace"
)

func TestStatusExitCodeMapping(t *testing.T) {
	assert.Equal(t, schederr.ExitOK, StatusOptimal.ExitCode())
	assert.Equal(t, schederr.ExitOK, StatusFeasible.ExitCode())
	assert.Equal(t, schederr.ExitInfeasible, StatusInfeasible.ExitCode())
	assert.Equal(t, schederr.ExitSolverOrInput, StatusSolverError.ExitCode())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "feasible", StatusFeasible.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "solver_error", StatusSolverError.String())
}

func TestDefaultOptionsIsBounded(t *testing.T) {
	opts := DefaultOptions()
	assert.Greater(t, opts.MaxDuration, time.Duration(0))
}

// openTestdata builds a DataSet from the fixtures under testdata/: two
// same-year mandatory courses (algorithms, databases) plus one
// elective (seminar), with staggered teacher availability and
// preferences, exercising a real Build+Solve round trip end to end.
func openTestdata(t *testing.T) *entities.DataSet {
	t.Helper()

	courses, err := os.Open("../../testdata/courses.csv")
	require.NoError(t, err)
	defer courses.Close()
	rooms, err := os.Open("../../testdata/rooms.csv")
	require.NoError(t, err)
	defer rooms.Close()
	teachers, err := os.Open("../../testdata/teachers.csv")
	require.NoError(t, err)
	defer teachers.Close()

	ds, err := ingest.Normalize(ingest.Tables{Courses: courses, Rooms: rooms, Teachers: teachers})
	require.NoError(t, err)
	return ds
}

// TestRunSolvesFixtureToAFeasibleNonOverlappingSchedule exercises the
// full pipeline (Normalizer -> Variable Enumerator -> Constraint/
// Objective Builder -> Solver Driver) against a real HiGHS solve, the
// S1/S3/S6-style scenarios: a feasible schedule exists, every course
// is placed exactly once, no room double-books an hour, same-year
// mandatory courses never overlap, and the reported objective equals
// the sum of each assignment's preference contribution.
func TestRunSolvesFixtureToAFeasibleNonOverlappingSchedule(t *testing.T) {
	ds := openTestdata(t)

	space, err := varspace.Enumerate(ds)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := Run(ctx, ds, space, Options{MaxDuration: 10 * time.Second})
	require.NoError(t, err)
	require.Contains(t, []Status{StatusOptimal, StatusFeasible}, result.Status)

	placed := make(map[string]Assignment, len(result.Assignments))
	for _, a := range result.Assignments {
		_, dup := placed[a.Course]
		require.False(t, dup, "course %q placed more than once", a.Course)
		placed[a.Course] = a
	}
	for _, name := range ds.CourseOrder {
		_, ok := placed[name]
		assert.True(t, ok, "course %q was never placed", name)
	}

	type occupied struct {
		room string
		day  int
		hour int
	}
	seen := make(map[occupied]string)
	for _, a := range result.Assignments {
		for _, h := range timegrid.CoveredHours(a.Start, a.Hours) {
			key := occupied{a.Room, int(a.Day), h}
			if other, taken := seen[key]; taken {
				t.Fatalf("room %q double-booked on day %d hour %d by %q and %q", a.Room, a.Day, h, other, a.Course)
			}
			seen[key] = a.Course
		}
	}

	algorithms, hasAlgorithms := placed["algorithms"]
	databases, hasDatabases := placed["databases"]
	if hasAlgorithms && hasDatabases && algorithms.Day == databases.Day {
		assert.False(t,
			algorithms.Start <= databases.Start+databases.Hours-1 && databases.Start <= algorithms.Start+algorithms.Hours-1,
			"mandatory same-year courses algorithms and databases overlap on day %d", algorithms.Day)
	}

	wantObjective := 0
	for _, a := range result.Assignments {
		wantObjective += a.Preference
	}
	assert.Equal(t, float64(wantObjective), result.Objective)
}
