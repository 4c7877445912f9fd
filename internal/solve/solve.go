// Package solve is the Solver Driver (spec.md §4.6): it hands a built
// model to the nextmv-io/sdk HiGHS-backed MILP solver, classifies the
// result, and projects the chosen variables back into a Schedule.
package solve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nextmv-io/sdk/mip"

	"github.com/univsched/timetable/internal/entities"
	"github.com/univsched/timetable/internal/modelbuild"
	"github.com/univsched/timetable/internal/schederr"
	"github.com/univsched/timetable/internal/timegrid"
	"github.com/univsched/timetable/internal/varspace"
)

// Assignment is one course's realized placement: the teacher, room,
// day, start hour, and duration chosen by the solver (spec.md §4.7).
type Assignment struct {
	Course     string
	Teacher    string
	Room       string
	Day        timegrid.Day
	Start      int
	Hours      int
	Preference int
}

// Result is the outcome of one solve run, tagged with a correlation ID
// so operators can line up logs, reports, and solver diagnostics.
type Result struct {
	RunID       string
	Status      Status
	Objective   float64
	Assignments []Assignment
}

// Status mirrors the exit-code classification of spec.md §7.
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasible
	StatusInfeasible
	StatusSolverError
)

// Options configures the underlying solver run.
type Options struct {
	MaxDuration time.Duration
}

// DefaultOptions mirrors the teacher's own bias toward a bounded,
// predictable run rather than an unbounded search.
func DefaultOptions() Options {
	return Options{MaxDuration: 30 * time.Second}
}

// Run builds the model from the variable space, solves it, and
// returns a classified Result. A non-nil error is only returned for
// SolverError (spec.md §7); Infeasible is reported through Result, not
// error, since it is a legitimate, well-formed outcome.
func Run(ctx context.Context, ds *entities.DataSet, space *varspace.Space, opts Options) (*Result, error) {
	runID := uuid.NewString()

	built := modelbuild.Build(ds, space)

	solver, err := mip.NewSolver(mip.Highs, built.Model)
	if err != nil {
		return nil, schederr.Wrap(err, schederr.CodeSolverError, schederr.ExitSolverOrInput, "constructing solver")
	}

	solveOptions := mip.NewSolveOptions()
	if opts.MaxDuration > 0 {
		if err := solveOptions.SetMaximumDuration(opts.MaxDuration); err != nil {
			return nil, schederr.Wrap(err, schederr.CodeSolverError, schederr.ExitSolverOrInput, "setting solve duration")
		}
	}

	solution, err := solver.Solve(solveOptions)
	if err != nil {
		return nil, schederr.Wrap(err, schederr.CodeSolverError, schederr.ExitSolverOrInput, "solving model")
	}

	if ctx.Err() != nil {
		return nil, schederr.Wrap(ctx.Err(), schederr.CodeSolverError, schederr.ExitSolverOrInput, "solve cancelled")
	}

	result := &Result{RunID: runID}

	if !solution.HasValues() {
		result.Status = StatusInfeasible
		return result, nil
	}

	switch {
	case solution.IsOptimal():
		result.Status = StatusOptimal
	case solution.IsSubOptimal():
		result.Status = StatusFeasible
	default:
		result.Status = StatusInfeasible
		return result, nil
	}

	result.Objective = solution.ObjectiveValue()
	result.Assignments = projectAssignments(ds, space, built, solution)

	return result, nil
}

// ExitCode maps a Status to the process exit codes of spec.md §7.
func (s Status) ExitCode() int {
	switch s {
	case StatusOptimal, StatusFeasible:
		return schederr.ExitOK
	case StatusInfeasible:
		return schederr.ExitInfeasible
	default:
		return schederr.ExitSolverOrInput
	}
}

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "solver_error"
	}
}

// projectAssignments reads back every variable fixed to 1 and recomputes
// its preference contribution via modelbuild.Coefficient, the same
// formula the objective used (spec.md §4.7).
func projectAssignments(ds *entities.DataSet, space *varspace.Space, built *modelbuild.Built, solution mip.Solution) []Assignment {
	var out []Assignment
	for _, key := range space.Keys {
		v, ok := built.Vars[key]
		if !ok {
			continue
		}
		if solution.Value(v) < 0.5 {
			continue
		}
		out = append(out, Assignment{
			Course:     key.Course,
			Teacher:    key.Teacher,
			Room:       key.Room,
			Day:        key.Day,
			Start:      key.Start,
			Hours:      ds.Courses[key.Course].Hours,
			Preference: modelbuild.Coefficient(ds, key),
		})
	}
	return out
}
