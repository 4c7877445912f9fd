// Package schederr defines the typed error kinds the scheduling engine
// raises (spec.md §7), each carrying the process exit code its kind
// maps to so the CLI can propagate it without re-deriving the mapping.
package schederr

import (
	"errors"
	"fmt"
)

// Code identifies an error kind.
type Code string

const (
	CodeInputParseError       Code = "INPUT_PARSE_ERROR"
	CodeDuplicateEntity       Code = "DUPLICATE_ENTITY"
	CodeUnknownTeacherRef     Code = "UNKNOWN_TEACHER_REFERENCED"
	CodeCalendarShapeMismatch Code = "CALENDAR_SHAPE_MISMATCH"
	CodeNoFeasibleVariables   Code = "NO_FEASIBLE_VARIABLES"
	CodeSolverInfeasible      Code = "SOLVER_INFEASIBLE"
	CodeSolverError           Code = "SOLVER_ERROR"
)

// Exit codes per spec.md §6: 0 Optimal/Feasible, 1 Infeasible,
// 2 SolverError or input-validation failure.
const (
	ExitOK            = 0
	ExitInfeasible    = 1
	ExitSolverOrInput = 2
)

// Error is a typed domain error with an associated exit code.
type Error struct {
	Code    Code
	Message string
	Exit    int
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an Error with no wrapped cause.
func New(code Code, exit int, message string) *Error {
	return &Error{Code: code, Exit: exit, Message: message}
}

// Wrap attaches a domain code and exit status to an existing error.
func Wrap(err error, code Code, exit int, message string) *Error {
	return &Error{Code: code, Exit: exit, Message: message, Err: err}
}

// InputParseError reports malformed numeric or required input fields.
func InputParseError(format string, args ...any) *Error {
	return New(CodeInputParseError, ExitSolverOrInput, fmt.Sprintf(format, args...))
}

// DuplicateEntity reports a repeated primary key (course/room/teacher name).
func DuplicateEntity(kind, name string) *Error {
	return New(CodeDuplicateEntity, ExitSolverOrInput, fmt.Sprintf("duplicate %s %q", kind, name))
}

// UnknownTeacherReferenced reports a possible_teachers entry with no match.
func UnknownTeacherReferenced(course, teacher string) *Error {
	return New(CodeUnknownTeacherRef, ExitSolverOrInput,
		fmt.Sprintf("course %q references unknown teacher %q", course, teacher))
}

// CalendarShapeMismatch reports an availability/preference matrix of the
// wrong shape.
func CalendarShapeMismatch(who string, rows, cols int) *Error {
	return New(CodeCalendarShapeMismatch, ExitSolverOrInput,
		fmt.Sprintf("%s: calendar matrix has shape %dx%d, expected 5 rows and 7 or 8 columns", who, rows, cols))
}

// NoFeasibleVariables reports a course with zero candidate variables.
func NoFeasibleVariables(course string) *Error {
	return New(CodeNoFeasibleVariables, ExitSolverOrInput,
		fmt.Sprintf("course %q has no feasible (teacher, room, day, start) combination", course))
}

// SolverInfeasible reports that no schedule satisfies every constraint.
func SolverInfeasible(detail string) *Error {
	return New(CodeSolverInfeasible, ExitInfeasible, "no feasible schedule: "+detail)
}

// SolverError reports an unexpected backend state.
func SolverError(backendStatus string) *Error {
	return New(CodeSolverError, ExitSolverOrInput, "solver backend reported: "+backendStatus)
}

// ExitCodeFor inspects err and returns the exit code carried by the
// first *Error in its chain, or ExitSolverOrInput for any other non-nil
// error (spec.md §6: "2 on SolverError or input-validation failure").
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Exit
	}
	return ExitSolverOrInput
}
