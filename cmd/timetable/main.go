// Command timetable generates and validates weekly university course
// schedules from a set of course, room, and teacher tables (spec.md
// §1, §6).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/univsched/timetable/internal/config"
	"github.com/univsched/timetable/internal/ingest"
	"github.com/univsched/timetable/internal/logging"
	"github.com/univsched/timetable/internal/report"
	"github.com/univsched/timetable/internal/schederr"
	"github.com/univsched/timetable/internal/solve"
	"github.com/univsched/timetable/internal/varspace"
)

var (
	coursesPath  string
	roomsPath    string
	teachersPath string
	maxDuration  string
	reportJSON   bool
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(schederr.ExitSolverOrInput)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(schederr.ExitSolverOrInput)
	}
	defer logger.Sync()

	cmdTimetable := &cobra.Command{
		Use:   "timetable",
		Short: "Weekly university course timetable generator",
		Long:  "A tool to assign courses to teachers, rooms, days, and hours\nwhile maximizing teacher scheduling preferences.",
	}
	cmdTimetable.PersistentFlags().StringVar(&coursesPath, "courses", cfg.Data.CoursesPath, "path to the courses CSV table")
	cmdTimetable.PersistentFlags().StringVar(&roomsPath, "rooms", cfg.Data.RoomsPath, "path to the rooms CSV table")
	cmdTimetable.PersistentFlags().StringVar(&teachersPath, "teachers", cfg.Data.TeachersPath, "path to the teachers CSV table")

	cmdValidate := &cobra.Command{
		Use:   "validate",
		Short: "normalize and validate the input tables without solving",
		Run:   commandValidate(logger),
	}
	cmdValidate.Flags().StringVar(&maxDuration, "max-duration", cfg.Solve.MaxDuration.String(), "accepted for consistency with solve/report; validate never invokes the solver")
	cmdTimetable.AddCommand(cmdValidate)

	cmdSolve := &cobra.Command{
		Use:   "solve",
		Short: "solve for an optimal weekly schedule",
		Run:   commandSolve(logger),
	}
	cmdSolve.Flags().StringVar(&maxDuration, "max-duration", cfg.Solve.MaxDuration.String(), "maximum time to let the solver run")
	cmdTimetable.AddCommand(cmdSolve)

	cmdReport := &cobra.Command{
		Use:   "report",
		Short: "solve and print the resulting schedule as a table",
		Run:   commandReport(logger),
	}
	cmdReport.Flags().StringVar(&maxDuration, "max-duration", cfg.Solve.MaxDuration.String(), "maximum time to let the solver run")
	cmdReport.Flags().BoolVar(&reportJSON, "json", false, "write the schedule as JSON grouped by teacher instead of a table")
	cmdTimetable.AddCommand(cmdReport)

	if err := cmdTimetable.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(schederr.ExitSolverOrInput)
	}
}

func openTables() (ingest.Tables, []*os.File, error) {
	var files []*os.File
	open := func(path string) (*os.File, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}

	courses, err := open(coursesPath)
	if err != nil {
		return ingest.Tables{}, files, err
	}
	rooms, err := open(roomsPath)
	if err != nil {
		return ingest.Tables{}, files, err
	}
	teachers, err := open(teachersPath)
	if err != nil {
		return ingest.Tables{}, files, err
	}

	return ingest.Tables{Courses: courses, Rooms: rooms, Teachers: teachers}, files, nil
}

func closeAll(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

func commandValidate(logger *zap.Logger) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		tables, files, err := openTables()
		defer closeAll(files)
		if err != nil {
			logger.Error("opening input tables", zap.Error(err))
			os.Exit(schederr.ExitSolverOrInput)
		}

		ds, err := ingest.Normalize(tables)
		if err != nil {
			logger.Error("input is invalid", zap.Error(err))
			os.Exit(schederr.ExitCodeFor(err))
		}

		space, err := varspace.Enumerate(ds)
		if err != nil {
			logger.Error("no feasible variables for one or more courses", zap.Error(err))
			os.Exit(schederr.ExitCodeFor(err))
		}

		fmt.Printf("ok: %d courses, %d rooms, %d teachers, %d candidate variables\n",
			len(ds.CourseOrder), len(ds.RoomOrder), len(ds.TeacherOrder), len(space.Keys))
	}
}

func commandSolve(logger *zap.Logger) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		result := runSolve(logger)
		fmt.Printf("status: %s\nobjective: %.0f\nrun: %s\n", result.Status, result.Objective, result.RunID)
	}
}

func commandReport(logger *zap.Logger) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		result := runSolve(logger)
		var err error
		if reportJSON {
			err = report.WriteJSON(os.Stdout, result)
		} else {
			err = report.Write(os.Stdout, result)
		}
		if err != nil {
			logger.Error("writing report", zap.Error(err))
			os.Exit(schederr.ExitSolverOrInput)
		}
	}
}

func runSolve(logger *zap.Logger) *solve.Result {
	tables, files, err := openTables()
	defer closeAll(files)
	if err != nil {
		logger.Error("opening input tables", zap.Error(err))
		os.Exit(schederr.ExitSolverOrInput)
	}

	ds, err := ingest.Normalize(tables)
	if err != nil {
		logger.Error("input is invalid", zap.Error(err))
		os.Exit(schederr.ExitCodeFor(err))
	}

	space, err := varspace.Enumerate(ds)
	if err != nil {
		logger.Error("no feasible variables for one or more courses", zap.Error(err))
		os.Exit(schederr.ExitCodeFor(err))
	}

	opts := solve.DefaultOptions()
	if maxDuration != "" {
		if d, parseErr := time.ParseDuration(maxDuration); parseErr == nil {
			opts.MaxDuration = d
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.MaxDuration+5*time.Second)
	defer cancel()

	result, err := solve.Run(ctx, ds, space, opts)
	if err != nil {
		logger.Error("solver error", zap.Error(err))
		os.Exit(schederr.ExitCodeFor(err))
	}
	logger.Info("solve finished",
		zap.String("run_id", result.RunID),
		zap.String("status", result.Status.String()),
		zap.Float64("objective", result.Objective))
	if result.Status == solve.StatusInfeasible {
		logger.Warn("no feasible schedule exists under the given constraints")
		os.Exit(schederr.ExitInfeasible)
	}

	return result
}
