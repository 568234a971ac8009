/*
engine.go - One rotation run, from uploaded files to the report archive

PURPOSE:
  Composes the rotation pipeline and tags failures with the stage that
  produced them:

    input      parse files, merge holiday preset, validate configuration,
               business days, rotation, name resolution
    priority   priority view
    packaging  XLSX workbooks + ZIP

  Each stage fails fast. On failure no partial result is returned.

CONCURRENCY:
  Run and Plan hold no shared state. Concurrent calls are safe as long as
  each call owns its Inputs.

USAGE:
  in, err := engine.Load(engine.Sources{Config: cfg, Holidays: hol, Codes: codes, CodesName: "codigos.xlsx"})
  if err != nil {
      return err // *StageError, stage "input"
  }
  res, err := engine.Run(in)
  // res.Archive holds repartos.zip

SEE ALSO:
  - errors.go: StageError and client error classification
  - api/handlers.go, cmd/reparto: the hosts calling this package
*/
package engine

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/export"
	"github.com/warp/reparto/ingest"
	"github.com/warp/reparto/rotation"
)

// =============================================================================
// INPUTS
// =============================================================================

// Sources are the raw files supplied by the host.
type Sources struct {
	Config    io.Reader
	Holidays  io.Reader
	Codes     io.Reader
	CodesName string // file name of Codes, selects XLSX or CSV

	// HolidayPreset optionally merges a public-holiday calendar (e.g. "us").
	HolidayPreset string
}

// Inputs are the typed values a run operates on.
type Inputs struct {
	Config    rotation.Configuration
	Holidays  calendar.HolidaySet
	Directory rotation.CodeDirectory
}

// Load parses the three sources. Any failure is an input-stage StageError.
func Load(src Sources) (Inputs, error) {
	cfg, err := ingest.ParseConfiguration(src.Config)
	if err != nil {
		return Inputs{}, fail(StageInput, err)
	}
	holidays, err := ingest.ParseHolidays(src.Holidays)
	if err != nil {
		return Inputs{}, fail(StageInput, err)
	}
	directory, err := ingest.ParseCodeDirectory(src.Codes, src.CodesName)
	if err != nil {
		return Inputs{}, fail(StageInput, err)
	}

	if src.HolidayPreset != "" {
		if err := cfg.Period.Validate(); err != nil {
			return Inputs{}, fail(StageInput, err)
		}
		preset, err := calendar.PresetHolidays(src.HolidayPreset, cfg.Period)
		if err != nil {
			return Inputs{}, fail(StageInput, err)
		}
		holidays = holidays.Merge(preset)
	}

	return Inputs{Config: cfg, Holidays: holidays, Directory: directory}, nil
}

// =============================================================================
// PLAN - Everything but packaging
// =============================================================================

// Plan is the computed rotation before serialization.
type Plan struct {
	RunID       uuid.UUID
	Assignments []rotation.Assignment
	Priority    []rotation.PriorityEntry
	Summary     []rotation.CodeLoad

	// NextLastUsed is the value for ultimo_codigo_despacho in the next run.
	NextLastUsed string
	Elapsed      time.Duration
}

// BuildPlan runs every stage except packaging.
func BuildPlan(in Inputs) (*Plan, error) {
	started := time.Now()

	cfg := in.Config
	if err := cfg.Validate(); err != nil {
		return nil, fail(StageInput, err)
	}

	days, err := calendar.BusinessDays(cfg.Period, in.Holidays)
	if err != nil {
		return nil, fail(StageInput, err)
	}
	pairs, err := rotation.Assign(days, cfg.Codes, cfg.LastUsedCode)
	if err != nil {
		return nil, fail(StageInput, err)
	}
	assignments := rotation.Resolve(pairs, in.Directory)

	priority, err := rotation.BuildPriorityReport(assignments, cfg.Codes, cfg.LastUsedCode)
	if err != nil {
		return nil, fail(StagePriority, err)
	}

	next := rotation.NextLastUsed(assignments)
	if next == "" {
		next = cfg.LastUsedCode
	}

	return &Plan{
		RunID:        uuid.New(),
		Assignments:  assignments,
		Priority:     priority,
		Summary:      rotation.Summarize(assignments, cfg.Codes, in.Directory),
		NextLastUsed: next,
		Elapsed:      time.Since(started),
	}, nil
}

// =============================================================================
// RUN - Plan + archive
// =============================================================================

// Result is a completed run.
type Result struct {
	*Plan
	Archive []byte
}

// Run computes the plan and packages both reports.
func Run(in Inputs) (*Result, error) {
	plan, err := BuildPlan(in)
	if err != nil {
		return nil, err
	}
	archive, err := export.Package(plan.Assignments, plan.Priority)
	if err != nil {
		return nil, fail(StagePackaging, err)
	}
	return &Result{Plan: plan, Archive: archive}, nil
}

// RunSources is Load followed by Run.
func RunSources(src Sources) (*Result, error) {
	in, err := Load(src)
	if err != nil {
		return nil, err
	}
	return Run(in)
}
