package engine

import (
	"errors"
	"fmt"

	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/ingest"
	"github.com/warp/reparto/rotation"
)

// Stage identifies the pipeline step that failed.
type Stage string

const (
	StageInput     Stage = "input"
	StagePriority  Stage = "priority"
	StagePackaging Stage = "packaging"
)

// userMessages are the banners shown to the person who uploaded the files.
var userMessages = map[Stage]string{
	StageInput:     "Error al leer los archivos",
	StagePriority:  "Error al crear el reparto para acuerdo",
	StagePackaging: "Error al crear el archivo ZIP",
}

// StageError wraps the failure of one pipeline stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Message is the human-readable banner for the failure.
func (e *StageError) Message() string {
	return fmt.Sprintf("%s: %v", userMessages[e.Stage], e.Err)
}

func fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// StageOf returns the failed stage, or "" if err did not come from the pipeline.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// IsClientError returns true if the error is due to the uploaded inputs.
func IsClientError(err error) bool {
	return errors.Is(err, ingest.ErrMalformedInput) ||
		errors.Is(err, calendar.ErrInvalidRange) ||
		errors.Is(err, calendar.ErrUnknownPreset) ||
		errors.Is(err, rotation.ErrEmptyCodeList) ||
		errors.Is(err, rotation.ErrInvalidCodeList) ||
		errors.Is(err, rotation.ErrUnrankedCode)
}
