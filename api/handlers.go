/*
handlers.go - HTTP handlers for the rotation engine

PURPOSE:
  Exposes one rotation run per request. Handles multipart upload,
  delegates to the engine, and serializes the archive or JSON response.

UPLOAD FORM (multipart/form-data):
  config          configuration CSV (fecha_inicio, fecha_fin, ...)
  holidays        holiday CSV (fecha)
  codes           code directory, XLSX or CSV
  holiday_preset  optional text field, overrides the configured default;
                  "none" disables the default preset

REQUEST FLOW:
  1. Parse multipart form (size capped)
  2. engine.Load  -> input stage
  3. engine.BuildPlan / engine.Run
  4. Write archive or JSON, record metrics, log the outcome

ERROR HANDLING:
  Errors are returned as JSON with the failed stage:
  - 400: Missing files, malformed input, invalid range, empty code list
  - 413: Upload larger than the configured limit
  - 500: Priority or packaging failures

SEE ALSO:
  - dto.go: Response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/engine"
	"github.com/warp/reparto/export"
	"github.com/warp/reparto/logger"
	"github.com/warp/reparto/metrics"
	"github.com/warp/reparto/rotation"
)

// RunIDHeader carries the run id on archive responses.
const RunIDHeader = "X-Run-ID"

// Form field names.
const (
	fieldConfig        = "config"
	fieldHolidays      = "holidays"
	fieldCodes         = "codes"
	fieldHolidayPreset = "holiday_preset"
)

// missingFilesMessage is shown when any of the three files is absent.
const missingFilesMessage = "Por favor, carga todos los archivos necesarios para proceder con el reparto."

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler.
type Options struct {
	Logger   logger.Logger
	Recorder metrics.Recorder

	// DefaultHolidayPreset is merged into every run unless the request overrides it.
	DefaultHolidayPreset string
	// MaxUploadBytes caps the multipart body. Zero means 10 MiB.
	MaxUploadBytes int64
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	log            logger.Logger
	recorder       metrics.Recorder
	defaultPreset  string
	maxUploadBytes int64
}

// NewHandler creates a new handler.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		log:            opts.Logger,
		recorder:       opts.Recorder,
		defaultPreset:  opts.DefaultHolidayPreset,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	if h.log == nil {
		h.log = logger.NopLogger{}
	}
	if h.recorder == nil {
		h.recorder = metrics.NopRecorder{}
	}
	if h.maxUploadBytes <= 0 {
		h.maxUploadBytes = 10 << 20
	}
	return h
}

// =============================================================================
// ROTATION HANDLERS
// =============================================================================

// GenerateArchive runs the pipeline and streams repartos.zip.
func (h *Handler) GenerateArchive(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	in, ok := h.loadInputs(w, r, started)
	if !ok {
		return
	}
	res, err := engine.Run(in)
	if err != nil {
		h.fail(w, err, started)
		return
	}
	h.succeed(res.Plan, started)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ArchiveName))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Archive)))
	w.Header().Set(RunIDHeader, res.RunID.String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Archive); err != nil {
		h.log.Warnf("write archive for run %s: %v", res.RunID, err)
	}
}

// Preview runs the pipeline without packaging and returns the tables as JSON.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	in, ok := h.loadInputs(w, r, started)
	if !ok {
		return
	}
	plan, err := engine.BuildPlan(in)
	if err != nil {
		h.fail(w, err, started)
		return
	}
	h.succeed(plan, started)

	writeJSON(w, http.StatusOK, toPreviewResponse(plan))
}

// loadInputs parses the upload. It writes the error response itself and
// returns false when the request cannot proceed.
func (h *Handler) loadInputs(w http.ResponseWriter, r *http.Request, started time.Time) (engine.Inputs, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.recorder.RecordRun(string(engine.StageInput), time.Since(started))
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large", string(engine.StageInput), "", err)
			return engine.Inputs{}, false
		}
		h.recorder.RecordRun(string(engine.StageInput), time.Since(started))
		writeError(w, http.StatusBadRequest, "Invalid multipart form", string(engine.StageInput), missingFilesMessage, err)
		return engine.Inputs{}, false
	}
	defer r.MultipartForm.RemoveAll()

	files := make(map[string]multipart.File, 3)
	var codesName string
	var missing []string
	for _, field := range []string{fieldConfig, fieldHolidays, fieldCodes} {
		f, hdr, err := r.FormFile(field)
		if err != nil {
			missing = append(missing, field)
			continue
		}
		defer f.Close()
		files[field] = f
		if field == fieldCodes {
			codesName = hdr.Filename
		}
	}
	if len(missing) > 0 {
		h.recorder.RecordRun(string(engine.StageInput), time.Since(started))
		writeError(w, http.StatusBadRequest, "All three files are required", string(engine.StageInput), missingFilesMessage,
			map[string]any{"missing": missing})
		return engine.Inputs{}, false
	}

	in, err := engine.Load(engine.Sources{
		Config:        files[fieldConfig],
		Holidays:      files[fieldHolidays],
		Codes:         files[fieldCodes],
		CodesName:     codesName,
		HolidayPreset: h.presetFor(r),
	})
	if err != nil {
		h.fail(w, err, started)
		return engine.Inputs{}, false
	}
	return in, true
}

// presetFor resolves the holiday preset of a request.
func (h *Handler) presetFor(r *http.Request) string {
	v, set := r.MultipartForm.Value[fieldHolidayPreset]
	if !set || len(v) == 0 {
		return h.defaultPreset
	}
	preset := strings.TrimSpace(v[0])
	if strings.EqualFold(preset, "none") {
		return ""
	}
	return preset
}

func (h *Handler) succeed(plan *engine.Plan, started time.Time) {
	h.recorder.RecordRun("", time.Since(started))
	h.recorder.RecordAssignments(len(plan.Assignments))
	h.log.Infow("run finished", map[string]any{
		"run_id":         plan.RunID.String(),
		"assignments":    len(plan.Assignments),
		"next_last_used": plan.NextLastUsed,
		"elapsed_ms":     time.Since(started).Milliseconds(),
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error, started time.Time) {
	stage := engine.StageOf(err)
	h.recorder.RecordRun(string(stage), time.Since(started))
	h.log.Warnf("run failed at %s stage: %v", stage, err)

	status := http.StatusInternalServerError
	if engine.IsClientError(err) {
		status = http.StatusBadRequest
	}
	message := ""
	var se *engine.StageError
	if errors.As(err, &se) {
		message = se.Message()
	}
	writeError(w, status, "Run failed", string(stage), message, err.Error())
}

// =============================================================================
// LOOKUP HANDLERS
// =============================================================================

// ListWeekdays returns the localized weekday names, Monday first.
func (h *Handler) ListWeekdays(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rotation.WeekdayNames())
}

// ListHolidayPresets returns the preset names and the configured default.
func (h *Handler) ListHolidayPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presets": calendar.PresetNames(),
		"default": h.defaultPreset,
	})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, errText, stage, message string, details any) {
	resp := ErrorResponse{Error: errText, Stage: stage, Message: message}
	if err, ok := details.(error); ok {
		resp.Details = err.Error()
	} else if details != nil {
		resp.Details = details
	}
	writeJSON(w, status, resp)
}
