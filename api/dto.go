/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  JSON shapes returned by the preview and lookup endpoints. They decouple
  the rotation records from the external contract: dates are ISO strings,
  decimal shares are strings, and the office code stays visible in the
  priority rows even though the exported workbook omits it.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

VALIDATION:
  Uploaded files are validated by the ingest package, not here.

SEE ALSO:
  - handlers.go: Uses these types
  - rotation/types.go: Source records
*/
package api

import (
	"github.com/warp/reparto/engine"
	"github.com/warp/reparto/rotation"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AssignmentDTO is one row of the business-day assignment table.
type AssignmentDTO struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Code    string `json:"code"`
	Label   string `json:"label"`
}

// PriorityEntryDTO is one row of the priority table.
type PriorityEntryDTO struct {
	Rank    int    `json:"rank"`
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
	Code    string `json:"code"`
}

// CodeLoadDTO is one office's share of the rotation.
type CodeLoadDTO struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Days  int    `json:"days"`
	Share string `json:"share_percent"`
}

// PreviewResponse is returned by POST /api/repartos/preview.
type PreviewResponse struct {
	RunID        string             `json:"run_id"`
	Assignments  []AssignmentDTO    `json:"assignments"`
	Priority     []PriorityEntryDTO `json:"priority"`
	Summary      []CodeLoadDTO      `json:"summary"`
	NextLastUsed string             `json:"next_last_used_code"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"` // banner text for end users
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPreviewResponse(plan *engine.Plan) PreviewResponse {
	resp := PreviewResponse{
		RunID:        plan.RunID.String(),
		Assignments:  make([]AssignmentDTO, len(plan.Assignments)),
		Priority:     make([]PriorityEntryDTO, len(plan.Priority)),
		Summary:      make([]CodeLoadDTO, len(plan.Summary)),
		NextLastUsed: plan.NextLastUsed,
	}
	for i, a := range plan.Assignments {
		resp.Assignments[i] = toAssignmentDTO(a)
	}
	for i, e := range plan.Priority {
		resp.Priority[i] = PriorityEntryDTO{
			Rank:    e.Rank,
			Date:    e.Date.String(),
			Weekday: e.Weekday,
			Label:   e.Label,
			Code:    e.Code,
		}
	}
	for i, l := range plan.Summary {
		resp.Summary[i] = CodeLoadDTO{Code: l.Code, Label: l.Label, Days: l.Days, Share: l.Share.StringFixed(2)}
	}
	return resp
}

func toAssignmentDTO(a rotation.Assignment) AssignmentDTO {
	return AssignmentDTO{
		Date:    a.Date.String(),
		Weekday: a.Weekday,
		Code:    a.Code,
		Label:   a.Label,
	}
}
