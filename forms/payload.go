package forms

import (
	"time"

	"github.com/fieldops/inspectforms/model"
)

// Context carries the optional identifiers a filling session may run under.
// EquipmentID is an externally supplied unit (e.g. a deep-link parameter);
// SelectedEquipmentID is the user's in-session pick and takes precedence.
type Context struct {
	SiteID              string
	DispatchID          string
	CustomerID          string
	EquipmentID         string
	SelectedEquipmentID string
}

// BuildPayload assembles the immutable submission record.
//
// The answer map is copied verbatim — values of currently hidden fields and
// synthetic fail-comment entries included, nothing filtered. Optional context
// identifiers are set only when non-empty, so JSON encoding omits the key
// entirely rather than emitting null.
func BuildPayload(t model.FormTemplate, answers map[string]any, who model.Identity, ctx Context) model.FormResponse {
	name := t.Name
	if name == "" {
		name = "Unknown Form"
	}
	crewID, crewName := who.ID, who.Name
	if crewID == "" {
		crewID = "Unknown User"
	}
	if crewName == "" {
		crewName = "Unknown User"
	}

	responses := make(map[string]any, len(answers))
	for k, v := range answers {
		responses[k] = v
	}

	resp := model.FormResponse{
		TemplateID:   t.ID,
		TemplateName: name,
		CrewID:       crewID,
		CrewName:     crewName,
		Responses:    responses,
		SubmittedAt:  time.Now(),
	}
	if ctx.SiteID != "" {
		resp.SiteID = ctx.SiteID
	}
	if ctx.DispatchID != "" {
		resp.DispatchID = ctx.DispatchID
	}
	if ctx.CustomerID != "" {
		resp.CustomerID = ctx.CustomerID
	}
	switch {
	case ctx.SelectedEquipmentID != "":
		resp.EquipmentID = ctx.SelectedEquipmentID
	case ctx.EquipmentID != "":
		resp.EquipmentID = ctx.EquipmentID
	}

	return resp
}
