package forms

import (
	"fmt"

	"github.com/fieldops/inspectforms/model"
)

// Result collects every validation failure of one submit attempt. Messages
// are human-readable labels for the aggregate summary; InvalidFieldIDs keys
// per-field error display (and may contain synthetic companion ids).
type Result struct {
	InvalidFieldIDs map[string]bool
	Messages        []string
}

// Invalid reports whether the attempt must be rejected.
func (r Result) Invalid() bool {
	return len(r.InvalidFieldIDs) > 0 || len(r.Messages) > 0
}

func (r *Result) flag(fieldID, message string) {
	r.InvalidFieldIDs[fieldID] = true
	r.Messages = append(r.Messages, message)
}

// Validate checks a full answer map against a template in a single pass,
// never short-circuiting: every offending field is enumerated.
//
// Required fields are checked regardless of current visibility — a required
// field hidden by conditional logic still fails when unanswered. That is the
// source system's documented behavior; see DESIGN.md before changing it.
//
// A pass_fail field answered exactly "Fail" requires its synthetic
// "<id>_fail_comment" companion to hold a non-blank explanation. "Pass" or
// unanswered never checks the companion, whatever it contains.
//
// equipmentID is the in-session equipment selection; equipmentAvailable
// tells whether the catalog offers at least one assignable unit for this
// template. An equipment-gated template with available units and no
// selection fails with an "Equipment Selection" message carrying no field id.
func Validate(t model.FormTemplate, answers map[string]any, equipmentID string, equipmentAvailable bool) Result {
	res := Result{InvalidFieldIDs: make(map[string]bool)}

	for _, f := range t.Fields {
		if f.FieldType == model.FieldSection {
			continue
		}

		if f.Required && IsEmpty(f.FieldType, answers[f.FieldID]) {
			res.flag(f.FieldID, f.Label)
		}

		if f.FieldType == model.FieldPassFail && answers[f.FieldID] == "Fail" {
			comment := CompanionID(f.FieldID)
			if trimEmpty(answers[comment]) {
				res.flag(comment, fmt.Sprintf("%s - Failure Explanation", f.Label))
			}
		}
	}

	if t.FormType == model.FormEquipment && equipmentAvailable && equipmentID == "" {
		res.Messages = append(res.Messages, "Equipment Selection")
	}

	return res
}

// AssignableEquipment filters a catalog listing down to the units a template
// may be filled against: matching equipment type, not archived.
func AssignableEquipment(catalog []model.Equipment, equipmentType string) []model.Equipment {
	var out []model.Equipment
	for _, e := range catalog {
		if e.EquipmentType == equipmentType && e.Status != "archived" {
			out = append(out, e)
		}
	}
	return out
}
