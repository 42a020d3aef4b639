package forms

import (
	"strings"

	"github.com/fieldops/inspectforms/model"
)

// FailCommentSuffix names the synthetic companion of a pass_fail field.
// The companion is never declared in a template's field list but takes part
// in validation and submission under the id "<field_id>_fail_comment".
const FailCommentSuffix = "_fail_comment"

// CompanionID returns the synthetic fail-comment id for a pass_fail field.
func CompanionID(fieldID string) string {
	return fieldID + FailCommentSuffix
}

// strategy is the per-type contract: canonical options (nil when the type
// carries none or the author supplies them), the emptiness predicate used by
// validation, and whether the type owns a synthetic companion field.
type strategy struct {
	options       []string
	isEmpty       func(any) bool
	ownsCompanion bool
}

// trimEmpty: unset, non-string, or whitespace-only counts as empty.
func trimEmpty(v any) bool {
	s, ok := v.(string)
	return !ok || strings.TrimSpace(s) == ""
}

// absent: boolean and numeric answers are empty only when never set.
func absent(v any) bool {
	return v == nil
}

// payloadEmpty: photo and signature answers are data-URI strings; anything
// but a non-empty string counts as missing.
func payloadEmpty(v any) bool {
	s, ok := v.(string)
	return !ok || s == ""
}

func never(any) bool { return false }

var registry = map[model.FieldType]strategy{
	model.FieldText:     {isEmpty: trimEmpty},
	model.FieldNumber:   {isEmpty: absent},
	model.FieldCheckbox: {isEmpty: absent},
	model.FieldSelect:   {isEmpty: trimEmpty},
	model.FieldYesNo: {
		options: []string{"Yes", "No"},
		isEmpty: trimEmpty,
	},
	model.FieldPassFail: {
		options:       []string{"Pass", "Fail"},
		isEmpty:       trimEmpty,
		ownsCompanion: true,
	},
	model.FieldCondition: {
		options: []string{"Excellent", "Good", "Fair", "Poor", "Needs Replacement"},
		isEmpty: trimEmpty,
	},
	model.FieldInspectionItem: {
		options: []string{"OK", "Defect", "N/A"},
		isEmpty: trimEmpty,
	},
	model.FieldSignature: {isEmpty: payloadEmpty},
	model.FieldPhoto:     {isEmpty: payloadEmpty},
	model.FieldSection:   {isEmpty: never},
}

// Known reports whether t is a member of the closed field type set.
func Known(t model.FieldType) bool {
	_, ok := registry[t]
	return ok
}

// Options returns the canonical fixed option set for t, or nil when the type
// has none (text, number, ...) or options are author-supplied (select).
// The returned slice is a copy; callers may keep and mutate it.
func Options(t model.FieldType) []string {
	fixed := registry[t].options
	if fixed == nil {
		return nil
	}
	out := make([]string, len(fixed))
	copy(out, fixed)
	return out
}

// IsEmpty reports whether v counts as "not answered" for a field of type t.
// Unknown types fall back to string emptiness.
func IsEmpty(t model.FieldType, v any) bool {
	s, ok := registry[t]
	if !ok {
		return trimEmpty(v)
	}
	return s.isEmpty(v)
}

// OwnsCompanion reports whether t owns a synthetic fail-comment field.
// True only for pass_fail.
func OwnsCompanion(t model.FieldType) bool {
	return registry[t].ownsCompanion
}
