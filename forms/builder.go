package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/fieldops/inspectforms/model"
)

var (
	ErrFieldIndex       = errors.New("field index out of range")
	ErrBadConditionHost = errors.New("field type cannot host conditional logic targets")
)

// conditionTargets are the only types a conditional rule may depend on:
// small discrete value sets an author can name a depends_on_value for.
var conditionTargets = map[model.FieldType]bool{
	model.FieldYesNo:    true,
	model.FieldSelect:   true,
	model.FieldCheckbox: true,
}

// Builder mutates a template draft during an authoring session. It owns the
// draft exclusively; Template returns a snapshot, Finish the validated
// result. Cyclic conditional dependencies are rejected at Finish unless
// AllowConditionCycles was called (the legacy permissive mode).
type Builder struct {
	draft       model.FormTemplate
	allowCycles bool
}

// NewBuilder starts a fresh draft of the given form type.
func NewBuilder(name string, formType model.FormType) *Builder {
	return &Builder{draft: model.FormTemplate{
		Name:     name,
		FormType: formType,
		Active:   true,
	}}
}

// Edit wraps an existing template for in-place modification.
func Edit(t model.FormTemplate) *Builder {
	return &Builder{draft: t}
}

// AllowConditionCycles disables the cycle check at Finish, reproducing the
// legacy behavior that accepted mutually dependent conditional rules.
func (b *Builder) AllowConditionCycles() *Builder {
	b.allowCycles = true
	return b
}

func (b *Builder) SetName(name string)           { b.draft.Name = name }
func (b *Builder) SetDescription(d string)       { b.draft.Description = d }
func (b *Builder) SetEquipmentType(et string)    { b.draft.EquipmentType = et }
func (b *Builder) SetActive(active bool)         { b.draft.Active = active }
func (b *Builder) SetFormType(ft model.FormType) { b.draft.FormType = ft }

// Template returns a snapshot of the current draft.
func (b *Builder) Template() model.FormTemplate {
	t := b.draft
	t.Fields = append([]model.FormField(nil), b.draft.Fields...)
	return t
}

// AddField appends a new field with a freshly assigned id. Fixed-option
// types get their canonical option set from the registry; for select the
// author supplies newline-delimited option text, split and blank-stripped
// here. rawOptions is ignored for every other type.
func (b *Builder) AddField(ft model.FieldType, label string, required bool, rawOptions string) (model.FormField, error) {
	if !Known(ft) {
		return model.FormField{}, fmt.Errorf("unknown field type %q", ft)
	}

	f := model.FormField{
		FieldID:   newFieldID(),
		FieldType: ft,
		Label:     label,
		Required:  required,
	}
	switch {
	case ft == model.FieldSelect:
		f.Options = splitOptionLines(rawOptions)
	default:
		f.Options = Options(ft)
	}

	b.draft.Fields = append(b.draft.Fields, f)
	return f, nil
}

// ReplaceField swaps the field at index i for the edited version, keeping
// the original field id (ids are immutable once assigned). Edits address
// fields by position; reordering is not a primitive here.
func (b *Builder) ReplaceField(i int, f model.FormField) error {
	if i < 0 || i >= len(b.draft.Fields) {
		return ErrFieldIndex
	}
	f.FieldID = b.draft.Fields[i].FieldID
	if f.FieldType != model.FieldSelect {
		// author-supplied options only exist for select; fixed sets win back
		f.Options = Options(f.FieldType)
	}
	b.draft.Fields[i] = f
	return nil
}

// ConditionCandidates lists the fields a conditional rule may depend on.
// Position in the template does not restrict candidacy: a field may depend
// on one declared after it.
func (b *Builder) ConditionCandidates() []model.FormField {
	var out []model.FormField
	for _, f := range b.draft.Fields {
		if conditionTargets[f.FieldType] {
			out = append(out, f)
		}
	}
	return out
}

// SetConditional attaches a visibility rule to the field at index i,
// refusing targets outside the candidate set.
func (b *Builder) SetConditional(i int, dependsOnFieldID, value string) error {
	if i < 0 || i >= len(b.draft.Fields) {
		return ErrFieldIndex
	}
	for _, f := range b.draft.Fields {
		if f.FieldID != dependsOnFieldID {
			continue
		}
		if !conditionTargets[f.FieldType] {
			return ErrBadConditionHost
		}
		b.draft.Fields[i].Conditional = &model.ConditionalLogic{
			DependsOnField: dependsOnFieldID,
			DependsOnValue: value,
		}
		return nil
	}
	return fmt.Errorf("no field with id %q", dependsOnFieldID)
}

// ClearConditional removes the visibility rule from the field at index i.
func (b *Builder) ClearConditional(i int) error {
	if i < 0 || i >= len(b.draft.Fields) {
		return ErrFieldIndex
	}
	b.draft.Fields[i].Conditional = nil
	return nil
}

// Issues runs the authoring-time save gate and returns every problem found.
// Distinct from fill-time validation: this gates persistence only.
func (b *Builder) Issues() []string {
	return TemplateIssues(b.draft, b.allowCycles)
}

// Finish normalizes and validates the draft for saving. The returned
// template has every untyped field defaulted to text, as the stores expect.
func (b *Builder) Finish() (model.FormTemplate, error) {
	t := b.Template()
	Normalize(&t)
	if issues := TemplateIssues(t, b.allowCycles); len(issues) > 0 {
		return model.FormTemplate{}, fmt.Errorf("template not saveable: %s", strings.Join(issues, "; "))
	}
	return t, nil
}

// Normalize applies the documented pre-save normalization: any field lacking
// a type becomes text, and fields missing an id (e.g. hand-written imports)
// get one assigned.
func Normalize(t *model.FormTemplate) {
	for i := range t.Fields {
		if t.Fields[i].FieldType == "" {
			t.Fields[i].FieldType = model.FieldText
		}
		if t.Fields[i].FieldID == "" {
			t.Fields[i].FieldID = newFieldID()
		}
	}
}

// TemplateIssues is the save gate shared by the interactive Builder and the
// template store endpoints: non-empty name, at least one field, an equipment
// type on equipment forms, unique field ids, and (unless allowCycles) an
// acyclic conditional dependency graph.
func TemplateIssues(t model.FormTemplate, allowCycles bool) []string {
	var issues []string
	if strings.TrimSpace(t.Name) == "" {
		issues = append(issues, "name is required")
	}
	if len(t.Fields) == 0 {
		issues = append(issues, "at least one field is required")
	}
	if t.FormType == model.FormEquipment && strings.TrimSpace(t.EquipmentType) == "" {
		issues = append(issues, "equipment type is required for equipment forms")
	}

	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if f.FieldID == "" {
			continue
		}
		if seen[f.FieldID] {
			issues = append(issues, fmt.Sprintf("duplicate field id %q", f.FieldID))
		}
		seen[f.FieldID] = true
	}

	if !allowCycles {
		if cycle := findConditionCycle(t.Fields); len(cycle) > 0 {
			issues = append(issues, fmt.Sprintf(
				"conditional logic cycle: %s", strings.Join(cycle, " -> ")))
		}
	}

	return issues
}

// findConditionCycle walks the depends_on_field edges and returns the first
// cycle found as a field id path, or nil. Edges to unknown ids are ignored;
// they merely leave the dependent field permanently hidden.
func findConditionCycle(fields []model.FormField) []string {
	edges := make(map[string]string, len(fields))
	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.FieldID] = true
		if f.Conditional != nil {
			edges[f.FieldID] = f.Conditional.DependsOnField
		}
	}

	const (
		unvisited = 0
		inPath    = 1
		done      = 2
	)
	state := make(map[string]int, len(fields))

	for _, f := range fields {
		if state[f.FieldID] != unvisited {
			continue
		}
		var path []string
		id := f.FieldID
		for declared[id] && state[id] == unvisited {
			state[id] = inPath
			path = append(path, id)
			id = edges[id]
		}
		if declared[id] && state[id] == inPath {
			// trim the path down to the cycle itself
			for i, p := range path {
				if p == id {
					return append(path[i:], id)
				}
			}
		}
		for _, p := range path {
			state[p] = done
		}
	}
	return nil
}

func newFieldID() string {
	return "field_" + uuid.Must(uuid.NewV4()).String()
}

// splitOptionLines turns the author's newline-delimited option text into an
// option list, trimming each line and dropping blanks.
func splitOptionLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
