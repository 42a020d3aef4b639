package forms

import (
	"testing"

	"github.com/fieldops/inspectforms/model"
)

func requiredText(id, label string) model.FormField {
	return model.FormField{FieldID: id, FieldType: model.FieldText, Label: label, Required: true}
}

func TestValidate_RequiredCount(t *testing.T) {
	tpl := model.FormTemplate{
		Name:     "Daily Check",
		FormType: model.FormSafetyCheck,
		Fields: []model.FormField{
			requiredText("f1", "First"),
			requiredText("f2", "Second"),
			{FieldID: "f3", FieldType: model.FieldText, Label: "Optional"},
			requiredText("f4", "Third"),
		},
	}

	res := Validate(tpl, map[string]any{}, "", false)
	if len(res.InvalidFieldIDs) != 3 {
		t.Fatalf("want 3 invalid field ids, got %d: %v", len(res.InvalidFieldIDs), res.InvalidFieldIDs)
	}
	for _, id := range []string{"f1", "f2", "f4"} {
		if !res.InvalidFieldIDs[id] {
			t.Errorf("missing invalid id %q", id)
		}
	}
	if len(res.Messages) != 3 {
		t.Errorf("want 3 messages, got %v", res.Messages)
	}
}

func TestValidate_AllFieldsEnumerated(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "No Short Circuit",
		Fields: []model.FormField{
			requiredText("f1", "One"),
			requiredText("f2", "Two"),
		},
	}
	res := Validate(tpl, map[string]any{}, "", false)
	if got := res.Messages; len(got) != 2 || got[0] != "One" || got[1] != "Two" {
		t.Errorf("messages = %v, want every offending label in order", got)
	}
}

func TestValidate_SectionIgnored(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Sections",
		Fields: []model.FormField{
			{FieldID: "s", FieldType: model.FieldSection, Label: "Header", Required: true},
		},
	}
	if res := Validate(tpl, map[string]any{}, "", false); res.Invalid() {
		t.Errorf("section fields must never validate: %v", res.Messages)
	}
}

// The required check deliberately ignores visibility: a required field
// hidden by conditional logic still fails when unanswered.
func TestValidate_HiddenRequiredStillChecked(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Hidden",
		Fields: []model.FormField{
			{FieldID: "gate", FieldType: model.FieldYesNo, Label: "Gate"},
			{
				FieldID:     "hidden",
				FieldType:   model.FieldText,
				Label:       "Hidden Detail",
				Required:    true,
				Conditional: &model.ConditionalLogic{DependsOnField: "gate", DependsOnValue: "Yes"},
			},
		},
	}

	answers := map[string]any{"gate": "No"}
	res := Validate(tpl, answers, "", false)
	if !res.InvalidFieldIDs["hidden"] {
		t.Error("required check must apply regardless of visibility")
	}
}

func TestValidate_FailRequiresComment(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Brakes",
		Fields: []model.FormField{
			{FieldID: "brakes", FieldType: model.FieldPassFail, Label: "Brakes", Options: []string{"Pass", "Fail"}},
		},
	}

	res := Validate(tpl, map[string]any{"brakes": "Fail"}, "", false)
	if !res.InvalidFieldIDs["brakes_fail_comment"] {
		t.Fatal("Fail with empty comment must flag the companion id")
	}
	want := "Brakes - Failure Explanation"
	found := false
	for _, m := range res.Messages {
		if m == want {
			found = true
		}
	}
	if !found {
		t.Errorf("messages = %v, want %q", res.Messages, want)
	}

	res = Validate(tpl, map[string]any{
		"brakes":              "Fail",
		"brakes_fail_comment": "pads worn through",
	}, "", false)
	if res.Invalid() {
		t.Errorf("comment provided, expected valid: %v", res.Messages)
	}
}

func TestValidate_PassNeverChecksComment(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Brakes",
		Fields: []model.FormField{
			{FieldID: "brakes", FieldType: model.FieldPassFail, Label: "Brakes", Options: []string{"Pass", "Fail"}},
		},
	}

	// empty companion with Pass, and with no answer at all
	if res := Validate(tpl, map[string]any{"brakes": "Pass", "brakes_fail_comment": ""}, "", false); res.Invalid() {
		t.Errorf("Pass must never check the companion: %v", res.Messages)
	}
	if res := Validate(tpl, map[string]any{}, "", false); res.Invalid() {
		t.Errorf("unanswered pass_fail must never check the companion: %v", res.Messages)
	}
}

func TestValidate_EquipmentGating(t *testing.T) {
	tpl := model.FormTemplate{
		Name:          "Loader Inspection",
		FormType:      model.FormEquipment,
		EquipmentType: "loader",
		Fields: []model.FormField{
			{FieldID: "hours", FieldType: model.FieldNumber, Label: "Hours"},
		},
	}

	res := Validate(tpl, map[string]any{}, "", true)
	if len(res.InvalidFieldIDs) != 0 {
		t.Errorf("no per-field failures expected: %v", res.InvalidFieldIDs)
	}
	if len(res.Messages) != 1 || res.Messages[0] != "Equipment Selection" {
		t.Errorf("messages = %v, want [Equipment Selection]", res.Messages)
	}
	if !res.Invalid() {
		t.Error("missing equipment selection must make the attempt invalid")
	}

	// selection present
	if res := Validate(tpl, map[string]any{}, "unit-42", true); res.Invalid() {
		t.Errorf("selection made, expected valid: %v", res.Messages)
	}
	// no assignable equipment exists
	if res := Validate(tpl, map[string]any{}, "", false); res.Invalid() {
		t.Errorf("empty catalog must not gate: %v", res.Messages)
	}
	// non-equipment form never gates
	tpl.FormType = model.FormCustom
	if res := Validate(tpl, map[string]any{}, "", true); res.Invalid() {
		t.Errorf("non-equipment form must not gate: %v", res.Messages)
	}
}

func TestAssignableEquipment(t *testing.T) {
	catalog := []model.Equipment{
		{ID: "1", EquipmentType: "loader", Status: "active"},
		{ID: "2", EquipmentType: "loader", Status: "archived"},
		{ID: "3", EquipmentType: "excavator", Status: "active"},
		{ID: "4", EquipmentType: "loader", Status: "maintenance"},
	}

	got := AssignableEquipment(catalog, "loader")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "4" {
		t.Errorf("AssignableEquipment = %+v", got)
	}
}
