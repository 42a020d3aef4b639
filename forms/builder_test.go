package forms

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fieldops/inspectforms/model"
)

func TestBuilder_AddFieldAssignsUniqueIds(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		f, err := b.AddField(model.FieldText, "Label", false, "")
		if err != nil {
			t.Fatal(err)
		}
		if f.FieldID == "" {
			t.Fatal("empty field id")
		}
		if seen[f.FieldID] {
			t.Fatalf("duplicate field id %q", f.FieldID)
		}
		seen[f.FieldID] = true
	}
}

func TestBuilder_AddFieldAutoOptions(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)

	f, err := b.AddField(model.FieldPassFail, "Brakes", true, "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Pass", "Fail"}, f.Options); diff != "" {
		t.Errorf("pass_fail options (-want +got):\n%s", diff)
	}

	f, err = b.AddField(model.FieldText, "Notes", false, "ignored\nlines")
	if err != nil {
		t.Fatal(err)
	}
	if f.Options != nil {
		t.Errorf("text field options = %v, want none", f.Options)
	}
}

func TestBuilder_SelectOptionsFromLines(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	f, err := b.AddField(model.FieldSelect, "Site Area", false, "North Yard\n\n  South Yard  \nShop\n")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"North Yard", "South Yard", "Shop"}
	if diff := cmp.Diff(want, f.Options); diff != "" {
		t.Errorf("select options (-want +got):\n%s", diff)
	}
}

func TestBuilder_UnknownType(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	if _, err := b.AddField("rating_stars", "Stars", false, ""); err == nil {
		t.Error("unknown field type must be rejected")
	}
}

func TestBuilder_ReplaceFieldKeepsId(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	orig, _ := b.AddField(model.FieldText, "Old Label", false, "")

	edited := orig
	edited.FieldID = "attempted-rename"
	edited.Label = "New Label"
	edited.Required = true
	if err := b.ReplaceField(0, edited); err != nil {
		t.Fatal(err)
	}

	got := b.Template().Fields[0]
	if got.FieldID != orig.FieldID {
		t.Errorf("field id changed: %q -> %q", orig.FieldID, got.FieldID)
	}
	if got.Label != "New Label" || !got.Required {
		t.Errorf("edit not applied: %+v", got)
	}

	if err := b.ReplaceField(5, edited); err == nil {
		t.Error("out of range index must error")
	}
}

func TestBuilder_ConditionCandidates(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	b.AddField(model.FieldYesNo, "Gate", false, "")
	b.AddField(model.FieldText, "Free Text", false, "")
	b.AddField(model.FieldSelect, "Area", false, "A\nB")
	b.AddField(model.FieldCheckbox, "Agree", false, "")
	b.AddField(model.FieldPassFail, "Brakes", false, "")

	var labels []string
	for _, f := range b.ConditionCandidates() {
		labels = append(labels, f.Label)
	}
	want := []string{"Gate", "Area", "Agree"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("candidates (-want +got):\n%s", diff)
	}
}

func TestBuilder_SetConditionalForwardReference(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	b.AddField(model.FieldText, "Detail", false, "")
	gate, _ := b.AddField(model.FieldYesNo, "Gate", false, "")

	// the dependent field appears before its gate; that is allowed
	if err := b.SetConditional(0, gate.FieldID, "Yes"); err != nil {
		t.Fatal(err)
	}
	got := b.Template().Fields[0].Conditional
	if got == nil || got.DependsOnField != gate.FieldID || got.DependsOnValue != "Yes" {
		t.Errorf("conditional = %+v", got)
	}
}

func TestBuilder_SetConditionalRejectsBadTarget(t *testing.T) {
	b := NewBuilder("Checklist", model.FormCustom)
	b.AddField(model.FieldText, "Detail", false, "")
	text, _ := b.AddField(model.FieldText, "Other Text", false, "")

	if err := b.SetConditional(0, text.FieldID, "x"); err == nil {
		t.Error("text fields must not be conditional targets")
	}
	if err := b.SetConditional(0, "no-such-id", "x"); err == nil {
		t.Error("unknown target must error")
	}
}

func TestTemplateIssues_SaveGate(t *testing.T) {
	issues := TemplateIssues(model.FormTemplate{}, false)
	if len(issues) != 2 {
		t.Fatalf("empty template issues = %v", issues)
	}

	tpl := model.FormTemplate{
		Name:     "Loader Check",
		FormType: model.FormEquipment,
		Fields:   []model.FormField{{FieldID: "f1", FieldType: model.FieldText, Label: "F"}},
	}
	issues = TemplateIssues(tpl, false)
	if len(issues) != 1 || !strings.Contains(issues[0], "equipment type") {
		t.Errorf("equipment gate issues = %v", issues)
	}

	tpl.EquipmentType = "loader"
	if issues := TemplateIssues(tpl, false); len(issues) != 0 {
		t.Errorf("expected saveable, got %v", issues)
	}
}

func TestTemplateIssues_DuplicateFieldIds(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Dup",
		Fields: []model.FormField{
			{FieldID: "same", FieldType: model.FieldText, Label: "A"},
			{FieldID: "same", FieldType: model.FieldText, Label: "B"},
		},
	}
	issues := TemplateIssues(tpl, false)
	if len(issues) != 1 || !strings.Contains(issues[0], "duplicate field id") {
		t.Errorf("issues = %v", issues)
	}
}

func TestTemplateIssues_ConditionCycle(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Cycle",
		Fields: []model.FormField{
			{FieldID: "a", FieldType: model.FieldYesNo, Label: "A",
				Conditional: &model.ConditionalLogic{DependsOnField: "b", DependsOnValue: "Yes"}},
			{FieldID: "b", FieldType: model.FieldYesNo, Label: "B",
				Conditional: &model.ConditionalLogic{DependsOnField: "a", DependsOnValue: "Yes"}},
		},
	}

	issues := TemplateIssues(tpl, false)
	if len(issues) != 1 || !strings.Contains(issues[0], "cycle") {
		t.Errorf("issues = %v", issues)
	}

	// legacy permissive mode
	if issues := TemplateIssues(tpl, true); len(issues) != 0 {
		t.Errorf("allowCycles should accept: %v", issues)
	}
}

func TestTemplateIssues_SelfCycle(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Self",
		Fields: []model.FormField{
			{FieldID: "a", FieldType: model.FieldYesNo, Label: "A",
				Conditional: &model.ConditionalLogic{DependsOnField: "a", DependsOnValue: "Yes"}},
		},
	}
	issues := TemplateIssues(tpl, false)
	if len(issues) != 1 || !strings.Contains(issues[0], "cycle") {
		t.Errorf("issues = %v", issues)
	}
}

func TestTemplateIssues_ChainWithoutCycle(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Chain",
		Fields: []model.FormField{
			{FieldID: "a", FieldType: model.FieldYesNo, Label: "A"},
			{FieldID: "b", FieldType: model.FieldYesNo, Label: "B",
				Conditional: &model.ConditionalLogic{DependsOnField: "a", DependsOnValue: "Yes"}},
			{FieldID: "c", FieldType: model.FieldText, Label: "C",
				Conditional: &model.ConditionalLogic{DependsOnField: "b", DependsOnValue: "Yes"}},
			// dangling edge: fine, the field just stays hidden
			{FieldID: "d", FieldType: model.FieldText, Label: "D",
				Conditional: &model.ConditionalLogic{DependsOnField: "gone", DependsOnValue: "Yes"}},
		},
	}
	if issues := TemplateIssues(tpl, false); len(issues) != 0 {
		t.Errorf("chain should be acyclic: %v", issues)
	}
}

func TestNormalize_DefaultsTypeAndId(t *testing.T) {
	tpl := model.FormTemplate{
		Name: "Norm",
		Fields: []model.FormField{
			{Label: "Untyped"},
			{FieldID: "typed", FieldType: model.FieldNumber, Label: "Typed"},
		},
	}
	Normalize(&tpl)

	if tpl.Fields[0].FieldType != model.FieldText {
		t.Errorf("untyped field = %q, want text", tpl.Fields[0].FieldType)
	}
	if tpl.Fields[0].FieldID == "" {
		t.Error("missing field id not assigned")
	}
	if tpl.Fields[1].FieldType != model.FieldNumber {
		t.Error("typed field must be untouched")
	}
}

func TestFinish(t *testing.T) {
	b := NewBuilder("", model.FormCustom)
	if _, err := b.Finish(); err == nil {
		t.Error("unnamed empty draft must not finish")
	}

	b = NewBuilder("Done", model.FormCustom)
	b.AddField(model.FieldText, "F", false, "")
	tpl, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Name != "Done" || len(tpl.Fields) != 1 {
		t.Errorf("finished template = %+v", tpl)
	}
}
