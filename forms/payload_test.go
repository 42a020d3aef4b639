package forms

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fieldops/inspectforms/model"
)

func TestBuildPayload_CopiesAnswersVerbatim(t *testing.T) {
	tpl := model.FormTemplate{ID: 7, Name: "Daily Check"}
	answers := map[string]any{
		"visible":             "yes",
		"hidden_but_answered": "kept",
		"brakes_fail_comment": "pads worn",
		"agree":               true,
	}

	resp := BuildPayload(tpl, answers, model.Identity{ID: "crew-1", Name: "Sam"}, Context{})
	if diff := cmp.Diff(answers, resp.Responses); diff != "" {
		t.Errorf("responses not copied verbatim (-want +got):\n%s", diff)
	}

	// the payload holds a copy, not the live map
	answers["late"] = "mutation"
	if _, ok := resp.Responses["late"]; ok {
		t.Error("payload shares the session's answer map")
	}
}

func TestBuildPayload_Fallbacks(t *testing.T) {
	resp := BuildPayload(model.FormTemplate{}, map[string]any{}, model.Identity{}, Context{})
	if resp.TemplateName != "Unknown Form" {
		t.Errorf("TemplateName = %q", resp.TemplateName)
	}
	if resp.CrewID != "Unknown User" || resp.CrewName != "Unknown User" {
		t.Errorf("crew fallback = %q/%q", resp.CrewID, resp.CrewName)
	}
}

func TestBuildPayload_OmitsAbsentContextKeys(t *testing.T) {
	tpl := model.FormTemplate{ID: 1, Name: "T"}
	resp := BuildPayload(tpl, map[string]any{}, model.Identity{ID: "c", Name: "C"}, Context{
		SiteID: "site-9",
	})

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}

	if _, ok := decoded["site_id"]; !ok {
		t.Error("site_id should be present")
	}
	for _, key := range []string{"customer_id", "dispatch_id", "equipment_id"} {
		if v, ok := decoded[key]; ok {
			t.Errorf("%s should be absent, found %v", key, v)
		}
	}
}

func TestBuildPayload_EquipmentPrecedence(t *testing.T) {
	tpl := model.FormTemplate{ID: 1, Name: "T"}
	who := model.Identity{ID: "c", Name: "C"}

	// in-session selection wins over the deep-link id
	resp := BuildPayload(tpl, nil, who, Context{EquipmentID: "ext-1", SelectedEquipmentID: "picked-2"})
	if resp.EquipmentID != "picked-2" {
		t.Errorf("EquipmentID = %q, want picked-2", resp.EquipmentID)
	}

	// external id is the fallback
	resp = BuildPayload(tpl, nil, who, Context{EquipmentID: "ext-1"})
	if resp.EquipmentID != "ext-1" {
		t.Errorf("EquipmentID = %q, want ext-1", resp.EquipmentID)
	}

	// neither: omitted
	resp = BuildPayload(tpl, nil, who, Context{})
	if resp.EquipmentID != "" {
		t.Errorf("EquipmentID = %q, want empty", resp.EquipmentID)
	}
}
