package model

import "time"

// FieldType is the closed set of field kinds an inspection form may contain.
type FieldType string

const (
	FieldText           FieldType = "text"
	FieldNumber         FieldType = "number"
	FieldCheckbox       FieldType = "checkbox"
	FieldSelect         FieldType = "select"
	FieldYesNo          FieldType = "yes_no"
	FieldPassFail       FieldType = "pass_fail"
	FieldCondition      FieldType = "condition"
	FieldInspectionItem FieldType = "inspection_item"
	FieldSignature      FieldType = "signature"
	FieldPhoto          FieldType = "photo"
	FieldSection        FieldType = "section"
)

// FormType classifies a template; equipment templates additionally require
// an equipment_type and a runtime equipment selection.
type FormType string

const (
	FormServiceTracking FormType = "service_tracking"
	FormSafetyCheck     FormType = "safety_check"
	FormEquipment       FormType = "equipment"
	FormCustom          FormType = "custom"
	FormCustomer        FormType = "customer"
)

// ConditionalLogic gates a field's visibility on another field's answer.
// Single predicate only: answers[DependsOnField] == DependsOnValue.
type ConditionalLogic struct {
	DependsOnField string `json:"depends_on_field"`
	DependsOnValue string `json:"depends_on_value"`
}

type FormField struct {
	FieldID   string    `json:"field_id"`
	FieldType FieldType `json:"field_type"`
	Label     string    `json:"label"`
	Required  bool      `json:"required,omitempty"`
	Options   []string  `json:"options,omitempty"`
	// Section names the label of a section-type field this field renders under.
	Section     string            `json:"section,omitempty"`
	Conditional *ConditionalLogic `json:"conditional_logic,omitempty"`
}

type FormTemplate struct {
	ID            int         `json:"id,omitempty"`
	Version       int         `json:"version,omitempty"`
	Name          string      `json:"name"`
	Description   string      `json:"description,omitempty"`
	FormType      FormType    `json:"form_type"`
	EquipmentType string      `json:"equipment_type,omitempty"`
	Fields        []FormField `json:"fields"`
	Active        bool        `json:"active"`
}

// FormResponse is a completed submission. It is created once and never edited.
// Template name and crew name are denormalized snapshots, not live references.
type FormResponse struct {
	ID           int            `json:"id,omitempty"`
	TemplateID   int            `json:"template_id"`
	TemplateName string         `json:"template_name"`
	CrewID       string         `json:"crew_id"`
	CrewName     string         `json:"crew_name"`
	Responses    map[string]any `json:"responses"`
	SiteID       string         `json:"site_id,omitempty"`
	DispatchID   string         `json:"dispatch_id,omitempty"`
	CustomerID   string         `json:"customer_id,omitempty"`
	EquipmentID  string         `json:"equipment_id,omitempty"`
	SubmittedAt  time.Time      `json:"submitted_at,omitempty"`
}

// Equipment is a catalog entity, read-only to the form engine.
type Equipment struct {
	ID            string `json:"id"`
	EquipmentType string `json:"equipment_type"`
	Status        string `json:"status"`
	UnitNumber    string `json:"unit_number,omitempty"`
	Name          string `json:"name,omitempty"`
}

// Identity is the acting user as reported by the identity context.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
