package routes

import (
	"encoding/json"
	"net/http"

	"github.com/fieldops/inspectforms/app"
	"github.com/fieldops/inspectforms/model"
)

// Template fields are stored as one JSON document per row: templates are
// edited in place as a whole, so there is nothing to gain from a child table.

func loadTemplate(r *http.Request, app app.App, id int) (model.FormTemplate, error) {
	t := model.FormTemplate{}
	var fieldsJson string
	err := app.QueryRowContext(r.Context(), `
		SELECT id, version, name, description, form_type, equipment_type, fields, active
		FROM form_template
		WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Version, &t.Name, &t.Description, &t.FormType, &t.EquipmentType, &fieldsJson, &t.Active)
	if err != nil {
		return t, err
	}

	err = json.Unmarshal([]byte(fieldsJson), &t.Fields)
	return t, err
}

func loadEquipment(r *http.Request, app app.App) ([]model.Equipment, error) {
	rows, err := app.QueryContext(r.Context(), `
		SELECT id, equipment_type, status, unit_number, name
		FROM equipment`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := []model.Equipment{}
	for rows.Next() {
		e := model.Equipment{}
		err = rows.Scan(&e.ID, &e.EquipmentType, &e.Status, &e.UnitNumber, &e.Name)
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, e)
	}
	return catalog, rows.Err()
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

// nullable maps "" to NULL so omitted context identifiers stay absent.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
