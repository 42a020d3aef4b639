package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/fieldops/inspectforms/app"
	"github.com/fieldops/inspectforms/forms"
	"github.com/fieldops/inspectforms/httpx"
	"github.com/fieldops/inspectforms/log"
	"github.com/fieldops/inspectforms/model"
)

// CreateTemplate runs the authoring save gate (name, fields, equipment type,
// acyclic conditional logic) and the documented pre-save normalization
// before persisting. Authoring errors come back as a 422 with every issue
// listed.
func CreateTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		template := model.FormTemplate{}
		err := render.DecodeJSON(r.Body, &template)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		forms.Normalize(&template)
		if issues := forms.TemplateIssues(template, false); len(issues) > 0 {
			httpx.ValidationFailed(w, r, "insert_template.gate", issues, nil)
			return
		}

		fieldsJson, err := marshalJSON(template.Fields)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_template.encode", err)
			return
		}

		var templateId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO form_template (name, description, form_type, equipment_type, fields, active)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			template.Name,
			template.Description,
			template.FormType,
			template.EquipmentType,
			fieldsJson,
			template.Active,
		).Scan(&templateId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_template", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": templateId,
		})
	}
}

func ListTemplates(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT id, version, name, description, form_type, equipment_type, active
			FROM form_template`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_templates", err)
			return
		}
		defer rows.Close()

		templates := []model.FormTemplate{}
		for rows.Next() {
			t := model.FormTemplate{}
			err = rows.Scan(&t.ID, &t.Version, &t.Name, &t.Description, &t.FormType, &t.EquipmentType, &t.Active)
			if err != nil {
				httpx.LogInternalError(w, "db.get_templates.scan", err)
				return
			}

			templates = append(templates, t)
		}

		render.JSON(w, r, map[string]any{
			"templates": templates,
		})
	}
}

func GetTemplateById(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		template, err := loadTemplate(r, app, templateId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_template", templateId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_template", err)
			return
		}

		render.JSON(w, r, template)
	}
}

// UpdateTemplate overwrites the template in place. Concurrent authoring
// sessions are fenced by the version column: a stale version gets a 409.
func UpdateTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		template := model.FormTemplate{}
		err = render.DecodeJSON(r.Body, &template)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		forms.Normalize(&template)
		if issues := forms.TemplateIssues(template, false); len(issues) > 0 {
			httpx.ValidationFailed(w, r, "update_template.gate", issues, nil)
			return
		}

		fieldsJson, err := marshalJSON(template.Fields)
		if err != nil {
			httpx.LogInternalError(w, "db.update_template.encode", err)
			return
		}

		res, err := app.ExecContext(r.Context(), `
			UPDATE form_template
			SET
				name = ?,
				description = ?,
				form_type = ?,
				equipment_type = ?,
				fields = ?,
				active = ?,
				version = version+1
			WHERE	id = ?
				AND version = ?`,
			template.Name,
			template.Description,
			template.FormType,
			template.EquipmentType,
			fieldsJson,
			template.Active,
			templateId,
			template.Version,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.update_template", err)
			return
		}
		// optimistic lock
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.update_template.verify", err)
			return
		}
		if n < 1 {
			httpx.LogStatus(w, http.StatusConflict, log.DebugLevel, "db.update_template.verify.conflict")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteTemplate(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		res, err := app.ExecContext(r.Context(), `
			DELETE FROM form_template WHERE id = ?`,
			templateId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.delete_template", err)
			return
		}
		n, err := res.RowsAffected()
		if err != nil {
			httpx.LogInternalError(w, "db.delete_template.verify", err)
			return
		}
		if n < 1 {
			httpx.LogNotFound(w, "delete_template", templateId)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func GetTemplateResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		rows, err := app.QueryContext(r.Context(), `
			SELECT
				id, template_id, template_name, crew_id, crew_name, responses,
				site_id, dispatch_id, customer_id, equipment_id, submitted_at
			FROM form_response
			WHERE template_id = ?`,
			templateId,
		)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}
		defer rows.Close()

		responses := []model.FormResponse{}
		for rows.Next() {
			resp := model.FormResponse{}
			var answersJson string
			var siteId, dispatchId, customerId, equipmentId sql.NullString
			var submittedAt time.Time

			err = rows.Scan(
				&resp.ID, &resp.TemplateID, &resp.TemplateName, &resp.CrewID, &resp.CrewName, &answersJson,
				&siteId, &dispatchId, &customerId, &equipmentId, &submittedAt,
			)
			if err != nil {
				httpx.LogInternalError(w, "db.get_responses.scan", err)
				return
			}

			err = json.Unmarshal([]byte(answersJson), &resp.Responses)
			if err != nil {
				httpx.LogInternalError(w, "db.get_responses.parse_values", err)
				return
			}

			resp.SiteID = siteId.String
			resp.DispatchID = dispatchId.String
			resp.CustomerID = customerId.String
			resp.EquipmentID = equipmentId.String
			resp.SubmittedAt = submittedAt

			responses = append(responses, resp)
		}

		render.JSON(w, r, map[string]any{
			"responses": responses,
		})
	}
}

func ListEquipment(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := loadEquipment(r, app)
		if err != nil {
			httpx.LogInternalError(w, "db.get_equipment", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"equipment": catalog,
		})
	}
}
