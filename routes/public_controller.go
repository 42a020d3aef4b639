package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/fieldops/inspectforms/app"
	"github.com/fieldops/inspectforms/forms"
	"github.com/fieldops/inspectforms/httpx"
	"github.com/fieldops/inspectforms/log"
	"github.com/fieldops/inspectforms/model"
)

// PublicGetTemplateById loads a template for a filling session. A failure
// here is fatal to the session on the client side; there is nothing to
// retry against a 404.
func PublicGetTemplateById(app app.App) http.HandlerFunc {
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

// PublicListTemplateEquipment returns the units a template may be filled
// against: same equipment type, not archived.
func PublicListTemplateEquipment(app app.App) http.HandlerFunc {
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

		catalog, err := loadEquipment(r, app)
		if err != nil {
			httpx.LogInternalError(w, "db.get_equipment", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"equipment": forms.AssignableEquipment(catalog, template.EquipmentType),
		})
	}
}

type submitRequest struct {
	CrewID      string         `json:"crew_id"`
	CrewName    string         `json:"crew_name"`
	Responses   map[string]any `json:"responses"`
	SiteID      string         `json:"site_id"`
	DispatchID  string         `json:"dispatch_id"`
	CustomerID  string         `json:"customer_id"`
	EquipmentID string         `json:"equipment_id"`
}

// PublicSubmitResponse re-runs fill-time validation server-side, then stores
// the assembled payload in one transaction. 422 enumerates every failure.
func PublicSubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		templateId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		var req submitRequest
		err = render.DecodeJSON(r.Body, &req)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if req.Responses == nil {
			req.Responses = map[string]any{}
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

		equipmentAvailable := false
		if template.FormType == model.FormEquipment {
			catalog, err := loadEquipment(r, app)
			if err != nil {
				httpx.LogInternalError(w, "db.get_equipment", err)
				return
			}
			equipmentAvailable = len(forms.AssignableEquipment(catalog, template.EquipmentType)) > 0
		}

		result := forms.Validate(template, req.Responses, req.EquipmentID, equipmentAvailable)
		if result.Invalid() {
			ids := make([]string, 0, len(result.InvalidFieldIDs))
			for id := range result.InvalidFieldIDs {
				ids = append(ids, id)
			}
			httpx.ValidationFailed(w, r, "submit_response.validate", result.Messages, ids)
			return
		}

		payload := forms.BuildPayload(template, req.Responses,
			model.Identity{ID: req.CrewID, Name: req.CrewName},
			forms.Context{
				SiteID:              req.SiteID,
				DispatchID:          req.DispatchID,
				CustomerID:          req.CustomerID,
				SelectedEquipmentID: req.EquipmentID,
			})

		responsesJson, err := marshalJSON(payload.Responses)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.encode", err)
			return
		}

		var responseId int
		err = app.QueryRowContext(r.Context(), `
			INSERT INTO form_response
				(template_id, template_name, crew_id, crew_name, responses,
				 site_id, dispatch_id, customer_id, equipment_id, submitted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			payload.TemplateID,
			payload.TemplateName,
			payload.CrewID,
			payload.CrewName,
			responsesJson,
			nullable(payload.SiteID),
			nullable(payload.DispatchID),
			nullable(payload.CustomerID),
			nullable(payload.EquipmentID),
			payload.SubmittedAt,
		).Scan(&responseId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": responseId,
		})
	}
}
