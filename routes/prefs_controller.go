package routes

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/fieldops/inspectforms/app"
	"github.com/fieldops/inspectforms/httpx"
	"github.com/fieldops/inspectforms/log"
	"github.com/fieldops/inspectforms/prefs"
)

// Filling sessions read the remembered signature name once at start and
// write it back only when the user opts in. Scope is the crew member id.

func GetPreference(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := chi.URLParam(r, "scope")
		key := chi.URLParam(r, "key")

		value, err := app.Prefs.Get(scope, key)
		if errors.Is(err, prefs.ErrNotFound) {
			httpx.LogNotFound(w, "get_preference", scope+"/"+key)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_preference", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"value": value,
		})
	}
}

func PutPreference(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := chi.URLParam(r, "scope")
		key := chi.URLParam(r, "key")

		var body struct {
			Value string `json:"value"`
		}
		err := render.DecodeJSON(r.Body, &body)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		err = app.Prefs.Put(scope, key, body.Value)
		if err != nil {
			httpx.LogInternalError(w, "db.put_preference", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
