package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fieldops/inspectforms/app"
	"github.com/fieldops/inspectforms/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	// filling sessions
	api.Get(`/templates/{id:^\d+$}`, PublicGetTemplateById(app))
	api.Get(`/templates/{id:^\d+$}/equipment`, PublicListTemplateEquipment(app))
	api.Post(`/templates/{id:^\d+$}/responses`, PublicSubmitResponse(app))

	api.Get("/preferences/{scope}/{key}", GetPreference(app))
	api.Put("/preferences/{scope}/{key}", PutPreference(app))

	// authoring
	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		r.Post("/templates", CreateTemplate(app))
		r.Get("/templates", ListTemplates(app))
		r.Get(`/templates/{id:^\d+$}`, GetTemplateById(app))
		r.Put(`/templates/{id:^\d+$}`, UpdateTemplate(app))
		r.Delete(`/templates/{id:^\d+$}`, DeleteTemplate(app))

		r.Get(`/templates/{id:^\d+$}/responses`, GetTemplateResponses(app))
		r.Get("/equipment", ListEquipment(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}
