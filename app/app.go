package app

import (
	"database/sql"

	"github.com/go-chi/oauth"

	"github.com/fieldops/inspectforms/config"
	"github.com/fieldops/inspectforms/prefs"
)

// App bundles the shared collaborators handlers close over.
type App struct {
	*sql.DB
	*oauth.BearerServer
	config.Config
	Prefs prefs.Store
}
