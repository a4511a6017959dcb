// Package di assembles the service from its configuration.
package di

import (
	"net/http"

	app "devdash-backend/application/ideamap"
	"devdash-backend/application/ports"
	"devdash-backend/infrastructure/config"
	"devdash-backend/infrastructure/logging"
	"devdash-backend/infrastructure/observability"
	"devdash-backend/interfaces/http/rest/middleware"
)

// Container holds all application dependencies
type Container struct {
	Config    *config.Config
	Logger    *logging.Logger
	Handler   http.Handler
	Registry  *app.Registry
	Origins   *middleware.Origins
	IdeaMap   ports.IdeaMapStore
	Tracing   *observability.TracerProvider
	Collector *observability.Collector
}
