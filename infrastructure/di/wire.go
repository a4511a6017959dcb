//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"devdash-backend/infrastructure/config"
	"devdash-backend/interfaces/http/rest"
	"devdash-backend/interfaces/http/rest/handlers"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideAWSConfig,
	ProvideTracing,
	ProvideCollector,
	ProvideStores,
	ProvideBreaker,
	ProvideIdeaMapStore,
	ProvideSnippetRepository,
	ProvideNoteRepository,
	ProvideEventPublisher,
	ProvideVerifier,
	ProvideRegistry,
	ProvideSnippetService,
	ProvideNoteService,
	ProvideDashboardService,
	ProvideIdeaMapHandler,
	handlers.NewSnippetHandler,
	handlers.NewNoteHandler,
	handlers.NewDashboardHandler,
	handlers.NewHealthHandler,
	ProvideOrigins,
	ProvideRouterOptions,
	rest.NewRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
