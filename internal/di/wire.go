//go:build wireinject
// +build wireinject

package di

import (
	"MarketBrief/pkg/config"
	"MarketBrief/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvidePortfolioStore,
		ProvideEventPublisher,

		// Provider clients
		ProvideQuoteProvider,
		ProvideNewsSearcher,
		ProvideNarrator,

		// Use cases
		ProvidePool,
		ProvideAggregator,
		ProvideBriefingGenerator,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
