// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"gigmarket_backend/internal/app"
	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/firebase"
	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/guard"
	"gigmarket_backend/internal/jobs"
	"gigmarket_backend/internal/musician"
	"gigmarket_backend/internal/notification"
	platformElasticsearch "gigmarket_backend/internal/platform/elasticsearch"
	"gigmarket_backend/internal/platform/logger"
	"gigmarket_backend/internal/profile"
	"gigmarket_backend/internal/purchase"
	"gigmarket_backend/internal/session"

	"github.com/google/wire"
)

var platformSet = wire.NewSet(
	logger.New,
	provideDatabase,
	firebase.NewApp,
	firebase.NewFirestoreClient,
	provideRedisClient,
	platformElasticsearch.NewClient,
)

var gigSet = wire.NewSet(
	provideProfileRepository,
	profile.NewService,
	provideProfileReader,
	provideGigRepository,
	provideGigListCache,
	provideGigIndexer,
	gig.NewService,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		platformSet,
		gigSet,

		firebase.NewAuthClient,
		session.NewFirebaseProvider,
		provideSessionManager,
		session.NewHandler,
		guard.NewFromConfig,

		profile.NewHandler,
		gig.NewHandler,

		notification.NewGORMRepository,
		notification.NewService,
		provideNotificationHandler,
		provideSaleNotifier,

		provideCatalog,
		provideLedger,
		purchase.NewEngine,
		purchase.NewHandler,

		musician.NewGORMRepository,
		musician.NewService,
		musician.NewHandler,

		provideIndexSyncer,
		jobs.NewGigIndexSyncJob,

		wire.Struct(new(app.Handlers), "*"),
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeIndexSync builds only what the sync-gigs command needs.
func initializeIndexSync(cfg *config.Config) (*jobs.GigIndexSyncJob, func(), error) {
	wire.Build(
		platformSet,
		gigSet,
		provideIndexSyncer,
		jobs.NewGigIndexSyncJob,
	)
	return nil, nil, nil
}
