// File: cmd/server/providers.go
package main

import (
	"context"
	"time"

	"gigmarket_backend/internal/config"
	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/gig/esindex"
	"gigmarket_backend/internal/jobs"
	"gigmarket_backend/internal/musician"
	"gigmarket_backend/internal/notification"
	"gigmarket_backend/internal/platform/cache"
	"gigmarket_backend/internal/platform/database"
	platformElasticsearch "gigmarket_backend/internal/platform/elasticsearch"
	"gigmarket_backend/internal/profile"
	"gigmarket_backend/internal/purchase"
	"gigmarket_backend/internal/session"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideDatabase opens postgres and migrates the tables this deployment uses.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	models := []interface{}{&musician.Musician{}, &notification.Notification{}}
	if cfg.UsesSQLDocumentStore() {
		models = append(models, &profile.Profile{}, &profile.Record{}, &gig.Gig{})
	}
	if err := database.Migrate(cfg, db, logger, models...); err != nil {
		database.CloseGORMDB(db, logger)
		return nil, nil, err
	}
	return db, func() { database.CloseGORMDB(db, logger) }, nil
}

func provideProfileRepository(cfg *config.Config, db *gorm.DB, fs *firestore.Client) profile.Repository {
	if cfg.UsesSQLDocumentStore() {
		return profile.NewGORMRepository(db)
	}
	return profile.NewFirestoreRepository(fs)
}

func provideGigRepository(cfg *config.Config, db *gorm.DB, fs *firestore.Client) gig.Repository {
	if cfg.UsesSQLDocumentStore() {
		return gig.NewGORMRepository(db)
	}
	return gig.NewFirestoreRepository(fs)
}

// provideSessionManager subscribes profile hydration so every sign-in has a profile.
func provideSessionManager(provider session.IdentityProvider, cfg *config.Config, logger *zap.Logger, profiles profile.Service) *session.Manager {
	m := session.NewManager(provider, cfg, logger)
	m.Subscribe(profile.HydrationListener(profiles))
	return m
}

func provideRedisClient(cfg *config.Config, logger *zap.Logger) (*redis.Client, func(), error) {
	client, err := cache.NewRedisClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		return nil, func() {}, nil
	}
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn("Error closing redis client", zap.Error(err))
		}
	}, nil
}

func provideGigListCache(cfg *config.Config, client *redis.Client, logger *zap.Logger) gig.ListCache {
	if client == nil {
		return gig.NewNoopListCache()
	}
	return gig.NewRedisListCache(cache.NewRedisCache(client, "gigs:list", cfg.GigListCacheTTL), logger)
}

// provideGigIndexer makes sure the gigs index exists. A failure there keeps the
// indexer; writes then log and search falls back to the store.
func provideGigIndexer(client *platformElasticsearch.ESClientWrapper, logger *zap.Logger) gig.Indexer {
	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := platformElasticsearch.CreateGigsIndexIfNotExists(ctx, client, logger); err != nil {
			logger.Error("Failed to create Elasticsearch gigs index", zap.Error(err))
		}
	}
	return esindex.New(client, logger)
}

func provideProfileReader(svc profile.Service) gig.ProfileReader { return svc }

func provideCatalog(svc gig.Service) purchase.Catalog { return svc }

func provideLedger(repo profile.Repository) purchase.Ledger { return repo }

func provideIndexSyncer(svc gig.Service) jobs.IndexSyncer { return svc }

func provideSaleNotifier(cfg *config.Config, svc notification.Service) purchase.SaleNotifier {
	if !cfg.NotificationsEnabled {
		return purchase.NewNoopNotifier()
	}
	return purchase.NewNotificationNotifier(svc)
}

// provideNotificationHandler returns nil when notifications are off; the server then skips the routes.
func provideNotificationHandler(cfg *config.Config, svc notification.Service, logger *zap.Logger) *notification.Handler {
	if !cfg.NotificationsEnabled {
		return nil
	}
	return notification.NewHandler(svc, logger)
}
