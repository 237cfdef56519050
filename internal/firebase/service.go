package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"gigmarket_backend/internal/config"
)

// App holds the Firebase Admin SDK clients used by the service: Auth for identity
// verification and Firestore for the document store.
type App struct {
	app    *firebase.App
	logger *zap.Logger
}

// NewApp initializes the Firebase Admin SDK from the service account key file.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(context.Background(), conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &App{app: app, logger: logger}, nil
}

// NewAuthClient returns the Firebase Auth client.
func NewAuthClient(a *App) (*auth.Client, error) {
	client, err := a.app.Auth(context.Background())
	if err != nil {
		a.logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}
	return client, nil
}

// NewFirestoreClient returns a Firestore client, or nil when the SQL document store is selected.
// The returned cleanup closes the client.
func NewFirestoreClient(cfg *config.Config, a *App) (*firestore.Client, func(), error) {
	if cfg.UsesSQLDocumentStore() {
		a.logger.Info("DOCUMENT_STORE=sql; Firestore client not created")
		return nil, func() {}, nil
	}
	client, err := a.app.Firestore(context.Background())
	if err != nil {
		a.logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			a.logger.Warn("Error closing Firestore client", zap.Error(err))
		}
	}
	return client, cleanup, nil
}
