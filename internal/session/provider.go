package session

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
)

// IdentityProvider verifies bearer tokens and revokes provider side sessions.
type IdentityProvider interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Identity, error)
	RevokeSessions(ctx context.Context, uid string) error
}

// FirebaseProvider implements IdentityProvider with the Firebase Admin Auth client.
type FirebaseProvider struct {
	client *auth.Client
	logger *zap.Logger
}

func NewFirebaseProvider(client *auth.Client, logger *zap.Logger) IdentityProvider {
	return &FirebaseProvider{client: client, logger: logger.Named("firebase_identity")}
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("ID token must not be empty")
	}
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		p.logger.Debug("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify Firebase ID token: %w", err)
	}
	return identityFromToken(token), nil
}

func (p *FirebaseProvider) RevokeSessions(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}

func identityFromToken(token *auth.Token) *Identity {
	return &Identity{
		User: User{
			ID:       token.UID,
			Email:    claimString(token.Claims, "email"),
			Name:     claimString(token.Claims, "name"),
			PhotoURL: claimString(token.Claims, "picture"),
		},
		ExpiresAt: time.Unix(token.Expires, 0),
	}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
