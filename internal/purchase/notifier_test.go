package purchase

import (
	"context"
	"errors"
	"testing"

	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createdNotification struct {
	userID  string
	typ     notification.NotificationType
	message string
	gigID   *string
}

type fakeCreator struct {
	created []createdNotification
	err     error
}

func (f *fakeCreator) CreateNotification(_ context.Context, userID string, typ notification.NotificationType, message string, relatedGigID *string) (*notification.Notification, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, createdNotification{userID: userID, typ: typ, message: message, gigID: relatedGigID})
	return &notification.Notification{UserID: userID, Type: typ, Message: message, RelatedGigID: relatedGigID}, nil
}

func TestNotificationNotifier_PointsSale(t *testing.T) {
	creator := &fakeCreator{}
	n := NewNotificationNotifier(creator)

	g := &gig.Gig{ID: "gig-1", Title: "Dog walking", Points: 13, UserID: "seller-1"}
	require.NoError(t, n.NotifySale(context.Background(), Sale{Gig: g, BuyerID: "buyer-1", Method: gig.PaymentPoints}))

	require.Len(t, creator.created, 1)
	got := creator.created[0]
	assert.Equal(t, "seller-1", got.userID)
	assert.Equal(t, notification.GigPurchasedPoints, got.typ)
	assert.Contains(t, got.message, "13 points")
	require.NotNil(t, got.gigID)
	assert.Equal(t, "gig-1", *got.gigID)
}

func TestNotificationNotifier_CashSale(t *testing.T) {
	creator := &fakeCreator{}
	n := NewNotificationNotifier(creator)

	g := &gig.Gig{ID: "gig-2", Title: "Lawn mowing", UserID: "seller-2"}
	require.NoError(t, n.NotifySale(context.Background(), Sale{Gig: g, BuyerID: "buyer-1", Method: gig.PaymentCash}))

	require.Len(t, creator.created, 1)
	assert.Equal(t, notification.GigPurchasedCash, creator.created[0].typ)
	assert.Contains(t, creator.created[0].message, "Lawn mowing")
}

func TestNotificationNotifier_PropagatesError(t *testing.T) {
	n := NewNotificationNotifier(&fakeCreator{err: errors.New("db down")})
	err := n.NotifySale(context.Background(), Sale{Gig: &gig.Gig{ID: "g", UserID: "s"}, Method: gig.PaymentCash})
	assert.EqualError(t, err, "db down")
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NewNoopNotifier().NotifySale(context.Background(), Sale{}))
}
