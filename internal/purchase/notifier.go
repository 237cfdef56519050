package purchase

import (
	"context"
	"fmt"

	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/notification"
)

// Sale describes a confirmed purchase from the seller's side.
type Sale struct {
	Gig     *gig.Gig
	BuyerID string
	Method  gig.PaymentMethod
}

// SaleNotifier tells the seller about a sale. Failures never affect the purchase.
type SaleNotifier interface {
	NotifySale(ctx context.Context, sale Sale) error
}

type noopNotifier struct{}

func NewNoopNotifier() SaleNotifier { return noopNotifier{} }

func (noopNotifier) NotifySale(context.Context, Sale) error { return nil }

// NotificationCreator is the part of the notification service used here.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, userID string, typ notification.NotificationType, message string, relatedGigID *string) (*notification.Notification, error)
}

type notificationNotifier struct {
	notifications NotificationCreator
}

// NewNotificationNotifier stores a notification for the seller of every sale.
func NewNotificationNotifier(n NotificationCreator) SaleNotifier {
	return &notificationNotifier{notifications: n}
}

func (n *notificationNotifier) NotifySale(ctx context.Context, sale Sale) error {
	typ := notification.GigPurchasedCash
	msg := fmt.Sprintf("Someone arranged a cash payment for your gig %q.", sale.Gig.Title)
	if sale.Method == gig.PaymentPoints {
		typ = notification.GigPurchasedPoints
		msg = fmt.Sprintf("Your gig %q was purchased for %d points.", sale.Gig.Title, sale.Gig.Points)
	}
	gigID := sale.Gig.ID
	_, err := n.notifications.CreateNotification(ctx, sale.Gig.UserID, typ, msg, &gigID)
	return err
}
