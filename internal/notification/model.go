package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	GigPurchasedPoints NotificationType = "gig_purchased_points"
	GigPurchasedCash   NotificationType = "gig_purchased_cash"
)

// Notification is a message for one user, created when one of their gigs sells.
type Notification struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       string           `gorm:"type:varchar(128);not null;index:idx_notification_user_status" json:"user_id"`
	Type         NotificationType `gorm:"type:varchar(100);not null" json:"type"`
	Message      string           `gorm:"type:text;not null" json:"message"`
	RelatedGigID *string          `gorm:"type:varchar(128)" json:"related_gig_id,omitempty"`
	IsRead       bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt    time.Time        `gorm:"not null;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
