package notification

import (
	"context"
	"strings"

	"gigmarket_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateNotification(ctx context.Context, userID string, typ NotificationType, message string, relatedGigID *string) (*Notification, error)
	GetNotificationsForUser(ctx context.Context, userID string, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID string) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID string) (int64, error)
}

type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{repo: repo, logger: logger.Named("notification_service")}
}

func (s *ServiceImplementation) CreateNotification(ctx context.Context, userID string, typ NotificationType, message string, relatedGigID *string) (*Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, common.ErrBadRequest.WithDetails("Notification recipient is required.")
	}
	n := &Notification{
		UserID:       userID,
		Type:         typ,
		Message:      message,
		RelatedGigID: relatedGigID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification", zap.String("uid", userID), zap.String("type", string(typ)), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create notification.")
	}
	s.logger.Info("Notification created", zap.String("notification_id", n.ID.String()), zap.String("uid", userID))
	return n, nil
}

func (s *ServiceImplementation) GetNotificationsForUser(ctx context.Context, userID string, page, pageSize int) ([]Notification, *common.Pagination, error) {
	notifications, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.String("uid", userID), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	return notifications, pagination, nil
}

func (s *ServiceImplementation) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID string) error {
	err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if err == nil {
		return nil
	}
	if apiErr, ok := common.IsAPIError(err); ok {
		return apiErr
	}
	s.logger.Error("Failed to mark notification read", zap.String("notification_id", notificationID.String()), zap.Error(err))
	return common.ErrInternalServer.WithDetails("Could not mark notification as read.")
}

func (s *ServiceImplementation) MarkAllUserNotificationsAsRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications read", zap.String("uid", userID), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not mark all notifications as read.")
	}
	return count, nil
}
