package notification

import (
	"context"
	"errors"
	"testing"

	"gigmarket_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock type for notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *Notification) error {
	args := m.Called(ctx, notification)
	if args.Error(0) == nil && notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID string, page, pageSize int) ([]Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var notifications []Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]Notification)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return notifications, pagination, args.Error(2)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, notificationID uuid.UUID, userID string) (*Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type NotificationServiceTestSuite struct {
	service       Service
	mockNotifRepo *MockNotificationRepository
}

func setupNotificationServiceTestSuite() *NotificationServiceTestSuite {
	ts := &NotificationServiceTestSuite{mockNotifRepo: new(MockNotificationRepository)}
	ts.service = NewService(ts.mockNotifRepo, zap.NewNop())
	return ts
}

func TestNotificationService_CreateNotification_Success(t *testing.T) {
	ts := setupNotificationServiceTestSuite()
	ctx := context.Background()
	gigID := "gig-1"
	message := "Your gig sold!"

	ts.mockNotifRepo.On("Create", ctx, mock.AnythingOfType("*notification.Notification")).Run(func(args mock.Arguments) {
		notifArg := args.Get(1).(*Notification)
		assert.Equal(t, "seller-uid", notifArg.UserID)
		assert.Equal(t, GigPurchasedPoints, notifArg.Type)
		assert.Equal(t, message, notifArg.Message)
		assert.Equal(t, &gigID, notifArg.RelatedGigID)
		assert.False(t, notifArg.IsRead)
	}).Return(nil)

	created, err := ts.service.CreateNotification(ctx, "seller-uid", GigPurchasedPoints, message, &gigID)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.NotEqual(t, uuid.Nil, created.ID)
	ts.mockNotifRepo.AssertExpectations(t)
}

func TestNotificationService_CreateNotification_Error(t *testing.T) {
	ts := setupNotificationServiceTestSuite()
	ctx := context.Background()

	ts.mockNotifRepo.On("Create", ctx, mock.AnythingOfType("*notification.Notification")).Return(errors.New("repo error"))

	created, err := ts.service.CreateNotification(ctx, "seller-uid", GigPurchasedCash, "test", nil)

	assert.Nil(t, created)
	assert.ErrorIs(t, err, common.ErrInternalServer)
	ts.mockNotifRepo.AssertExpectations(t)
}

func TestNotificationService_CreateNotification_RequiresRecipient(t *testing.T) {
	ts := setupNotificationServiceTestSuite()

	_, err := ts.service.CreateNotification(context.Background(), " ", GigPurchasedCash, "test", nil)

	assert.ErrorIs(t, err, common.ErrBadRequest)
	ts.mockNotifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNotificationService_GetNotificationsForUser(t *testing.T) {
	ts := setupNotificationServiceTestSuite()
	ctx := context.Background()

	mockNotifications := []Notification{{ID: uuid.New(), UserID: "u1", Message: "Notif 1"}}
	mockPagination := &common.Pagination{CurrentPage: 1, PageSize: 5, TotalItems: 1, TotalPages: 1}
	ts.mockNotifRepo.On("GetByUserID", ctx, "u1", 1, 5).Return(mockNotifications, mockPagination, nil)
	ts.mockNotifRepo.On("GetByUserID", ctx, "u2", 1, 5).Return(nil, nil, errors.New("repo error"))

	notifications, pagination, err := ts.service.GetNotificationsForUser(ctx, "u1", 1, 5)
	assert.NoError(t, err)
	assert.Len(t, notifications, 1)
	assert.Equal(t, mockPagination, pagination)

	notifications, pagination, err = ts.service.GetNotificationsForUser(ctx, "u2", 1, 5)
	assert.ErrorIs(t, err, common.ErrInternalServer)
	assert.Nil(t, notifications)
	assert.Nil(t, pagination)
}

func TestNotificationService_MarkNotificationAsRead(t *testing.T) {
	ts := setupNotificationServiceTestSuite()
	ctx := context.Background()
	owned, missing, broken := uuid.New(), uuid.New(), uuid.New()

	ts.mockNotifRepo.On("MarkAsRead", ctx, owned, "u1").Return(nil)
	ts.mockNotifRepo.On("MarkAsRead", ctx, missing, "u1").Return(common.ErrNotFound.WithDetails("Notification not found or not owned by user."))
	ts.mockNotifRepo.On("MarkAsRead", ctx, broken, "u1").Return(errors.New("db gone"))

	assert.NoError(t, ts.service.MarkNotificationAsRead(ctx, owned, "u1"))
	assert.ErrorIs(t, ts.service.MarkNotificationAsRead(ctx, missing, "u1"), common.ErrNotFound)
	assert.ErrorIs(t, ts.service.MarkNotificationAsRead(ctx, broken, "u1"), common.ErrInternalServer)
}

func TestNotificationService_MarkAllUserNotificationsAsRead(t *testing.T) {
	ts := setupNotificationServiceTestSuite()
	ctx := context.Background()

	ts.mockNotifRepo.On("MarkAllAsRead", ctx, "u1").Return(int64(5), nil)
	ts.mockNotifRepo.On("MarkAllAsRead", ctx, "u2").Return(int64(0), errors.New("repo error"))

	count, err := ts.service.MarkAllUserNotificationsAsRead(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), count)

	count, err = ts.service.MarkAllUserNotificationsAsRead(ctx, "u2")
	assert.ErrorIs(t, err, common.ErrInternalServer)
	assert.Equal(t, int64(0), count)
}
