package profile

import (
	"context"
	"errors"
	"testing"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProfileRepository is a mock type for profile.Repository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *MockProfileRepository) CreateIfAbsent(ctx context.Context, p *Profile) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, id string, changes Changes) error {
	return m.Called(ctx, id, changes).Error(0)
}

func (m *MockProfileRepository) AppendPurchase(ctx context.Context, profileID string, rec Record) error {
	return m.Called(ctx, profileID, rec).Error(0)
}

func (m *MockProfileRepository) AppendSale(ctx context.Context, profileID string, rec Record) error {
	return m.Called(ctx, profileID, rec).Error(0)
}

func (m *MockProfileRepository) TransferPoints(ctx context.Context, t Transfer) error {
	return m.Called(ctx, t).Error(0)
}

func setupProfileService() (Service, *MockProfileRepository) {
	repo := new(MockProfileRepository)
	return NewService(repo, zap.NewNop()), repo
}

func strPtr(s string) *string { return &s }

func TestProfileService_GetProfile_AbsentIsNil(t *testing.T) {
	svc, repo := setupProfileService()
	ctx := context.Background()
	repo.On("FindByID", ctx, "u1").Return(nil, common.ErrNotFound.WithDetails("missing"))

	p, err := svc.GetProfile(ctx, "u1")

	assert.NoError(t, err)
	assert.Nil(t, p)
	repo.AssertExpectations(t)
}

func TestProfileService_GetProfile_StoreError(t *testing.T) {
	svc, repo := setupProfileService()
	ctx := context.Background()
	repo.On("FindByID", ctx, "u1").Return(nil, errors.New("unavailable"))

	_, err := svc.GetProfile(ctx, "u1")
	assert.Error(t, err)
}

func TestProfileService_CreateProfile_SeedsEmptyLedger(t *testing.T) {
	svc, repo := setupProfileService()
	ctx := context.Background()

	repo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*profile.Profile")).Run(func(args mock.Arguments) {
		p := args.Get(1).(*Profile)
		assert.Equal(t, "u1", p.ID)
		assert.Equal(t, "ann@example.com", p.Email)
		assert.Zero(t, p.Points)
		assert.Zero(t, p.CompletedGigs)
		assert.Empty(t, p.Purchases)
	}).Return(true, nil)
	repo.On("FindByID", ctx, "u1").Return(&Profile{ID: "u1", Email: "ann@example.com"}, nil)

	p, err := svc.CreateProfile(ctx, "u1", Seed{DisplayName: "Ann", Email: " Ann@Example.com "})

	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	repo.AssertExpectations(t)
}

func TestProfileService_UpdateProfile_Validation(t *testing.T) {
	svc, repo := setupProfileService()
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, "u1", Changes{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.UpdateProfile(ctx, "u1", Changes{DisplayName: strPtr("   ")})
	assert.ErrorIs(t, err, common.ErrValidation)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileService_UpdateProfile_Success(t *testing.T) {
	svc, repo := setupProfileService()
	ctx := context.Background()
	changes := Changes{Phone: strPtr("555-0100")}

	repo.On("Update", ctx, "u1", changes).Return(nil)
	repo.On("FindByID", ctx, "u1").Return(&Profile{ID: "u1", Phone: "555-0100"}, nil)

	p, err := svc.UpdateProfile(ctx, "u1", changes)
	require.NoError(t, err)
	assert.Equal(t, "555-0100", p.Phone)
	repo.AssertExpectations(t)
}

func TestHydrationListener(t *testing.T) {
	svc, repo := setupProfileService()
	ctx := context.Background()
	listener := HydrationListener(svc)

	assert.NoError(t, listener(ctx, nil))

	repo.On("CreateIfAbsent", ctx, mock.AnythingOfType("*profile.Profile")).Return(false, nil)
	repo.On("FindByID", ctx, "u1").Return(&Profile{ID: "u1"}, nil)
	assert.NoError(t, listener(ctx, &session.User{ID: "u1", Email: "a@b.c"}))
	repo.AssertExpectations(t)
}

func TestNewView_MergesStoredOverDefaults(t *testing.T) {
	defaults := Defaults{DisplayName: "Session Ann", Email: "ann@example.com", PhotoURL: "https://img/a.png"}

	empty := NewView("u1", nil, defaults)
	assert.False(t, empty.Stored)
	assert.Equal(t, "Session Ann", empty.DisplayName)
	assert.Zero(t, empty.Points)
	assert.NotNil(t, empty.Purchases)
	assert.NotNil(t, empty.Sales)

	stored := &Profile{ID: "u1", DisplayName: "Ann the Baker", Points: 75, CompletedGigs: 2}
	v := NewView("u1", stored, defaults)
	assert.True(t, v.Stored)
	assert.Equal(t, "Ann the Baker", v.DisplayName)
	assert.Equal(t, "ann@example.com", v.Email)
	assert.Equal(t, int64(75), v.Points)
	assert.Equal(t, int64(2), v.CompletedGigs)
}
