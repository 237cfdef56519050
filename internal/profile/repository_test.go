package profile

import (
	"context"
	"testing"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/platform/database/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLRepo(t *testing.T) Repository {
	t.Helper()
	return NewGORMRepository(dbtest.Open(t, &Profile{}, &Record{}))
}

func seedProfile(t *testing.T, repo Repository, id string, points int64) {
	t.Helper()
	ctx := context.Background()
	created, err := repo.CreateIfAbsent(ctx, &Profile{ID: id, DisplayName: id, Email: id + "@example.com", Points: points})
	require.NoError(t, err)
	require.True(t, created)
}

func TestGORMRepository_CreateIfAbsentNeverOverwrites(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "u1", 10)

	created, err := repo.CreateIfAbsent(ctx, &Profile{ID: "u1", DisplayName: "other", Points: 999})
	require.NoError(t, err)
	assert.False(t, created)

	p, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.DisplayName)
	assert.Equal(t, int64(10), p.Points)
}

func TestGORMRepository_FindByIDMissing(t *testing.T) {
	repo := newSQLRepo(t)
	_, err := repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGORMRepository_UpdateMergesFields(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "u1", 0)

	phone := "555-0100"
	require.NoError(t, repo.Update(ctx, "u1", Changes{Phone: &phone}))

	p, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", p.Phone)
	assert.Equal(t, "u1", p.DisplayName)

	assert.ErrorIs(t, repo.Update(ctx, "ghost", Changes{Phone: &phone}), common.ErrNotFound)
}

func TestGORMRepository_UpdateTrimsEveryField(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "u1", 0)

	name, photo, phone, bio := "  Ann  ", " https://img.example/a.png ", " 555 ", "\tDog person\n"
	require.NoError(t, repo.Update(ctx, "u1", Changes{DisplayName: &name, PhotoURL: &photo, Phone: &phone, Bio: &bio}))

	p, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.DisplayName)
	assert.Equal(t, "https://img.example/a.png", p.PhotoURL)
	assert.Equal(t, "555", p.Phone)
	assert.Equal(t, "Dog person", p.Bio)
}

func TestChanges_Trimmed(t *testing.T) {
	bio := "  hi  "
	got := Changes{Bio: &bio}.Trimmed()
	require.NotNil(t, got.Bio)
	assert.Equal(t, "hi", *got.Bio)
	assert.Nil(t, got.DisplayName)
	assert.Nil(t, got.PhotoURL)
	assert.Equal(t, "  hi  ", bio)
}

func TestGORMRepository_TransferPointsMovesBalanceAndRecords(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "buyer", 100)
	seedProfile(t, repo, "seller", 5)

	err := repo.TransferPoints(ctx, Transfer{
		BuyerID:  "buyer",
		SellerID: "seller",
		Amount:   50,
		Purchase: Record{GigID: "g1", Title: "Dog walking", Points: 50, PaymentType: PaymentPoints},
		Sale:     Record{GigID: "g1", Title: "Dog walking", Points: 50, PaymentType: PaymentPoints, CounterpartID: "buyer"},
	})
	require.NoError(t, err)

	buyer, err := repo.FindByID(ctx, "buyer")
	require.NoError(t, err)
	seller, err := repo.FindByID(ctx, "seller")
	require.NoError(t, err)

	assert.Equal(t, int64(50), buyer.Points)
	assert.Equal(t, int64(55), seller.Points)
	assert.Equal(t, int64(105), buyer.Points+seller.Points)
	require.Len(t, buyer.Purchases, 1)
	assert.Equal(t, "g1", buyer.Purchases[0].GigID)
	require.Len(t, seller.Sales, 1)
	assert.Equal(t, "buyer", seller.Sales[0].CounterpartID)
}

func TestGORMRepository_TransferPointsInsufficientLeavesBalances(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "buyer", 40)
	seedProfile(t, repo, "seller", 7)

	err := repo.TransferPoints(ctx, Transfer{BuyerID: "buyer", SellerID: "seller", Amount: 50})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "INSUFFICIENT_POINTS", apiErr.Code)
	assert.Contains(t, apiErr.Message, "40")
	assert.Contains(t, apiErr.Message, "50")

	buyer, _ := repo.FindByID(ctx, "buyer")
	seller, _ := repo.FindByID(ctx, "seller")
	assert.Equal(t, int64(40), buyer.Points)
	assert.Equal(t, int64(7), seller.Points)
	assert.Empty(t, buyer.Purchases)
	assert.Empty(t, seller.Sales)
}

func TestGORMRepository_TransferPointsMissingSellerRollsBack(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "buyer", 100)

	err := repo.TransferPoints(ctx, Transfer{BuyerID: "buyer", SellerID: "ghost", Amount: 10})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, PartySeller, MissingPartyOf(err))

	buyer, _ := repo.FindByID(ctx, "buyer")
	assert.Equal(t, int64(100), buyer.Points)
}

func TestGORMRepository_TransferPointsMissingBuyerIsTagged(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "seller", 5)

	err := repo.TransferPoints(ctx, Transfer{BuyerID: "ghost", SellerID: "seller", Amount: 10})
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, PartyBuyer, MissingPartyOf(err))

	seller, _ := repo.FindByID(ctx, "seller")
	assert.Equal(t, int64(5), seller.Points)
}

func TestGORMRepository_TransferPointsRejectsSelfAndNonPositive(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.TransferPoints(ctx, Transfer{BuyerID: "a", SellerID: "a", Amount: 1}), common.ErrSelfPurchase)
	assert.ErrorIs(t, repo.TransferPoints(ctx, Transfer{BuyerID: "a", SellerID: "b", Amount: 0}), common.ErrValidation)
}

func TestGORMRepository_AppendCashRecords(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	seedProfile(t, repo, "buyer", 3)

	rec := Record{GigID: "g2", Title: "Lawn care", Price: decimal.RequireFromString("19.99"), PaymentType: PaymentCash}
	require.NoError(t, repo.AppendPurchase(ctx, "buyer", rec))
	assert.ErrorIs(t, repo.AppendSale(ctx, "ghost", rec), common.ErrNotFound)

	buyer, err := repo.FindByID(ctx, "buyer")
	require.NoError(t, err)
	assert.Equal(t, int64(3), buyer.Points)
	require.Len(t, buyer.Purchases, 1)
	assert.True(t, decimal.RequireFromString("19.99").Equal(buyer.Purchases[0].Price))

	view := NewView("buyer", buyer, Defaults{})
	require.NotNil(t, view.Purchases[0].Price)
	assert.InDelta(t, 19.99, *view.Purchases[0].Price, 0.0001)
}
