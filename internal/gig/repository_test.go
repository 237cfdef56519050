package gig

import (
	"context"
	"sync"
	"testing"
	"time"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/platform/database/dbtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLRepo(t *testing.T) Repository {
	t.Helper()
	return NewGORMRepository(dbtest.Open(t, &Gig{}))
}

func createGig(t *testing.T, repo Repository, owner string, created time.Time, oneTime bool) *Gig {
	t.Helper()
	g := &Gig{
		Title:         "gig by " + owner,
		Description:   "desc",
		Price:         decimal.NewFromInt(10),
		Points:        10,
		PaymentMethod: PaymentBoth,
		UserID:        owner,
		OneTimeOnly:   oneTime,
		Status:        StatusAvailable,
		CreatedAt:     created,
	}
	require.NoError(t, repo.Create(context.Background(), g))
	require.NotEmpty(t, g.ID)
	return g
}

func TestGORMRepository_ListNewestFirstWithOwnerFilter(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := createGig(t, repo, "ann", base, false)
	middle := createGig(t, repo, "bob", base.Add(time.Hour), false)
	newest := createGig(t, repo, "ann", base.Add(2*time.Hour), false)

	all, err := repo.List(ctx, ListFilter{Limit: 50})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	limited, err := repo.List(ctx, ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	mine, err := repo.List(ctx, ListFilter{OwnerID: "ann", Limit: 50})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newest.ID, mine[0].ID)
}

func TestGORMRepository_FindByIDMissing(t *testing.T) {
	repo := newSQLRepo(t)
	_, err := repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGORMRepository_MarkTakenIsCompareAndSwap(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	g := createGig(t, repo, "ann", time.Now().UTC(), true)
	at := time.Now().UTC()

	require.NoError(t, repo.MarkTaken(ctx, g.ID, "buyer-1", at))
	assert.ErrorIs(t, repo.MarkTaken(ctx, g.ID, "buyer-2", at), common.ErrConflict)
	assert.ErrorIs(t, repo.MarkTaken(ctx, "missing", "buyer-2", at), common.ErrNotFound)

	stored, err := repo.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusTaken, stored.Status)
	assert.Equal(t, "buyer-1", stored.TakenBy)
	require.NotNil(t, stored.TakenAt)
}

func TestGORMRepository_MarkTakenConcurrentSingleWinner(t *testing.T) {
	repo := newSQLRepo(t)
	ctx := context.Background()
	g := createGig(t, repo, "ann", time.Now().UTC(), true)

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- repo.MarkTaken(ctx, g.ID, "buyer", time.Now().UTC())
		}(i)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, common.ErrConflict)
		}
	}
	assert.Equal(t, 1, wins)
}
