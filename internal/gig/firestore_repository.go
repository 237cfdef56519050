package gig

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmarket_backend/internal/common"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const GigsCollection = "gigs"

type gigDoc struct {
	Title               string     `firestore:"title"`
	Description         string     `firestore:"description"`
	Slug                string     `firestore:"slug"`
	Price               float64    `firestore:"price"`
	Points              int64      `firestore:"points"`
	PaymentMethod       string     `firestore:"paymentMethod"`
	UserID              string     `firestore:"userId"`
	Username            string     `firestore:"username"`
	ContactInstructions string     `firestore:"contactInstructions,omitempty"`
	OneTimeOnly         bool       `firestore:"oneTimeOnly"`
	Status              string     `firestore:"status,omitempty"`
	TakenBy             string     `firestore:"takenBy,omitempty"`
	TakenAt             *time.Time `firestore:"takenAt,omitempty"`
	CreatedAt           time.Time  `firestore:"createdAt"`
}

func toGigDoc(g *Gig) gigDoc {
	return gigDoc{
		Title:               g.Title,
		Description:         g.Description,
		Slug:                g.Slug,
		Price:               g.Price.InexactFloat64(),
		Points:              g.Points,
		PaymentMethod:       string(g.PaymentMethod),
		UserID:              g.UserID,
		Username:            g.Username,
		ContactInstructions: g.ContactInstructions,
		OneTimeOnly:         g.OneTimeOnly,
		Status:              string(g.Status),
		TakenBy:             g.TakenBy,
		TakenAt:             g.TakenAt,
		CreatedAt:           g.CreatedAt,
	}
}

func (d gigDoc) toGig(id string) Gig {
	g := Gig{
		ID:                  id,
		Title:               d.Title,
		Description:         d.Description,
		Slug:                d.Slug,
		Price:               decimal.NewFromFloat(d.Price),
		Points:              d.Points,
		PaymentMethod:       PaymentMethod(d.PaymentMethod),
		UserID:              d.UserID,
		Username:            d.Username,
		ContactInstructions: d.ContactInstructions,
		OneTimeOnly:         d.OneTimeOnly,
		Status:              Status(d.Status),
		TakenBy:             d.TakenBy,
		TakenAt:             d.TakenAt,
		CreatedAt:           d.CreatedAt,
	}
	// Documents written before availability tracking carry no status or method.
	if g.Status == "" {
		g.Status = StatusAvailable
	}
	if g.PaymentMethod == "" {
		g.PaymentMethod = PaymentBoth
	}
	return g
}

type firestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) col() *firestore.CollectionRef {
	return r.client.Collection(GigsCollection)
}

func mapStoreError(err error, id string) error {
	if err == nil {
		return nil
	}
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return gigNotFound(id)
	case codes.PermissionDenied:
		return common.ErrPermissionDenied.WithDetails(err.Error())
	default:
		return fmt.Errorf("gig store (%s): %w", id, err)
	}
}

func (r *firestoreRepository) Create(ctx context.Context, g *Gig) error {
	ref := r.col().NewDoc()
	if _, err := ref.Create(ctx, toGigDoc(g)); err != nil {
		return mapStoreError(err, ref.ID)
	}
	g.ID = ref.ID
	return nil
}

func decodeGig(snap *firestore.DocumentSnapshot) (Gig, error) {
	var d gigDoc
	if err := snap.DataTo(&d); err != nil {
		return Gig{}, fmt.Errorf("decoding gig %s: %w", snap.Ref.ID, err)
	}
	return d.toGig(snap.Ref.ID), nil
}

func (r *firestoreRepository) FindByID(ctx context.Context, id string) (*Gig, error) {
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	g, err := decodeGig(snap)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *firestoreRepository) collect(ctx context.Context, q firestore.Query) ([]Gig, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	gigs := []Gig{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, mapStoreError(err, GigsCollection)
		}
		g, err := decodeGig(snap)
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, g)
	}
	return gigs, nil
}

func (r *firestoreRepository) List(ctx context.Context, filter ListFilter) ([]Gig, error) {
	q := r.col().Query
	if filter.OwnerID != "" {
		q = q.Where("userId", "==", filter.OwnerID)
	}
	return r.collect(ctx, q.OrderBy("createdAt", firestore.Desc).Limit(filter.Limit))
}

// MarkTaken reads and writes inside one transaction so two buyers cannot both take the gig.
func (r *firestoreRepository) MarkTaken(ctx context.Context, id, buyerID string, at time.Time) error {
	ref := r.col().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return mapStoreError(err, id)
		}
		g, err := decodeGig(snap)
		if err != nil {
			return err
		}
		if g.IsTaken() {
			return gigTaken(id)
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(StatusTaken)},
			{Path: "takenBy", Value: buyerID},
			{Path: "takenAt", Value: at},
		})
	}, firestore.MaxAttempts(1))
	return mapStoreError(err, id)
}

func (r *firestoreRepository) FindAllForSync(ctx context.Context) ([]Gig, error) {
	return r.collect(ctx, r.col().OrderBy("createdAt", firestore.Desc))
}
