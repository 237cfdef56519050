package profile

import (
	"context"
	"fmt"
	"time"

	"gigmarket_backend/internal/common"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UsersCollection holds one document per user, keyed by identity provider UID.
const UsersCollection = "users"

type profileDoc struct {
	DisplayName   string      `firestore:"displayName"`
	Email         string      `firestore:"email"`
	PhotoURL      string      `firestore:"photoURL"`
	Phone         string      `firestore:"phone,omitempty"`
	Bio           string      `firestore:"bio,omitempty"`
	Points        int64       `firestore:"points"`
	CompletedGigs int64       `firestore:"completedGigs"`
	Purchases     []recordDoc `firestore:"purchases"`
	Sales         []recordDoc `firestore:"sales"`
	CreatedAt     time.Time   `firestore:"createdAt"`
	UpdatedAt     time.Time   `firestore:"updatedAt,omitempty"`
}

type recordDoc struct {
	ID          string    `firestore:"id"`
	GigID       string    `firestore:"gigId"`
	Title       string    `firestore:"title"`
	Points      int64     `firestore:"points,omitempty"`
	Price       float64   `firestore:"price,omitempty"`
	PaymentType string    `firestore:"paymentType"`
	BuyerID     string    `firestore:"buyerId,omitempty"`
	Date        time.Time `firestore:"date"`
}

func toRecordDoc(r Record) recordDoc {
	if r.Date.IsZero() {
		r.Date = time.Now().UTC()
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return recordDoc{
		ID:          r.ID,
		GigID:       r.GigID,
		Title:       r.Title,
		Points:      r.Points,
		Price:       r.Price.InexactFloat64(),
		PaymentType: r.PaymentType,
		BuyerID:     r.CounterpartID,
		Date:        r.Date,
	}
}

func fromRecordDocs(profileID string, kind RecordKind, docs []recordDoc) []Record {
	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, Record{
			ID:            d.ID,
			ProfileID:     profileID,
			Kind:          kind,
			GigID:         d.GigID,
			Title:         d.Title,
			Points:        d.Points,
			Price:         decimal.NewFromFloat(d.Price),
			PaymentType:   d.PaymentType,
			CounterpartID: d.BuyerID,
			Date:          d.Date,
		})
	}
	return out
}

func (d profileDoc) toProfile(id string) *Profile {
	return &Profile{
		ID:            id,
		DisplayName:   d.DisplayName,
		Email:         d.Email,
		PhotoURL:      d.PhotoURL,
		Phone:         d.Phone,
		Bio:           d.Bio,
		Points:        d.Points,
		CompletedGigs: d.CompletedGigs,
		Purchases:     fromRecordDocs(id, KindPurchase, d.Purchases),
		Sales:         fromRecordDocs(id, KindSale, d.Sales),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type firestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(UsersCollection).Doc(id)
}

// mapStoreError translates Firestore status codes into API errors.
func mapStoreError(err error, id string) error {
	if err == nil {
		return nil
	}
	if _, ok := common.IsAPIError(err); ok {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return profileNotFound(id)
	case codes.PermissionDenied:
		return common.ErrPermissionDenied.WithDetails(err.Error())
	default:
		return fmt.Errorf("profile store (%s): %w", id, err)
	}
}

func (r *firestoreRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	var d profileDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", id, err)
	}
	return d.toProfile(id), nil
}

func (r *firestoreRepository) CreateIfAbsent(ctx context.Context, p *Profile) (bool, error) {
	now := time.Now().UTC()
	d := profileDoc{
		DisplayName: p.DisplayName,
		Email:       p.Email,
		PhotoURL:    p.PhotoURL,
		Purchases:   []recordDoc{},
		Sales:       []recordDoc{},
		CreatedAt:   now,
	}
	_, err := r.doc(p.ID).Create(ctx, d)
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, mapStoreError(err, p.ID)
	}
	p.CreatedAt = now
	return true, nil
}

func (r *firestoreRepository) Update(ctx context.Context, id string, changes Changes) error {
	changes = changes.Trimmed()
	var updates []firestore.Update
	for path, value := range map[string]*string{
		"displayName": changes.DisplayName,
		"photoURL":    changes.PhotoURL,
		"phone":       changes.Phone,
		"bio":         changes.Bio,
	} {
		if value != nil {
			updates = append(updates, firestore.Update{Path: path, Value: *value})
		}
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})

	_, err := r.doc(id).Update(ctx, updates)
	return mapStoreError(err, id)
}

func (r *firestoreRepository) appendRecord(ctx context.Context, profileID, field string, rec Record) error {
	_, err := r.doc(profileID).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayUnion(toRecordDoc(rec))},
	})
	return mapStoreError(err, profileID)
}

func (r *firestoreRepository) AppendPurchase(ctx context.Context, profileID string, rec Record) error {
	return r.appendRecord(ctx, profileID, "purchases", rec)
}

func (r *firestoreRepository) AppendSale(ctx context.Context, profileID string, rec Record) error {
	return r.appendRecord(ctx, profileID, "sales", rec)
}
func mapPartyError(err error, party, id string) error {
	if status.Code(err) == codes.NotFound {
		return partyNotFound(party, id)
	}
	return mapStoreError(err, id)
}

// TransferPoints runs a single attempt transaction. All reads happen before any write.
func (r *firestoreRepository) TransferPoints(ctx context.Context, t Transfer) error {
	if err := validateTransfer(t); err != nil {
		return err
	}
	buyerRef, sellerRef := r.doc(t.BuyerID), r.doc(t.SellerID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		buyerSnap, err := tx.Get(buyerRef)
		if err != nil {
			return mapPartyError(err, PartyBuyer, t.BuyerID)
		}
		if _, err := tx.Get(sellerRef); err != nil {
			return mapPartyError(err, PartySeller, t.SellerID)
		}

		balance, err := pointsOf(buyerSnap)
		if err != nil {
			return err
		}
		if balance < t.Amount {
			return common.NewInsufficientPointsError(balance, t.Amount)
		}

		now := time.Now().UTC()
		if err := tx.Update(buyerRef, []firestore.Update{
			{Path: "points", Value: firestore.Increment(-t.Amount)},
			{Path: "purchases", Value: firestore.ArrayUnion(toRecordDoc(t.Purchase))},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return err
		}
		return tx.Update(sellerRef, []firestore.Update{
			{Path: "points", Value: firestore.Increment(t.Amount)},
			{Path: "sales", Value: firestore.ArrayUnion(toRecordDoc(t.Sale))},
			{Path: "updatedAt", Value: now},
		})
	}, firestore.MaxAttempts(1))
	return mapStoreError(err, t.BuyerID)
}

func pointsOf(snap *firestore.DocumentSnapshot) (int64, error) {
	raw, err := snap.DataAt("points")
	if err != nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("profile %s has non-numeric points %v", snap.Ref.ID, raw)
	}
}
