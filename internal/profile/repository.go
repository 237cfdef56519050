package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gigmarket_backend/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores profiles and their purchase/sale history.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Profile, error)
	// CreateIfAbsent inserts p unless a profile with the same ID exists. It never overwrites.
	CreateIfAbsent(ctx context.Context, p *Profile) (bool, error)
	Update(ctx context.Context, id string, changes Changes) error
	AppendPurchase(ctx context.Context, profileID string, rec Record) error
	AppendSale(ctx context.Context, profileID string, rec Record) error
	// TransferPoints debits the buyer, credits the seller and appends both records atomically.
	// A buyer balance below Amount leaves everything untouched.
	TransferPoints(ctx context.Context, t Transfer) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func profileNotFound(id string) *common.APIError {
	return common.ErrNotFound.WithDetails(fmt.Sprintf("Profile %s not found.", id))
}

// Sides of a transfer, as reported in MissingParty.
const (
	PartyBuyer  = "buyer"
	PartySeller = "seller"
)

// MissingParty is the NOT_FOUND detail of a transfer whose buyer or seller profile is absent.
type MissingParty struct {
	Party     string `json:"party"`
	ProfileID string `json:"profile_id"`
}

func partyNotFound(party, id string) *common.APIError {
	return common.ErrNotFound.WithDetails(MissingParty{Party: party, ProfileID: id})
}

// MissingPartyOf returns the side a failed transfer could not find, or "".
func MissingPartyOf(err error) string {
	apiErr, ok := common.IsAPIError(err)
	if !ok {
		return ""
	}
	if mp, ok := apiErr.Details.(MissingParty); ok {
		return mp.Party
	}
	return ""
}

func (r *gormRepository) FindByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profileNotFound(id)
		}
		return nil, fmt.Errorf("finding profile %s: %w", id, err)
	}

	var records []Record
	if err := r.db.WithContext(ctx).Where("profile_id = ?", id).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("loading history for profile %s: %w", id, err)
	}
	p.Purchases = []Record{}
	p.Sales = []Record{}
	for _, rec := range records {
		switch rec.Kind {
		case KindPurchase:
			p.Purchases = append(p.Purchases, rec)
		case KindSale:
			p.Sales = append(p.Sales, rec)
		}
	}
	return &p, nil
}

func (r *gormRepository) CreateIfAbsent(ctx context.Context, p *Profile) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		return false, fmt.Errorf("creating profile %s: %w", p.ID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func changeColumns(c Changes) map[string]interface{} {
	c = c.Trimmed()
	cols := map[string]interface{}{}
	for column, value := range map[string]*string{
		"display_name": c.DisplayName,
		"photo_url":    c.PhotoURL,
		"phone":        c.Phone,
		"bio":          c.Bio,
	} {
		if value != nil {
			cols[column] = *value
		}
	}
	return cols
}

func (r *gormRepository) Update(ctx context.Context, id string, changes Changes) error {
	cols := changeColumns(changes)
	cols["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("updating profile %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return profileNotFound(id)
	}
	return nil
}

func (r *gormRepository) appendRecord(ctx context.Context, profileID string, kind RecordKind, rec Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireProfile(tx, profileID); err != nil {
			return err
		}
		rec.ID = ""
		rec.ProfileID = profileID
		rec.Kind = kind
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("appending %s record to profile %s: %w", kind, profileID, err)
		}
		return nil
	})
}

func (r *gormRepository) AppendPurchase(ctx context.Context, profileID string, rec Record) error {
	return r.appendRecord(ctx, profileID, KindPurchase, rec)
}

func (r *gormRepository) AppendSale(ctx context.Context, profileID string, rec Record) error {
	return r.appendRecord(ctx, profileID, KindSale, rec)
}

func requireProfile(tx *gorm.DB, id string) error {
	var count int64
	if err := tx.Model(&Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking profile %s: %w", id, err)
	}
	if count == 0 {
		return profileNotFound(id)
	}
	return nil
}

func (r *gormRepository) TransferPoints(ctx context.Context, t Transfer) error {
	if err := validateTransfer(t); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireProfile(tx, t.SellerID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return partyNotFound(PartySeller, t.SellerID)
			}
			return err
		}

		// Conditional debit: the WHERE clause is the compare-and-swap on the balance.
		debit := tx.Model(&Profile{}).
			Where("id = ? AND points >= ?", t.BuyerID, t.Amount).
			Update("points", gorm.Expr("points - ?", t.Amount))
		if debit.Error != nil {
			return fmt.Errorf("debiting buyer %s: %w", t.BuyerID, debit.Error)
		}
		if debit.RowsAffected == 0 {
			var buyer Profile
			err := tx.Select("id", "points").Where("id = ?", t.BuyerID).First(&buyer).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return partyNotFound(PartyBuyer, t.BuyerID)
			}
			if err != nil {
				return fmt.Errorf("reading buyer %s balance: %w", t.BuyerID, err)
			}
			return common.NewInsufficientPointsError(buyer.Points, t.Amount)
		}

		credit := tx.Model(&Profile{}).
			Where("id = ?", t.SellerID).
			Update("points", gorm.Expr("points + ?", t.Amount))
		if credit.Error != nil {
			return fmt.Errorf("crediting seller %s: %w", t.SellerID, credit.Error)
		}

		purchase := t.Purchase
		purchase.ID, purchase.ProfileID, purchase.Kind = "", t.BuyerID, KindPurchase
		sale := t.Sale
		sale.ID, sale.ProfileID, sale.Kind = "", t.SellerID, KindSale
		if err := tx.Create(&purchase).Error; err != nil {
			return fmt.Errorf("recording purchase for %s: %w", t.BuyerID, err)
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("recording sale for %s: %w", t.SellerID, err)
		}
		return nil
	})
}

func validateTransfer(t Transfer) error {
	if t.Amount <= 0 {
		return common.NewValidationAPIError(map[string]string{"points": "Transfer amount must be positive."})
	}
	if t.BuyerID == "" || t.SellerID == "" {
		return common.NewValidationAPIError(map[string]string{"profile": "Buyer and seller are required."})
	}
	if t.BuyerID == t.SellerID {
		return common.ErrSelfPurchase
	}
	return nil
}
