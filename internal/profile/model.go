package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordKind distinguishes the buyer side from the seller side of a purchase.
type RecordKind string

const (
	KindPurchase RecordKind = "purchase"
	KindSale     RecordKind = "sale"
)

// Payment types stored on history records.
const (
	PaymentPoints = "points"
	PaymentCash   = "cash"
)

// Profile is the per-user ledger document.
type Profile struct {
	ID            string    `gorm:"type:varchar(128);primaryKey"`
	DisplayName   string    `gorm:"type:varchar(255)"`
	Email         string    `gorm:"type:varchar(255)"`
	PhotoURL      string    `gorm:"type:text"`
	Phone         string    `gorm:"type:varchar(50)"`
	Bio           string    `gorm:"type:text"`
	Points        int64     `gorm:"not null;default:0;check:chk_profiles_points_non_negative,points >= 0"`
	CompletedGigs int64     `gorm:"not null;default:0;check:chk_profiles_completed_gigs_non_negative,completed_gigs >= 0"`
	Purchases     []Record  `gorm:"-"`
	Sales         []Record  `gorm:"-"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (Profile) TableName() string {
	return "profiles"
}

// Record is one purchase or sale history entry. Points purchases carry Points,
// cash purchases carry Price.
type Record struct {
	ID            string          `gorm:"type:varchar(36);primaryKey"`
	ProfileID     string          `gorm:"type:varchar(128);not null;index:idx_profile_transactions_profile_kind"`
	Kind          RecordKind      `gorm:"type:varchar(16);not null;index:idx_profile_transactions_profile_kind"`
	GigID         string          `gorm:"type:varchar(128);not null"`
	Title         string          `gorm:"type:varchar(255)"`
	Points        int64           `gorm:"not null;default:0"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PaymentType   string          `gorm:"type:varchar(16);not null"`
	CounterpartID string          `gorm:"type:varchar(128)"`
	Date          time.Time       `gorm:"column:created_at;not null"`
}

func (Record) TableName() string {
	return "profile_transactions"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Date.IsZero() {
		r.Date = time.Now().UTC()
	}
	return nil
}

// Seed carries the identity fields a new profile starts with.
type Seed struct {
	DisplayName string
	Email       string
	PhotoURL    string
}

// Changes is a partial update of the display fields. Nil fields are left alone.
type Changes struct {
	DisplayName *string
	PhotoURL    *string
	Phone       *string
	Bio         *string
}

func (c Changes) Empty() bool {
	return c.DisplayName == nil && c.PhotoURL == nil && c.Phone == nil && c.Bio == nil
}

// Trimmed returns the changes with surrounding whitespace removed. Both stores persist this form.
func (c Changes) Trimmed() Changes {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return Changes{DisplayName: trim(c.DisplayName), PhotoURL: trim(c.PhotoURL), Phone: trim(c.Phone), Bio: trim(c.Bio)}
}

// Transfer moves Amount points from buyer to seller and appends both history records.
type Transfer struct {
	BuyerID  string
	SellerID string
	Amount   int64
	Purchase Record
	Sale     Record
}

// Defaults are the session supplied values a profile view falls back to.
type Defaults struct {
	DisplayName string
	Email       string
	PhotoURL    string
}

// --- DTOs ---

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	PhotoURL    *string `json:"photo_url" binding:"omitempty,url"`
	Phone       *string `json:"phone" binding:"omitempty,max=30"`
	Bio         *string `json:"bio" binding:"omitempty,max=1000"`
}

func (r UpdateProfileRequest) Changes() Changes {
	return Changes{DisplayName: r.DisplayName, PhotoURL: r.PhotoURL, Phone: r.Phone, Bio: r.Bio}
}

type RecordResponse struct {
	GigID       string    `json:"gig_id"`
	Title       string    `json:"title"`
	Points      int64     `json:"points,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	PaymentType string    `json:"payment_type"`
	BuyerID     string    `json:"buyer_id,omitempty"`
	Date        time.Time `json:"date"`
}

// View is the renderable profile: stored data merged over session defaults.
type View struct {
	ID            string           `json:"id"`
	DisplayName   string           `json:"display_name"`
	Email         string           `json:"email"`
	PhotoURL      string           `json:"photo_url,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Bio           string           `json:"bio,omitempty"`
	Points        int64            `json:"points"`
	CompletedGigs int64            `json:"completed_gigs"`
	Purchases     []RecordResponse `json:"purchases"`
	Sales         []RecordResponse `json:"sales"`
	Stored        bool             `json:"stored"`
}

// PublicView exposes only what other users may see.
type PublicView struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	PhotoURL      string `json:"photo_url,omitempty"`
	Bio           string `json:"bio,omitempty"`
	CompletedGigs int64  `json:"completed_gigs"`
}

func toRecordResponses(records []Record, withBuyer bool) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		resp := RecordResponse{
			GigID:       r.GigID,
			Title:       r.Title,
			Points:      r.Points,
			PaymentType: r.PaymentType,
			Date:        r.Date,
		}
		if r.PaymentType == PaymentCash {
			f := r.Price.InexactFloat64()
			resp.Price = &f
		}
		if withBuyer {
			resp.BuyerID = r.CounterpartID
		}
		out = append(out, resp)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// NewView merges stored over defaults. A nil stored profile renders as an empty ledger.
func NewView(id string, stored *Profile, defaults Defaults) View {
	v := View{
		ID:          id,
		DisplayName: defaults.DisplayName,
		Email:       defaults.Email,
		PhotoURL:    defaults.PhotoURL,
		Purchases:   []RecordResponse{},
		Sales:       []RecordResponse{},
	}
	if stored == nil {
		return v
	}
	v.Stored = true
	v.DisplayName = firstNonEmpty(stored.DisplayName, defaults.DisplayName)
	v.Email = firstNonEmpty(stored.Email, defaults.Email)
	v.PhotoURL = firstNonEmpty(stored.PhotoURL, defaults.PhotoURL)
	v.Phone = stored.Phone
	v.Bio = stored.Bio
	v.Points = stored.Points
	v.CompletedGigs = stored.CompletedGigs
	v.Purchases = toRecordResponses(stored.Purchases, false)
	v.Sales = toRecordResponses(stored.Sales, true)
	return v
}

func NewPublicView(p *Profile) PublicView {
	return PublicView{
		ID:            p.ID,
		DisplayName:   p.DisplayName,
		PhotoURL:      p.PhotoURL,
		Bio:           p.Bio,
		CompletedGigs: p.CompletedGigs,
	}
}
