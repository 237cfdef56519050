package gig

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod is how a gig may be paid for.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentPoints PaymentMethod = "points"
	PaymentBoth   PaymentMethod = "both"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentPoints, PaymentBoth:
		return true
	}
	return false
}

// Status tracks availability of one-time gigs.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
)

// UnknownUsername is stored when the owner has no name or email.
const UnknownUsername = "Unknown user"

// Gig is a service listing. Points is frozen at creation as ceil(Price).
type Gig struct {
	ID                  string          `gorm:"type:varchar(128);primaryKey"`
	Title               string          `gorm:"type:varchar(255);not null"`
	Description         string          `gorm:"type:text;not null"`
	Slug                string          `gorm:"type:varchar(300);index"`
	Price               decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Points              int64           `gorm:"not null"`
	PaymentMethod       PaymentMethod   `gorm:"type:varchar(10);not null;default:'both'"`
	UserID              string          `gorm:"type:varchar(128);not null;index:idx_gigs_user_created"`
	Username            string          `gorm:"type:varchar(255)"`
	ContactInstructions string          `gorm:"type:text"`
	OneTimeOnly         bool            `gorm:"not null;default:false"`
	Status              Status          `gorm:"type:varchar(16);not null;default:'available'"`
	TakenBy             string          `gorm:"type:varchar(128)"`
	TakenAt             *time.Time
	CreatedAt           time.Time `gorm:"not null;index:idx_gigs_user_created;index:idx_gigs_created"`
}

func (Gig) TableName() string {
	return "gigs"
}

func (g *Gig) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

// Accepts reports whether the gig can be paid with m. Both is not a concrete method.
func (g *Gig) Accepts(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentPoints:
		return g.PaymentMethod == m || g.PaymentMethod == PaymentBoth
	}
	return false
}

func (g *Gig) IsTaken() bool {
	return g.Status == StatusTaken
}

// MaxPrice is the largest price the numeric(12,2) column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

// PointsForPrice converts a cash price to its frozen points cost.
func PointsForPrice(price decimal.Decimal) int64 {
	return price.Ceil().IntPart()
}

// Owner identifies the user creating a gig, with the names used for the username fallback.
type Owner struct {
	ID    string
	Name  string
	Email string
}

// CreateGigInput is the validated payload for a new gig.
type CreateGigInput struct {
	Title               string
	Description         string
	Price               *decimal.Decimal
	PaymentMethod       PaymentMethod
	ContactInstructions string
	OneTimeOnly         bool
}

// ListFilter narrows a newest-first listing. Empty OwnerID lists everyone's gigs.
type ListFilter struct {
	OwnerID string
	Limit   int
}

// --- DTOs ---

type CreateGigRequest struct {
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Price               *decimal.Decimal `json:"price"`
	PaymentMethod       string           `json:"payment_method"`
	ContactInstructions string           `json:"contact_instructions"`
	OneTimeOnly         bool             `json:"one_time_only"`
}

func (r CreateGigRequest) Input() CreateGigInput {
	return CreateGigInput{
		Title:               r.Title,
		Description:         r.Description,
		Price:               r.Price,
		PaymentMethod:       PaymentMethod(r.PaymentMethod),
		ContactInstructions: r.ContactInstructions,
		OneTimeOnly:         r.OneTimeOnly,
	}
}

type GigResponse struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Slug                string     `json:"slug"`
	Price               float64    `json:"price"`
	Points              int64      `json:"points"`
	PaymentMethod       string     `json:"payment_method"`
	UserID              string     `json:"user_id"`
	Username            string     `json:"username"`
	ContactInstructions string     `json:"contact_instructions,omitempty"`
	OneTimeOnly         bool       `json:"one_time_only"`
	Status              string     `json:"status"`
	TakenBy             string     `json:"taken_by,omitempty"`
	TakenAt             *time.Time `json:"taken_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func ToGigResponse(g *Gig) GigResponse {
	return GigResponse{
		ID:                  g.ID,
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

func ToGigResponses(gigs []Gig) []GigResponse {
	out := make([]GigResponse, 0, len(gigs))
	for i := range gigs {
		out = append(out, ToGigResponse(&gigs[i]))
	}
	return out
}
