package purchase

import (
	"fmt"

	"gigmarket_backend/internal/gig"
)

// State of a single purchase attempt.
type State string

const (
	StateSelectingPayment State = "selecting_payment"
	StateProcessing       State = "processing"
	StateConfirmed        State = "confirmed"
	StateFailed           State = "failed"
)

var transitions = map[State][]State{
	StateSelectingPayment: {StateProcessing},
	StateProcessing:       {StateConfirmed, StateFailed},
	StateFailed:           {StateSelectingPayment},
}

// User-facing messages.
const (
	MsgSelectPaymentMethod = "Please select a payment method"
	MsgSellerNotFound      = "Could not find gig creator's information"
	MsgBuyerNotFound       = "User profile not found"
	MsgPermission          = "Permission error: You may need to request the gig creator to update their profile settings, or contact support."
	MsgProcessingFailed    = "Failed to process payment. Please try again."
	MsgCashNotRecorded     = "Could not record your purchase, but you can still contact the seller"

	DefaultContactName         = "Gig Creator"
	DefaultContactPhone        = "No phone provided"
	DefaultContactInstructions = "Contact the gig creator directly to arrange the service."
)

// Contact is what the buyer sees once a purchase is confirmed.
type Contact struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Instructions string `json:"instructions"`
}

// Attempt tracks one buyer trying to pay for one gig.
type Attempt struct {
	GigID    string
	BuyerID  string
	Method   gig.PaymentMethod
	State    State
	Contact  *Contact
	Warnings []string
	Err      error
}

func NewAttempt(gigID, buyerID string) *Attempt {
	return &Attempt{GigID: gigID, BuyerID: buyerID, State: StateSelectingPayment}
}

func (a *Attempt) transition(to State) error {
	for _, allowed := range transitions[a.State] {
		if allowed == to {
			a.State = to
			return nil
		}
	}
	return fmt.Errorf("purchase attempt for gig %s: illegal transition %s -> %s", a.GigID, a.State, to)
}

func (a *Attempt) fail(err error) error {
	a.Err = err
	if terr := a.transition(StateFailed); terr != nil {
		return terr
	}
	return err
}

// Retry puts a failed attempt back to payment selection.
func (a *Attempt) Retry() error {
	if err := a.transition(StateSelectingPayment); err != nil {
		return err
	}
	a.Err = nil
	a.Method = ""
	a.Warnings = nil
	return nil
}

func (a *Attempt) warn(msg string) {
	a.Warnings = append(a.Warnings, msg)
}

// --- DTOs ---

type ConfirmRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=cash points both"`
}

type ConfirmResponse struct {
	GigID         string   `json:"gig_id"`
	PaymentMethod string   `json:"payment_method"`
	State         State    `json:"state"`
	Contact       *Contact `json:"contact"`
	Warnings      []string `json:"warnings,omitempty"`
}

func ToConfirmResponse(a *Attempt) ConfirmResponse {
	return ConfirmResponse{
		GigID:         a.GigID,
		PaymentMethod: string(a.Method),
		State:         a.State,
		Contact:       a.Contact,
		Warnings:      a.Warnings,
	}
}
