package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/profile"

	"go.uber.org/zap"
)

// Catalog is the part of the gig catalog the engine reads and mutates.
type Catalog interface {
	GetGig(ctx context.Context, id string) (*gig.Gig, error)
	// MarkTaken flips a one-time gig and refreshes the catalog.
	MarkTaken(ctx context.Context, id, buyerID string) error
}

// Ledger is the profile store seen from the purchase side.
type Ledger interface {
	FindByID(ctx context.Context, id string) (*profile.Profile, error)
	TransferPoints(ctx context.Context, t profile.Transfer) error
	AppendPurchase(ctx context.Context, profileID string, rec profile.Record) error
	AppendSale(ctx context.Context, profileID string, rec profile.Record) error
}

// Engine runs purchase attempts. It never retries a failed write.
type Engine struct {
	catalog  Catalog
	ledger   Ledger
	notifier SaleNotifier
	now      func() time.Time
	logger   *zap.Logger
}

func NewEngine(catalog Catalog, ledger Ledger, notifier SaleNotifier, logger *zap.Logger) *Engine {
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &Engine{
		catalog:  catalog,
		ledger:   ledger,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger.Named("purchase_engine"),
	}
}

// resolveMethod picks the concrete payment method. A gig accepting both needs an explicit choice.
func resolveMethod(g *gig.Gig, requested gig.PaymentMethod) (gig.PaymentMethod, error) {
	if requested == "" || requested == gig.PaymentBoth {
		if g.PaymentMethod == gig.PaymentBoth || !g.PaymentMethod.Valid() {
			return "", common.NewValidationAPIError(map[string]string{"payment_method": MsgSelectPaymentMethod}).WithMessage(MsgSelectPaymentMethod)
		}
		return g.PaymentMethod, nil
	}
	if !g.Accepts(requested) {
		msg := fmt.Sprintf("This gig does not accept %s payments.", requested)
		return "", common.NewValidationAPIError(map[string]string{"payment_method": msg}).WithMessage(msg)
	}
	return requested, nil
}

// Confirm runs one attempt end to end. The returned attempt is always non-nil once the gig
// is loaded. Precondition failures leave it in payment selection, write failures leave it failed.
func (e *Engine) Confirm(ctx context.Context, buyerID, gigID string, requested gig.PaymentMethod) (*Attempt, error) {
	if buyerID == "" {
		return nil, common.ErrUnauthorized
	}
	g, err := e.catalog.GetGig(ctx, gigID)
	if err != nil {
		return nil, err
	}

	a := NewAttempt(g.ID, buyerID)
	if g.UserID == buyerID {
		e.logger.Warn("Rejected self purchase", zap.String("gig_id", g.ID), zap.String("uid", buyerID))
		return a, common.ErrSelfPurchase
	}
	method, err := resolveMethod(g, requested)
	if err != nil {
		return a, err
	}
	a.Method = method
	if g.OneTimeOnly && g.IsTaken() {
		return a, common.ErrConflict.WithMessage("This gig has already been taken.").WithDetails(map[string]string{"gig_id": g.ID})
	}

	if err := a.transition(StateProcessing); err != nil {
		return a, err
	}

	seller, err := e.ledger.FindByID(ctx, g.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return a, a.fail(common.ErrNotFound.WithMessage(MsgSellerNotFound))
		}
		return a, a.fail(e.storeFailure(g, buyerID, err))
	}

	switch method {
	case gig.PaymentPoints:
		if err := e.payWithPoints(ctx, g, seller, buyerID); err != nil {
			return a, a.fail(err)
		}
	case gig.PaymentCash:
		e.payWithCash(ctx, a, g, buyerID)
	}

	a.Contact = contactFor(g, seller)
	if err := a.transition(StateConfirmed); err != nil {
		return a, err
	}
	e.logger.Info("Purchase confirmed",
		zap.String("gig_id", g.ID),
		zap.String("buyer", buyerID),
		zap.String("seller", g.UserID),
		zap.String("method", string(method)))

	if g.OneTimeOnly {
		if err := e.catalog.MarkTaken(ctx, g.ID, buyerID); err != nil {
			e.logger.Warn("Could not mark one-time gig taken", zap.String("gig_id", g.ID), zap.Error(err))
		}
	}
	if err := e.notifier.NotifySale(ctx, Sale{Gig: g, BuyerID: buyerID, Method: method}); err != nil {
		e.logger.Warn("Sale notification failed", zap.String("gig_id", g.ID), zap.Error(err))
	}
	return a, nil
}

func (e *Engine) payWithPoints(ctx context.Context, g *gig.Gig, seller *profile.Profile, buyerID string) error {
	buyer, err := e.ledger.FindByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound.WithMessage(MsgBuyerNotFound)
		}
		return e.storeFailure(g, buyerID, err)
	}
	if buyer.Points < g.Points {
		return common.NewInsufficientPointsError(buyer.Points, g.Points)
	}

	now := e.now()
	t := profile.Transfer{
		BuyerID:  buyerID,
		SellerID: seller.ID,
		Amount:   g.Points,
		Purchase: profile.Record{GigID: g.ID, Title: g.Title, Points: g.Points, PaymentType: profile.PaymentPoints, CounterpartID: seller.ID, Date: now},
		Sale:     profile.Record{GigID: g.ID, Title: g.Title, Points: g.Points, PaymentType: profile.PaymentPoints, CounterpartID: buyerID, Date: now},
	}
	if err := e.ledger.TransferPoints(ctx, t); err != nil {
		switch {
		case errors.Is(err, common.ErrInsufficientPoints):
			return err
		case errors.Is(err, common.ErrNotFound):
			if profile.MissingPartyOf(err) == profile.PartySeller {
				return common.ErrNotFound.WithMessage(MsgSellerNotFound)
			}
			return common.ErrNotFound.WithMessage(MsgBuyerNotFound)
		}
		return e.storeFailure(g, buyerID, err)
	}
	return nil
}

// payWithCash only keeps an advisory log. Nothing here fails the attempt.
func (e *Engine) payWithCash(ctx context.Context, a *Attempt, g *gig.Gig, buyerID string) {
	now := e.now()
	rec := profile.Record{GigID: g.ID, Title: g.Title, Price: g.Price, PaymentType: profile.PaymentCash, Date: now}

	purchase := rec
	purchase.CounterpartID = g.UserID
	if err := e.ledger.AppendPurchase(ctx, buyerID, purchase); err != nil {
		e.logger.Warn("Could not record cash purchase for buyer", zap.String("gig_id", g.ID), zap.String("uid", buyerID), zap.Error(err))
		a.warn(MsgCashNotRecorded)
	}

	sale := rec
	sale.CounterpartID = buyerID
	if err := e.ledger.AppendSale(ctx, g.UserID, sale); err != nil {
		e.logger.Warn("Could not record cash sale for seller", zap.String("gig_id", g.ID), zap.String("uid", g.UserID), zap.Error(err))
	}
}

func (e *Engine) storeFailure(g *gig.Gig, buyerID string, err error) error {
	if errors.Is(err, common.ErrPermissionDenied) {
		e.logger.Warn("Store rejected ledger write", zap.String("gig_id", g.ID), zap.String("buyer", buyerID), zap.Error(err))
		return common.ErrPermissionDenied.WithMessage(MsgPermission)
	}
	if apiErr, ok := common.IsAPIError(err); ok {
		return apiErr
	}
	e.logger.Error("Purchase failed", zap.String("gig_id", g.ID), zap.String("buyer", buyerID), zap.Error(err))
	return common.ErrInternalServer.WithMessage(MsgProcessingFailed)
}

func contactFor(g *gig.Gig, seller *profile.Profile) *Contact {
	c := &Contact{
		Name:         strings.TrimSpace(seller.DisplayName),
		Email:        seller.Email,
		Phone:        strings.TrimSpace(seller.Phone),
		Instructions: strings.TrimSpace(g.ContactInstructions),
	}
	if c.Name == "" {
		c.Name = DefaultContactName
	}
	if c.Phone == "" {
		c.Phone = DefaultContactPhone
	}
	if c.Instructions == "" {
		c.Instructions = DefaultContactInstructions
	}
	return c
}
