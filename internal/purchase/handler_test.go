package purchase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gigmarket_backend/internal/common"
	"gigmarket_backend/internal/gig"
	"gigmarket_backend/internal/profile"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fakeAuth(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.UserIDKey, uid)
		c.Next()
	}
}

func newPurchaseRouter(ts *engineSuite, uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(ts.engine, zap.NewNop()).RegisterRoutes(r.Group("/api/v1"), fakeAuth(uid))
	return r
}

func TestHandler_ConfirmCash(t *testing.T) {
	ts := setupEngine()
	g := testGig(gig.PaymentBoth)

	ts.catalog.On("GetGig", mock.Anything, "g1").Return(g, nil)
	ts.ledger.On("FindByID", mock.Anything, "seller").Return(seller(), nil)
	ts.ledger.On("AppendPurchase", mock.Anything, "buyer", mock.Anything).Return(nil)
	ts.ledger.On("AppendSale", mock.Anything, "seller", mock.Anything).Return(nil)
	ts.notifier.On("NotifySale", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gigs/g1/purchase", strings.NewReader(`{"payment_method":"cash"}`))
	req.Header.Set("Content-Type", "application/json")
	newPurchaseRouter(ts, "buyer").ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data ConfirmResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, StateConfirmed, body.Data.State)
	assert.Equal(t, "cash", body.Data.PaymentMethod)
	assert.Equal(t, "Sam", body.Data.Contact.Name)
}

func TestHandler_ConfirmNeedsMethodForBoth(t *testing.T) {
	ts := setupEngine()
	ts.catalog.On("GetGig", mock.Anything, "g1").Return(testGig(gig.PaymentBoth), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gigs/g1/purchase", nil)
	newPurchaseRouter(ts, "buyer").ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), MsgSelectPaymentMethod)
}

func TestHandler_InsufficientPointsIs402(t *testing.T) {
	ts := setupEngine()
	ts.catalog.On("GetGig", mock.Anything, "g1").Return(testGig(gig.PaymentPoints), nil)
	ts.ledger.On("FindByID", mock.Anything, "seller").Return(seller(), nil)
	ts.ledger.On("FindByID", mock.Anything, "buyer").Return(&profile.Profile{ID: "buyer", Points: 1}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gigs/g1/purchase", strings.NewReader(`{"payment_method":"points"}`))
	req.Header.Set("Content-Type", "application/json")
	newPurchaseRouter(ts, "buyer").ServeHTTP(w, req.WithContext(context.Background()))

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_POINTS")
	assert.Contains(t, w.Body.String(), `"balance":1`)
}
