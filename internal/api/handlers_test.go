package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/wishlist"
	"github.com/example/storefront/internal/identity"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/readmodel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() (http.Handler, *mocks.MockReadStore) {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()

	cmdHandler := command.NewHandler(
		cart.NewService(eventStore),
		wishlist.NewService(eventStore),
		order.NewService(eventStore),
	)
	queryHandler := query.NewHandler(readStore)
	jwtService := identity.NewJWTService("test-secret", 15*time.Minute, 7*24*time.Hour)

	handlers := NewHandlers(cmdHandler, queryHandler, identity.NewMemoryProvider(), jwtService)
	return NewRouter(handlers, ""), readStore
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// ============================================
// Auth Endpoint Tests
// ============================================

func TestSignUpThenSignIn(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"email":"ada@example.com","password":"strongpassword","full_name":"Ada Lovelace"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			UID      string `json:"uid"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.User.UID)
	assert.Equal(t, "Ada Lovelace", resp.User.FullName)

	// Token lands in an HTTP-only cookie.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "access_token", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec = doJSON(t, router, http.MethodPost, "/auth/signin",
		`{"email":"ada@example.com","password":"strongpassword"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignIn_WrongPasswordGetsFriendlyMessage(t *testing.T) {
	router, _ := newTestServer()

	doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"email":"ada@example.com","password":"strongpassword","full_name":"Ada"}`)

	rec := doJSON(t, router, http.MethodPost, "/auth/signin",
		`{"email":"ada@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect email or password.")
	assert.NotContains(t, rec.Body.String(), "bcrypt")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	router, _ := newTestServer()

	doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"email":"ada@example.com","password":"strongpassword","full_name":"Ada"}`)
	rec := doJSON(t, router, http.MethodPost, "/auth/signup",
		`{"email":"ada@example.com","password":"strongpassword","full_name":"Ada"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ============================================
// Cart Endpoint Tests
// ============================================

func TestCartEndpoints(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		`{"item_id":42,"name":"Desk Lamp","unit_price":"24.99"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/cart/items/42/increase", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/cart/items/42/decrease", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/cart/items/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/cart", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddToCart_InvalidItem(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPost, "/cart/items", `{"item_id":0}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCart_EmptyFallback(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodGet, "/cart", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var c readmodel.CartReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "cart-user-1", c.ID)
	assert.Empty(t, c.Lines)
}

func TestGetCartTotals(t *testing.T) {
	router, readStore := newTestServer()

	readStore.SetData("carts", "cart-user-1", &readmodel.CartReadModel{
		ID:     "cart-user-1",
		UserID: "user-1",
		Lines: []readmodel.CartLineReadModel{
			{ItemID: 1, UnitPrice: decimal.RequireFromString("100.00"), Quantity: 2},
		},
	})

	rec := doJSON(t, router, http.MethodGet, "/cart/totals?promo=SAVE10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var totals struct {
		Subtotal string `json:"subtotal"`
		Discount string `json:"discount"`
		Tax      string `json:"tax"`
		Shipping string `json:"shipping"`
		Total    string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	assert.Equal(t, "200", totals.Subtotal)
	assert.Equal(t, "20", totals.Discount)
	assert.Equal(t, "14.4", totals.Tax)
	assert.Equal(t, "0", totals.Shipping)
	assert.Equal(t, "194.4", totals.Total)
}

// ============================================
// Order Endpoint Tests
// ============================================

func placeTestOrder(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/cart/items",
		`{"item_id":1,"name":"Keyboard","unit_price":"39.99"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders",
		`{"shipping_address":{"street":"1 Main St","city":"Springfield"},"payment_method":"credit_card"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var o struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	require.NotEmpty(t, o.ID)
	return o.ID
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPost, "/orders",
		`{"payment_method":"credit_card"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceOrder_FromCart(t *testing.T) {
	router, _ := newTestServer()

	orderID := placeTestOrder(t, router)

	assert.True(t, strings.HasPrefix(orderID, "ORD-"))
}

func TestGetOrders_ListQueryParams(t *testing.T) {
	router, readStore := newTestServer()

	readStore.SetData("orders", "ORD-1", &readmodel.OrderReadModel{
		ID: "ORD-1", UserID: "user-1", DeliveryStatus: "Cancelled",
		TotalAmount: decimal.RequireFromString("10"),
	})
	readStore.SetData("orders", "ORD-2", &readmodel.OrderReadModel{
		ID: "ORD-2", UserID: "user-1", DeliveryStatus: "Delivered",
		TotalAmount: decimal.RequireFromString("20"),
	})

	rec := doJSON(t, router, http.MethodGet, "/orders?status=cancelled", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var orders []readmodel.OrderReadModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-1", orders[0].ID)
}

func TestGetOrder_ForbiddenForOtherUsers(t *testing.T) {
	router, readStore := newTestServer()

	readStore.SetData("orders", "ORD-9", &readmodel.OrderReadModel{
		ID: "ORD-9", UserID: "someone-else",
	})

	rec := doJSON(t, router, http.MethodGet, "/orders/ORD-9", "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelOrder_NotFound(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPost, "/orders/ORD-missing/cancel", `{"reason":"test"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ============================================
// Wishlist Endpoint Tests
// ============================================

func TestWishlistEndpoints(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPost, "/wishlist/items",
		`{"item_id":7,"name":"Espresso Machine","price":"299.00"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/wishlist/items/7/decrement", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/wishlist/items/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/wishlist", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ============================================
// Routing Tests
// ============================================

func TestMethodNotAllowed(t *testing.T) {
	router, _ := newTestServer()

	rec := doJSON(t, router, http.MethodPut, "/cart", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
