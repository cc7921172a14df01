package order

import (
	"context"
	"testing"
	"time"

	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testProducts() []Product {
	return []Product{
		{ID: "prod-1", Name: "Canvas Tote", Quantity: 2, Price: decimal.RequireFromString("39.99")},
		{ID: "prod-2", Name: "Linen Shirt", Quantity: 1, Price: decimal.RequireFromString("29.99")},
	}
}

func placeTestOrder(t *testing.T, service *Service) *Order {
	t.Helper()
	o, err := service.Place(context.Background(), "user-123", testProducts(), Address{
		Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "USA",
	}, "credit-card", PaymentPaid)
	require.NoError(t, err)
	return o
}

// ============================================
// Place Tests
// ============================================

func TestService_Place_ComputesLineAndOrderTotals(t *testing.T) {
	service, _ := newTestOrderService()

	o := placeTestOrder(t, service)

	assert.Equal(t, StatusPending, o.DeliveryStatus)
	line, ok := o.Products.Get("prod-1")
	require.True(t, ok)
	assert.True(t, line.TotalPrice.Equal(decimal.RequireFromString("79.98")))
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("109.97")))
}

func TestService_Place_EmptyOrder(t *testing.T) {
	service, eventStore := newTestOrderService()

	_, err := service.Place(context.Background(), "user-123", nil, Address{}, "card", PaymentPending)

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Place_RejectsZeroQuantityLine(t *testing.T) {
	service, _ := newTestOrderService()

	_, err := service.Place(context.Background(), "user-123", []Product{
		{ID: "prod-1", Quantity: 0, Price: decimal.RequireFromString("5.00")},
	}, Address{}, "card", PaymentPending)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

// ============================================
// CanEdit Tests
// ============================================

func TestOrder_CanEdit(t *testing.T) {
	placed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  DeliveryStatus
		now     time.Time
		canEdit bool
	}{
		{"pending within window", StatusPending, placed.Add(24 * time.Hour), true},
		{"in transit within window", StatusInTransit, placed.Add(47 * time.Hour), true},
		{"exactly at window edge", StatusPending, placed.Add(48 * time.Hour), true},
		{"past window", StatusPending, placed.Add(49 * time.Hour), false},
		{"delivered within window", StatusDelivered, placed.Add(time.Hour), false},
		{"cancelled within window", StatusCancelled, placed.Add(time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOrder()
			o.OrderDate = placed
			o.DeliveryStatus = tt.status
			assert.Equal(t, tt.canEdit, o.CanEdit(tt.now))
		})
	}
}

// ============================================
// ChangeProductQuantity Tests
// ============================================

func TestService_ChangeProductQuantity_RecomputesTotals(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.ChangeProductQuantity(ctx, o.ID, "prod-1", 5))

	updated, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	line, ok := updated.Products.Get("prod-1")
	require.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.TotalPrice.Equal(decimal.RequireFromString("199.95")))

	// 199.95 + 29.99
	assert.True(t, updated.TotalAmount.Equal(decimal.RequireFromString("229.94")),
		"order total is the exact sum of line totals")
}

func TestService_ChangeProductQuantity_OutsideWindow(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	service.WithClock(fixedClock(time.Now().Add(3 * 24 * time.Hour)))

	err := service.ChangeProductQuantity(ctx, o.ID, "prod-1", 5)

	assert.ErrorIs(t, err, ErrEditWindowClosed)

	unchanged, getErr := service.Get(ctx, o.ID)
	require.NoError(t, getErr)
	line, _ := unchanged.Products.Get("prod-1")
	assert.Equal(t, 2, line.Quantity, "rejected edit must not mutate state")
}

func TestService_ChangeProductQuantity_BelowFloor(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	err := service.ChangeProductQuantity(ctx, o.ID, "prod-1", 0)

	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestService_ChangeProductQuantity_UnknownProduct(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	err := service.ChangeProductQuantity(ctx, o.ID, "prod-404", 2)

	assert.ErrorIs(t, err, ErrProductNotInOrder)
}

func TestService_ChangeProductQuantity_UnknownOrder(t *testing.T) {
	service, _ := newTestOrderService()

	err := service.ChangeProductQuantity(context.Background(), "ORD-missing", "prod-1", 2)

	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// ============================================
// Cancel Tests
// ============================================

func TestService_Cancel_WithinWindow(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Cancel(ctx, o.ID, "changed my mind"))

	cancelled, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.DeliveryStatus)
}

func TestService_Cancel_OutsideWindow(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	service.WithClock(fixedClock(time.Now().Add(3 * 24 * time.Hour)))

	err := service.Cancel(ctx, o.ID, "too late")

	assert.ErrorIs(t, err, ErrEditWindowClosed)
}

func TestService_Cancel_AlreadyCancelled(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.Cancel(ctx, o.ID, "first"))
	err := service.Cancel(ctx, o.ID, "second")

	assert.ErrorIs(t, err, ErrEditWindowClosed, "cancelled orders are no longer editable")
}

// ============================================
// Delivery Status Tests
// ============================================

func TestService_UpdateDeliveryStatus_HappyPath(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.UpdateDeliveryStatus(ctx, o.ID, StatusInTransit))
	require.NoError(t, service.UpdateDeliveryStatus(ctx, o.ID, StatusDelivered))

	delivered, err := service.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, delivered.DeliveryStatus)
}

func TestService_UpdateDeliveryStatus_TerminalStatusStays(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	require.NoError(t, service.UpdateDeliveryStatus(ctx, o.ID, StatusDelivered))

	err := service.UpdateDeliveryStatus(ctx, o.ID, StatusInTransit)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_UpdateDeliveryStatus_IgnoresEditWindow(t *testing.T) {
	service, _ := newTestOrderService()
	ctx := context.Background()
	o := placeTestOrder(t, service)

	// Carrier updates arrive long after the local edit window closed.
	service.WithClock(fixedClock(time.Now().Add(10 * 24 * time.Hour)))

	require.NoError(t, service.UpdateDeliveryStatus(ctx, o.ID, StatusInTransit))
}
