package command

import (
	"context"
	"strconv"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/wishlist"
	"github.com/shopspring/decimal"
)

type Handler struct {
	cartSvc     *cart.Service
	wishlistSvc *wishlist.Service
	orderSvc    *order.Service
}

func NewHandler(cartSvc *cart.Service, wishlistSvc *wishlist.Service, orderSvc *order.Service) *Handler {
	return &Handler{
		cartSvc:     cartSvc,
		wishlistSvc: wishlistSvc,
		orderSvc:    orderSvc,
	}
}

// AddToCart adds an item to the cart, or bumps its quantity if it is
// already there.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) error {
	return h.cartSvc.AddItem(ctx, cmd.UserID, cart.Line{
		ID:        cmd.ItemID,
		Name:      cmd.Name,
		UnitPrice: cmd.UnitPrice,
		Image:     cmd.Image,
	})
}

func (h *Handler) IncreaseCartQuantity(ctx context.Context, cmd IncreaseCartQuantity) error {
	return h.cartSvc.IncreaseQuantity(ctx, cmd.UserID, cmd.ItemID)
}

func (h *Handler) DecreaseCartQuantity(ctx context.Context, cmd DecreaseCartQuantity) error {
	return h.cartSvc.DecreaseQuantity(ctx, cmd.UserID, cmd.ItemID)
}

func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) error {
	return h.cartSvc.RemoveItem(ctx, cmd.UserID, cmd.ItemID)
}

func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	return h.cartSvc.Clear(ctx, cmd.UserID)
}

// AddToWishlist adds an item to the wishlist, or bumps its quantity.
func (h *Handler) AddToWishlist(ctx context.Context, cmd AddToWishlist) error {
	return h.wishlistSvc.AddItem(ctx, cmd.UserID, wishlist.Line{
		ID:    cmd.ItemID,
		Name:  cmd.Name,
		Price: cmd.Price,
		Image: cmd.Image,
	})
}

func (h *Handler) DecrementWishlistItem(ctx context.Context, cmd DecrementWishlistItem) error {
	return h.wishlistSvc.DecrementItem(ctx, cmd.UserID, cmd.ItemID)
}

func (h *Handler) RemoveFromWishlist(ctx context.Context, cmd RemoveFromWishlist) error {
	return h.wishlistSvc.RemoveItem(ctx, cmd.UserID, cmd.ItemID)
}

func (h *Handler) ClearWishlist(ctx context.Context, cmd ClearWishlist) error {
	return h.wishlistSvc.Clear(ctx, cmd.UserID)
}

// PlaceOrder creates an order from the user's current cart, then clears the
// cart. The cart is replayed from the event store rather than the read
// store, so a lagging projection can never produce a stale order.
func (h *Handler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (*order.Order, error) {
	c, err := h.cartSvc.Get(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	lines := c.Lines.Lines()
	if len(lines) == 0 {
		return nil, order.ErrEmptyOrder
	}

	products := make([]order.Product, len(lines))
	for i, line := range lines {
		products[i] = order.Product{
			ID:         strconv.FormatInt(line.ID, 10),
			Name:       line.Name,
			Thumbnail:  line.Image,
			Quantity:   line.Quantity,
			Price:      line.UnitPrice,
			TotalPrice: line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
	}

	// Payment is settled before the order event is emitted.
	o, err := h.orderSvc.Place(ctx, cmd.UserID, products, cmd.ShippingAddress, cmd.PaymentMethod, order.PaymentPaid)
	if err != nil {
		return nil, err
	}

	if err := h.cartSvc.Clear(ctx, cmd.UserID); err != nil {
		return nil, err
	}

	return o, nil
}

// ChangeOrderQuantity edits a product quantity on a placed order. The order
// service enforces the two-day edit window.
func (h *Handler) ChangeOrderQuantity(ctx context.Context, cmd ChangeOrderQuantity) error {
	return h.orderSvc.ChangeProductQuantity(ctx, cmd.OrderID, cmd.ProductID, cmd.Quantity)
}

func (h *Handler) CancelOrder(ctx context.Context, cmd CancelOrder) error {
	return h.orderSvc.Cancel(ctx, cmd.OrderID, cmd.Reason)
}

func (h *Handler) UpdateDeliveryStatus(ctx context.Context, cmd UpdateDeliveryStatus) error {
	return h.orderSvc.UpdateDeliveryStatus(ctx, cmd.OrderID, order.DeliveryStatus(cmd.Status))
}
