package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/wishlist"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
	"github.com/shopspring/decimal"
)

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case cart.AggregateType:
		return p.handleCartEvent(event)
	case wishlist.AggregateType:
		return p.handleWishlistEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	}

	return nil
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventItemAdded:
		var e cart.ItemAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		_, ok, err := p.readStore.Get("carts", e.CartID)
		if err != nil {
			return err
		}
		if !ok {
			return p.readStore.Set("carts", e.CartID, &readmodel.CartReadModel{
				ID:     e.CartID,
				UserID: e.UserID,
				Lines: []readmodel.CartLineReadModel{
					{ItemID: e.ItemID, Name: e.Name, UnitPrice: e.UnitPrice, Image: e.Image, Quantity: 1},
				},
				Subtotal: e.UnitPrice,
			})
		}
		_, err = p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			found := false
			for i, line := range c.Lines {
				if line.ItemID == e.ItemID {
					// Re-adding bumps quantity; the first insertion's
					// name, price, and image win.
					c.Lines[i].Quantity++
					found = true
					break
				}
			}
			if !found {
				c.Lines = append(c.Lines, readmodel.CartLineReadModel{
					ItemID:    e.ItemID,
					Name:      e.Name,
					UnitPrice: e.UnitPrice,
					Image:     e.Image,
					Quantity:  1,
				})
			}
			c.Subtotal = cartSubtotal(c.Lines)
			return c
		})
		return err

	case cart.EventQuantityIncreased:
		var e cart.CartQuantityIncreased
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i, line := range c.Lines {
				if line.ItemID == e.ItemID {
					c.Lines[i].Quantity++
					break
				}
			}
			c.Subtotal = cartSubtotal(c.Lines)
			return c
		})
		return err

	case cart.EventQuantityDecreased:
		var e cart.CartQuantityDecreased
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			c.Lines = decrementCartLine(c.Lines, e.ItemID)
			c.Subtotal = cartSubtotal(c.Lines)
			return c
		})
		return err

	case cart.EventItemRemoved:
		var e cart.ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			newLines := make([]readmodel.CartLineReadModel, 0, len(c.Lines))
			for _, line := range c.Lines {
				if line.ItemID != e.ItemID {
					newLines = append(newLines, line)
				}
			}
			c.Lines = newLines
			c.Subtotal = cartSubtotal(c.Lines)
			return c
		})
		return err

	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set("carts", e.CartID, &readmodel.CartReadModel{
			ID:     e.CartID,
			UserID: e.UserID,
			Lines:  []readmodel.CartLineReadModel{},
		})
	}

	return nil
}

func (p *Projector) handleWishlistEvent(event store.Event) error {
	switch event.EventType {
	case wishlist.EventItemAdded:
		var e wishlist.ItemAddedToWishlist
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}

		_, ok, err := p.readStore.Get("wishlists", e.WishlistID)
		if err != nil {
			return err
		}
		if !ok {
			return p.readStore.Set("wishlists", e.WishlistID, &readmodel.WishlistReadModel{
				ID:     e.WishlistID,
				UserID: e.UserID,
				Lines: []readmodel.WishlistLineReadModel{
					{ItemID: e.ItemID, Name: e.Name, Price: e.Price, Image: e.Image, Quantity: 1, AddedDate: e.AddedAt},
				},
			})
		}
		_, err = p.readStore.Update("wishlists", e.WishlistID, func(current any) any {
			w := current.(*readmodel.WishlistReadModel)
			found := false
			for i, line := range w.Lines {
				if line.ItemID == e.ItemID {
					// AddedDate stays at the first insertion time.
					w.Lines[i].Quantity++
					found = true
					break
				}
			}
			if !found {
				w.Lines = append(w.Lines, readmodel.WishlistLineReadModel{
					ItemID:    e.ItemID,
					Name:      e.Name,
					Price:     e.Price,
					Image:     e.Image,
					Quantity:  1,
					AddedDate: e.AddedAt,
				})
			}
			return w
		})
		return err

	case wishlist.EventItemDecremented:
		var e wishlist.WishlistItemDecremented
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("wishlists", e.WishlistID, func(current any) any {
			w := current.(*readmodel.WishlistReadModel)
			w.Lines = decrementWishlistLine(w.Lines, e.ItemID)
			return w
		})
		return err

	case wishlist.EventItemRemoved:
		var e wishlist.ItemRemovedFromWishlist
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("wishlists", e.WishlistID, func(current any) any {
			w := current.(*readmodel.WishlistReadModel)
			newLines := make([]readmodel.WishlistLineReadModel, 0, len(w.Lines))
			for _, line := range w.Lines {
				if line.ItemID != e.ItemID {
					newLines = append(newLines, line)
				}
			}
			w.Lines = newLines
			return w
		})
		return err

	case wishlist.EventWishlistCleared:
		var e wishlist.WishlistCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return p.readStore.Set("wishlists", e.WishlistID, &readmodel.WishlistReadModel{
			ID:     e.WishlistID,
			UserID: e.UserID,
			Lines:  []readmodel.WishlistLineReadModel{},
		})
	}

	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		products := make([]readmodel.OrderProductReadModel, len(e.Products))
		for i, prod := range e.Products {
			products[i] = readmodel.OrderProductReadModel{
				ProductID:  prod.ID,
				Name:       prod.Name,
				Thumbnail:  prod.Thumbnail,
				Quantity:   prod.Quantity,
				Price:      prod.Price,
				TotalPrice: prod.TotalPrice,
			}
		}
		return p.readStore.Set("orders", e.OrderID, &readmodel.OrderReadModel{
			ID:                e.OrderID,
			UserID:            e.UserID,
			OrderDate:         e.PlacedAt,
			EstimatedDelivery: e.EstimatedDelivery,
			ShippingAddress: readmodel.AddressReadModel{
				Street:  e.ShippingAddress.Street,
				City:    e.ShippingAddress.City,
				State:   e.ShippingAddress.State,
				ZipCode: e.ShippingAddress.ZipCode,
				Country: e.ShippingAddress.Country,
			},
			DeliveryStatus: string(order.StatusPending),
			Products:       products,
			PaymentMethod:  e.PaymentMethod,
			PaymentStatus:  string(e.PaymentStatus),
			TotalAmount:    e.TotalAmount,
		})

	case order.EventProductQuantityChanged:
		var e order.OrderProductQuantityChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			for i, prod := range o.Products {
				if prod.ProductID == e.ProductID {
					o.Products[i].Quantity = e.Quantity
					o.Products[i].TotalPrice = prod.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
					break
				}
			}
			o.TotalAmount = orderTotal(o.Products)
			return o
		})
		return err

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.DeliveryStatus = string(order.StatusCancelled)
			return o
		})
		return err

	case order.EventDeliveryStatusUpdated:
		var e order.OrderDeliveryStatusUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		_, err := p.readStore.Update("orders", e.OrderID, func(current any) any {
			o := current.(*readmodel.OrderReadModel)
			o.DeliveryStatus = string(e.Status)
			return o
		})
		return err
	}

	return nil
}

func cartSubtotal(lines []readmodel.CartLineReadModel) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

func orderTotal(products []readmodel.OrderProductReadModel) decimal.Decimal {
	total := decimal.Zero
	for _, prod := range products {
		total = total.Add(prod.TotalPrice)
	}
	return total
}

// decrementCartLine lowers a line's quantity by one, dropping the line when
// it would fall below one.
func decrementCartLine(lines []readmodel.CartLineReadModel, itemID int64) []readmodel.CartLineReadModel {
	for i, line := range lines {
		if line.ItemID != itemID {
			continue
		}
		if line.Quantity <= 1 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Quantity--
		break
	}
	return lines
}

func decrementWishlistLine(lines []readmodel.WishlistLineReadModel, itemID int64) []readmodel.WishlistLineReadModel {
	for i, line := range lines {
		if line.ItemID != itemID {
			continue
		}
		if line.Quantity <= 1 {
			return append(lines[:i], lines[i+1:]...)
		}
		lines[i].Quantity--
		break
	}
	return lines
}
