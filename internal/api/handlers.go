package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/session"
	"github.com/example/storefront/internal/identity"
	"github.com/example/storefront/internal/pricing"
	"github.com/example/storefront/internal/query"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
	provider     identity.Provider
	jwtService   *identity.JWTService
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler, provider identity.Provider, jwtService *identity.JWTService) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
		provider:     provider,
		jwtService:   jwtService,
	}
}

// Auth Handlers

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, err := h.provider.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		respondJSON(w, authStatus(err), map[string]string{"error": identity.FriendlyMessage(err)})
		return
	}

	h.issueSession(w, info)
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	info, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondJSON(w, authStatus(err), map[string]string{"error": identity.FriendlyMessage(err)})
		return
	}

	h.issueSession(w, info)
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}

// issueSession mints an access token for a signed-in identity and sets it
// as an HTTP-only cookie alongside the JSON body.
func (h *Handlers) issueSession(w http.ResponseWriter, info session.UserInfo) {
	token, expiresAt, err := h.jwtService.GenerateAccessToken(info.UID, info.Email, info.FullName)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]any{
		"user":       info,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	c, _ := h.queryHandler.GetCart(userID)
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ItemID    int64           `json:"item_id"`
		Name      string          `json:"name"`
		UnitPrice decimal.Decimal `json:"unit_price"`
		Image     string          `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddToCart{
		UserID:    userID,
		ItemID:    req.ItemID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Image:     req.Image,
	}
	if err := h.cmdHandler.AddToCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) IncreaseCartQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	itemID, err := cartItemID(r.URL.Path, "/increase")
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	cmd := command.IncreaseCartQuantity{UserID: userID, ItemID: itemID}
	if err := h.cmdHandler.IncreaseCartQuantity(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) DecreaseCartQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	itemID, err := cartItemID(r.URL.Path, "/decrease")
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	cmd := command.DecreaseCartQuantity{UserID: userID, ItemID: itemID}
	if err := h.cmdHandler.DecreaseCartQuantity(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	itemID, err := cartItemID(r.URL.Path, "")
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	cmd := command.RemoveFromCart{UserID: userID, ItemID: itemID}
	if err := h.cmdHandler.RemoveFromCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if err := h.cmdHandler.ClearCart(r.Context(), command.ClearCart{UserID: userID}); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetCartTotals prices the current cart. The promo code comes from the
// "promo" query parameter, the shipping rule from "rule" (standard or
// reduced, defaulting to standard).
func (h *Handlers) GetCartTotals(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	c, _ := h.queryHandler.GetCart(userID)

	lines := make([]cart.Line, len(c.Lines))
	for i, line := range c.Lines {
		lines[i] = cart.Line{
			ID:        line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Image:     line.Image,
			Quantity:  line.Quantity,
		}
	}

	rule := pricing.StandardShipping
	if r.URL.Query().Get("rule") == "reduced" {
		rule = pricing.ReducedShipping
	}

	totals := pricing.ComputeTotals(lines, r.URL.Query().Get("promo"), pricing.DefaultCatalog(), rule)
	respondJSON(w, http.StatusOK, totals.Rounded())
}

// Wishlist Handlers

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	wl, _ := h.queryHandler.GetWishlist(userID)
	respondJSON(w, http.StatusOK, wl)
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ItemID int64           `json:"item_id"`
		Name   string          `json:"name"`
		Price  decimal.Decimal `json:"price"`
		Image  string          `json:"image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddToWishlist{
		UserID: userID,
		ItemID: req.ItemID,
		Name:   req.Name,
		Price:  req.Price,
		Image:  req.Image,
	}
	if err := h.cmdHandler.AddToWishlist(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) DecrementWishlistItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	itemID, err := wishlistItemID(r.URL.Path, "/decrement")
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	cmd := command.DecrementWishlistItem{UserID: userID, ItemID: itemID}
	if err := h.cmdHandler.DecrementWishlistItem(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	itemID, err := wishlistItemID(r.URL.Path, "")
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	cmd := command.RemoveFromWishlist{UserID: userID, ItemID: itemID}
	if err := h.cmdHandler.RemoveFromWishlist(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	if err := h.cmdHandler.ClearWishlist(r.Context(), command.ClearWishlist{UserID: userID}); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Order Handlers

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	var req struct {
		ShippingAddress order.Address `json:"shipping_address"`
		PaymentMethod   string        `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.PlaceOrder{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	o, err := h.cmdHandler.PlaceOrder(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

// GetOrders serves the order-history view. Query parameters: status
// (all, pending, in-transit, delivered, cancelled), search (matches order id
// and product names), sort (date-desc, date-asc, amount-desc, amount-asc).
func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)

	status := query.StatusFilter(r.URL.Query().Get("status"))
	if status == "" {
		status = query.FilterAll
	}
	sortKey := query.SortKey(r.URL.Query().Get("sort"))
	if sortKey == "" {
		sortKey = query.SortDateDesc
	}

	orders := h.queryHandler.SearchOrders(userID, status, r.URL.Query().Get("search"), sortKey)
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := orderID(r.URL.Path)

	o, ok := h.queryHandler.GetOrder(id)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	// Users can only access their own orders
	if o.UserID != getUserID(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := orderID(r.URL.Path)

	if !h.authorizeOrder(w, r, id) {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	cmd := command.CancelOrder{OrderID: id, Reason: req.Reason}
	if err := h.cmdHandler.CancelOrder(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ChangeOrderQuantity(w http.ResponseWriter, r *http.Request) {
	id := orderID(r.URL.Path)

	if !h.authorizeOrder(w, r, id) {
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.ChangeOrderQuantity{OrderID: id, ProductID: req.ProductID, Quantity: req.Quantity}
	if err := h.cmdHandler.ChangeOrderQuantity(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	id := orderID(r.URL.Path)

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.UpdateDeliveryStatus{OrderID: id, Status: req.Status}
	if err := h.cmdHandler.UpdateDeliveryStatus(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Notification Handlers

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := getUserID(r)
	respondJSON(w, http.StatusOK, h.queryHandler.ListNotificationsByUser(userID))
}

// Helper functions

func (h *Handlers) authorizeOrder(w http.ResponseWriter, r *http.Request, orderID string) bool {
	o, ok := h.queryHandler.GetOrder(orderID)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return false
	}
	if o.UserID != getUserID(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondCommandError maps domain sentinels onto HTTP statuses.
func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, order.ErrEditWindowClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrProductNotInOrder),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, cart.ErrInvalidItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, identity.ErrEmailInUse):
		return http.StatusConflict
	default:
		return http.StatusUnauthorized
	}
}

func orderID(path string) string {
	id := strings.TrimPrefix(path, "/orders/")
	for _, suffix := range []string{"/cancel", "/quantity", "/status"} {
		id = strings.TrimSuffix(id, suffix)
	}
	return id
}

func cartItemID(path, suffix string) (int64, error) {
	raw := strings.TrimSuffix(strings.TrimPrefix(path, "/cart/items/"), suffix)
	return strconv.ParseInt(raw, 10, 64)
}

func wishlistItemID(path, suffix string) (int64, error) {
	raw := strings.TrimSuffix(strings.TrimPrefix(path, "/wishlist/items/"), suffix)
	return strconv.ParseInt(raw, 10, 64)
}

// getUserID extracts user ID from JWT context or falls back to X-User-ID header
func getUserID(r *http.Request) string {
	// First try to get from JWT context
	if userID := middleware.GetUserID(r.Context()); userID != "" {
		return userID
	}

	// Fall back to X-User-ID header for backward compatibility
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return userID
	}

	return "default-user"
}
