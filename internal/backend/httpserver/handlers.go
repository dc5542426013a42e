package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-cart/internal/backend/store"
	"marketplace-cart/internal/domain"
)

type handlers struct {
	store          store.Store
	paymentURLBase string
}

// bearerUser extracts the shopper identity from the Authorization header.
// Tokens are opaque here: the reference backend trusts the token value as
// the user key, leaving real credential validation to the auth service.
func bearerUser(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *handlers) getCart(c *gin.Context) {
	user := bearerUser(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}
	cart, err := h.store.GetCart(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

type addItemRequest struct {
	SKUID    string `json:"sku_id"`
	Quantity int    `json:"quantity"`
}

func (h *handlers) addItem(c *gin.Context) {
	user := bearerUser(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.SKUID) == "" || req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "sku_id and positive quantity required"})
		return
	}
	if err := h.store.AddItem(c.Request.Context(), user, req.SKUID, req.Quantity); err != nil {
		h.cartMutationError(c, err)
		return
	}
	h.respondWithCart(c, user)
}

type updateItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *handlers) updateItem(c *gin.Context) {
	user := bearerUser(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ItemID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "item_id required"})
		return
	}
	if err := h.store.UpdateItem(c.Request.Context(), user, req.ItemID, req.Quantity); err != nil {
		h.cartMutationError(c, err)
		return
	}
	h.respondWithCart(c, user)
}

type removeItemRequest struct {
	ItemID string `json:"item_id"`
}

func (h *handlers) removeItem(c *gin.Context) {
	user := bearerUser(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ItemID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "item_id required"})
		return
	}
	if err := h.store.RemoveItem(c.Request.Context(), user, req.ItemID); err != nil {
		h.cartMutationError(c, err)
		return
	}
	h.respondWithCart(c, user)
}

func (h *handlers) clearCart(c *gin.Context) {
	user := bearerUser(c)
	if user == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
		return
	}
	if err := h.store.ClearCart(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to clear cart"})
		return
	}
	h.respondWithCart(c, user)
}

type checkoutItemRequest struct {
	SKUID    string `json:"sku_id"`
	Quantity int    `json:"quantity"`
}

type checkoutRequest struct {
	IsGuest       bool                  `json:"is_guest"`
	GuestEmail    string                `json:"guest_email"`
	GuestName     string                `json:"guest_name"`
	GuestPhone    string                `json:"guest_phone"`
	Items         []checkoutItemRequest `json:"items"`
	PaymentMethod string                `json:"payment_method"`
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid payload"})
		return
	}
	if req.PaymentMethod != "stripe" && req.PaymentMethod != "cod" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid payment method"})
		return
	}

	in := store.CreateOrderInput{PaymentMethod: req.PaymentMethod}
	if req.IsGuest {
		if strings.TrimSpace(req.GuestEmail) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Guest email is required"})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "No items provided"})
			return
		}
		in.GuestEmail = req.GuestEmail
		in.GuestName = req.GuestName
		in.GuestPhone = req.GuestPhone
		for _, item := range req.Items {
			in.Items = append(in.Items, store.OrderItemInput{SKUID: item.SKUID, Quantity: item.Quantity})
		}
	} else {
		user := bearerUser(c)
		if user == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Authentication required"})
			return
		}
		in.UserID = user
	}

	order, err := h.store.CreateOrder(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Cart is empty"})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "SKU not found"})
		case errors.Is(err, domain.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Insufficient stock"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to create order"})
		}
		return
	}

	resp := gin.H{"order_id": order.ID, "status": order.Status}
	if order.PaymentMethod == "stripe" {
		resp["redirect_url"] = h.paymentURLBase + order.ID
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) respondWithCart(c *gin.Context, user string) {
	cart, err := h.store.GetCart(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *handlers) cartMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Item not found"})
	case errors.Is(err, domain.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Insufficient stock"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "cart operation failed"})
	}
}
