package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solvesmart/storefront/internal/auth"
	"github.com/solvesmart/storefront/internal/cart"
	"github.com/solvesmart/storefront/internal/products"
)

type CartHandler struct {
	Cart     *cart.Store
	Catalog  *products.Catalog
	Sessions *auth.Sessions
}

type addItemReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type setQuantityReq struct {
	Quantity int `json:"quantity"`
}

type cartResp struct {
	Items         cart.Items `json:"items"`
	TotalAmount   int64      `json:"totalAmount"`
	TotalQuantity int        `json:"totalQuantity"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireUser)
		r.Get("/cart", h.get)
		r.Post("/cart/items", h.addItem)
		r.Put("/cart/items/{id}", h.setQuantity)
		r.Delete("/cart/items/{id}", h.removeItem)
		r.Delete("/cart", h.clear)
	})
}

func (h *CartHandler) respond(w http.ResponseWriter, items cart.Items) {
	if items == nil {
		items = cart.Items{}
	}
	writeJSON(w, http.StatusOK, cartResp{
		Items:         items,
		TotalAmount:   items.TotalAmount(),
		TotalQuantity: items.TotalQuantity(),
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Cart.Load(ctx, id.UID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, items)
}

// addItem snapshot produk dari katalog ke keranjang; qty produk yang sama
// di-merge.
func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	p, ok := h.Catalog.Get(req.ProductID)
	if !ok || p.Status != products.StatusActive {
		writeErr(w, http.StatusNotFound, products.ErrNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Cart.Load(ctx, id.UID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	image := ""
	if imgs := products.NormalizedImages(p); len(imgs) > 0 {
		image = imgs[0]
	}
	items, err = items.Add(cart.Item{
		ID:       p.ID,
		Title:    p.Title,
		Subtitle: p.Subtitle,
		Price:    cart.Price(p.Price),
		Image:    image,
		Category: p.Category,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Cart.Save(ctx, id.UID, items); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, items)
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	productID := chi.URLParam(r, "id")

	var req setQuantityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Cart.Load(ctx, id.UID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	items = items.SetQuantity(productID, req.Quantity)
	if err := h.Cart.Save(ctx, id.UID, items); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, items)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	productID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Cart.Load(ctx, id.UID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	items = items.Remove(productID)
	if err := h.Cart.Save(ctx, id.UID, items); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, items)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Cart.Clear(ctx, id.UID); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	h.respond(w, nil)
}
