package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/solvesmart/storefront/internal/auth"
	"github.com/solvesmart/storefront/internal/blob"
	"github.com/solvesmart/storefront/internal/cart"
	"github.com/solvesmart/storefront/internal/orders"
	"github.com/solvesmart/storefront/internal/redisx"
)

type OrdersHandler struct {
	Engine   *orders.Engine
	Cart     *cart.Store
	Sessions *auth.Sessions
	Redis    *redis.Client
	Blobs    blob.Store
}

type checkoutReq struct {
	ShippingAddress orders.ShippingAddress `json:"shippingAddress"`
}

type paymentReq struct {
	Method orders.PaymentMethod `json:"method"`
}

type adminActionReq struct {
	AdminNotes string `json:"adminNotes"`
}

type deliveryFilesReq struct {
	Files []orders.DeliveryFile `json:"files"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireUser)
		r.Post("/checkout", h.checkout)
		r.Get("/orders", h.listMine)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getStatus)
		r.Post("/orders/{id}/payment", h.processPayment)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireAdmin)
		r.Get("/admin/orders", h.listAll)
		r.Get("/admin/orders/stats", h.stats)
		r.Post("/admin/orders/{id}/accept", h.action(h.Engine.AcceptOrder))
		r.Post("/admin/orders/{id}/reject", h.action(h.Engine.RejectOrder))
		r.Post("/admin/orders/{id}/complete", h.action(h.Engine.CompleteOrder))
		r.Post("/admin/orders/{id}/confirm-payment", h.action(h.Engine.ConfirmPayment))
		r.Post("/admin/orders/delivery-files", h.uploadDeliveryFile)
		r.Put("/admin/orders/{id}/delivery-files", h.setDeliveryFiles)
	})
}

// checkout: keranjang user -> order pending, keranjang dikosongkan.
func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.Cart.Load(ctx, id.UID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	o, err := h.Engine.CreateOrder(ctx, orders.Buyer{ID: id.UID, Email: id.Email, Name: id.Name},
		toOrderItems(items), req.ShippingAddress)
	if err != nil {
		orderErr(w, err)
		return
	}

	// keranjang habis terpakai; kegagalan clear tidak membatalkan order
	_ = h.Cart.Clear(ctx, id.UID)
	h.cacheStatus(ctx, o)

	writeJSON(w, http.StatusCreated, o)
}

func toOrderItems(items cart.Items) []orders.OrderItem {
	out := make([]orders.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, orders.OrderItem{
			ProductID: it.ID,
			Title:     it.Title,
			Subtitle:  it.Subtitle,
			Price:     int64(it.Price),
			Image:     it.Image,
			Quantity:  it.Quantity,
			Category:  it.Category,
		})
	}
	return out
}

func (h *OrdersHandler) listMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// reload eksplisit; kalau gagal tetap sajikan cache basi
	_ = h.Engine.Refresh(ctx)
	writeJSON(w, http.StatusOK, h.Engine.OrdersForUser(id.UID))
}

func (h *OrdersHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_ = h.Engine.Refresh(ctx)
	writeJSON(w, http.StatusOK, h.Engine.Orders())
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Engine.Order(ctx, orderID)
	if err != nil {
		orderErr(w, err)
		return
	}
	// customer hanya boleh lihat ordernya sendiri
	if !id.Admin && o.UserID != id.UID {
		writeErr(w, http.StatusNotFound, orders.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// getStatus: cache Redis dulu, fallback ke engine; polling ringan dari
// halaman tracking order.
func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	o, err := h.Engine.Order(ctx, orderID)
	if err != nil {
		orderErr(w, err)
		return
	}
	h.cacheStatus(ctx, o)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        o.Status,
		"paymentStatus": o.PaymentStatus,
	})
}

func (h *OrdersHandler) processPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	var req paymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.Order(ctx, orderID)
	if err != nil {
		orderErr(w, err)
		return
	}
	if o.UserID != id.UID {
		writeErr(w, http.StatusNotFound, orders.ErrNotFound)
		return
	}

	if err := h.Engine.ProcessPayment(ctx, orderID, req.Method); err != nil {
		orderErr(w, err)
		return
	}
	h.refreshStatus(ctx, orderID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// action membungkus aksi admin berpola (id, adminNotes).
func (h *OrdersHandler) action(fn func(context.Context, string, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID := chi.URLParam(r, "id")

		var req adminActionReq
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // body opsional
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := fn(ctx, orderID, req.AdminNotes); err != nil {
			orderErr(w, err)
			return
		}
		h.refreshStatus(ctx, orderID)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// uploadDeliveryFile menerima multipart field "file", maks 2MB. URL hasilnya
// dipakai admin di PUT delivery-files.
func (h *OrdersHandler) uploadDeliveryFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(blob.MaxDeliveryFileSize); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("missing file field"))
		return
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	url, err := h.Blobs.Upload(ctx, hdr.Filename, hdr.Header.Get("Content-Type"), f, blob.MaxDeliveryFileSize)
	if err != nil {
		if errors.Is(err, blob.ErrTooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "name": hdr.Filename})
}

func (h *OrdersHandler) setDeliveryFiles(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req deliveryFilesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Engine.AddDeliveryFiles(ctx, orderID, req.Files); err != nil {
		orderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OrdersHandler) stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_ = h.Engine.Refresh(ctx)
	writeJSON(w, http.StatusOK, h.Engine.Stats())
}

// cacheStatus menaruh ringkasan status di Redis supaya GET status cepat.
func (h *OrdersHandler) cacheStatus(ctx context.Context, o *orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	b, _ := json.Marshal(map[string]any{
		"status":        o.Status,
		"paymentStatus": o.PaymentStatus,
	})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) refreshStatus(ctx context.Context, orderID string) {
	o, err := h.Engine.Order(ctx, orderID)
	if err != nil {
		return
	}
	h.cacheStatus(ctx, o)
}
