package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solvesmart/storefront/internal/auth"
	"github.com/solvesmart/storefront/internal/blob"
	"github.com/solvesmart/storefront/internal/products"
)

type ProductsHandler struct {
	Service  *products.Service
	Catalog  *products.Catalog
	Blobs    blob.Store
	Sessions *auth.Sessions
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireAdmin)
		r.Get("/admin/products", h.listAll)
		r.Post("/admin/products", h.create)
		r.Put("/admin/products/{id}", h.update)
		r.Delete("/admin/products/{id}", h.delete)
		r.Post("/admin/products/images", h.uploadImage)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Active())
}

func (h *ProductsHandler) listAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.All())
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		writeErr(w, http.StatusNotFound, products.ErrNotFound)
		return
	}
	p.Images = products.NormalizedImages(p)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var p products.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Create(ctx, &p); err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var p products.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	p.ID = chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	saved, err := h.Service.Update(ctx, &p)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, products.ErrNotFound) {
			writeErr(w, http.StatusNotFound, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadImage menerima multipart field "image", maks 5MB, tipe jpeg/png/webp.
func (h *ProductsHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(blob.MaxProductImageSize); err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("invalid multipart form"))
		return
	}
	f, hdr, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, errors.New("missing image field"))
		return
	}
	defer f.Close()

	ct := hdr.Header.Get("Content-Type")
	if !blob.AllowedImageType(ct) {
		writeErr(w, http.StatusBadRequest, blob.ErrBadType)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	url, err := h.Blobs.Upload(ctx, hdr.Filename, ct, f, blob.MaxProductImageSize)
	if err != nil {
		if errors.Is(err, blob.ErrTooLarge) {
			writeErr(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
