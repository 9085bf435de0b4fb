package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/solvesmart/storefront/internal/orders"
	"github.com/solvesmart/storefront/internal/products"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

// orderErr memetakan error domain ke status HTTP.
func orderErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, products.ErrNotFound):
		writeErr(w, http.StatusNotFound, err)
	case errors.Is(err, orders.ErrVersionConflict):
		writeErr(w, http.StatusConflict, err)
	case errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrAlreadyPaid),
		errors.Is(err, orders.ErrOrderRejected):
		writeErr(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrNoRecipient),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidMethod):
		writeErr(w, http.StatusBadRequest, err)
	default:
		writeErr(w, http.StatusInternalServerError, err)
	}
}
