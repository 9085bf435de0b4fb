package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/solvesmart/storefront/internal/auth"
	"github.com/solvesmart/storefront/internal/orders"
	"github.com/solvesmart/storefront/internal/reports"
)

type ReportsHandler struct {
	Engine   *orders.Engine
	Sessions *auth.Sessions
}

func (h *ReportsHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.Sessions.RequireAdmin)
		r.Get("/admin/reports/{type}", h.export)
	})
}

// export menghasilkan CSV laporan-{type}-{tanggal}.csv.
// type: bulanan | produk | customer
func (h *ReportsHandler) export(w http.ResponseWriter, r *http.Request) {
	reportType := chi.URLParam(r, "type")

	var write func(io.Writer, []orders.Order) error
	switch reportType {
	case "bulanan":
		write = func(w io.Writer, all []orders.Order) error {
			return reports.WriteMonthlyCSV(w, reports.Monthly(all))
		}
	case "produk":
		write = func(w io.Writer, all []orders.Order) error {
			return reports.WriteProductCSV(w, reports.ByProduct(all))
		}
	case "customer":
		write = func(w io.Writer, all []orders.Order) error {
			return reports.WriteCustomerCSV(w, reports.ByCustomer(all))
		}
	default:
		writeErr(w, http.StatusNotFound, errors.New("unknown report type"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_ = h.Engine.Refresh(ctx)
	all := h.Engine.Orders()

	name := reports.Filename(reportType, time.Now())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, name))
	if err := write(w, all); err != nil {
		// header sudah terkirim; cukup log lewat chi middleware & putus stream
		return
	}
}
