package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/solvesmart/storefront/internal/orders"
)

// Semua laporan dihitung dari order completed & paid saja: angka yang sama
// dengan definisi revenue di dashboard.

type MonthlyRow struct {
	Month   string // YYYY-MM
	Orders  int
	Items   int
	Revenue int64
}

type ProductRow struct {
	ProductID string
	Title     string
	Quantity  int
	Revenue   int64
}

type CustomerRow struct {
	Email    string
	Name     string
	Orders   int
	Total    int64
	AvgOrder decimal.Decimal
}

func paidCompleted(all []orders.Order) []orders.Order {
	var out []orders.Order
	for _, o := range all {
		if o.Status == orders.StatusCompleted && o.PaymentStatus == orders.PaymentPaid {
			out = append(out, o)
		}
	}
	return out
}

func Monthly(all []orders.Order) []MonthlyRow {
	byMonth := make(map[string]*MonthlyRow)
	for _, o := range paidCompleted(all) {
		key := o.CreatedAt.Format("2006-01")
		r, ok := byMonth[key]
		if !ok {
			r = &MonthlyRow{Month: key}
			byMonth[key] = r
		}
		r.Orders++
		r.Revenue += o.TotalAmount
		for _, it := range o.Items {
			r.Items += it.Quantity
		}
	}
	out := make([]MonthlyRow, 0, len(byMonth))
	for _, r := range byMonth {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func ByProduct(all []orders.Order) []ProductRow {
	byID := make(map[string]*ProductRow)
	for _, o := range paidCompleted(all) {
		for _, it := range o.Items {
			r, ok := byID[it.ProductID]
			if !ok {
				r = &ProductRow{ProductID: it.ProductID, Title: it.Title}
				byID[it.ProductID] = r
			}
			r.Quantity += it.Quantity
			r.Revenue += it.Price * int64(it.Quantity)
		}
	}
	out := make([]ProductRow, 0, len(byID))
	for _, r := range byID {
		out = append(out, *r)
	}
	// omzet terbesar dulu
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue == out[j].Revenue {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Revenue > out[j].Revenue
	})
	return out
}

func ByCustomer(all []orders.Order) []CustomerRow {
	byEmail := make(map[string]*CustomerRow)
	for _, o := range paidCompleted(all) {
		r, ok := byEmail[o.UserEmail]
		if !ok {
			r = &CustomerRow{Email: o.UserEmail, Name: o.UserName}
			byEmail[o.UserEmail] = r
		}
		r.Orders++
		r.Total += o.TotalAmount
	}
	out := make([]CustomerRow, 0, len(byEmail))
	for _, r := range byEmail {
		// pembagian eksak, dibulatkan 2 desimal
		r.AvgOrder = decimal.NewFromInt(r.Total).
			Div(decimal.NewFromInt(int64(r.Orders))).Round(2)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total == out[j].Total {
			return out[i].Email < out[j].Email
		}
		return out[i].Total > out[j].Total
	})
	return out
}
