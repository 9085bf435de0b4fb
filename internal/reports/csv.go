package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Format CSV mengikuti kebiasaan spreadsheet lokal: delimiter titik koma,
// desimal pakai koma, UTF-8 dengan BOM supaya Excel tidak salah encoding.

const bom = "\xEF\xBB\xBF"

func Filename(reportType string, t time.Time) string {
	return fmt.Sprintf("laporan-%s-%s.csv", reportType, t.Format("2006-01-02"))
}

// FormatAmount menulis rupiah dengan dua desimal dan koma desimal.
func FormatAmount(v int64) string {
	return FormatDecimal(decimal.NewFromInt(v))
}

func FormatDecimal(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteMonthlyCSV(w io.Writer, rows []MonthlyRow) error {
	recs := make([][]string, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, []string{
			r.Month,
			strconv.Itoa(r.Orders),
			strconv.Itoa(r.Items),
			FormatAmount(r.Revenue),
		})
	}
	return writeCSV(w, []string{"Bulan", "Jumlah Order", "Jumlah Item", "Omzet"}, recs)
}

func WriteProductCSV(w io.Writer, rows []ProductRow) error {
	recs := make([][]string, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, []string{
			r.ProductID,
			r.Title,
			strconv.Itoa(r.Quantity),
			FormatAmount(r.Revenue),
		})
	}
	return writeCSV(w, []string{"ID Produk", "Produk", "Terjual", "Omzet"}, recs)
}

func WriteCustomerCSV(w io.Writer, rows []CustomerRow) error {
	recs := make([][]string, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, []string{
			r.Email,
			r.Name,
			strconv.Itoa(r.Orders),
			FormatAmount(r.Total),
			FormatDecimal(r.AvgOrder),
		})
	}
	return writeCSV(w, []string{"Email", "Nama", "Jumlah Order", "Total Belanja", "Rata-rata Order"}, recs)
}
