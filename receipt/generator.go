// Package receipt renders the fixed-layout printable document for a completed
// sale. Generation is a pure function of the sale data passed in (plus the
// wall clock for the printed date); it never re-queries the store.
package receipt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"
	"time"

	"smartshop/model"
	"smartshop/money"

	"github.com/shopspring/decimal"
)

// Line is one rendered row of the receipt table. Amounts are pre-formatted
// with the currency prefix so the template stays layout-only.
type Line struct {
	Name      string
	Quantity  int
	UnitPrice string
	Subtotal  string
}

// Data is everything the receipt templates need.
type Data struct {
	StoreName string
	SaleID    int64
	Customer  string
	Timestamp string
	Lines     []Line
	Total     string
}

const textLayout = `========================================
          SmartShop Receipt
          {{.StoreName}}
========================================
Sale ID : {{.SaleID}}
Customer: {{.Customer}}
Date    : {{.Timestamp}}
----------------------------------------
{{printf "%-18s %4s %8s %9s" "Item" "Qty" "Unit" "Subtotal"}}
----------------------------------------
{{range .Lines}}{{printf "%-18.18s %4d %8s %9s" .Name .Quantity .UnitPrice .Subtotal}}
{{end}}----------------------------------------
{{printf "%-23s %16s" "TOTAL" .Total}}
========================================
`

var textTemplate = template.Must(template.New("receipt").Parse(textLayout))

// Build assembles the receipt data. Subtotals are recomputed per line with
// the same decimal arithmetic checkout uses, so the printed rows always sum
// consistently with their unit prices.
func Build(storeName, currencyPrefix string, saleID int64, cart []model.CartLine, total decimal.Decimal, customerName string, now time.Time) Data {
	if customerName == "" {
		customerName = "Customer"
	}
	d := Data{
		StoreName: storeName,
		SaleID:    saleID,
		Customer:  customerName,
		Timestamp: now.Format("2006-01-02 15:04:05"),
		Total:     money.Format(currencyPrefix, total),
	}
	for _, line := range cart {
		d.Lines = append(d.Lines, Line{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: money.Format(currencyPrefix, decimal.NewFromFloat(line.UnitPrice)),
			Subtotal:  money.Format(currencyPrefix, money.Subtotal(line.Quantity, line.UnitPrice)),
		})
	}
	return d
}

// Render writes the plain-text receipt.
func Render(w io.Writer, d Data) error {
	if err := textTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("failed to render receipt %d: %w", d.SaleID, err)
	}
	return nil
}

// FileName is the deterministic receipt file name for a sale.
func FileName(saleID int64) string {
	return fmt.Sprintf("receipt_%d.txt", saleID)
}

// Write renders the receipt into dir and returns the written path.
func Write(dir string, d Data) (string, error) {
	path := filepath.Join(dir, FileName(d.SaleID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer f.Close()

	if err := Render(f, d); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to flush receipt file: %w", err)
	}
	return path, nil
}
