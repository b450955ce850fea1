package checkout

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"smartshop/config"
	"smartshop/model"
	"smartshop/money"
	"smartshop/receipt"

	"github.com/jmoiron/sqlx"
)

// CheckoutPayload is the POST /api/checkout request body.
type CheckoutPayload struct {
	CustomerName string           `json:"customerName"`
	Lines        []model.CartLine `json:"lines"`
}

// LineStatus is the per-line outcome reported to the UI.
type LineStatus struct {
	ItemID    int64  `json:"itemId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Committed bool   `json:"committed"`
	Error     string `json:"error,omitempty"`
}

// CheckoutResponse reports the sale outcome. A sale with skipped lines is
// still a successful response; the caller inspects the line statuses.
type CheckoutResponse struct {
	SaleID         int64        `json:"saleId"`
	Total          float64      `json:"total"`
	TotalFormatted string       `json:"totalFormatted"`
	Lines          []LineStatus `json:"lines"`
	ReceiptPath    string       `json:"receiptPath,omitempty"`
	PDFPath        string       `json:"pdfPath,omitempty"`
}

// CheckoutHandler handles POST /api/checkout: records the sale and writes the
// receipt for it. Mode and total policy come from the live config so the
// operator's choice applies without a restart.
func CheckoutHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload CheckoutPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		cfg := config.GetConfig()
		mode, err := ParseMode(cfg.CheckoutMode)
		if err != nil {
			mode = ModeBestEffort
		}
		policy, err := ParseTotalPolicy(cfg.TotalPolicy)
		if err != nil {
			policy = TotalRequested
		}

		rec := NewRecorder(db, mode, policy)
		result, err := rec.RecordSale(payload.Lines)
		if err != nil {
			if errors.Is(err, ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Printf("checkout failed: %v", err)
			http.Error(w, "Failed to record sale", http.StatusInternalServerError)
			return
		}

		resp := CheckoutResponse{SaleID: result.SaleID}
		resp.Total, _ = result.Total.Float64()
		resp.TotalFormatted = money.Format(cfg.CurrencyPrefix, result.Total)
		for _, l := range result.Lines {
			ls := LineStatus{ItemID: l.ItemID, Name: l.Name, Quantity: l.Quantity, Committed: l.Committed}
			if l.Err != nil {
				ls.Error = l.Err.Error()
			}
			resp.Lines = append(resp.Lines, ls)
		}

		// No receipt for a voided sale.
		if result.SaleID != 0 {
			data := receipt.Build(cfg.StoreName, cfg.CurrencyPrefix, result.SaleID, payload.Lines, result.Total, payload.CustomerName, rec.now())
			path, err := receipt.Write(cfg.ReceiptsDir, data)
			if err != nil {
				log.Printf("receipt for sale %d failed: %v", result.SaleID, err)
			} else {
				resp.ReceiptPath = path
			}
			if cfg.EnablePDF {
				pdfPath, err := receipt.WritePDF(cfg.ReceiptsDir, data)
				if err != nil {
					log.Printf("pdf receipt for sale %d failed: %v", result.SaleID, err)
				} else {
					resp.PDFPath = pdfPath
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
