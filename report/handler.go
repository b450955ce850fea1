// Package report serves the monthly sales report.
package report

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"smartshop/config"
	"smartshop/database"
	"smartshop/model"
	"smartshop/money"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// MonthlyReport is the GET /api/reports/monthly response.
type MonthlyReport struct {
	Month                 string               `json:"month"`
	Sales                 []model.Sale         `json:"sales"`
	DailyRevenue          []model.DailyRevenue `json:"dailyRevenue"`
	TotalRevenue          float64              `json:"totalRevenue"`
	TotalRevenueFormatted string               `json:"totalRevenueFormatted"`
}

// BuildMonthlyReport assembles the report for a "YYYY-MM" month.
func BuildMonthlyReport(db *sqlx.DB, month string) (*MonthlyReport, error) {
	sales, err := database.SalesForMonth(db, month)
	if err != nil {
		return nil, err
	}
	daily, err := database.DailyRevenueForMonth(db, month)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(decimal.NewFromFloat(s.TotalAmount))
	}

	rpt := &MonthlyReport{Month: month, Sales: sales, DailyRevenue: daily}
	rpt.TotalRevenue, _ = total.Float64()
	rpt.TotalRevenueFormatted = money.Format(config.GetConfig().CurrencyPrefix, total)
	return rpt, nil
}

// MonthlyHandler handles GET /api/reports/monthly?month=YYYY-MM. The current
// month is the default.
func MonthlyHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		month := r.URL.Query().Get("month")
		if month == "" {
			month = time.Now().Format("2006-01")
		} else if _, err := time.Parse("2006-01", month); err != nil {
			http.Error(w, "Month must be in YYYY-MM form", http.StatusBadRequest)
			return
		}

		rpt, err := BuildMonthlyReport(db, month)
		if err != nil {
			log.Printf("monthly report for %s failed: %v", month, err)
			http.Error(w, "Failed to build monthly report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rpt)
	}
}
