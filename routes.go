package main

import (
	"net/http"

	"smartshop/checkout"
	"smartshop/inventory"
	"smartshop/receipt"
	"smartshop/report"

	"github.com/jmoiron/sqlx"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB) {

	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			inventory.AddItemHandler(dbConn)(w, r)
		default:
			inventory.ListItemsHandler(dbConn)(w, r)
		}
	})
	mux.HandleFunc("/api/items/categories", inventory.CategoriesHandler(dbConn))
	mux.HandleFunc("/api/items/", inventory.DeleteItemHandler(dbConn))
	mux.HandleFunc("/api/alerts", inventory.AlertsHandler(dbConn))

	mux.HandleFunc("/api/checkout", checkout.CheckoutHandler(dbConn))
	mux.HandleFunc("/api/receipts/", receipt.DownloadHandler())

	mux.HandleFunc("/api/reports/monthly", report.MonthlyHandler(dbConn))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			GetConfigHandler()(w, r)
		}
	})
}
