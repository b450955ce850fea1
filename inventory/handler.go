// Package inventory serves the add-item, browse/delete and alert screens.
package inventory

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"smartshop/config"
	"smartshop/database"
	"smartshop/model"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var nameCollator = collate.New(language.English, collate.IgnoreCase)

// validateAddItem rejects bad input before any write reaches the store.
func validateAddItem(in model.AddItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("item name is required")
	}
	if in.Price < 0 {
		return errors.New("price must not be negative")
	}
	if in.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	if in.ExpiryDate != "" {
		if _, err := time.Parse("2006-01-02", in.ExpiryDate); err != nil {
			return fmt.Errorf("expiry date %q is not a valid YYYY-MM-DD date", in.ExpiryDate)
		}
	}
	return nil
}

// AddItemHandler handles POST /api/items.
func AddItemHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var in model.AddItemInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := validateAddItem(in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := database.CreateItem(db, strings.TrimSpace(in.Name), strings.TrimSpace(in.Category), in.Price, in.Quantity, in.ExpiryDate)
		if err != nil {
			log.Printf("add item failed: %v", err)
			http.Error(w, "Failed to save item", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": id})
	}
}

// ListItemsHandler handles GET /api/items. Supports the sell screen's
// filters: ?q= substring search, ?category= exact match, ?sellable=1 for
// in-stock items only. Results are sorted by name for display.
func ListItemsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := database.ListOptions{
			Search:       r.URL.Query().Get("q"),
			Category:     r.URL.Query().Get("category"),
			SellableOnly: r.URL.Query().Get("sellable") == "1",
		}
		items, err := database.ListItems(db, opts)
		if err != nil {
			log.Printf("list items failed: %v", err)
			http.Error(w, "Failed to load inventory", http.StatusInternalServerError)
			return
		}

		sort.SliceStable(items, func(i, j int) bool {
			return nameCollator.CompareString(items[i].Name, items[j].Name) < 0
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	}
}

// CategoriesHandler handles GET /api/items/categories for the sell screen's
// category filter.
func CategoriesHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := database.ListCategories(db)
		if err != nil {
			log.Printf("list categories failed: %v", err)
			http.Error(w, "Failed to load categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

// DeleteItemHandler handles DELETE /api/items/{id}.
func DeleteItemHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		idStr := strings.TrimPrefix(r.URL.Path, "/api/items/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Item id is required", http.StatusBadRequest)
			return
		}

		if err := database.DeleteItem(db, id); err != nil {
			if err == sql.ErrNoRows {
				http.NotFound(w, r)
				return
			}
			log.Printf("delete item %d failed: %v", id, err)
			http.Error(w, "Failed to delete item", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AlertsResponse carries both alert sets; the UI beeps when either is
// non-empty.
type AlertsResponse struct {
	LowStock   []model.Item `json:"lowStock"`
	NearExpiry []model.Item `json:"nearExpiry"`
}

// AlertsHandler handles GET /api/alerts. ?threshold= and ?days= override the
// configured defaults.
func AlertsHandler(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		threshold := cfg.LowStockThreshold
		if v := r.URL.Query().Get("threshold"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				threshold = n
			}
		}
		days := cfg.NearExpiryDays
		if v := r.URL.Query().Get("days"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				days = n
			}
		}

		lowStock, err := database.LowStock(db, threshold)
		if err != nil {
			log.Printf("low stock query failed: %v", err)
			http.Error(w, "Failed to load alerts", http.StatusInternalServerError)
			return
		}
		nearExpiry, err := database.NearExpiry(db, time.Now(), days)
		if err != nil {
			log.Printf("near expiry query failed: %v", err)
			http.Error(w, "Failed to load alerts", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AlertsResponse{LowStock: lowStock, NearExpiry: nearExpiry})
	}
}
