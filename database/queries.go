package database

import (
	"fmt"
	"time"

	"smartshop/model"

	"github.com/jmoiron/sqlx"
)

// LowStock returns every item whose quantity is at or below threshold.
func LowStock(db *sqlx.DB, threshold int) ([]model.Item, error) {
	items := []model.Item{}
	const q = `SELECT id, name, category, price, quantity, expiry_date FROM items WHERE quantity <= ? ORDER BY quantity, id`
	if err := db.Select(&items, q, threshold); err != nil {
		return nil, fmt.Errorf("LowStock (threshold: %d) failed: %w", threshold, err)
	}
	return items, nil
}

// NearExpiry returns every item whose expiry date falls on or before
// asOf + horizonDays. Already-expired items are included; items without an
// expiry date are not. Dates are compared as calendar dates, not strings.
func NearExpiry(db *sqlx.DB, asOf time.Time, horizonDays int) ([]model.Item, error) {
	cutoff := asOf.AddDate(0, 0, horizonDays).Format("2006-01-02")

	items := []model.Item{}
	const q = `SELECT id, name, category, price, quantity, expiry_date FROM items
	           WHERE expiry_date != '' AND date(expiry_date) <= date(?)
	           ORDER BY date(expiry_date), id`
	if err := db.Select(&items, q, cutoff); err != nil {
		return nil, fmt.Errorf("NearExpiry (cutoff: %s) failed: %w", cutoff, err)
	}
	return items, nil
}
