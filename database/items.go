package database

import (
	"database/sql"
	"fmt"
	"smartshop/model"

	"github.com/jmoiron/sqlx"
)

// ListOptions narrows ListItems. Zero value returns the full inventory.
type ListOptions struct {
	Search       string // case-insensitive substring match on name
	Category     string // exact category match
	SellableOnly bool   // quantity > 0 only
}

func CreateItem(db *sqlx.DB, name, category string, price float64, quantity int, expiryDate string) (int64, error) {
	const q = `INSERT INTO items (name, category, price, quantity, expiry_date) VALUES (?, ?, ?, ?, ?)`
	res, err := db.Exec(q, name, category, price, quantity, expiryDate)
	if err != nil {
		return 0, fmt.Errorf("CreateItem (Name: %s) failed: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateItem: failed to get generated id: %w", err)
	}
	return id, nil
}

// GetItem returns nil without error when no item has the given id.
func GetItem(db *sqlx.DB, id int64) (*model.Item, error) {
	var item model.Item
	err := db.Get(&item, `SELECT id, name, category, price, quantity, expiry_date FROM items WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("GetItem (ID: %d) failed: %w", id, err)
	}
	return &item, nil
}

func ListItems(db *sqlx.DB, opts ListOptions) ([]model.Item, error) {
	q := `SELECT id, name, category, price, quantity, expiry_date FROM items WHERE 1=1`
	args := []interface{}{}
	if opts.Search != "" {
		q += ` AND name LIKE ? COLLATE NOCASE`
		args = append(args, "%"+opts.Search+"%")
	}
	if opts.Category != "" {
		q += ` AND category = ?`
		args = append(args, opts.Category)
	}
	if opts.SellableOnly {
		q += ` AND quantity > 0`
	}
	q += ` ORDER BY id`

	items := []model.Item{}
	if err := db.Select(&items, q, args...); err != nil {
		return nil, fmt.Errorf("ListItems failed: %w", err)
	}
	return items, nil
}

func ListCategories(db *sqlx.DB) ([]string, error) {
	categories := []string{}
	const q = `SELECT DISTINCT category FROM items WHERE category != '' ORDER BY category`
	if err := db.Select(&categories, q); err != nil {
		return nil, fmt.Errorf("ListCategories failed: %w", err)
	}
	return categories, nil
}

// DeleteItem removes the row outright. Sales history keeps its own price and
// quantity snapshots, so past receipts are unaffected.
func DeleteItem(db *sqlx.DB, id int64) error {
	res, err := db.Exec(`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("DeleteItem (ID: %d) failed: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteItem (ID: %d): rows affected: %w", id, err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
