package database

import (
	"fmt"

	"smartshop/model"

	"github.com/jmoiron/sqlx"
)

// SaleTimeLayout is the stored sale_time format. Lexical order on this layout
// matches chronological order, which keeps existing shop.db files readable.
const SaleTimeLayout = "2006-01-02 15:04:05"

func InsertSaleInTx(tx *sqlx.Tx, saleTime string, totalAmount float64) (int64, error) {
	res, err := tx.Exec(`INSERT INTO sales (sale_time, total_amount) VALUES (?, ?)`, saleTime, totalAmount)
	if err != nil {
		return 0, fmt.Errorf("InsertSaleInTx failed: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("InsertSaleInTx: failed to get generated id: %w", err)
	}
	return id, nil
}

func UpdateSaleTotalInTx(tx *sqlx.Tx, saleID int64, totalAmount float64) error {
	if _, err := tx.Exec(`UPDATE sales SET total_amount = ? WHERE id = ?`, totalAmount, saleID); err != nil {
		return fmt.Errorf("UpdateSaleTotalInTx (SaleID: %d) failed: %w", saleID, err)
	}
	return nil
}

// GetItemQuantityInTx re-reads the current committed quantity inside the sale
// transaction. sql.ErrNoRows passes through so the caller can distinguish a
// vanished item from a storage failure.
func GetItemQuantityInTx(tx *sqlx.Tx, itemID int64) (int, error) {
	var quantity int
	err := tx.Get(&quantity, `SELECT quantity FROM items WHERE id = ?`, itemID)
	if err != nil {
		return 0, err
	}
	return quantity, nil
}

func InsertSaleLineInTx(tx *sqlx.Tx, saleID, itemID int64, quantity int, unitPrice float64) (int64, error) {
	res, err := tx.Exec(`INSERT INTO sale_items (sale_id, item_id, quantity, unit_price) VALUES (?, ?, ?, ?)`,
		saleID, itemID, quantity, unitPrice)
	if err != nil {
		return 0, fmt.Errorf("InsertSaleLineInTx (SaleID: %d, ItemID: %d) failed: %w", saleID, itemID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("InsertSaleLineInTx: failed to get generated id: %w", err)
	}
	return id, nil
}

// DecrementItemQuantityInTx subtracts quantity from the item's stock. The
// quantity >= ? guard enforces that stock never goes negative even if the
// caller's re-read has gone stale.
func DecrementItemQuantityInTx(tx *sqlx.Tx, itemID int64, quantity int) error {
	res, err := tx.Exec(`UPDATE items SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
		quantity, itemID, quantity)
	if err != nil {
		return fmt.Errorf("DecrementItemQuantityInTx (ItemID: %d) failed: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DecrementItemQuantityInTx (ItemID: %d): rows affected: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("DecrementItemQuantityInTx (ItemID: %d): stock changed underneath the sale", itemID)
	}
	return nil
}

func GetSale(db *sqlx.DB, id int64) (*model.Sale, error) {
	var sale model.Sale
	err := db.Get(&sale, `SELECT id, sale_time, total_amount FROM sales WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("GetSale (ID: %d) failed: %w", id, err)
	}
	return &sale, nil
}

func SaleLines(db *sqlx.DB, saleID int64) ([]model.SaleLineItem, error) {
	lines := []model.SaleLineItem{}
	const q = `SELECT id, sale_id, item_id, quantity, unit_price FROM sale_items WHERE sale_id = ? ORDER BY id`
	if err := db.Select(&lines, q, saleID); err != nil {
		return nil, fmt.Errorf("SaleLines (SaleID: %d) failed: %w", saleID, err)
	}
	return lines, nil
}

// SalesForMonth returns every sale whose sale_time falls in the given
// calendar month ("YYYY-MM"). The match is on the calendar month itself,
// not a string prefix.
func SalesForMonth(db *sqlx.DB, month string) ([]model.Sale, error) {
	sales := []model.Sale{}
	const q = `SELECT id, sale_time, total_amount FROM sales WHERE strftime('%Y-%m', sale_time) = ? ORDER BY sale_time, id`
	if err := db.Select(&sales, q, month); err != nil {
		return nil, fmt.Errorf("SalesForMonth (%s) failed: %w", month, err)
	}
	return sales, nil
}

// DailyRevenueForMonth aggregates total_amount per calendar day of the month.
func DailyRevenueForMonth(db *sqlx.DB, month string) ([]model.DailyRevenue, error) {
	days := []model.DailyRevenue{}
	const q = `SELECT strftime('%d', sale_time) AS day, SUM(total_amount) AS revenue
	           FROM sales WHERE strftime('%Y-%m', sale_time) = ?
	           GROUP BY day ORDER BY day`
	if err := db.Select(&days, q, month); err != nil {
		return nil, fmt.Errorf("DailyRevenueForMonth (%s) failed: %w", month, err)
	}
	return days, nil
}
