package checkout

import (
	"errors"
	"testing"
	"time"

	"smartshop/database"
	"smartshop/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const testSchema = `
CREATE TABLE items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    category    TEXT NOT NULL DEFAULT '',
    price       REAL NOT NULL DEFAULT 0,
    quantity    INTEGER NOT NULL DEFAULT 0,
    expiry_date TEXT NOT NULL DEFAULT ''
);
CREATE TABLE sales (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    sale_time    TEXT NOT NULL,
    total_amount REAL NOT NULL DEFAULT 0
);
CREATE TABLE sale_items (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    sale_id    INTEGER NOT NULL,
    item_id    INTEGER NOT NULL,
    quantity   INTEGER NOT NULL,
    unit_price REAL NOT NULL
);
`

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	// Every pool connection to :memory: gets its own database, so keep the
	// pool at a single connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return db
}

func createItem(t *testing.T, db *sqlx.DB, name string, price float64, quantity int) int64 {
	t.Helper()
	id, err := database.CreateItem(db, name, "", price, quantity, "")
	if err != nil {
		t.Fatalf("CreateItem %s: %v", name, err)
	}
	return id
}

func itemQuantity(t *testing.T, db *sqlx.DB, id int64) int {
	t.Helper()
	item, err := database.GetItem(db, id)
	if err != nil {
		t.Fatalf("GetItem %d: %v", id, err)
	}
	if item == nil {
		t.Fatalf("item %d not found", id)
	}
	return item.Quantity
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
}

func newTestRecorder(db *sqlx.DB, mode Mode, policy TotalPolicy) *Recorder {
	rec := NewRecorder(db, mode, policy)
	rec.now = fixedNow
	return rec
}

func TestRecordSaleHappyPath(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)
	idB := createItem(t, db, "B", 5.0, 5)

	rec := newTestRecorder(db, ModeBestEffort, TotalRequested)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 2, UnitPrice: 10.0},
		{ItemID: idB, Name: "B", Quantity: 1, UnitPrice: 5.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if !result.Total.Equal(decimal.NewFromFloat(25.0)) {
		t.Errorf("total = %s, want 25", result.Total)
	}
	if result.SaleID == 0 {
		t.Fatal("no sale id returned")
	}
	if result.Accepted() != 2 {
		t.Errorf("accepted %d lines, want 2", result.Accepted())
	}
	if result.SaleTime != "2024-03-15 14:30:00" {
		t.Errorf("sale time = %s", result.SaleTime)
	}

	if got := itemQuantity(t, db, idA); got != 3 {
		t.Errorf("item A quantity = %d, want 3", got)
	}
	if got := itemQuantity(t, db, idB); got != 4 {
		t.Errorf("item B quantity = %d, want 4", got)
	}

	lines, err := database.SaleLines(db, result.SaleID)
	if err != nil {
		t.Fatalf("SaleLines: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d sale_items rows, want 2", len(lines))
	}
	if lines[0].ItemID != idA || lines[0].Quantity != 2 || lines[0].UnitPrice != 10.0 {
		t.Errorf("line 1 = %+v", lines[0])
	}
	if lines[1].ItemID != idB || lines[1].Quantity != 1 || lines[1].UnitPrice != 5.0 {
		t.Errorf("line 2 = %+v", lines[1])
	}

	sale, err := database.GetSale(db, result.SaleID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if sale.TotalAmount != 25.0 {
		t.Errorf("stored total = %v, want 25", sale.TotalAmount)
	}
}

func TestRecordSaleInsufficientStockSkipsLine(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)
	idB := createItem(t, db, "B", 5.0, 0)

	rec := newTestRecorder(db, ModeBestEffort, TotalRequested)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 2, UnitPrice: 10.0},
		{ItemID: idB, Name: "B", Quantity: 1, UnitPrice: 5.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	// The requested-total policy charges for B even though its line was
	// skipped. That asymmetry is the configured behavior under test.
	if !result.Total.Equal(decimal.NewFromFloat(25.0)) {
		t.Errorf("total = %s, want 25 (requested policy)", result.Total)
	}

	if !result.Lines[0].Committed {
		t.Error("line A should have committed")
	}
	if result.Lines[1].Committed {
		t.Error("line B should have been skipped")
	}
	if !errors.Is(result.Lines[1].Err, ErrInsufficientStock) {
		t.Errorf("line B error = %v, want ErrInsufficientStock", result.Lines[1].Err)
	}

	if got := itemQuantity(t, db, idA); got != 3 {
		t.Errorf("item A quantity = %d, want 3", got)
	}
	if got := itemQuantity(t, db, idB); got != 0 {
		t.Errorf("item B quantity = %d, want 0 (never negative)", got)
	}

	lines, err := database.SaleLines(db, result.SaleID)
	if err != nil {
		t.Fatalf("SaleLines: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("got %d sale_items rows, want 1", len(lines))
	}
}

func TestRecordSaleItemNotFound(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)

	rec := newTestRecorder(db, ModeBestEffort, TotalRequested)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 1, UnitPrice: 10.0},
		{ItemID: 9999, Name: "Ghost", Quantity: 1, UnitPrice: 3.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if !errors.Is(result.Lines[1].Err, ErrItemNotFound) {
		t.Errorf("ghost line error = %v, want ErrItemNotFound", result.Lines[1].Err)
	}
	if result.Accepted() != 1 {
		t.Errorf("accepted %d lines, want 1", result.Accepted())
	}
	if !result.Total.Equal(decimal.NewFromFloat(13.0)) {
		t.Errorf("total = %s, want 13", result.Total)
	}
}

func TestRecordSaleAcceptedTotalPolicy(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)
	idB := createItem(t, db, "B", 5.0, 0)

	rec := newTestRecorder(db, ModeBestEffort, TotalAccepted)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 2, UnitPrice: 10.0},
		{ItemID: idB, Name: "B", Quantity: 1, UnitPrice: 5.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if !result.Total.Equal(decimal.NewFromFloat(20.0)) {
		t.Errorf("total = %s, want 20 (accepted policy)", result.Total)
	}
	sale, err := database.GetSale(db, result.SaleID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if sale.TotalAmount != 20.0 {
		t.Errorf("stored total = %v, want 20", sale.TotalAmount)
	}
}

func TestRecordSaleAtomicModeRollsBack(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)
	idB := createItem(t, db, "B", 5.0, 0)

	rec := newTestRecorder(db, ModeAtomic, TotalRequested)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 2, UnitPrice: 10.0},
		{ItemID: idB, Name: "B", Quantity: 1, UnitPrice: 5.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}

	if result.SaleID != 0 {
		t.Errorf("sale id = %d, want 0 for a voided sale", result.SaleID)
	}
	for _, l := range result.Lines {
		if l.Committed {
			t.Errorf("line %s marked committed in a voided sale", l.Name)
		}
	}

	// Nothing persisted: stock untouched, no sale rows.
	if got := itemQuantity(t, db, idA); got != 5 {
		t.Errorf("item A quantity = %d, want 5", got)
	}
	var saleCount int
	if err := db.Get(&saleCount, `SELECT COUNT(*) FROM sales`); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if saleCount != 0 {
		t.Errorf("found %d sales rows, want 0", saleCount)
	}
}

func TestRecordSaleAtomicModeCommitsCleanCart(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)

	rec := newTestRecorder(db, ModeAtomic, TotalRequested)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 5, UnitPrice: 10.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if result.SaleID == 0 {
		t.Fatal("clean cart should commit in atomic mode")
	}
	if got := itemQuantity(t, db, idA); got != 0 {
		t.Errorf("item A quantity = %d, want 0", got)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 10.0, 5)
	rec := newTestRecorder(db, ModeBestEffort, TotalRequested)

	tests := []struct {
		name string
		cart []model.CartLine
	}{
		{"empty cart", nil},
		{"zero quantity", []model.CartLine{{ItemID: idA, Name: "A", Quantity: 0, UnitPrice: 10.0}}},
		{"negative quantity", []model.CartLine{{ItemID: idA, Name: "A", Quantity: -1, UnitPrice: 10.0}}},
		{"negative price", []model.CartLine{{ItemID: idA, Name: "A", Quantity: 1, UnitPrice: -2.0}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := rec.RecordSale(tc.cart); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// Validation rejects before any write.
	var saleCount int
	if err := db.Get(&saleCount, `SELECT COUNT(*) FROM sales`); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	if saleCount != 0 {
		t.Errorf("found %d sales rows after rejected carts, want 0", saleCount)
	}
}

func TestRecordSaleExactStockBoundary(t *testing.T) {
	db := newTestDB(t)
	idA := createItem(t, db, "A", 2.0, 3)

	rec := newTestRecorder(db, ModeBestEffort, TotalRequested)
	result, err := rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 3, UnitPrice: 2.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if result.Accepted() != 1 {
		t.Fatal("requesting the exact remaining stock should commit")
	}
	if got := itemQuantity(t, db, idA); got != 0 {
		t.Errorf("item A quantity = %d, want 0", got)
	}

	// A second sale of the same item now fails per line.
	result, err = rec.RecordSale([]model.CartLine{
		{ItemID: idA, Name: "A", Quantity: 1, UnitPrice: 2.0},
	})
	if err != nil {
		t.Fatalf("RecordSale: %v", err)
	}
	if !errors.Is(result.Lines[0].Err, ErrInsufficientStock) {
		t.Errorf("err = %v, want ErrInsufficientStock", result.Lines[0].Err)
	}
	if got := itemQuantity(t, db, idA); got != 0 {
		t.Errorf("item A quantity = %d, want 0 (never negative)", got)
	}
}
