// Package checkout records sales: it validates a cart against current stock
// and persists the sale, its line items and the stock decrements in one
// transaction.
package checkout

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"smartshop/database"
	"smartshop/model"
	"smartshop/money"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// Per-line checkout errors. These are recovered locally: a failed line is
// reported and, in best-effort mode, does not abort the rest of the sale.
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ErrValidation is returned before any write when the cart itself is bad
// (empty, or a line with a non-positive quantity or negative price).
var ErrValidation = errors.New("invalid cart")

// Mode controls what a failed line does to the rest of the sale.
type Mode string

const (
	// ModeBestEffort skips failed lines and commits the rest. This matches
	// the historical behavior of the system.
	ModeBestEffort Mode = "best-effort"
	// ModeAtomic voids the whole sale when any line fails.
	ModeAtomic Mode = "atomic"
)

// TotalPolicy controls which lines the stored and returned total covers.
type TotalPolicy string

const (
	// TotalRequested totals every cart line, including lines that were
	// skipped. The historical implementation did this; the asymmetry between
	// the charged total and the committed lines is preserved deliberately
	// under this policy.
	TotalRequested TotalPolicy = "requested"
	// TotalAccepted totals only the lines that committed.
	TotalAccepted TotalPolicy = "accepted"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeBestEffort, ModeAtomic:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown checkout mode %q", s)
}

func ParseTotalPolicy(s string) (TotalPolicy, error) {
	switch TotalPolicy(s) {
	case TotalRequested, TotalAccepted:
		return TotalPolicy(s), nil
	}
	return "", fmt.Errorf("unknown total policy %q", s)
}

// LineResult reports the outcome of one cart line.
type LineResult struct {
	ItemID    int64
	Name      string
	Quantity  int
	UnitPrice float64
	Committed bool
	Err       error
}

// Result is the outcome of RecordSale. SaleID is 0 when no sale row was
// committed (atomic mode with a failed line).
type Result struct {
	SaleID   int64
	SaleTime string
	Total    decimal.Decimal
	Lines    []LineResult
}

// Accepted reports how many lines committed.
func (r *Result) Accepted() int {
	n := 0
	for _, l := range r.Lines {
		if l.Committed {
			n++
		}
	}
	return n
}

// Recorder binds the sale-recording routine to a connection and a policy.
type Recorder struct {
	db     *sqlx.DB
	mode   Mode
	policy TotalPolicy
	now    func() time.Time
}

func NewRecorder(db *sqlx.DB, mode Mode, policy TotalPolicy) *Recorder {
	return &Recorder{db: db, mode: mode, policy: policy, now: time.Now}
}

// RecordSale persists one checkout. Per-line failures surface in
// Result.Lines; the returned error is reserved for validation and storage
// failures. Callers must inspect the line results to know which lines
// actually committed.
func (rec *Recorder) RecordSale(cart []model.CartLine) (*Result, error) {
	if len(cart) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	for _, line := range cart {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d for %q must be positive", ErrValidation, line.Quantity, line.Name)
		}
		if line.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: negative unit price for %q", ErrValidation, line.Name)
		}
	}

	requestedTotal := decimal.Zero
	for _, line := range cart {
		requestedTotal = requestedTotal.Add(money.Subtotal(line.Quantity, line.UnitPrice))
	}

	tx, err := rec.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to start sale transaction: %w", err)
	}
	defer tx.Rollback()

	saleTime := rec.now().Format(database.SaleTimeLayout)
	totalFloat, _ := requestedTotal.Float64()
	saleID, err := database.InsertSaleInTx(tx, saleTime, totalFloat)
	if err != nil {
		return nil, err
	}

	result := &Result{SaleID: saleID, SaleTime: saleTime, Total: requestedTotal}
	acceptedTotal := decimal.Zero
	failed := false

	for _, line := range cart {
		lr := LineResult{ItemID: line.ItemID, Name: line.Name, Quantity: line.Quantity, UnitPrice: line.UnitPrice}

		// Latest committed quantity, not a snapshot taken before checkout.
		current, err := database.GetItemQuantityInTx(tx, line.ItemID)
		switch {
		case err == sql.ErrNoRows:
			lr.Err = ErrItemNotFound
		case err != nil:
			return nil, fmt.Errorf("failed to read stock for item %d: %w", line.ItemID, err)
		case line.Quantity > current:
			lr.Err = fmt.Errorf("%w: %s has only %d left", ErrInsufficientStock, line.Name, current)
		}

		if lr.Err != nil {
			failed = true
			result.Lines = append(result.Lines, lr)
			continue
		}

		if _, err := database.InsertSaleLineInTx(tx, saleID, line.ItemID, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
		if err := database.DecrementItemQuantityInTx(tx, line.ItemID, line.Quantity); err != nil {
			return nil, err
		}
		lr.Committed = true
		acceptedTotal = acceptedTotal.Add(money.Subtotal(line.Quantity, line.UnitPrice))
		result.Lines = append(result.Lines, lr)
	}

	if failed && rec.mode == ModeAtomic {
		// defer'd Rollback voids everything, including the sale row.
		result.SaleID = 0
		result.Total = decimal.Zero
		for i := range result.Lines {
			result.Lines[i].Committed = false
		}
		return result, nil
	}

	if rec.policy == TotalAccepted && !acceptedTotal.Equal(requestedTotal) {
		f, _ := acceptedTotal.Float64()
		if err := database.UpdateSaleTotalInTx(tx, saleID, f); err != nil {
			return nil, err
		}
		result.Total = acceptedTotal
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}
	return result, nil
}
