package model

// Sale is one row of the sales table. SaleTime is stored as
// "YYYY-MM-DD HH:MM:SS" so lexical order matches chronological order.
type Sale struct {
	ID          int64   `db:"id" json:"id"`
	SaleTime    string  `db:"sale_time" json:"saleTime"`
	TotalAmount float64 `db:"total_amount" json:"totalAmount"`
}

// SaleLineItem is one row of the sale_items table. UnitPrice is the price
// snapshot taken at sale time, independent of later catalog price changes.
type SaleLineItem struct {
	ID        int64   `db:"id" json:"id"`
	SaleID    int64   `db:"sale_id" json:"saleId"`
	ItemID    int64   `db:"item_id" json:"itemId"`
	Quantity  int     `db:"quantity" json:"quantity"`
	UnitPrice float64 `db:"unit_price" json:"unitPrice"`
}

// CartLine is one entry of the transient checkout cart. It is never persisted
// as-is; accepted lines become SaleLineItem rows.
type CartLine struct {
	ItemID    int64   `json:"itemId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// DailyRevenue is one point of the monthly report's per-day series.
type DailyRevenue struct {
	Day     string  `db:"day" json:"day"`
	Revenue float64 `db:"revenue" json:"revenue"`
}
