package model

// Item is one row of the items table. ExpiryDate is an ISO YYYY-MM-DD string;
// an empty string means no expiry is tracked for the item.
type Item struct {
	ID         int64   `db:"id" json:"id"`
	Name       string  `db:"name" json:"name"`
	Category   string  `db:"category" json:"category"`
	Price      float64 `db:"price" json:"price"`
	Quantity   int     `db:"quantity" json:"quantity"`
	ExpiryDate string  `db:"expiry_date" json:"expiryDate"`
}

// AddItemInput is the add-item request body.
type AddItemInput struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	ExpiryDate string  `json:"expiryDate"`
}
