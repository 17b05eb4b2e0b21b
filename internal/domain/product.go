package domain

import "github.com/shopspring/decimal" // Fixed-point decimal for money

func init() {
	// Prices and totals must serialize as JSON numbers, matching the API contract
	decimal.MarshalJSONWithoutQuotes = true
}

// Product Model
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                  // Primary key
	Name        string          `gorm:"unique;not null" json:"name"`           // Product name, the order join key
	Description string          `json:"description"`                          // Product description
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // Unit price, authoritative for order pricing
	Image       string          `json:"image"`                                // Product image URL (image store)
}
