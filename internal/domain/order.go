package domain

import "github.com/shopspring/decimal" // Fixed-point decimal for money

// Order Model
//
// ProductID and ProductName are copied from the catalog row at order
// creation/update time. Later catalog changes never touch existing orders.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`                       // Primary key
	ProductID   uint            `json:"product_id"`                                // Snapshot of the product id
	ProductName string          `json:"product_name"`                              // Snapshot of the product name
	Quantity    int             `gorm:"not null" json:"quantity"`                   // Ordered quantity, always > 0
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"total_amount"`     // price * quantity at write time
	Name        string          `json:"name"`                                      // Customer name
	Telephone   string          `json:"telephone"`                                 // Customer telephone
	Address     string          `json:"address"`                                   // Delivery address
	Status      string          `gorm:"default:unpaid" json:"status"`              // Free-form order status
}
