package api

import (
	"context"  // Request-scoped deadlines for store calls
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"time"     // Timeout durations

	"ecommerce_backend/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Fixed-point decimal for money
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// opTimeout bounds every database/image-store call made from a handler.
// A hung upstream fails the request instead of hanging it forever.
const opTimeout = 5 * time.Second

// OrderRequest is the body for order creation and update.
// Quantity is bound as a strict integer and must be positive; anything else
// is rejected before pricing.
type OrderRequest struct {
	ProductName string `json:"product_name" binding:"required"`  // Product to order, resolved by exact name
	Quantity    int    `json:"quantity" binding:"required,gt=0"` // Ordered quantity, must be > 0
	Name        string `json:"name" binding:"required"`          // Customer name
	Telephone   string `json:"telephone"`                        // Customer telephone
	Address     string `json:"address"`                          // Delivery address
}

// orderTotal computes price * quantity in exact decimal arithmetic
func orderTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// CreateOrderHandler prices and persists a new order.
// The product lookup, pricing and insert run inside one transaction so a
// concurrent price change cannot slip between lookup and insert. Pricing is
// always computed server-side from the current catalog; client-submitted
// totals are never read.
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails (missing fields, non-numeric or non-positive quantity), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid request: " + err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound the store calls
		defer cancel()

		var order domain.Order // Order row being built
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var product domain.Product // Catalog row for pricing
			// Resolve the product by exact name against the current catalog
			if err := tx.Where("name = ?", req.ProductName).First(&product).Error; err != nil {
				return err // Missing product rejects the request before any write
			}
			// Snapshot product id/name and the computed total into the order row
			order = domain.Order{
				ProductID:   product.ID,                              // Snapshot of the product id
				ProductName: product.Name,                            // Snapshot of the product name
				Quantity:    req.Quantity,                            // Ordered quantity
				TotalAmount: orderTotal(product.Price, req.Quantity), // price * quantity
				Name:        req.Name,                                // Customer name
				Telephone:   req.Telephone,                           // Customer telephone
				Address:     req.Address,                             // Delivery address
				Status:      "unpaid",                                // Initial order status
			}
			return tx.Create(&order).Error // Persist the priced order
		})
		// Handle transaction result
		if err != nil {
			// Missing product is a client error, everything else is a store failure
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"product_name": req.ProductName, // Requested product
				"quantity":     req.Quantity,    // Requested quantity
				"error":        err.Error(),     // Error message
			}).Error("Order creation failed") // Log order failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Log successful order
		logrus.WithFields(logrus.Fields{
			"order_id":     order.ID,          // Generated order ID
			"product_name": order.ProductName, // Ordered product
			"quantity":     order.Quantity,    // Ordered quantity
			"total_amount": order.TotalAmount, // Computed total
		}).Info("Order created") // Log order creation
		// Return the generated id plus all echoed/computed fields
		c.JSON(http.StatusCreated, gin.H{
			"status":       201,                            // Status code echo
			"message":      "Order created successfully!",  // Success message
			"order_id":     order.ID,                       // Generated order ID
			"product_name": order.ProductName,              // Ordered product
			"quantity":     order.Quantity,                 // Ordered quantity
			"total_amount": order.TotalAmount,              // Computed total
			"name":         order.Name,                     // Customer name
			"telephone":    order.Telephone,                // Customer telephone
			"address":      order.Address,                  // Delivery address
		})
	}
}

// UpdateOrderHandler re-prices and overwrites an existing order wholesale.
// Resolution and pricing are identical to creation; omitted fields are not
// preserved. A vanished product fails the request whether or not the order
// id exists, and leaves the stored row untouched.
func UpdateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")  // Order id from the route
		var req OrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid request: " + err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound the store calls
		defer cancel()

		var product domain.Product // Catalog row for pricing
		var total decimal.Decimal  // Recomputed total
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Resolve the product by exact name against the current catalog
			if err := tx.Where("name = ?", req.ProductName).First(&product).Error; err != nil {
				return err // Missing product rejects the request before any write
			}
			total = orderTotal(product.Price, req.Quantity) // price * quantity
			// Full overwrite of the order row with a fresh snapshot
			return tx.Model(&domain.Order{}).Where("id = ?", id).Updates(map[string]any{
				"product_id":   product.ID,    // Snapshot of the product id
				"product_name": product.Name,  // Snapshot of the product name
				"quantity":     req.Quantity,  // Ordered quantity
				"total_amount": total,         // Recomputed total
				"name":         req.Name,      // Customer name
				"telephone":    req.Telephone, // Customer telephone
				"address":      req.Address,   // Delivery address
			}).Error
		})
		// Handle transaction result
		if err != nil {
			// Missing product is a client error, everything else is a store failure
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"order_id":     id,              // Target order ID
				"product_name": req.ProductName, // Requested product
				"error":        err.Error(),     // Error message
			}).Error("Order update failed") // Log update failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Return the echoed/recomputed fields
		c.JSON(http.StatusCreated, gin.H{
			"status":       201,                           // Status code echo
			"message":      "Order updated successfully!", // Success message
			"order_id":     id,                            // Target order ID
			"product_name": product.Name,                  // Ordered product
			"quantity":     req.Quantity,                  // Ordered quantity
			"total_amount": total,                         // Recomputed total
			"name":         req.Name,                      // Customer name
			"telephone":    req.Telephone,                 // Customer telephone
			"address":      req.Address,                   // Delivery address
		})
	}
}

// StatusRequest is the body for a status transition
type StatusRequest struct {
	NewStatus string `json:"newStatus" binding:"required"` // Replacement status value
}

// UpdateOrderStatusHandler overwrites the status field of an order.
// No status vocabulary is enforced and the order's existence is not checked;
// repeating the call with the same value is a no-op in effect.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")   // Order id from the route
		var req StatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid request: " + err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound the store call
		defer cancel()
		// Unconditional overwrite of the status field
		if err := db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("status", req.NewStatus).Error; err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"order_id": id,            // Target order ID
				"status":   req.NewStatus, // Requested status
				"error":    err.Error(),   // Error message
			}).Error("Order status update failed") // Log status failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Return acknowledgement
		c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Order status updated successfully!"})
	}
}

// GetAllOrdersHandler returns every order in store order
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []domain.Order // Slice to hold orders
		if err := db.Find(&orders).Error; err != nil {
			// If fetching fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": orders}) // Return order list
	}
}

// GetOrderByIDHandler returns a single order or a not-found outcome
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order domain.Order // Order struct to hold data
		if err := db.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
			// Missing row is a not-found outcome, everything else a store failure
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": order}) // Return the order
	}
}

// DeleteOrderHandler hard-deletes an order.
// Deleting an id that no longer exists still reports success.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Order id from the route
		if err := db.Where("id = ?", id).Delete(&domain.Order{}).Error; err != nil {
			// If deletion fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Return the deleted identifier
		c.JSON(http.StatusCreated, gin.H{"status": 201, "id": id, "message": "Order deleted successfully!"})
	}
}
