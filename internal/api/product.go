package api

import (
	"context"  // Request-scoped deadlines and cache operations
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"os"       // Temp file handling
	"time"     // Cache TTL

	"ecommerce_backend/internal/domain"     // Importing domain models
	"ecommerce_backend/internal/imagestore" // Image store client
	"ecommerce_backend/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Fixed-point decimal for money
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// productCacheTTL is how long catalog reads are served from Redis.
// Order pricing never reads the cache; only the public catalog GETs do.
const productCacheTTL = 60 * time.Second

// parsePrice converts a form price into an exact decimal and requires it
// to be positive
func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !price.IsPositive() {
		return decimal.Decimal{}, errors.New("price must be greater than zero")
	}
	return price, nil
}

// invalidateProductCache drops the catalog list entry and one detail entry
func invalidateProductCache(ctx context.Context, rdb *redis.Client, id string) {
	if rdb == nil {
		return // Caching disabled
	}
	keys := []string{"products:all"} // List entry is always dropped
	if id != "" {
		keys = append(keys, "products:id:"+id) // Drop the detail entry too
	}
	_ = utils.InvalidateCache(ctx, rdb, keys...) // Best-effort invalidation
}

// GetAllProductsHandler returns the catalog, served from Redis when warm
func GetAllProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()   // Context for cache operations
		var products []domain.Product // Slice to hold products
		// Try the cache first
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, "products:all", &products); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"status": 200, "data": products, "cached": true})
				return
			}
		}
		// Cache miss, fetch from the database
		if err := db.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Cache the catalog for future reads
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, "products:all", products, productCacheTTL)
		}
		c.JSON(http.StatusOK, gin.H{"status": 200, "data": products}) // Return the catalog
	}
}

// GetProductByIDHandler returns a single product, served from Redis when warm
func GetProductByIDHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")        // Product id from the route
		ctx := c.Request.Context() // Context for cache operations
		var product domain.Product // Product struct to hold data
		cacheKey := "products:id:" + id
		// Try the cache first
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &product); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"status": 200, "data": product, "cached": true})
				return
			}
		}
		// Cache miss, fetch from the database
		if err := db.Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Cache the product for future reads
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, product, productCacheTTL)
		}
		c.JSON(http.StatusOK, gin.H{"status": 200, "data": product}) // Return the product
	}
}

// CreateProductHandler persists a new catalog entry from a multipart form.
// The image is staged locally, pushed to the image store under the configured
// folder, and the local temp file is removed before the row is written.
func CreateProductHandler(db *gorm.DB, rdb *redis.Client, store imagestore.Store, folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")               // Product name
		description := c.PostForm("description") // Product description
		rawPrice := c.PostForm("price")          // Unit price as submitted
		file, err := c.FormFile("image")         // Product image
		if name == "" || rawPrice == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "name, price and image are required"})
			return
		}
		// Parse the price into an exact decimal
		price, err := parsePrice(rawPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid price: " + err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound upload and store calls
		defer cancel()
		tmpPath, err := saveTempUpload(c, file) // Stage the upload locally
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		imageURL, err := store.Upload(ctx, tmpPath, folder) // Push to the image store
		_ = os.Remove(tmpPath)                              // The local temp file is ours to delete
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"product_name": name,        // Product being created
				"error":        err.Error(), // Error message
			}).Error("Product image upload failed") // Log upload failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Persist the product; the unique name constraint rejects duplicates
		product := domain.Product{Name: name, Description: description, Price: price, Image: imageURL}
		if err := db.WithContext(ctx).Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"status": 409, "message": "Product name already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		invalidateProductCache(ctx, rdb, "") // Drop the stale catalog listing
		// Return the persisted fields
		c.JSON(http.StatusCreated, gin.H{
			"status":      201,                             // Status code echo
			"message":     "Product created successfully!", // Success message
			"name":        product.Name,                    // Product name
			"description": product.Description,             // Product description
			"price":       product.Price,                   // Unit price
			"image":       product.Image,                   // Hosted image URL
		})
	}
}

// UpdateProductHandler overwrites a catalog entry wholesale, image included
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client, store imagestore.Store, folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")                      // Product id from the route
		name := c.PostForm("name")               // Replacement name
		description := c.PostForm("description") // Replacement description
		rawPrice := c.PostForm("price")          // Replacement price
		file, err := c.FormFile("image")         // Replacement image
		if name == "" || rawPrice == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "name, price and image are required"})
			return
		}
		// Parse the price into an exact decimal
		price, err := parsePrice(rawPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid price: " + err.Error()})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound upload and store calls
		defer cancel()
		tmpPath, err := saveTempUpload(c, file) // Stage the upload locally
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		imageURL, err := store.Upload(ctx, tmpPath, folder) // Push to the image store
		_ = os.Remove(tmpPath)                              // The local temp file is ours to delete
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Wholesale overwrite of the product row.
		// Existing orders keep their snapshotted name and price.
		err = db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(map[string]any{
			"name":        name,        // Replacement name
			"description": description, // Replacement description
			"price":       price,       // Replacement price
			"image":       imageURL,    // Hosted image URL
		}).Error
		if err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"status": 409, "message": "Product name already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		invalidateProductCache(ctx, rdb, id) // Drop stale list and detail entries
		// Return the persisted fields
		c.JSON(http.StatusCreated, gin.H{
			"status":      201,                             // Status code echo
			"message":     "Product updated successfully!", // Success message
			"product_id":  id,                              // Target product ID
			"name":        name,                            // Replacement name
			"description": description,                     // Replacement description
			"price":       price,                           // Replacement price
			"image":       imageURL,                        // Hosted image URL
		})
	}
}

// DeleteProductHandler hard-deletes a catalog entry.
// Existing orders are untouched; they carry their own snapshot.
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // Product id from the route
		if err := db.Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		invalidateProductCache(c.Request.Context(), rdb, id) // Drop stale list and detail entries
		c.JSON(http.StatusCreated, gin.H{"status": 201, "id": id, "message": "Product deleted successfully!"})
	}
}
