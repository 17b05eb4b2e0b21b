package api

import (
	"context"       // Request-scoped deadlines for upload/store calls
	"errors"        // Sentinel error matching
	"mime/multipart" // Uploaded file headers
	"net/http"      // HTTP status codes
	"os"            // Temp file handling
	"path/filepath" // Temp file paths

	"ecommerce_backend/internal/domain"     // Importing domain models
	"ecommerce_backend/internal/imagestore" // Image store client
	"ecommerce_backend/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the body for user registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest is the body for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// RegisterHandler creates a new user with a bcrypt-hashed password
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails (missing username/email/password), return bad request
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid request: " + err.Error()})
			return
		}
		// Hash the password with the fixed cost factor (10)
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to hash password"})
			return
		}
		// Create the user; role defaults to "user" at the store
		user := domain.User{Username: req.Username, Email: req.Email, Password: string(hash)}
		if err := db.Create(&user).Error; err != nil {
			// Duplicate username/email surfaces the store's uniqueness constraint
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"status": 409, "message": "Username or email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Return the generated id and username
		c.JSON(http.StatusCreated, gin.H{
			"id":       user.ID,                          // Generated user ID
			"username": user.Username,                    // Registered username
			"message":  "User registration successfully!", // Success message
		})
	}
}

// LoginHandler authenticates a user and issues a signed token.
// Failure outcomes deliberately answer 200 with a message body instead of a
// 4xx; the consuming frontend branches on the message field.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Invalid request: " + err.Error()})
			return
		}
		var user domain.User // Fetch user by exact username
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"message": "user not found"}) // Unknown username
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Verify the password against the stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "Wrong Password"}) // Mismatched password
			return
		}
		// Issue a token embedding id, username and role
		token, err := utils.GenerateJWT(user.ID, user.Username, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to generate token"})
			return
		}
		// Return the token alongside profile fields
		c.JSON(http.StatusOK, gin.H{
			"id":          user.ID,       // User ID
			"username":    user.Username, // Username
			"role":        user.Role,     // User role
			"accessToken": token,         // Signed JWT
		})
	}
}

// ProfileHandler echoes the authenticated token claims
func ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       c.GetUint("userID"),    // User ID from token
			"username": c.GetString("username"), // Username from token
			"role":     c.GetString("role"),     // Role from token
		})
	}
}

// saveTempUpload writes an uploaded file to a temp path for the image store.
// The caller removes the file once the upload is done.
func saveTempUpload(c *gin.Context, file *multipart.FileHeader) (string, error) {
	dst := filepath.Join(os.TempDir(), filepath.Base(file.Filename)) // Local temp path
	return dst, c.SaveUploadedFile(file, dst)                        // Persist the upload locally
}

// EditProfileHandler overwrites a user row wholesale from a multipart form.
// Every edit requires a new password (rehashed unconditionally) and a new
// photo; there is no partial-patch path.
func EditProfileHandler(db *gorm.DB, store imagestore.Store, folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")                 // Target user id from the route
		username := c.PostForm("username")  // Replacement username
		email := c.PostForm("email")        // Replacement email
		name := c.PostForm("name")          // Replacement display name
		password := c.PostForm("password")  // Replacement password, always required
		file, err := c.FormFile("photo")    // Replacement profile photo
		// Every field is resupplied on each edit
		if username == "" || email == "" || password == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "username, email, password and photo are required"})
			return
		}
		// Rehash the supplied password
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to hash password"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound upload and store calls
		defer cancel()
		// Stage the upload locally, push it to the image store, then clean up
		tmpPath, err := saveTempUpload(c, file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		photoURL, err := store.Upload(ctx, tmpPath, folder)
		_ = os.Remove(tmpPath) // The local temp file is ours to delete
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": id,          // Target user ID
				"error":   err.Error(), // Error message
			}).Error("Profile photo upload failed") // Log upload failure
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Wholesale overwrite of the user row
		err = db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
			"username": username,     // Replacement username
			"email":    email,        // Replacement email
			"name":     name,         // Replacement display name
			"password": string(hash), // Rehashed password
			"photo":    photoURL,     // Hosted photo URL
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Return the updated profile
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Profile updated successfully!", // Success message
			"id":       id,                              // Target user ID
			"username": username,                        // Updated username
			"email":    email,                           // Updated email
			"name":     name,                            // Updated display name
			"photo":    photoURL,                        // Updated photo URL
		})
	}
}

// GetAllUsersHandler returns full user rows (password hashes never serialize)
func GetAllUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User // Slice to hold users
		if err := db.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": 200, "data": users}) // Return user list
	}
}

// PublicUser is the filtered user shape exposed on public listings
type PublicUser struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Name     string `json:"name"`     // Display name
	Role     string `json:"role"`     // User role
}

// GetAllUsersDataHandler returns the filtered public user listing
func GetAllUsersDataHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []domain.User // Slice to hold users
		if err := db.Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Map users to the filtered shape
		data := make([]PublicUser, len(users))
		for i, u := range users {
			data[i] = PublicUser{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
		}
		c.JSON(http.StatusOK, gin.H{"status": 200, "data": data}) // Return filtered list
	}
}

// GetUserByIDHandler returns one user in the filtered shape
func GetUserByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user domain.User // User struct to hold data
		if err := db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Return the filtered user shape
		c.JSON(http.StatusOK, gin.H{
			"status":   200,           // Status code echo
			"id":       user.ID,       // User ID
			"username": user.Username, // Username
			"name":     user.Name,     // Display name
			"role":     user.Role,     // User role
		})
	}
}

// CreateUserByAdminHandler creates a user with an explicit role and photo
func CreateUserByAdminHandler(db *gorm.DB, store imagestore.Store, folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.PostForm("username") // New username
		email := c.PostForm("email")       // New email
		name := c.PostForm("name")         // New display name
		password := c.PostForm("password") // New password
		role := c.PostForm("role")         // Assigned role
		file, err := c.FormFile("photo")   // Profile photo
		if username == "" || email == "" || password == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "username, email, password and photo are required"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost) // Hash the password
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to hash password"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound upload and store calls
		defer cancel()
		tmpPath, err := saveTempUpload(c, file) // Stage the upload locally
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		photoURL, err := store.Upload(ctx, tmpPath, folder) // Push to the image store
		_ = os.Remove(tmpPath)                              // The local temp file is ours to delete
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Persist the new user
		user := domain.User{
			Username: username,     // New username
			Email:    email,        // New email
			Name:     name,         // New display name
			Password: string(hash), // Hashed password
			Photo:    photoURL,     // Hosted photo URL
			Role:     role,         // Assigned role
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"status": 409, "message": "Username or email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"}) // Success response
	}
}

// UpdateUserByAdminHandler overwrites a user row wholesale, role included
func UpdateUserByAdminHandler(db *gorm.DB, store imagestore.Store, folder string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")                // Target user id from the route
		username := c.PostForm("username") // Replacement username
		email := c.PostForm("email")       // Replacement email
		name := c.PostForm("name")         // Replacement display name
		password := c.PostForm("password") // Replacement password
		role := c.PostForm("role")         // Replacement role
		file, err := c.FormFile("photo")   // Replacement photo
		if username == "" || email == "" || password == "" || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "username, email, password and photo are required"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost) // Rehash the password
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to hash password"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), opTimeout) // Bound upload and store calls
		defer cancel()
		tmpPath, err := saveTempUpload(c, file) // Stage the upload locally
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		photoURL, err := store.Upload(ctx, tmpPath, folder) // Push to the image store
		_ = os.Remove(tmpPath)                              // The local temp file is ours to delete
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		// Wholesale overwrite, including the role
		err = db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
			"username": username,     // Replacement username
			"email":    email,        // Replacement email
			"name":     name,         // Replacement display name
			"password": string(hash), // Rehashed password
			"photo":    photoURL,     // Hosted photo URL
			"role":     role,         // Replacement role
		}).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Profile updated successfully!"}) // Success response
	}
}

// DeleteUserHandler hard-deletes a user and echoes the id
func DeleteUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id") // User id from the route
		if err := db.Where("id = ?", id).Delete(&domain.User{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": 201, "id": id, "message": "User deleted successfully!"})
	}
}
