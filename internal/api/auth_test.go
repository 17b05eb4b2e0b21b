// Tests for registration, login and the token-protected profile route.
// Run with: go test ./...

package api

import (
	"net/http" // HTTP status codes
	"net/http/httptest"
	"testing" // Go's testing package

	"ecommerce_backend/internal/domain"     // Domain models
	"ecommerce_backend/internal/middleware" // JWT middleware
	"ecommerce_backend/internal/utils"      // JWT helpers

	"github.com/gin-gonic/gin"           // Gin web framework
	"github.com/stretchr/testify/assert" // For assertions
	"gorm.io/gorm"                       // GORM ORM library
)

const testSecret = "test-secret" // Signing secret used only by tests

// setupAuthRouter returns a Gin engine with the auth routes for testing
func setupAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", RegisterHandler(db))
	r.POST("/auth/login", LoginHandler(db, testSecret))
	r.GET("/auth/profile", middleware.JWTAuthMiddleware(testSecret), ProfileHandler())
	r.GET("/auth/users", GetAllUsersDataHandler(db))
	r.GET("/auth/users/:id", GetUserByIDHandler(db))
	r.DELETE("/auth/user/:id", DeleteUserHandler(db))
	return r
}

// TestRegisterLoginFlow runs the end-to-end register/login scenario
func TestRegisterLoginFlow(t *testing.T) {
	db := newTestDB(t)
	router := setupAuthRouter(db)

	// Register a new user
	w, resp := doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "alice", resp["username"])
	assert.NotZero(t, resp["id"])

	// Login with the correct password issues a token
	w, resp = doJSON(t, router, "POST", "/auth/login", gin.H{
		"username": "alice", "password": "pw123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "user", resp["role"])
	token, _ := resp["accessToken"].(string)
	assert.NotEmpty(t, token)

	// The token embeds id, username and role and carries no expiry
	claims, err := utils.ParseJWT(token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Nil(t, claims.ExpiresAt)

	// Login with the wrong password answers 200 with a message and no token
	w, resp = doJSON(t, router, "POST", "/auth/login", gin.H{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wrong Password", resp["message"])
	_, hasToken := resp["accessToken"]
	assert.False(t, hasToken)
}

// TestLoginUnknownUser answers 200 with a message body
func TestLoginUnknownUser(t *testing.T) {
	db := newTestDB(t)
	router := setupAuthRouter(db)

	w, resp := doJSON(t, router, "POST", "/auth/login", gin.H{
		"username": "nobody", "password": "pw123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user not found", resp["message"])
}

// TestRegisterDuplicateUsername surfaces the uniqueness constraint as 409
func TestRegisterDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	router := setupAuthRouter(db)

	w, _ := doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Same username, different email
	w, _ = doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice2@x.com", "password": "pw123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// No second row was created
	var count int64
	db.Model(&domain.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestRegisterMissingPassword is a validation failure
func TestRegisterMissingPassword(t *testing.T) {
	db := newTestDB(t)
	router := setupAuthRouter(db)

	w, _ := doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestProfileRequiresToken checks the JWT guard on the profile route
func TestProfileRequiresToken(t *testing.T) {
	db := newTestDB(t)
	router := setupAuthRouter(db)

	// Without a token the route is unauthorized
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/profile", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Register, login and replay with the issued token
	doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw123",
	})
	_, resp := doJSON(t, router, "POST", "/auth/login", gin.H{
		"username": "alice", "password": "pw123",
	})
	token := resp["accessToken"].(string)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestEditProfileRehashesAndOverwrites checks the wholesale profile overwrite
func TestEditProfileRehashesAndOverwrites(t *testing.T) {
	db := newTestDB(t)
	store := &fakeImageStore{}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", RegisterHandler(db))
	router.POST("/auth/login", LoginHandler(db, testSecret))
	router.PUT("/auth/profile/:id", EditProfileHandler(db, store, "users"))

	_, resp := doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw123",
	})
	id := int(resp["id"].(float64))

	// Every edit resupplies all fields, password included
	w := doMultipart(t, router, "PUT", "/auth/profile/"+itoa(id), map[string]string{
		"username": "alice", "email": "alice@y.com", "name": "Alice", "password": "newpw",
	}, "photo")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"users"}, store.folders)

	var user domain.User
	assert.NoError(t, db.First(&user, id).Error)
	assert.Equal(t, "alice@y.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "https://img.example/users/upload.jpg", user.Photo)

	// The old password no longer logs in, the new one does
	_, resp = doJSON(t, router, "POST", "/auth/login", gin.H{
		"username": "alice", "password": "pw123",
	})
	assert.Equal(t, "Wrong Password", resp["message"])
	w2, resp := doJSON(t, router, "POST", "/auth/login", gin.H{
		"username": "alice", "password": "newpw",
	})
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.NotEmpty(t, resp["accessToken"])

	// Edits without a photo or password are rejected
	w = doMultipart(t, router, "PUT", "/auth/profile/"+itoa(id), map[string]string{
		"username": "alice", "email": "alice@y.com", "name": "Alice", "password": "newpw",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestUserListingAndDelete covers the public listing and hard delete
func TestUserListingAndDelete(t *testing.T) {
	db := newTestDB(t)
	router := setupAuthRouter(db)

	_, resp := doJSON(t, router, "POST", "/auth/register", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw123",
	})
	id := int(resp["id"].(float64))

	// The filtered listing exposes id, username, name and role only
	w, resp := doJSON(t, router, "GET", "/auth/users", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	users := resp["data"].([]any)
	assert.Len(t, users, 1)
	first := users[0].(map[string]any)
	assert.Equal(t, "alice", first["username"])
	_, leaked := first["email"]
	assert.False(t, leaked)

	// Single lookup resolves, unknown id is 404
	w, _ = doJSON(t, router, "GET", "/auth/users/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, router, "GET", "/auth/users/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Hard delete removes the row
	w, _ = doJSON(t, router, "DELETE", "/auth/user/"+itoa(id), nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, router, "GET", "/auth/users/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
