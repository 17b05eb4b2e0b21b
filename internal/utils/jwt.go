package utils

import (
	"time" // Issued-at timestamp

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims
type Claims struct {
	UserID               uint   `json:"id"`       // Custom claim for user ID
	Username             string `json:"username"` // Custom claim for username
	Role                 string `json:"role"`     // Custom claim for role
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a signed token carrying the user's id, username and role.
// Tokens carry no expiry claim; possession grants the claimed identity until
// the signing secret rotates.
func GenerateJWT(userID uint, username, role, secret string) (string, error) {
	claims := Claims{
		UserID:   userID,   // Custom claim for user ID
		Username: username, // Custom claim for username
		Role:     role,     // Custom claim for role
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()), // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
