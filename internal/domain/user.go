package domain

// User Model
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`            // Primary key
	Username string `gorm:"unique;not null" json:"username"` // Unique username
	Email    string `gorm:"unique;not null" json:"email"`    // Unique email address
	Name     string `json:"name"`                            // Display name
	Password string `gorm:"not null" json:"-"`               // Hashed password, never serialized
	Photo    string `json:"photo"`                           // Profile photo URL (image store)
	Role     string `gorm:"default:user" json:"role"`        // Role: user or admin
}
