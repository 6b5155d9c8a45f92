// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sudais391/hirezy-project/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// Returns an error when missing/invalid instead of aborting the request.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// CreateAdmin creates an approved admin account with the given credentials.
// Intended for startup seeding and the create-admin tool, so it fails hard.
func CreateAdmin(password string, username string, email string, db *gorm.DB) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	var adminRole model.Role
	if err := db.Where("name = ?", model.RoleAdmin).First(&adminRole).Error; err != nil {
		log.Fatal("admin role not seeded: ", err)
	}

	admin := model.User{
		Username:   username,
		Email:      email,
		Password:   hashedPassword,
		RoleID:     adminRole.ID,
		IsApproved: true,
		EditableUserInfo: model.EditableUserInfo{
			FullName: "Super Admin",
		},
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin: ", err)
	}
}
