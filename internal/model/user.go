// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// RoleAdmin is the platform administrator role name
	RoleAdmin = "Admin"
	// RoleHR is the recruiter role name, subject to admin approval
	RoleHR = "HR"
	// RoleUser is the job seeker role name
	RoleUser = "User"
)

// SeedRoles is the static role set inserted once at migration
var SeedRoles = []string{RoleAdmin, RoleHR, RoleUser}

// Role is the static role table, seeded once at startup
type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:text;uniqueIndex:roles_name_key" json:"name"`
}

// EditableUserInfo is the part of an account that profile updates may touch.
// Pointer fields distinguish "not supplied" from "clear this value".
type EditableUserInfo struct {
	FullName             string  `gorm:"type:text" json:"full_name"`
	Industry             *string `gorm:"type:text" json:"industry,omitempty"`
	ContactNumber        *string `gorm:"type:text" json:"contact_number,omitempty"`
	Designation          *string `gorm:"type:text" json:"designation,omitempty"`
	CompanyName          *string `gorm:"type:text" json:"company_name,omitempty"`
	CompanyType          *string `gorm:"type:text" json:"company_type,omitempty"`
	CompanyAddress       *string `gorm:"type:text" json:"company_address,omitempty"`
	CompanyContactNumber *string `gorm:"type:text" json:"company_contact_number,omitempty"`
	CompanyWebsite       *string `gorm:"type:text" json:"company_website,omitempty"`
	HRRoleInCompany      *string `gorm:"type:text" json:"hr_role_in_company,omitempty"`
}

// User is the single account table for all three roles. Role-specific fields
// (Industry for applicants, the company block and CNIC for HR) stay null for
// the other roles, mirroring the relational schema.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"type:text;uniqueIndex:users_username_key" json:"username"`
	Email    string    `gorm:"type:text;uniqueIndex:users_email_key" json:"email"`
	Password string    `gorm:"type:text" json:"-"`

	RoleID uint `gorm:"not null;index" json:"role_id"`
	Role   Role `gorm:"foreignKey:RoleID" json:"role"`

	// CNIC is the HR national identification number, globally unique when set
	CNIC *string `gorm:"type:text;uniqueIndex:users_cnic_key" json:"cnic,omitempty"`

	// IsApproved gates HR accounts; Admin and User accounts are created approved
	IsApproved   bool      `gorm:"default:false" json:"is_approved"`
	RegisteredAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"registered_at"`

	EditableUserInfo
}

// BeforeCreate assigns the account ID when the caller didn't
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserResponse is the login/register response with the issued token
type UserResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}
