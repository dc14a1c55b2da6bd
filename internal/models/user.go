package models

import "gorm.io/gorm"

// Role classifies a user account. There is no hierarchy between roles;
// every route checks for an exact match.
type Role string

const (
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleStoreOwner || r == RoleAdmin
}

// AllRoles lists every role value, used to zero-fill grouped counts.
func AllRoles() []Role {
	return []Role{RoleUser, RoleStoreOwner, RoleAdmin}
}

// User represents an account of the rating platform.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(100)" validate:"required,min=2,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Address    string `json:"address" gorm:"type:varchar(400)" validate:"required,max=400"`
	Password   string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role       Role   `json:"role" gorm:"type:varchar(20);default:'user'" validate:"omitempty,oneof=user store_owner admin"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// RoleCount is one bucket of the users-grouped-by-role dashboard query.
type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}
