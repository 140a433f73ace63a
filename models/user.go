package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
	RoleDriver   UserRole = "DRIVER"
)

type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	Role          UserRole  `json:"role" gorm:"not null;default:'CUSTOMER'"`
	Phone         string    `json:"phone"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	LoyaltyPoints int       `json:"loyalty_points" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CanDrive reports whether this user may be assigned deliveries.
func (u *User) CanDrive() bool {
	return u.Role == RoleDriver && u.IsActive
}
