package models

import "time"

type UserRole string

const (
	RoleOwner    UserRole = "owner"    // tüm mağazalar
	RoleManager  UserRole = "manager"  // tek mağaza, yönetici
	RoleEmployee UserRole = "employee" // tek mağaza, kasiyer
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	StoreID      *uint
	Store        *Store
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
