package models

import "time"

type Store struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"size:100;not null;unique"`
	Address string `gorm:"size:255"`
	Phone   string `gorm:"size:50"` // Opsiyonel telefon

	// Kazı kazan fark eşiği (dolar). 0 ise config'deki varsayılan kullanılır.
	ScrVarianceThreshold float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
