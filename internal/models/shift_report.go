package models

import "time"

// ShiftReport: Çalışanın vardiya sonu raporu. Kazı kazan mutabakatı
// buradaki ReportedScrValue (beyan edilen kazı kazan satışı) ile
// raftan hesaplanan değeri karşılaştırır.
type ShiftReport struct {
	ID             uint `gorm:"primaryKey"`
	StoreID        uint `gorm:"index;not null"`
	Store          Store
	EmployeeUserID uint `gorm:"index;not null"`
	Employee       User `gorm:"foreignKey:EmployeeUserID"`
	Date           time.Time `gorm:"index;not null"` // vardiya günü

	ReportedScrValue float64 `gorm:"not null"` // beyan edilen kazı kazan satışı (dolar)
	Note             string  `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
