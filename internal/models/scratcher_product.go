package models

import "time"

// ScratcherProduct: Kazı kazan bileti katalog kaydı (ör: "$5 Gold Rush").
// Bir pakete bağlandıktan sonra fiyat değişikliği eski paketleri etkilemez;
// paket aktivasyon anındaki fiyatı kendi üzerinde saklar (TicketPrice).
type ScratcherProduct struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"size:100;not null"`
	Price    float64 `gorm:"not null"` // bilet yüzü fiyatı (dolar)
	IsActive bool    `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
