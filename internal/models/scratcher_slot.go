package models

import "time"

// ScratcherSlot: Mağazadaki kazı kazan rafında sabit numaralı bir göz.
// ActivePackID sahiplik değil, sadece o an takılı paketi gösteren referans.
// Göz emekliye ayrılınca silinmez, pasife çekilir (geçmiş korunur).
type ScratcherSlot struct {
	ID         uint `gorm:"primaryKey"`
	StoreID    uint `gorm:"index;not null;uniqueIndex:idx_store_slot_number"`
	Store      Store
	SlotNumber int  `gorm:"not null;uniqueIndex:idx_store_slot_number"`
	IsActive   bool `gorm:"not null;default:true"`

	// Paket takibi başlamadan önceki varsayılan ürün (baseline modu)
	DefaultProductID *uint
	DefaultProduct   *ScratcherProduct `gorm:"foreignKey:DefaultProductID"`

	ActivePackID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}
