package models

import "time"

type PackStatus string

const (
	PackStatusActive   PackStatus = "active"
	PackStatusEnded    PackStatus = "ended"
	PackStatusReturned PackStatus = "returned"
)

// ScratcherPack: Bir göze takılan fiziksel bilet rulosu. Bilet aralığı
// [StartTicket, EndTicket] aktivasyonda sabitlenir ve asla değişmez.
// Bir gözde aynı anda en fazla bir aktif paket olabilir; yeni aktivasyon
// önceki aktif paketi otomatik sonlandırır.
type ScratcherPack struct {
	ID        uint `gorm:"primaryKey"`
	StoreID   uint `gorm:"index;not null"`
	SlotID    uint `gorm:"index;not null"`
	Slot      ScratcherSlot
	ProductID uint `gorm:"not null"`
	Product   ScratcherProduct

	PackCode    string `gorm:"size:50"`           // paket üstündeki fiziksel kod (opsiyonel)
	StartTicket string `gorm:"size:10;not null"`  // sıfır dolgulu sayısal string ("001")
	EndTicket   string `gorm:"size:10"`           // fiyat tablodan türetilir; bilinmeyen fiyatta boş

	// Aktivasyon anındaki bilet fiyatı; katalog sonradan değişse de sabit kalır
	TicketPrice float64 `gorm:"not null"`

	Status PackStatus `gorm:"size:20;index;not null"`

	ActivatedAt             time.Time `gorm:"not null"`
	ActivatedByUserID       uint      `gorm:"not null"`
	ActivationReceiptFileID string    `gorm:"size:64;not null"` // fiş fotoğrafı zorunlu

	EndedAt       *time.Time
	EndedByUserID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PackEventType string

const (
	PackEventActivated     PackEventType = "activated"
	PackEventEnded         PackEventType = "ended"
	PackEventReturned      PackEventType = "returned"
	PackEventReturnReceipt PackEventType = "return_receipt"
	PackEventCorrection    PackEventType = "correction"
	PackEventNote          PackEventType = "note"
)

// ScratcherPackEvent: Paket başına salt ekleme olay günlüğü (denetim izi).
// Hiçbir işlem bu kayıtları silmez veya güncellemez.
type ScratcherPackEvent struct {
	ID      uint `gorm:"primaryKey"`
	StoreID uint `gorm:"index;not null"`
	PackID  uint `gorm:"index;not null"`
	Pack    ScratcherPack

	EventType PackEventType `gorm:"size:20;not null"`
	Note      string        `gorm:"size:255"`
	FileID    *string       `gorm:"size:64"` // opsiyonel fotoğraf kanıtı

	CreatedByUserID uint
	CreatedAt       time.Time
}
