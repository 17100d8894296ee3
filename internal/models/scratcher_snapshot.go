package models

import "time"

type SnapshotType string

const (
	SnapshotStart SnapshotType = "start"
	SnapshotEnd   SnapshotType = "end"
)

// ScratcherShiftSnapshot: Vardiya başı/sonu raf okuması. Oluşturulduktan
// sonra değişmez; düzeltme yeni snapshot veya paket "note" olayı ile yapılır.
// ShiftReportID nil ise bu bir mağaza baseline'ıdır (vardiyaya bağlı değil,
// yönetici girer, vardiya başı okuması olmayan mağazalar için taban değer).
type ScratcherShiftSnapshot struct {
	ID            uint `gorm:"primaryKey"`
	StoreID       uint `gorm:"index;not null"`
	ShiftReportID *uint `gorm:"index"`
	Type          SnapshotType `gorm:"size:10;not null"`

	EmployeeUserID uint `gorm:"not null"` // okumayı giren kullanıcı

	CreatedAt time.Time

	Items []ScratcherShiftSnapshotItem `gorm:"foreignKey:SnapshotID"`
}

// ScratcherShiftSnapshotItem: Bir gözün o anki görünen bilet numarası.
// Baştaki sıfırlar korunur, o yüzden string.
type ScratcherShiftSnapshotItem struct {
	ID         uint `gorm:"primaryKey"`
	SnapshotID uint `gorm:"index;not null"`
	SlotID     uint `gorm:"index;not null"`
	Slot       ScratcherSlot

	TicketValue string  `gorm:"size:10;not null"` // boş girişler hiç kaydedilmez
	FileID      *string `gorm:"size:64"`          // opsiyonel fotoğraf kanıtı
}
