package models

import "time"

// StoredFile: Yüklenen fiş/kanıt fotoğrafı. Dosyanın kendisi diskte,
// burada sadece opak file_id ve yol tutulur.
type StoredFile struct {
	ID          uint   `gorm:"primaryKey"`
	FileID      string `gorm:"size:64;uniqueIndex;not null"` // opak id (uuid)
	StoreID     *uint  `gorm:"index"`
	Name        string `gorm:"size:255"` // orijinal dosya adı
	Path        string `gorm:"size:512;not null"`
	ContentType string `gorm:"size:100"`
	Size        int64
	UploadedBy  uint
	CreatedAt   time.Time
}
