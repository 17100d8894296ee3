package models

import "time"

// Mutabakat bayrakları. Bayrak yazıyı bloklamaz, türetilen sayıya olan
// güveni düşürür; yönetici panelinde incelenmek üzere işaretlenir.
const (
	FlagMissingStartSnapshot = "missing_start_snapshot"
	FlagMissingEndSnapshot   = "missing_end_snapshot"
	FlagPackRollover         = "pack_rollover"
	FlagNegativeVariance     = "negative_variance"
	FlagUnknownPackSize      = "unknown_pack_size"
	FlagLargeVariance        = "large_variance"
)

// ScratcherBreakdownRow: Hesaplamanın göz başına satırı.
type ScratcherBreakdownRow struct {
	SlotNumber  int     `json:"slot_number"`
	StartTicket string  `json:"start_ticket"`
	EndTicket   string  `json:"end_ticket"`
	Sold        int     `json:"sold"`
	Value       float64 `json:"value"`
}

// ScratcherShiftCalculation: Bir vardiya raporu için mutabakat sonucu.
// shift_report_id ile tekil; ilgili snapshot/paket değişiminde yeniden
// hesaplanır (upsert, idempotent). Flags doluysa Expected/Variance
// değerlerine güvenilmez, UI bloklu gösterir.
type ScratcherShiftCalculation struct {
	ID            uint `gorm:"primaryKey"`
	ShiftReportID uint `gorm:"uniqueIndex;not null"`
	ShiftReport   ShiftReport
	StoreID       uint `gorm:"index;not null"`

	ExpectedTotalTickets int     `gorm:"not null"`
	ExpectedTotalValue   float64 `gorm:"not null"`
	ReportedScrValue     float64 `gorm:"not null"`
	VarianceValue        float64 `gorm:"not null"` // beyan - beklenen

	// Göz bazlı satırlar ve bayraklar (JSON)
	BreakdownData string `gorm:"type:jsonb"`
	FlagsData     string `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
