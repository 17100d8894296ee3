package scratcher

import (
	"time"

	"tekel-backend/internal/models"
)

// Repository: kazı kazan çekirdeğinin depolama arayüzü. Servis bu arayüz
// üzerinden çalışır; üretimde GORM implementasyonu, testlerde in-memory
// fake kullanılır.
type Repository interface {
	// Mağaza
	StoreByID(id uint) (*models.Store, error)

	// Gözler (slot_number'a göre sıralı döner)
	SlotsByStore(storeID uint, includeInactive bool) ([]models.ScratcherSlot, error)
	SlotByID(id uint) (*models.ScratcherSlot, error)
	SaveSlot(slot *models.ScratcherSlot) error

	// Ürün kataloğu
	ProductByID(id uint) (*models.ScratcherProduct, error)

	// Paketler
	PackByID(id uint) (*models.ScratcherPack, error)
	// ActivePackBySlot: gözün aktif paketi; yoksa (nil, nil)
	ActivePackBySlot(slotID uint) (*models.ScratcherPack, error)
	// PacksBySlot: gözün tüm paketleri, activated_at artan sırada
	PacksBySlot(slotID uint) ([]models.ScratcherPack, error)
	PacksByStore(storeID uint) ([]models.ScratcherPack, error)
	CreatePack(pack *models.ScratcherPack) error
	SavePack(pack *models.ScratcherPack) error

	// Olay günlüğü (salt ekleme)
	AppendEvent(event *models.ScratcherPackEvent) error
	EventsByPack(packID uint) ([]models.ScratcherPackEvent, error)
	EventsByStore(storeID uint, limit int) ([]models.ScratcherPackEvent, error)

	// Snapshot'lar
	CreateSnapshot(snapshot *models.ScratcherShiftSnapshot) error
	// SnapshotForShift: vardiyanın en güncel start/end snapshot'ı; yoksa (nil, nil)
	SnapshotForShift(shiftReportID uint, typ models.SnapshotType) (*models.ScratcherShiftSnapshot, error)
	// LatestBaseline: mağazanın vardiyaya bağlı olmayan en güncel start snapshot'ı
	LatestBaseline(storeID uint) (*models.ScratcherShiftSnapshot, error)

	// Vardiya raporları (salt okunur; rapor başka modülün verisi)
	ShiftReportByID(id uint) (*models.ShiftReport, error)
	// LatestShiftReportWithEndSnapshot: paket değişiminde yeniden hesaplanacak rapor
	LatestShiftReportWithEndSnapshot(storeID uint) (*models.ShiftReport, error)

	// Hesaplamalar (shift_report_id ile tekil, upsert)
	UpsertCalculation(calc *models.ScratcherShiftCalculation) error
	CalculationByShift(shiftReportID uint) (*models.ScratcherShiftCalculation, error)
	// CalculationsByStore: vardiya rapor tarihine göre aralık filtresi,
	// ShiftReport + Employee yüklü döner
	CalculationsByStore(storeID uint, from, to time.Time) ([]models.ScratcherShiftCalculation, error)

	// Transaction: paket aktivasyonunun "öncekini bitir + yenisini aç"
	// adımlarını tek mantıksal birim yapar
	Transaction(fn func(Repository) error) error
}
