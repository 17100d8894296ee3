package scratcher

import (
	"errors"
	"time"

	"tekel-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormRepository: Repository'nin Postgres (GORM) implementasyonu.
type gormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) StoreByID(id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *gormRepository) SlotsByStore(storeID uint, includeInactive bool) ([]models.ScratcherSlot, error) {
	q := r.db.Preload("DefaultProduct").Where("store_id = ?", storeID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var slots []models.ScratcherSlot
	if err := q.Order("slot_number ASC").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *gormRepository) SlotByID(id uint) (*models.ScratcherSlot, error) {
	var slot models.ScratcherSlot
	if err := r.db.Preload("DefaultProduct").First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *gormRepository) SaveSlot(slot *models.ScratcherSlot) error {
	return r.db.Save(slot).Error
}

func (r *gormRepository) ProductByID(id uint) (*models.ScratcherProduct, error) {
	var product models.ScratcherProduct
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormRepository) PackByID(id uint) (*models.ScratcherPack, error) {
	var pack models.ScratcherPack
	if err := r.db.Preload("Product").First(&pack, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *gormRepository) ActivePackBySlot(slotID uint) (*models.ScratcherPack, error) {
	var pack models.ScratcherPack
	err := r.db.
		Where("slot_id = ? AND status = ?", slotID, models.PackStatusActive).
		Order("activated_at DESC").
		First(&pack).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pack, nil
}

func (r *gormRepository) PacksBySlot(slotID uint) ([]models.ScratcherPack, error) {
	var packs []models.ScratcherPack
	if err := r.db.
		Where("slot_id = ?", slotID).
		Order("activated_at ASC").
		Find(&packs).Error; err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *gormRepository) PacksByStore(storeID uint) ([]models.ScratcherPack, error) {
	var packs []models.ScratcherPack
	if err := r.db.
		Preload("Product").
		Where("store_id = ?", storeID).
		Order("activated_at DESC").
		Find(&packs).Error; err != nil {
		return nil, err
	}
	return packs, nil
}

func (r *gormRepository) CreatePack(pack *models.ScratcherPack) error {
	return r.db.Create(pack).Error
}

func (r *gormRepository) SavePack(pack *models.ScratcherPack) error {
	return r.db.Save(pack).Error
}

func (r *gormRepository) AppendEvent(event *models.ScratcherPackEvent) error {
	return r.db.Create(event).Error
}

func (r *gormRepository) EventsByPack(packID uint) ([]models.ScratcherPackEvent, error) {
	var events []models.ScratcherPackEvent
	if err := r.db.
		Where("pack_id = ?", packID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *gormRepository) EventsByStore(storeID uint, limit int) ([]models.ScratcherPackEvent, error) {
	q := r.db.Where("store_id = ?", storeID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var events []models.ScratcherPackEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *gormRepository) CreateSnapshot(snapshot *models.ScratcherShiftSnapshot) error {
	return r.db.Create(snapshot).Error
}

func (r *gormRepository) SnapshotForShift(shiftReportID uint, typ models.SnapshotType) (*models.ScratcherShiftSnapshot, error) {
	var snapshot models.ScratcherShiftSnapshot
	err := r.db.
		Preload("Items").
		Where("shift_report_id = ? AND type = ?", shiftReportID, typ).
		Order("created_at DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *gormRepository) LatestBaseline(storeID uint) (*models.ScratcherShiftSnapshot, error) {
	var snapshot models.ScratcherShiftSnapshot
	err := r.db.
		Preload("Items").
		Where("store_id = ? AND shift_report_id IS NULL AND type = ?", storeID, models.SnapshotStart).
		Order("created_at DESC").
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *gormRepository) ShiftReportByID(id uint) (*models.ShiftReport, error) {
	var report models.ShiftReport
	if err := r.db.Preload("Employee").First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *gormRepository) LatestShiftReportWithEndSnapshot(storeID uint) (*models.ShiftReport, error) {
	var report models.ShiftReport
	err := r.db.
		Where("store_id = ?", storeID).
		Where("id IN (?)", r.db.Model(&models.ScratcherShiftSnapshot{}).
			Select("shift_report_id").
			Where("store_id = ? AND type = ? AND shift_report_id IS NOT NULL", storeID, models.SnapshotEnd)).
		Order("date DESC, created_at DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *gormRepository) UpsertCalculation(calc *models.ScratcherShiftCalculation) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "shift_report_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"store_id",
			"expected_total_tickets",
			"expected_total_value",
			"reported_scr_value",
			"variance_value",
			"breakdown_data",
			"flags_data",
			"updated_at",
		}),
	}).Create(calc).Error
}

func (r *gormRepository) CalculationByShift(shiftReportID uint) (*models.ScratcherShiftCalculation, error) {
	var calc models.ScratcherShiftCalculation
	err := r.db.
		Preload("ShiftReport").
		Preload("ShiftReport.Employee").
		Where("shift_report_id = ?", shiftReportID).
		First(&calc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

func (r *gormRepository) CalculationsByStore(storeID uint, from, to time.Time) ([]models.ScratcherShiftCalculation, error) {
	var calcs []models.ScratcherShiftCalculation
	if err := r.db.
		Preload("ShiftReport").
		Preload("ShiftReport.Employee").
		Joins("JOIN shift_reports ON shift_reports.id = scratcher_shift_calculations.shift_report_id").
		Where("scratcher_shift_calculations.store_id = ?", storeID).
		Where("shift_reports.date >= ? AND shift_reports.date <= ?", from, to).
		Order("shift_reports.date DESC").
		Find(&calcs).Error; err != nil {
		return nil, err
	}
	return calcs, nil
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}
