package scratcher

import (
	"testing"
	"time"

	"tekel-backend/internal/models"
)

func addCalcReport(repo *fakeRepository, storeID uint, reported float64, day time.Time) *models.ShiftReport {
	return repo.addReport(models.ShiftReport{
		StoreID:          storeID,
		EmployeeUserID:   9,
		Employee:         models.User{Name: "Ayşe"},
		Date:             day,
		ReportedScrValue: reported,
	})
}

func TestListDiscrepanciesFilters(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	store := repo.addStore(models.Store{Name: "Merkez"})
	slot := repo.addSlot(models.ScratcherSlot{StoreID: store.ID, SlotNumber: 1, IsActive: true})
	product := repo.addProduct(models.ScratcherProduct{Name: "$5 Gold Rush", Price: 5, IsActive: true})
	repo.addPack(models.ScratcherPack{
		StoreID:     store.ID,
		SlotID:      slot.ID,
		ProductID:   product.ID,
		StartTicket: "001",
		EndTicket:   "080",
		TicketPrice: 5,
		Status:      models.PackStatusActive,
		ActivatedAt: time.Now().Add(-72 * time.Hour),
	})

	day := time.Now()
	addShift := func(reported float64, withSnapshots bool) *models.ShiftReport {
		report := addCalcReport(repo, store.ID, reported, day)
		if withSnapshots {
			repo.addSnapshot(models.ScratcherShiftSnapshot{
				StoreID:       store.ID,
				ShiftReportID: &report.ID,
				Type:          models.SnapshotStart,
				CreatedAt:     time.Now().Add(-time.Hour),
				Items:         []models.ScratcherShiftSnapshotItem{{SlotID: slot.ID, TicketValue: "010"}},
			})
			repo.addSnapshot(models.ScratcherShiftSnapshot{
				StoreID:       store.ID,
				ShiftReportID: &report.ID,
				Type:          models.SnapshotEnd,
				CreatedAt:     time.Now(),
				Items:         []models.ScratcherShiftSnapshotItem{{SlotID: slot.ID, TicketValue: "025"}},
			})
		}
		if _, err := svc.Recompute(report.ID); err != nil {
			t.Fatalf("beklenmeyen hata: %v", err)
		}
		return report
	}

	clean := addShift(75, true)    // fark 0, bayrak yok: listelenmez
	over := addShift(100, true)    // fark +25 > eşik: listelenir
	blocked := addShift(50, false) // snapshot yok: bloklu, listelenir

	from := day.Add(-24 * time.Hour)
	to := day.Add(24 * time.Hour)
	discrepancies, err := svc.ListDiscrepancies(store.ID, from, to)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(discrepancies) != 2 {
		t.Fatalf("2 fark satırı bekleniyordu, %d geldi", len(discrepancies))
	}

	byShift := make(map[uint]Discrepancy, len(discrepancies))
	for _, d := range discrepancies {
		byShift[d.ShiftReportID] = d
	}
	if _, ok := byShift[clean.ID]; ok {
		t.Error("temiz vardiya fark listesinde olmamalı")
	}
	if d, ok := byShift[over.ID]; !ok {
		t.Error("eşik üstü fark listede olmalı")
	} else {
		if d.Blocked {
			t.Error("snapshot'lı vardiya bloklu işaretlenmemeli")
		}
		if d.VarianceValue != 25 {
			t.Errorf("VarianceValue = %v, 25 bekleniyordu", d.VarianceValue)
		}
		if d.EmployeeName != "Ayşe" {
			t.Errorf("EmployeeName = %q, çalışan adı yüklenmeli", d.EmployeeName)
		}
	}
	if d, ok := byShift[blocked.ID]; !ok {
		t.Error("eksik snapshot'lı vardiya listede olmalı")
	} else if !d.Blocked {
		t.Error("eksik snapshot'lı vardiya bloklu işaretlenmeli")
	}
}

func TestListDiscrepanciesStoreThresholdOverride(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	store := repo.addStore(models.Store{Name: "Merkez", ScrVarianceThreshold: 50})
	slot := repo.addSlot(models.ScratcherSlot{StoreID: store.ID, SlotNumber: 1, IsActive: true})
	product := repo.addProduct(models.ScratcherProduct{Name: "$5 Gold Rush", Price: 5, IsActive: true})
	repo.addPack(models.ScratcherPack{
		StoreID:     store.ID,
		SlotID:      slot.ID,
		ProductID:   product.ID,
		StartTicket: "001",
		EndTicket:   "080",
		TicketPrice: 5,
		Status:      models.PackStatusActive,
		ActivatedAt: time.Now().Add(-72 * time.Hour),
	})
	report := addCalcReport(repo, store.ID, 100, time.Now()) // fark +25
	repo.addSnapshot(models.ScratcherShiftSnapshot{
		StoreID:       store.ID,
		ShiftReportID: &report.ID,
		Type:          models.SnapshotStart,
		CreatedAt:     time.Now().Add(-time.Hour),
		Items:         []models.ScratcherShiftSnapshotItem{{SlotID: slot.ID, TicketValue: "010"}},
	})
	repo.addSnapshot(models.ScratcherShiftSnapshot{
		StoreID:       store.ID,
		ShiftReportID: &report.ID,
		Type:          models.SnapshotEnd,
		CreatedAt:     time.Now(),
		Items:         []models.ScratcherShiftSnapshotItem{{SlotID: slot.ID, TicketValue: "025"}},
	})
	if _, err := svc.Recompute(report.ID); err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}

	// Mağaza eşiği $50: $25 fark ne bayraklanır ne listelenir
	discrepancies, err := svc.ListDiscrepancies(store.ID, time.Now().Add(-24*time.Hour), time.Now().Add(24*time.Hour))
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(discrepancies) != 0 {
		t.Errorf("mağaza eşiği altındaki fark listelenmemeli, %d satır geldi", len(discrepancies))
	}
}
