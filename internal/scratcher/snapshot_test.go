package scratcher

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tekel-backend/internal/models"
)

func newSnapshotFixture(repo *fakeRepository) (*models.Store, *models.ScratcherSlot, *models.ShiftReport) {
	store := repo.addStore(models.Store{Name: "Merkez"})
	slot := repo.addSlot(models.ScratcherSlot{StoreID: store.ID, SlotNumber: 1, IsActive: true})
	report := repo.addReport(models.ShiftReport{
		StoreID:          store.ID,
		EmployeeUserID:   9,
		Date:             time.Now(),
		ReportedScrValue: 0,
	})
	return store, slot, report
}

func TestRecordSnapshotDropsBlankItems(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	store, slot, report := newSnapshotFixture(repo)
	slot2 := repo.addSlot(models.ScratcherSlot{StoreID: store.ID, SlotNumber: 2, IsActive: true})
	slot3 := repo.addSlot(models.ScratcherSlot{StoreID: store.ID, SlotNumber: 3, IsActive: true})

	snapshot, err := svc.RecordSnapshot(RecordSnapshotInput{
		ShiftReportID:  report.ID,
		Type:           models.SnapshotStart,
		EmployeeUserID: 9,
		Items: []SnapshotItemInput{
			{SlotID: slot.ID, TicketValue: "100"},
			{SlotID: slot2.ID, TicketValue: "   "}, // boş: kaydedilmez
			{SlotID: slot3.ID, TicketValue: "050"},
		},
	})
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if len(snapshot.Items) != 2 {
		t.Fatalf("2 kalem bekleniyordu (boş atılır), %d geldi", len(snapshot.Items))
	}
	for _, item := range snapshot.Items {
		if item.SlotID == slot2.ID {
			t.Error("boş değerli göz kaydedilmemeliydi")
		}
	}

	// Snapshot yazımı hesaplamayı tetikler; end yokken bloklu yazılır
	calc, _ := repo.CalculationByShift(report.ID)
	if calc == nil {
		t.Fatal("snapshot sonrası hesaplama yazılmalı")
	}
	if !strings.Contains(calc.FlagsData, models.FlagMissingEndSnapshot) {
		t.Errorf("missing_end_snapshot bayrağı bekleniyordu, FlagsData=%s", calc.FlagsData)
	}
}

func TestRecordSnapshotRejectsBadInput(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	_, slot, report := newSnapshotFixture(repo)

	otherStore := repo.addStore(models.Store{Name: "Şube 2"})
	foreignSlot := repo.addSlot(models.ScratcherSlot{StoreID: otherStore.ID, SlotNumber: 1, IsActive: true})

	cases := []struct {
		name  string
		items []SnapshotItemInput
	}{
		{"sayısal olmayan değer", []SnapshotItemInput{{SlotID: slot.ID, TicketValue: "12a"}}},
		{"aynı göz iki kez", []SnapshotItemInput{
			{SlotID: slot.ID, TicketValue: "100"},
			{SlotID: slot.ID, TicketValue: "101"},
		}},
		{"tamamı boş", []SnapshotItemInput{{SlotID: slot.ID, TicketValue: ""}}},
		{"başka mağazanın gözü", []SnapshotItemInput{{SlotID: foreignSlot.ID, TicketValue: "100"}}},
	}

	for _, tc := range cases {
		_, err := svc.RecordSnapshot(RecordSnapshotInput{
			ShiftReportID:  report.ID,
			Type:           models.SnapshotStart,
			EmployeeUserID: 9,
			Items:          tc.items,
		})
		if err == nil {
			t.Errorf("%s: hata bekleniyordu", tc.name)
		}
	}
	if len(repo.snaps) != 0 {
		t.Errorf("reddedilen kayıtlar snapshot yazmamalı, %d snapshot var", len(repo.snaps))
	}
}

func TestEndSnapshotRejectedOnUnrecordedRollover(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	store, slot, report := newSnapshotFixture(repo)
	product := repo.addProduct(models.ScratcherProduct{Name: "$1 Oyun", Price: 1, IsActive: true})

	// Paket vardiya başından beri takılı
	repo.addPack(models.ScratcherPack{
		StoreID:     store.ID,
		SlotID:      slot.ID,
		ProductID:   product.ID,
		StartTicket: "100",
		EndTicket:   "129",
		TicketPrice: 1,
		Status:      models.PackStatusActive,
		ActivatedAt: time.Now().Add(-2 * time.Hour),
	})
	repo.addSnapshot(models.ScratcherShiftSnapshot{
		StoreID:       store.ID,
		ShiftReportID: &report.ID,
		Type:          models.SnapshotStart,
		CreatedAt:     time.Now().Add(-time.Hour),
		Items:         []models.ScratcherShiftSnapshotItem{{SlotID: slot.ID, TicketValue: "110"}},
	})

	// Okuma düştü ama paket değişimi kaydedilmedi: reddedilir
	_, err := svc.RecordSnapshot(RecordSnapshotInput{
		ShiftReportID:  report.ID,
		Type:           models.SnapshotEnd,
		EmployeeUserID: 9,
		Items:          []SnapshotItemInput{{SlotID: slot.ID, TicketValue: "010"}},
	})

	var rollover *RolloverRequiredError
	if !errors.As(err, &rollover) {
		t.Fatalf("RolloverRequiredError bekleniyordu, %v geldi", err)
	}
	if len(rollover.Slots) != 1 {
		t.Fatalf("1 etkilenen göz bekleniyordu, %d geldi", len(rollover.Slots))
	}
	affected := rollover.Slots[0]
	if affected.SlotNumber != 1 || affected.StartValue != "110" || affected.EndValue != "010" {
		t.Errorf("etkilenen göz bilgisi yanlış: %+v", affected)
	}
	if len(repo.snaps) != 1 {
		t.Error("reddedilen end snapshot kaydedilmemeli")
	}
}

func TestEndSnapshotAcceptedAfterRolloverActivation(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	store, slot, report := newSnapshotFixture(repo)
	report.ReportedScrValue = 29
	product := repo.addProduct(models.ScratcherProduct{Name: "$1 Oyun", Price: 1, IsActive: true})

	// Biten paket: 100-129, vardiya başından önce takılmış
	repo.addPack(models.ScratcherPack{
		StoreID:     store.ID,
		SlotID:      slot.ID,
		ProductID:   product.ID,
		StartTicket: "100",
		EndTicket:   "129",
		TicketPrice: 1,
		Status:      models.PackStatusEnded,
		ActivatedAt: time.Now().Add(-2 * time.Hour),
	})
	repo.addSnapshot(models.ScratcherShiftSnapshot{
		StoreID:       store.ID,
		ShiftReportID: &report.ID,
		Type:          models.SnapshotStart,
		CreatedAt:     time.Now().Add(-time.Hour),
		Items:         []models.ScratcherShiftSnapshotItem{{SlotID: slot.ID, TicketValue: "110"}},
	})
	// Yeni paket vardiya içinde usulünce aktive edilmiş
	repo.addPack(models.ScratcherPack{
		StoreID:     store.ID,
		SlotID:      slot.ID,
		ProductID:   product.ID,
		StartTicket: "001",
		EndTicket:   "030",
		TicketPrice: 1,
		Status:      models.PackStatusActive,
		ActivatedAt: time.Now().Add(-10 * time.Minute),
	})

	// Düşük okuma artık geçerli: yeni paketin aralığında
	_, err := svc.RecordSnapshot(RecordSnapshotInput{
		ShiftReportID:  report.ID,
		Type:           models.SnapshotEnd,
		EmployeeUserID: 9,
		Items:          []SnapshotItemInput{{SlotID: slot.ID, TicketValue: "010"}},
	})
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}

	// Hesaplama tetiklenmiş ve rulo matematiği doğru olmalı:
	// biten paketten 129-110=19, yeni paketten 010-001+1=10, toplam 29
	calc, _ := repo.CalculationByShift(report.ID)
	if calc == nil {
		t.Fatal("end snapshot sonrası hesaplama yazılmalı")
	}
	if calc.ExpectedTotalTickets != 29 {
		t.Errorf("ExpectedTotalTickets = %d, 29 bekleniyordu", calc.ExpectedTotalTickets)
	}
	if calc.ExpectedTotalValue != 29 {
		t.Errorf("ExpectedTotalValue = %v, 29 bekleniyordu", calc.ExpectedTotalValue)
	}
	if calc.VarianceValue != 0 {
		t.Errorf("VarianceValue = %v, 0 bekleniyordu", calc.VarianceValue)
	}
	if !strings.Contains(calc.FlagsData, models.FlagPackRollover) {
		t.Errorf("pack_rollover bayrağı bekleniyordu, FlagsData=%s", calc.FlagsData)
	}
}

func TestBaselineFallbackForStartSnapshot(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo)
	store, slot, report := newSnapshotFixture(repo)
	report.ReportedScrValue = 75
	product := repo.addProduct(models.ScratcherProduct{Name: "$5 Gold Rush", Price: 5, IsActive: true})
	repo.addPack(models.ScratcherPack{
		StoreID:     store.ID,
		SlotID:      slot.ID,
		ProductID:   product.ID,
		StartTicket: "001",
		EndTicket:   "080",
		TicketPrice: 5,
		Status:      models.PackStatusActive,
		ActivatedAt: time.Now().Add(-48 * time.Hour),
	})

	// Vardiya başı okuması tutmayan mağaza: yönetici taban değeri girer
	baseline, err := svc.RecordBaseline(store.ID, 1, []SnapshotItemInput{
		{SlotID: slot.ID, TicketValue: "010"},
	})
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if baseline.ShiftReportID != nil {
		t.Error("baseline vardiyaya bağlı olmamalı")
	}

	got, err := svc.GetBaseline(store.ID)
	if err != nil || got == nil || got.ID != baseline.ID {
		t.Fatalf("GetBaseline en güncel taban okumasını dönmeli (%v, %v)", got, err)
	}

	// End snapshot start olmadan girilir; motor baseline'a düşer
	if _, err := svc.RecordSnapshot(RecordSnapshotInput{
		ShiftReportID:  report.ID,
		Type:           models.SnapshotEnd,
		EmployeeUserID: 9,
		Items:          []SnapshotItemInput{{SlotID: slot.ID, TicketValue: "025"}},
	}); err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}

	calc, _ := repo.CalculationByShift(report.ID)
	if calc == nil {
		t.Fatal("hesaplama yazılmalı")
	}
	if strings.Contains(calc.FlagsData, models.FlagMissingStartSnapshot) {
		t.Error("baseline varken missing_start_snapshot basılmamalı")
	}
	// 025 - 010 = 15 bilet x $5 = $75
	if calc.ExpectedTotalTickets != 15 || calc.ExpectedTotalValue != 75 {
		t.Errorf("beklenen 15 bilet / $75, %d / %v geldi", calc.ExpectedTotalTickets, calc.ExpectedTotalValue)
	}

	detail, err := svc.GetCalculation(report.ID)
	if err != nil {
		t.Fatalf("beklenmeyen hata: %v", err)
	}
	if !detail.StartIsBaseline {
		t.Error("StartIsBaseline=true bekleniyordu")
	}
}
