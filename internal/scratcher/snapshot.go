package scratcher

import (
	"fmt"
	"strconv"
	"strings"

	"tekel-backend/internal/models"
)

type SnapshotItemInput struct {
	SlotID      uint    `json:"slot_id"`
	TicketValue string  `json:"ticket_value"`
	FileID      *string `json:"file_id"`
}

type RecordSnapshotInput struct {
	ShiftReportID  uint
	Type           models.SnapshotType
	EmployeeUserID uint
	Items          []SnapshotItemInput
}

// RecordSnapshot: vardiya başı/sonu raf okumasını kaydeder. Boş değerler
// atılır, kalanlar sayısal olmalı. Vardiya sonu okuması rulo bekçisinden
// geçer: başlangıçtaki paket hâlâ aktifken okuma düşmüşse kayıt,
// etkilenen gözlerin listesiyle reddedilir (RolloverRequiredError) —
// çalışan önce paket değişimini aktive etmeli. Başarıda hesaplama tazelenir.
func (s *Service) RecordSnapshot(in RecordSnapshotInput) (*models.ScratcherShiftSnapshot, error) {
	if in.Type != models.SnapshotStart && in.Type != models.SnapshotEnd {
		return nil, &ValidationError{Msg: "type 'start' veya 'end' olmalı"}
	}

	report, err := s.repo.ShiftReportByID(in.ShiftReportID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Vardiya raporu bulunamadı"}
	}

	items, err := s.cleanItems(report.StoreID, in.Items)
	if err != nil {
		return nil, err
	}

	if in.Type == models.SnapshotEnd {
		if err := s.checkRollover(report, items); err != nil {
			return nil, err
		}
	}

	snapshot := &models.ScratcherShiftSnapshot{
		StoreID:        report.StoreID,
		ShiftReportID:  &report.ID,
		Type:           in.Type,
		EmployeeUserID: in.EmployeeUserID,
		Items:          items,
	}
	if err := s.repo.CreateSnapshot(snapshot); err != nil {
		return nil, err
	}

	// Snapshot yazıldı, hesaplamayı tazele. Eksik taraf varsa hesaplama
	// missing_* bayraklarıyla "bloklu" olarak yazılır, hata değildir.
	if _, err := s.Recompute(report.ID); err != nil {
		return snapshot, nil
	}
	return snapshot, nil
}

// RecordBaseline: yöneticinin girdiği, vardiyaya bağlı olmayan mağaza
// taban okuması. Vardiya başı okuması olmayan mağazalar için start
// snapshot yerine geçer.
func (s *Service) RecordBaseline(storeID, managerUserID uint, items []SnapshotItemInput) (*models.ScratcherShiftSnapshot, error) {
	if _, err := s.repo.StoreByID(storeID); err != nil {
		return nil, &NotFoundError{Msg: "Mağaza bulunamadı"}
	}

	cleaned, err := s.cleanItems(storeID, items)
	if err != nil {
		return nil, err
	}

	snapshot := &models.ScratcherShiftSnapshot{
		StoreID:        storeID,
		ShiftReportID:  nil,
		Type:           models.SnapshotStart,
		EmployeeUserID: managerUserID,
		Items:          cleaned,
	}
	if err := s.repo.CreateSnapshot(snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// GetBaseline: mağazanın en güncel taban okuması; yoksa (nil, nil).
func (s *Service) GetBaseline(storeID uint) (*models.ScratcherShiftSnapshot, error) {
	if _, err := s.repo.StoreByID(storeID); err != nil {
		return nil, &NotFoundError{Msg: "Mağaza bulunamadı"}
	}
	return s.repo.LatestBaseline(storeID)
}

// cleanItems: boş değerleri at, kalanları doğrula (sayısal değer, göz
// bu mağazaya ait). Kısmi yazma yok; tek geçersiz girdi tüm kaydı düşürür.
func (s *Service) cleanItems(storeID uint, items []SnapshotItemInput) ([]models.ScratcherShiftSnapshotItem, error) {
	cleaned := make([]models.ScratcherShiftSnapshotItem, 0, len(items))
	seen := make(map[uint]bool)
	for _, item := range items {
		value := strings.TrimSpace(item.TicketValue)
		if value == "" {
			continue // boş girişler kaydedilmez
		}
		if !isNumericTicket(value) {
			return nil, &ValidationError{Msg: fmt.Sprintf("Bilet değeri sayısal olmalı (göz id %d: %q)", item.SlotID, item.TicketValue)}
		}
		if seen[item.SlotID] {
			return nil, &ValidationError{Msg: fmt.Sprintf("Aynı göz için birden fazla okuma (göz id %d)", item.SlotID)}
		}
		seen[item.SlotID] = true

		slot, err := s.repo.SlotByID(item.SlotID)
		if err != nil {
			return nil, &NotFoundError{Msg: fmt.Sprintf("Göz bulunamadı (id %d)", item.SlotID)}
		}
		if slot.StoreID != storeID {
			return nil, &ValidationError{Msg: fmt.Sprintf("Göz %d bu mağazaya ait değil", slot.SlotNumber)}
		}

		cleaned = append(cleaned, models.ScratcherShiftSnapshotItem{
			SlotID:      item.SlotID,
			TicketValue: value,
			FileID:      item.FileID,
		})
	}
	if len(cleaned) == 0 {
		return nil, &ValidationError{Msg: "En az bir göz okuması gerekli"}
	}
	return cleaned, nil
}

// checkRollover: vardiya sonu okumasının rulo bekçisi. Gözün aktif paketi
// başlangıç okumasındaki paketle aynıysa ve okuma düşmüşse, bilet
// numaraları sıfırlanmış demektir: paket değişimi kaydedilmeden okuma
// kabul edilmez. Başlangıç okumasından sonra aktive edilmiş paket geçer.
func (s *Service) checkRollover(report *models.ShiftReport, items []models.ScratcherShiftSnapshotItem) error {
	start, err := s.startSnapshotFor(report)
	if err != nil {
		return err
	}
	if start == nil {
		return nil // başlangıç okuması yok; motor missing_start_snapshot ile işaretler
	}

	startVals := make(map[uint]string, len(start.Items))
	for _, item := range start.Items {
		startVals[item.SlotID] = item.TicketValue
	}

	var affected []RolloverSlot
	for _, item := range items {
		startVal, ok := startVals[item.SlotID]
		if !ok {
			continue
		}

		pack, err := s.repo.ActivePackBySlot(item.SlotID)
		if err != nil {
			return err
		}
		if pack == nil {
			continue
		}
		// Başlangıç okumasından sonra aktive edilmiş paket = rulo değişimi
		// usulünce kaydedilmiş, okuma yeni paketin aralığında.
		if pack.ActivatedAt.After(start.CreatedAt) {
			continue
		}

		startNum, err1 := strconv.Atoi(startVal)
		endNum, err2 := strconv.Atoi(item.TicketValue)
		if err1 != nil || err2 != nil {
			continue
		}
		if endNum < startNum {
			slot, err := s.repo.SlotByID(item.SlotID)
			if err != nil {
				return err
			}
			affected = append(affected, RolloverSlot{
				SlotID:     slot.ID,
				SlotNumber: slot.SlotNumber,
				StartValue: startVal,
				EndValue:   item.TicketValue,
			})
		}
	}

	if len(affected) > 0 {
		return &RolloverRequiredError{Slots: affected}
	}
	return nil
}

// startSnapshotFor: vardiyaya bağlı start snapshot, yoksa mağaza baseline'ı.
func (s *Service) startSnapshotFor(report *models.ShiftReport) (*models.ScratcherShiftSnapshot, error) {
	start, err := s.repo.SnapshotForShift(report.ID, models.SnapshotStart)
	if err != nil {
		return nil, err
	}
	if start != nil {
		return start, nil
	}
	return s.repo.LatestBaseline(report.StoreID)
}
