package scratcher

import (
	"fmt"
	"log"
	"strings"
	"time"

	"tekel-backend/internal/models"
)

// Service: kazı kazan çekirdeği (göz kaydı, paket yaşam döngüsü, snapshot
// kaydı, mutabakat motoru). Depolama Repository üzerinden, kimlik bilgisi
// (actingUserID) her çağrıda parametre olarak gelir.
type Service struct {
	repo      Repository
	sizes     PackSizeTable
	threshold float64 // varsayılan fark eşiği (mağaza bazında ezilebilir)
}

func NewService(repo Repository, sizes PackSizeTable, defaultThreshold float64) *Service {
	return &Service{
		repo:      repo,
		sizes:     sizes,
		threshold: defaultThreshold,
	}
}

// ----------------------------------------
// GÖZ KAYDI
// ----------------------------------------

func (s *Service) ListSlots(storeID uint, includeInactive bool) ([]models.ScratcherSlot, error) {
	if _, err := s.repo.StoreByID(storeID); err != nil {
		return nil, &NotFoundError{Msg: "Mağaza bulunamadı"}
	}
	return s.repo.SlotsByStore(storeID, includeInactive)
}

// SetSlotActive: gözü pasife çeker/aktif eder. Paket geçmişi korunur.
func (s *Service) SetSlotActive(slotID uint, isActive bool) (*models.ScratcherSlot, error) {
	slot, err := s.repo.SlotByID(slotID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Göz bulunamadı"}
	}
	slot.IsActive = isActive
	if err := s.repo.SaveSlot(slot); err != nil {
		return nil, err
	}
	return slot, nil
}

// ----------------------------------------
// PAKET YAŞAM DÖNGÜSÜ
// ----------------------------------------

type ActivatePackInput struct {
	SlotID        uint
	ProductID     uint
	PackCode      string
	StartTicket   string
	ReceiptFileID string
	ActingUserID  uint
}

// ActivatePack: göze yeni paket takar. Fiş fotoğrafı olmadan aktivasyon
// yok; gözde aktif paket varsa aynı işlem içinde sonlandırılır (bir gözde
// aynı anda en fazla bir aktif paket).
func (s *Service) ActivatePack(in ActivatePackInput) (*models.ScratcherPack, error) {
	in.StartTicket = strings.TrimSpace(in.StartTicket)
	in.ReceiptFileID = strings.TrimSpace(in.ReceiptFileID)

	if in.ReceiptFileID == "" {
		return nil, &ValidationError{Msg: "Aktivasyon için fiş fotoğrafı zorunlu"}
	}
	if !isNumericTicket(in.StartTicket) {
		return nil, &ValidationError{Msg: "start_ticket boş olmayan sayısal bir değer olmalı"}
	}

	slot, err := s.repo.SlotByID(in.SlotID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Göz bulunamadı"}
	}

	product, err := s.repo.ProductByID(in.ProductID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Ürün bulunamadı"}
	}
	if !product.IsActive {
		return nil, &ValidationError{Msg: "Ürün aktif değil"}
	}

	// End ticket fiyat tablosundan türetilir; bilinmeyen fiyatta boş kalır
	// ve hesaplama unknown_pack_size ile işaretler.
	endTicket := ""
	if size, ok := s.sizes.SizeFor(product.Price); ok {
		endTicket = deriveEndTicket(in.StartTicket, size)
	}

	now := time.Now()
	pack := &models.ScratcherPack{
		StoreID:                 slot.StoreID,
		SlotID:                  slot.ID,
		ProductID:               product.ID,
		PackCode:                strings.TrimSpace(in.PackCode),
		StartTicket:             in.StartTicket,
		EndTicket:               endTicket,
		TicketPrice:             product.Price, // katalog fiyatı sonradan değişse de sabit
		Status:                  models.PackStatusActive,
		ActivatedAt:             now,
		ActivatedByUserID:       in.ActingUserID,
		ActivationReceiptFileID: in.ReceiptFileID,
	}

	err = s.repo.Transaction(func(tx Repository) error {
		// Önceki aktif paketi sonlandır
		prev, err := tx.ActivePackBySlot(slot.ID)
		if err != nil {
			return err
		}
		if prev != nil {
			prev.Status = models.PackStatusEnded
			prev.EndedAt = &now
			prev.EndedByUserID = &in.ActingUserID
			if err := tx.SavePack(prev); err != nil {
				return err
			}
			if err := tx.AppendEvent(&models.ScratcherPackEvent{
				StoreID:         prev.StoreID,
				PackID:          prev.ID,
				EventType:       models.PackEventEnded,
				Note:            fmt.Sprintf("Göz %d için yeni paket aktive edildi", slot.SlotNumber),
				CreatedByUserID: in.ActingUserID,
			}); err != nil {
				return err
			}
		}

		if err := tx.CreatePack(pack); err != nil {
			return err
		}
		if err := tx.AppendEvent(&models.ScratcherPackEvent{
			StoreID:         pack.StoreID,
			PackID:          pack.ID,
			EventType:       models.PackEventActivated,
			FileID:          &in.ReceiptFileID,
			CreatedByUserID: in.ActingUserID,
		}); err != nil {
			return err
		}

		slot.ActivePackID = &pack.ID
		return tx.SaveSlot(slot)
	})
	if err != nil {
		return nil, err
	}

	s.recomputeLatest(slot.StoreID)
	return pack, nil
}

// ReturnPack: paketi distribütöre iade eder. İade fişi fotoğrafı zorunlu.
func (s *Service) ReturnPack(packID uint, receiptFileID, note string, actingUserID uint) (*models.ScratcherPack, error) {
	receiptFileID = strings.TrimSpace(receiptFileID)
	if receiptFileID == "" {
		return nil, &ValidationError{Msg: "İade için fiş fotoğrafı zorunlu"}
	}

	pack, err := s.repo.PackByID(packID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Paket bulunamadı"}
	}
	if pack.Status == models.PackStatusReturned {
		return nil, &ValidationError{Msg: "Paket zaten iade edilmiş"}
	}

	now := time.Now()
	wasActive := pack.Status == models.PackStatusActive

	err = s.repo.Transaction(func(tx Repository) error {
		pack.Status = models.PackStatusReturned
		if pack.EndedAt == nil {
			pack.EndedAt = &now
			pack.EndedByUserID = &actingUserID
		}
		if err := tx.SavePack(pack); err != nil {
			return err
		}

		// Aktif paket iade edildiyse gözün referansını temizle
		if wasActive {
			slot, err := tx.SlotByID(pack.SlotID)
			if err == nil && slot.ActivePackID != nil && *slot.ActivePackID == pack.ID {
				slot.ActivePackID = nil
				if err := tx.SaveSlot(slot); err != nil {
					return err
				}
			}
		}

		// İade aksiyonu ve fiş dosyası ayrı ayrı sorgulanabilsin diye iki olay
		if err := tx.AppendEvent(&models.ScratcherPackEvent{
			StoreID:         pack.StoreID,
			PackID:          pack.ID,
			EventType:       models.PackEventReturned,
			Note:            note,
			CreatedByUserID: actingUserID,
		}); err != nil {
			return err
		}
		return tx.AppendEvent(&models.ScratcherPackEvent{
			StoreID:         pack.StoreID,
			PackID:          pack.ID,
			EventType:       models.PackEventReturnReceipt,
			FileID:          &receiptFileID,
			CreatedByUserID: actingUserID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.recomputeLatest(pack.StoreID)
	return pack, nil
}

// AddPackEvent: not/düzeltme olayı ekler. Paket varlığı dışında doğrulama yok.
func (s *Service) AddPackEvent(packID uint, eventType models.PackEventType, note string, fileID *string, actingUserID uint) (*models.ScratcherPackEvent, error) {
	if eventType != models.PackEventNote && eventType != models.PackEventCorrection {
		return nil, &ValidationError{Msg: "event_type 'note' veya 'correction' olmalı"}
	}

	pack, err := s.repo.PackByID(packID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Paket bulunamadı"}
	}

	event := &models.ScratcherPackEvent{
		StoreID:         pack.StoreID,
		PackID:          pack.ID,
		EventType:       eventType,
		Note:            note,
		FileID:          fileID,
		CreatedByUserID: actingUserID,
	}
	if err := s.repo.AppendEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) ListPacks(storeID uint) ([]models.ScratcherPack, error) {
	return s.repo.PacksByStore(storeID)
}

func (s *Service) ListEvents(storeID uint, limit int) ([]models.ScratcherPackEvent, error) {
	return s.repo.EventsByStore(storeID, limit)
}

func (s *Service) ListPackEvents(packID uint) ([]models.ScratcherPackEvent, error) {
	if _, err := s.repo.PackByID(packID); err != nil {
		return nil, &NotFoundError{Msg: "Paket bulunamadı"}
	}
	return s.repo.EventsByPack(packID)
}

// recomputeLatest: paket değişiminden etkilenen son vardiya hesaplamasını
// tazeler. Best-effort; hata yazıyı bloklamaz, sadece loglanır.
func (s *Service) recomputeLatest(storeID uint) {
	report, err := s.repo.LatestShiftReportWithEndSnapshot(storeID)
	if err != nil || report == nil {
		return
	}
	if _, err := s.Recompute(report.ID); err != nil {
		log.Printf("Hesaplama tazelenemedi (shift_report_id=%d): %v", report.ID, err)
	}
}
