package scratcher

import (
	"encoding/json"
	"sort"
	"strconv"

	"tekel-backend/internal/models"
)

// Recompute: vardiya mutabakatını hesaplar ve shift_report_id ile upsert
// eder. Idempotent; aynı girdiyle her çağrı aynı sonucu üretir. Motor
// "tuhaf veri" için asla hata dönmez, bayrak basar; hata sadece yapısal
// problemlerde (rapor yok, mağaza uyuşmazlığı) döner.
func (s *Service) Recompute(shiftReportID uint) (*models.ScratcherShiftCalculation, error) {
	report, err := s.repo.ShiftReportByID(shiftReportID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Vardiya raporu bulunamadı"}
	}

	start, err := s.startSnapshotFor(report)
	if err != nil {
		return nil, err
	}
	end, err := s.repo.SnapshotForShift(report.ID, models.SnapshotEnd)
	if err != nil {
		return nil, err
	}

	if start != nil && start.StoreID != report.StoreID {
		return nil, &ValidationError{Msg: "Snapshot mağazası vardiya raporuyla uyuşmuyor"}
	}
	if end != nil && end.StoreID != report.StoreID {
		return nil, &ValidationError{Msg: "Snapshot mağazası vardiya raporuyla uyuşmuyor"}
	}

	flags := newFlagSet()

	// Eksik snapshot: hesap yapılamaz, toplamlar güvenilmez. UI bu
	// bayraklarda dolar değil "bloklu" gösterir.
	if start == nil {
		flags.add(models.FlagMissingStartSnapshot)
	}
	if end == nil {
		flags.add(models.FlagMissingEndSnapshot)
	}
	if start == nil || end == nil {
		return s.upsert(report, 0, 0, nil, flags)
	}

	startVals := itemValues(start)
	endVals := itemValues(end)

	slots, err := s.repo.SlotsByStore(report.StoreID, false)
	if err != nil {
		return nil, err
	}

	totalTickets := 0
	totalValue := 0.0
	breakdown := make([]models.ScratcherBreakdownRow, 0, len(slots))

	// Vardiya penceresinde aktif olan her göz için bir satır; paketi veya
	// okuması olmayan göz sıfır satırı üretir, satır atlanmaz.
	for _, slot := range slots {
		row, err := s.slotRow(&slot, start, end, startVals, endVals, flags)
		if err != nil {
			return nil, err
		}
		totalTickets += row.Sold
		totalValue += row.Value
		breakdown = append(breakdown, row)
	}

	return s.upsert(report, totalTickets, totalValue, breakdown, flags)
}

// slotRow: tek gözün satılan bilet/değer satırı. Okumalar satış ilerledikçe
// artar; tek paket vardiya boyunca takılıysa sold = son - ilk. Rulo
// değişiminde biten paket (endTicket - ilkOkuma) bilet, yeni paket
// (sonOkuma - startTicket + 1) bilet katar; aradaki tam paketler bütün sayılır.
func (s *Service) slotRow(slot *models.ScratcherSlot, start, end *models.ScratcherShiftSnapshot, startVals, endVals map[uint]string, flags *flagSet) (models.ScratcherBreakdownRow, error) {
	row := models.ScratcherBreakdownRow{SlotNumber: slot.SlotNumber}

	startVal, hasStart := startVals[slot.ID]
	endVal, hasEnd := endVals[slot.ID]
	row.StartTicket = startVal
	row.EndTicket = endVal

	if !hasStart || !hasEnd {
		return row, nil // veri yok, sıfır satırı
	}

	startNum, err1 := strconv.Atoi(startVal)
	endNum, err2 := strconv.Atoi(endVal)
	if err1 != nil || err2 != nil {
		return row, nil // girişte doğrulanır; yine de sıfır satırına düş
	}

	packs, err := s.repo.PacksBySlot(slot.ID)
	if err != nil {
		return row, err
	}

	// Pencere içinde aktive edilen paketler (rulo değişim zinciri)
	var before *models.ScratcherPack
	var during []*models.ScratcherPack
	for i := range packs {
		p := &packs[i]
		if p.ActivatedAt.After(start.CreatedAt) && p.ActivatedAt.Before(end.CreatedAt) {
			during = append(during, p)
		} else if !p.ActivatedAt.After(start.CreatedAt) {
			before = p // activated_at artan sıralı, sonuncusu kalır
		}
	}

	if len(during) == 0 {
		// Tek paket tüm vardiyayı kapsıyor: sold tamamen okumaların farkı,
		// paket sınırlarından bağımsız.
		sold := endNum - startNum
		if sold < 0 {
			flags.add(models.FlagNegativeVariance)
		}

		price := 0.0
		if before != nil {
			price = before.TicketPrice
			if before.EndTicket == "" {
				flags.add(models.FlagUnknownPackSize)
			}
		} else if slot.DefaultProduct != nil {
			// Paket takibi başlamamış göz: baseline ürünün fiyatı
			price = slot.DefaultProduct.Price
		}

		row.Sold = sold
		row.Value = float64(sold) * price
		return row, nil
	}

	// Rulo değişimi: biten paketin kalanı + aradaki tam paketler + yeni
	// paketin açılışı.
	flags.add(models.FlagPackRollover)

	sold := 0
	value := 0.0

	if before != nil {
		if prevEnd, err := strconv.Atoi(before.EndTicket); err == nil {
			n := prevEnd - startNum
			sold += n
			value += float64(n) * before.TicketPrice
		} else {
			flags.add(models.FlagUnknownPackSize)
		}
	}

	for _, p := range during[:len(during)-1] {
		pStart, err1 := strconv.Atoi(p.StartTicket)
		pEnd, err2 := strconv.Atoi(p.EndTicket)
		if err1 != nil || err2 != nil {
			flags.add(models.FlagUnknownPackSize)
			continue
		}
		n := pEnd - pStart + 1
		sold += n
		value += float64(n) * p.TicketPrice
	}

	last := during[len(during)-1]
	if lastStart, err := strconv.Atoi(last.StartTicket); err == nil {
		n := endNum - lastStart + 1
		if n < 0 {
			flags.add(models.FlagNegativeVariance)
		}
		sold += n
		value += float64(n) * last.TicketPrice
	}
	if last.EndTicket == "" {
		flags.add(models.FlagUnknownPackSize)
	}

	row.Sold = sold
	row.Value = value
	return row, nil
}

func (s *Service) upsert(report *models.ShiftReport, totalTickets int, totalValue float64, breakdown []models.ScratcherBreakdownRow, flags *flagSet) (*models.ScratcherShiftCalculation, error) {
	variance := report.ReportedScrValue - totalValue

	// Eşik: mağaza ayarı, yoksa config varsayılanı. Eksik snapshot'ta
	// toplamlar güvenilmez, fark eşiği değerlendirilmez.
	if !flags.has(models.FlagMissingStartSnapshot) && !flags.has(models.FlagMissingEndSnapshot) {
		threshold := s.threshold
		if store, err := s.repo.StoreByID(report.StoreID); err == nil && store.ScrVarianceThreshold > 0 {
			threshold = store.ScrVarianceThreshold
		}
		if variance > threshold || variance < -threshold {
			flags.add(models.FlagLargeVariance)
		}
	}

	if breakdown == nil {
		breakdown = []models.ScratcherBreakdownRow{}
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, err
	}
	flagsJSON, err := json.Marshal(flags.sorted())
	if err != nil {
		return nil, err
	}

	calc := &models.ScratcherShiftCalculation{
		ShiftReportID:        report.ID,
		StoreID:              report.StoreID,
		ExpectedTotalTickets: totalTickets,
		ExpectedTotalValue:   totalValue,
		ReportedScrValue:     report.ReportedScrValue,
		VarianceValue:        variance,
		BreakdownData:        string(breakdownJSON),
		FlagsData:            string(flagsJSON),
	}
	if err := s.repo.UpsertCalculation(calc); err != nil {
		return nil, err
	}
	return calc, nil
}

func itemValues(snapshot *models.ScratcherShiftSnapshot) map[uint]string {
	vals := make(map[uint]string, len(snapshot.Items))
	for _, item := range snapshot.Items {
		vals[item.SlotID] = item.TicketValue
	}
	return vals
}

// flagSet: tekrarsız bayrak kümesi; çıktı deterministik olsun diye sıralı yazılır.
type flagSet struct {
	set map[string]bool
}

func newFlagSet() *flagSet {
	return &flagSet{set: make(map[string]bool)}
}

func (f *flagSet) add(flag string) { f.set[flag] = true }

func (f *flagSet) has(flag string) bool { return f.set[flag] }

func (f *flagSet) sorted() []string {
	out := make([]string, 0, len(f.set))
	for flag := range f.set {
		out = append(out, flag)
	}
	sort.Strings(out)
	return out
}
