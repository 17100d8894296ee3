package scratcher

import (
	"errors"
	"sort"
	"time"

	"tekel-backend/internal/models"
)

var errNotFound = errors.New("kayıt bulunamadı")

// fakeRepository: testler için in-memory Repository. GORM implementasyonuyla
// aynı sözleşmeyi taklit eder (sıralamalar, nil-nil dönüşler, preload'lar).
type fakeRepository struct {
	stores   map[uint]*models.Store
	products map[uint]*models.ScratcherProduct
	slots    map[uint]*models.ScratcherSlot
	packs    map[uint]*models.ScratcherPack
	events   []*models.ScratcherPackEvent
	snaps    []*models.ScratcherShiftSnapshot
	reports  map[uint]*models.ShiftReport
	calcs    map[uint]*models.ScratcherShiftCalculation // shift_report_id -> calc
	lastID   uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		stores:   make(map[uint]*models.Store),
		products: make(map[uint]*models.ScratcherProduct),
		slots:    make(map[uint]*models.ScratcherSlot),
		packs:    make(map[uint]*models.ScratcherPack),
		reports:  make(map[uint]*models.ShiftReport),
		calcs:    make(map[uint]*models.ScratcherShiftCalculation),
	}
}

func (r *fakeRepository) nextID() uint {
	r.lastID++
	return r.lastID
}

// ---- test fixture yardımcıları ----

func (r *fakeRepository) addStore(store models.Store) *models.Store {
	if store.ID == 0 {
		store.ID = r.nextID()
	}
	r.stores[store.ID] = &store
	return &store
}

func (r *fakeRepository) addProduct(product models.ScratcherProduct) *models.ScratcherProduct {
	if product.ID == 0 {
		product.ID = r.nextID()
	}
	r.products[product.ID] = &product
	return &product
}

func (r *fakeRepository) addSlot(slot models.ScratcherSlot) *models.ScratcherSlot {
	if slot.ID == 0 {
		slot.ID = r.nextID()
	}
	r.slots[slot.ID] = &slot
	return &slot
}

func (r *fakeRepository) addPack(pack models.ScratcherPack) *models.ScratcherPack {
	if pack.ID == 0 {
		pack.ID = r.nextID()
	}
	r.packs[pack.ID] = &pack
	if pack.Status == models.PackStatusActive {
		if slot, ok := r.slots[pack.SlotID]; ok {
			id := pack.ID
			slot.ActivePackID = &id
		}
	}
	return &pack
}

func (r *fakeRepository) addReport(report models.ShiftReport) *models.ShiftReport {
	if report.ID == 0 {
		report.ID = r.nextID()
	}
	r.reports[report.ID] = &report
	return &report
}

func (r *fakeRepository) addSnapshot(snapshot models.ScratcherShiftSnapshot) *models.ScratcherShiftSnapshot {
	if snapshot.ID == 0 {
		snapshot.ID = r.nextID()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}
	r.snaps = append(r.snaps, &snapshot)
	return &snapshot
}

// ---- Repository implementasyonu ----

func (r *fakeRepository) StoreByID(id uint) (*models.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *store
	return &cp, nil
}

func (r *fakeRepository) SlotsByStore(storeID uint, includeInactive bool) ([]models.ScratcherSlot, error) {
	var out []models.ScratcherSlot
	for _, slot := range r.slots {
		if slot.StoreID != storeID {
			continue
		}
		if !includeInactive && !slot.IsActive {
			continue
		}
		cp := *slot
		if cp.DefaultProductID != nil {
			if p, ok := r.products[*cp.DefaultProductID]; ok {
				pcp := *p
				cp.DefaultProduct = &pcp
			}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SlotNumber < out[j].SlotNumber })
	return out, nil
}

func (r *fakeRepository) SlotByID(id uint) (*models.ScratcherSlot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *slot
	if cp.DefaultProductID != nil {
		if p, ok := r.products[*cp.DefaultProductID]; ok {
			pcp := *p
			cp.DefaultProduct = &pcp
		}
	}
	return &cp, nil
}

func (r *fakeRepository) SaveSlot(slot *models.ScratcherSlot) error {
	if _, ok := r.slots[slot.ID]; !ok {
		return errNotFound
	}
	cp := *slot
	r.slots[slot.ID] = &cp
	return nil
}

func (r *fakeRepository) ProductByID(id uint) (*models.ScratcherProduct, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *product
	return &cp, nil
}

func (r *fakeRepository) PackByID(id uint) (*models.ScratcherPack, error) {
	pack, ok := r.packs[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *pack
	if p, ok := r.products[cp.ProductID]; ok {
		cp.Product = *p
	}
	return &cp, nil
}

func (r *fakeRepository) ActivePackBySlot(slotID uint) (*models.ScratcherPack, error) {
	var latest *models.ScratcherPack
	for _, pack := range r.packs {
		if pack.SlotID != slotID || pack.Status != models.PackStatusActive {
			continue
		}
		if latest == nil || pack.ActivatedAt.After(latest.ActivatedAt) {
			latest = pack
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepository) PacksBySlot(slotID uint) ([]models.ScratcherPack, error) {
	var out []models.ScratcherPack
	for _, pack := range r.packs {
		if pack.SlotID == slotID {
			out = append(out, *pack)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivatedAt.Before(out[j].ActivatedAt) })
	return out, nil
}

func (r *fakeRepository) PacksByStore(storeID uint) ([]models.ScratcherPack, error) {
	var out []models.ScratcherPack
	for _, pack := range r.packs {
		if pack.StoreID == storeID {
			cp := *pack
			if p, ok := r.products[cp.ProductID]; ok {
				cp.Product = *p
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivatedAt.After(out[j].ActivatedAt) })
	return out, nil
}

func (r *fakeRepository) CreatePack(pack *models.ScratcherPack) error {
	pack.ID = r.nextID()
	cp := *pack
	r.packs[pack.ID] = &cp
	return nil
}

func (r *fakeRepository) SavePack(pack *models.ScratcherPack) error {
	if _, ok := r.packs[pack.ID]; !ok {
		return errNotFound
	}
	cp := *pack
	r.packs[pack.ID] = &cp
	return nil
}

func (r *fakeRepository) AppendEvent(event *models.ScratcherPackEvent) error {
	event.ID = r.nextID()
	event.CreatedAt = time.Now()
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeRepository) EventsByPack(packID uint) ([]models.ScratcherPackEvent, error) {
	var out []models.ScratcherPackEvent
	for _, event := range r.events {
		if event.PackID == packID {
			out = append(out, *event)
		}
	}
	return out, nil
}

func (r *fakeRepository) EventsByStore(storeID uint, limit int) ([]models.ScratcherPackEvent, error) {
	var out []models.ScratcherPackEvent
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].StoreID != storeID {
			continue
		}
		out = append(out, *r.events[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *fakeRepository) CreateSnapshot(snapshot *models.ScratcherShiftSnapshot) error {
	snapshot.ID = r.nextID()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now()
	}
	for i := range snapshot.Items {
		snapshot.Items[i].ID = r.nextID()
		snapshot.Items[i].SnapshotID = snapshot.ID
	}
	cp := *snapshot
	cp.Items = append([]models.ScratcherShiftSnapshotItem(nil), snapshot.Items...)
	r.snaps = append(r.snaps, &cp)
	return nil
}

func (r *fakeRepository) SnapshotForShift(shiftReportID uint, typ models.SnapshotType) (*models.ScratcherShiftSnapshot, error) {
	var latest *models.ScratcherShiftSnapshot
	for _, snap := range r.snaps {
		if snap.ShiftReportID == nil || *snap.ShiftReportID != shiftReportID || snap.Type != typ {
			continue
		}
		if latest == nil || !snap.CreatedAt.Before(latest.CreatedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepository) LatestBaseline(storeID uint) (*models.ScratcherShiftSnapshot, error) {
	var latest *models.ScratcherShiftSnapshot
	for _, snap := range r.snaps {
		if snap.StoreID != storeID || snap.ShiftReportID != nil || snap.Type != models.SnapshotStart {
			continue
		}
		if latest == nil || !snap.CreatedAt.Before(latest.CreatedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepository) ShiftReportByID(id uint) (*models.ShiftReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *report
	return &cp, nil
}

func (r *fakeRepository) LatestShiftReportWithEndSnapshot(storeID uint) (*models.ShiftReport, error) {
	var latest *models.ShiftReport
	for _, snap := range r.snaps {
		if snap.StoreID != storeID || snap.ShiftReportID == nil || snap.Type != models.SnapshotEnd {
			continue
		}
		report, ok := r.reports[*snap.ShiftReportID]
		if !ok {
			continue
		}
		if latest == nil || report.Date.After(latest.Date) {
			latest = report
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepository) UpsertCalculation(calc *models.ScratcherShiftCalculation) error {
	now := time.Now()
	if existing, ok := r.calcs[calc.ShiftReportID]; ok {
		calc.ID = existing.ID
		calc.CreatedAt = existing.CreatedAt
	} else {
		calc.ID = r.nextID()
		calc.CreatedAt = now
	}
	calc.UpdatedAt = now
	cp := *calc
	r.calcs[calc.ShiftReportID] = &cp
	return nil
}

func (r *fakeRepository) CalculationByShift(shiftReportID uint) (*models.ScratcherShiftCalculation, error) {
	calc, ok := r.calcs[shiftReportID]
	if !ok {
		return nil, nil
	}
	cp := *calc
	if report, ok := r.reports[cp.ShiftReportID]; ok {
		cp.ShiftReport = *report
	}
	return &cp, nil
}

func (r *fakeRepository) CalculationsByStore(storeID uint, from, to time.Time) ([]models.ScratcherShiftCalculation, error) {
	var out []models.ScratcherShiftCalculation
	for _, calc := range r.calcs {
		if calc.StoreID != storeID {
			continue
		}
		report, ok := r.reports[calc.ShiftReportID]
		if !ok || report.Date.Before(from) || report.Date.After(to) {
			continue
		}
		cp := *calc
		cp.ShiftReport = *report
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ShiftReport.Date.After(out[j].ShiftReport.Date)
	})
	return out, nil
}

func (r *fakeRepository) Transaction(fn func(Repository) error) error {
	// Testlerde rollback taklidi yok; hata dönerse yazılanlar kalır.
	// Servis zaten tüm doğrulamaları transaction öncesinde yapar.
	return fn(r)
}
