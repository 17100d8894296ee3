package scratcher

import (
	"encoding/json"
	"time"

	"tekel-backend/internal/models"
)

// Discrepancy: yönetici inceleme listesi satırı — bayraklı veya eşik üstü
// farkı olan vardiya hesaplaması, rapor metadata'sıyla birlikte.
type Discrepancy struct {
	ShiftReportID        uint                           `json:"shift_report_id"`
	Date                 time.Time                      `json:"date"`
	EmployeeUserID       uint                           `json:"employee_user_id"`
	EmployeeName         string                         `json:"employee_name"`
	ExpectedTotalTickets int                            `json:"expected_total_tickets"`
	ExpectedTotalValue   float64                        `json:"expected_total_value"`
	ReportedScrValue     float64                        `json:"reported_scr_value"`
	VarianceValue        float64                        `json:"variance_value"`
	Flags                []string                       `json:"flags"`
	Blocked              bool                           `json:"blocked"` // eksik snapshot: sayılara güvenilmez
	Breakdown            []models.ScratcherBreakdownRow `json:"breakdown"`
}

// ListDiscrepancies: bayrağı olan veya |fark| eşiği aşan hesaplamalar.
// Salt okunur görünüm; yeni durum üretmez.
func (s *Service) ListDiscrepancies(storeID uint, from, to time.Time) ([]Discrepancy, error) {
	store, err := s.repo.StoreByID(storeID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Mağaza bulunamadı"}
	}

	threshold := s.threshold
	if store.ScrVarianceThreshold > 0 {
		threshold = store.ScrVarianceThreshold
	}

	calcs, err := s.repo.CalculationsByStore(storeID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]Discrepancy, 0, len(calcs))
	for _, calc := range calcs {
		d := toDiscrepancy(calc)
		overThreshold := calc.VarianceValue > threshold || calc.VarianceValue < -threshold
		if len(d.Flags) == 0 && !overThreshold {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// GetCalculation: tek vardiyanın hesaplaması + kaynak snapshot kalemleri.
func (s *Service) GetCalculation(shiftReportID uint) (*CalculationDetail, error) {
	report, err := s.repo.ShiftReportByID(shiftReportID)
	if err != nil {
		return nil, &NotFoundError{Msg: "Vardiya raporu bulunamadı"}
	}

	calc, err := s.repo.CalculationByShift(shiftReportID)
	if err != nil {
		return nil, err
	}
	if calc == nil {
		return nil, &NotFoundError{Msg: "Hesaplama bulunamadı"}
	}

	start, err := s.startSnapshotFor(report)
	if err != nil {
		return nil, err
	}
	end, err := s.repo.SnapshotForShift(shiftReportID, models.SnapshotEnd)
	if err != nil {
		return nil, err
	}

	detail := &CalculationDetail{
		Calculation: *calc,
		Flags:       decodeFlags(calc.FlagsData),
		Breakdown:   decodeBreakdown(calc.BreakdownData),
	}
	if start != nil {
		detail.StartItems = start.Items
		detail.StartIsBaseline = start.ShiftReportID == nil
	}
	if end != nil {
		detail.EndItems = end.Items
	}
	return detail, nil
}

type CalculationDetail struct {
	Calculation     models.ScratcherShiftCalculation
	Flags           []string
	Breakdown       []models.ScratcherBreakdownRow
	StartItems      []models.ScratcherShiftSnapshotItem
	EndItems        []models.ScratcherShiftSnapshotItem
	StartIsBaseline bool
}

func toDiscrepancy(calc models.ScratcherShiftCalculation) Discrepancy {
	flags := decodeFlags(calc.FlagsData)
	blocked := false
	for _, f := range flags {
		if f == models.FlagMissingStartSnapshot || f == models.FlagMissingEndSnapshot {
			blocked = true
		}
	}
	return Discrepancy{
		ShiftReportID:        calc.ShiftReportID,
		Date:                 calc.ShiftReport.Date,
		EmployeeUserID:       calc.ShiftReport.EmployeeUserID,
		EmployeeName:         calc.ShiftReport.Employee.Name,
		ExpectedTotalTickets: calc.ExpectedTotalTickets,
		ExpectedTotalValue:   calc.ExpectedTotalValue,
		ReportedScrValue:     calc.ReportedScrValue,
		VarianceValue:        calc.VarianceValue,
		Flags:                flags,
		Blocked:              blocked,
		Breakdown:            decodeBreakdown(calc.BreakdownData),
	}
}

func decodeFlags(data string) []string {
	flags := []string{}
	if data != "" {
		_ = json.Unmarshal([]byte(data), &flags)
	}
	return flags
}

func decodeBreakdown(data string) []models.ScratcherBreakdownRow {
	rows := []models.ScratcherBreakdownRow{}
	if data != "" {
		_ = json.Unmarshal([]byte(data), &rows)
	}
	return rows
}
