package scratcher

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// parseDateRange: from/to query parametreleri ("2006-01-02"); boşsa son 30 gün.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if s := c.Query("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "from formatı 'YYYY-MM-DD' olmalı")
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "to formatı 'YYYY-MM-DD' olmalı")
		}
		// Gün sonuna kadar dahil
		to = d.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

type DiscrepancyResponse struct {
	ShiftReportID        uint     `json:"shift_report_id"`
	Date                 string   `json:"date"`
	EmployeeUserID       uint     `json:"employee_user_id"`
	EmployeeName         string   `json:"employee_name"`
	ExpectedTotalTickets int      `json:"expected_total_tickets"`
	ExpectedTotalValue   *float64 `json:"expected_total_value"` // bloklu hesaplamada nil
	ReportedScrValue     float64  `json:"reported_scr_value"`
	VarianceValue        *float64 `json:"variance_value"` // bloklu hesaplamada nil
	Flags                []string `json:"flags"`
	Blocked              bool     `json:"blocked"`
}

// GET /api/scratchers/discrepancies?from=2025-12-01&to=2025-12-31
// Bayraklı veya eşik üstü farklı vardiyalar. Eksik snapshot'lı (bloklu)
// hesaplamada dolar alanları nil döner; UI $0.00 değil "bloklu" gösterir.
func ListDiscrepanciesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		discrepancies, err := svc.ListDiscrepancies(storeID, from, to)
		if err != nil {
			return toHTTPError(err, "Fark listesi getirilemedi")
		}

		resp := make([]DiscrepancyResponse, 0, len(discrepancies))
		for _, d := range discrepancies {
			row := DiscrepancyResponse{
				ShiftReportID:        d.ShiftReportID,
				Date:                 d.Date.Format("2006-01-02"),
				EmployeeUserID:       d.EmployeeUserID,
				EmployeeName:         d.EmployeeName,
				ExpectedTotalTickets: d.ExpectedTotalTickets,
				ReportedScrValue:     d.ReportedScrValue,
				Flags:                d.Flags,
				Blocked:              d.Blocked,
			}
			if !d.Blocked {
				expected := d.ExpectedTotalValue
				variance := d.VarianceValue
				row.ExpectedTotalValue = &expected
				row.VarianceValue = &variance
			}
			resp = append(resp, row)
		}

		return c.JSON(resp)
	}
}

// GET /api/scratchers/discrepancies/export
// Fark listesini Excel olarak indir (yönetici inceleme arşivi için).
func ExportDiscrepanciesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		discrepancies, err := svc.ListDiscrepancies(storeID, from, to)
		if err != nil {
			return toHTTPError(err, "Fark listesi getirilemedi")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Farklar"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Tarih", "Çalışan", "Beklenen Bilet", "Beklenen Değer", "Beyan", "Fark", "Bayraklar"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, d := range discrepancies {
			rowNum := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), d.Date.Format("2006-01-02"))
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), d.EmployeeName)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), d.ExpectedTotalTickets)
			if d.Blocked {
				// Güvenilmez sayı yerine açık "bloklu" işareti
				f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), "BLOKLU")
				f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), "BLOKLU")
			} else {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), d.ExpectedTotalValue)
				f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), d.VarianceValue)
			}
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), d.ReportedScrValue)

			flagsStr := ""
			for j, flag := range d.Flags {
				if j > 0 {
					flagsStr += ", "
				}
				flagsStr += flag
			}
			f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), flagsStr)
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		filename := fmt.Sprintf("kazikazan-farklar-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		return c.Send(buf.Bytes())
	}
}
