package scratcher

import (
	"tekel-backend/internal/auth"
	"tekel-backend/internal/database"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CalculationResponse struct {
	ShiftReportID        uint                           `json:"shift_report_id"`
	StoreID              uint                           `json:"store_id"`
	ExpectedTotalTickets int                            `json:"expected_total_tickets"`
	ExpectedTotalValue   float64                        `json:"expected_total_value"`
	ReportedScrValue     float64                        `json:"reported_scr_value"`
	VarianceValue        float64                        `json:"variance_value"`
	Flags                []string                       `json:"flags"`
	Blocked              bool                           `json:"blocked"` // eksik snapshot: dolar değerleri gösterilmez
	Breakdown            []models.ScratcherBreakdownRow `json:"breakdown"`
	StartItems           []SnapshotItemResponse         `json:"start_items"`
	EndItems             []SnapshotItemResponse         `json:"end_items"`
	StartIsBaseline      bool                           `json:"start_is_baseline"`
	UpdatedAt            string                         `json:"updated_at"`
}

func toCalculationResponse(detail *CalculationDetail) CalculationResponse {
	blocked := false
	for _, f := range detail.Flags {
		if f == models.FlagMissingStartSnapshot || f == models.FlagMissingEndSnapshot {
			blocked = true
		}
	}

	resp := CalculationResponse{
		ShiftReportID:        detail.Calculation.ShiftReportID,
		StoreID:              detail.Calculation.StoreID,
		ExpectedTotalTickets: detail.Calculation.ExpectedTotalTickets,
		ExpectedTotalValue:   detail.Calculation.ExpectedTotalValue,
		ReportedScrValue:     detail.Calculation.ReportedScrValue,
		VarianceValue:        detail.Calculation.VarianceValue,
		Flags:                detail.Flags,
		Blocked:              blocked,
		Breakdown:            detail.Breakdown,
		StartIsBaseline:      detail.StartIsBaseline,
		UpdatedAt:            detail.Calculation.UpdatedAt.Format("2006-01-02 15:04:05"),
		StartItems:           make([]SnapshotItemResponse, 0, len(detail.StartItems)),
		EndItems:             make([]SnapshotItemResponse, 0, len(detail.EndItems)),
	}
	for _, item := range detail.StartItems {
		resp.StartItems = append(resp.StartItems, SnapshotItemResponse{
			SlotID:      item.SlotID,
			TicketValue: item.TicketValue,
			FileID:      item.FileID,
		})
	}
	for _, item := range detail.EndItems {
		resp.EndItems = append(resp.EndItems, SnapshotItemResponse{
			SlotID:      item.SlotID,
			TicketValue: item.TicketValue,
			FileID:      item.FileID,
		})
	}
	return resp
}

// checkShiftReportStore: vardiya raporu çağıranın mağazasına ait mi? (owner hariç)
func checkShiftReportStore(c *fiber.Ctx, shiftReportID uint) error {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}
	if role == models.RoleOwner {
		return nil
	}

	sVal := c.Locals(auth.CtxStoreIDKey)
	sPtr, ok := sVal.(*uint)
	if !ok || sPtr == nil {
		return fiber.NewError(fiber.StatusForbidden, "Mağaza bilgisi bulunamadı")
	}

	var report models.ShiftReport
	if err := database.DB.First(&report, "id = ?", shiftReportID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Vardiya raporu bulunamadı")
	}
	if report.StoreID != *sPtr {
		return fiber.NewError(fiber.StatusForbidden, "Bu rapor sizin mağazanıza ait değil")
	}
	return nil
}

// GET /api/scratchers/calculations/:shiftReportId
func GetCalculationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shiftReportID, err := c.ParamsInt("shiftReportId")
		if err != nil || shiftReportID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz vardiya raporu ID")
		}

		if err := checkShiftReportStore(c, uint(shiftReportID)); err != nil {
			return err
		}

		detail, err := svc.GetCalculation(uint(shiftReportID))
		if err != nil {
			return toHTTPError(err, "Hesaplama getirilemedi")
		}

		return c.JSON(toCalculationResponse(detail))
	}
}

// POST /api/scratchers/calculations/:shiftReportId/recompute
func RecomputeCalculationHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shiftReportID, err := c.ParamsInt("shiftReportId")
		if err != nil || shiftReportID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz vardiya raporu ID")
		}

		if err := checkShiftReportStore(c, uint(shiftReportID)); err != nil {
			return err
		}

		if _, err := svc.Recompute(uint(shiftReportID)); err != nil {
			return toHTTPError(err, "Hesaplama yapılamadı")
		}

		detail, err := svc.GetCalculation(uint(shiftReportID))
		if err != nil {
			return toHTTPError(err, "Hesaplama getirilemedi")
		}
		return c.JSON(toCalculationResponse(detail))
	}
}
