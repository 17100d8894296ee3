package shiftreport

import (
	"fmt"
	"time"

	"tekel-backend/internal/audit"
	"tekel-backend/internal/auth"
	"tekel-backend/internal/database"
	"tekel-backend/internal/models"
	"tekel-backend/internal/scratcher"

	"github.com/gofiber/fiber/v2"
)

type CreateShiftReportRequest struct {
	Date             string  `json:"date"` // "2006-01-02"; boşsa bugün
	ReportedScrValue float64 `json:"reported_scr_value"`
	Note             string  `json:"note"`
}

type UpdateShiftReportRequest struct {
	ReportedScrValue *float64 `json:"reported_scr_value"`
	Note             *string  `json:"note"`
}

type ShiftReportResponse struct {
	ID               uint    `json:"id"`
	StoreID          uint    `json:"store_id"`
	EmployeeUserID   uint    `json:"employee_user_id"`
	EmployeeName     string  `json:"employee_name,omitempty"`
	Date             string  `json:"date"`
	ReportedScrValue float64 `json:"reported_scr_value"`
	Note             string  `json:"note"`
	CreatedAt        string  `json:"created_at"`
}

func toReportResponse(r models.ShiftReport) ShiftReportResponse {
	return ShiftReportResponse{
		ID:               r.ID,
		StoreID:          r.StoreID,
		EmployeeUserID:   r.EmployeeUserID,
		EmployeeName:     r.Employee.Name,
		Date:             r.Date.Format("2006-01-02"),
		ReportedScrValue: r.ReportedScrValue,
		Note:             r.Note,
		CreatedAt:        r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// storeScope: owner dışındaki roller kendi mağazasına kilitli
func storeScope(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role == models.RoleOwner {
		storeID := c.QueryInt("store_id", 0)
		if storeID <= 0 {
			return 0, fiber.NewError(fiber.StatusBadRequest, "Owner için store_id parametresi zorunlu")
		}
		return uint(storeID), nil
	}

	sPtr, ok := c.Locals(auth.CtxStoreIDKey).(*uint)
	if !ok || sPtr == nil {
		return 0, fiber.NewError(fiber.StatusForbidden, "Mağaza bilgisi bulunamadı")
	}
	return *sPtr, nil
}

// POST /api/shift-reports
// Çalışan vardiya sonunda beyan ettiği kazı kazan satışını girer.
// Mutabakat hesabı end snapshot gelince bu beyanla karşılaştırılır.
func CreateShiftReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShiftReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ReportedScrValue < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Beyan edilen satış negatif olamaz")
		}

		date := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date formatı 'YYYY-MM-DD' olmalı")
			}
			date = d
		}

		userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		sPtr, ok := c.Locals(auth.CtxStoreIDKey).(*uint)
		if !ok || sPtr == nil {
			return fiber.NewError(fiber.StatusForbidden, "Vardiya raporu için mağaza hesabı gerekli")
		}

		report := models.ShiftReport{
			StoreID:          *sPtr,
			EmployeeUserID:   userID,
			Date:             date,
			ReportedScrValue: body.ReportedScrValue,
			Note:             body.Note,
		}

		if err := database.DB.Create(&report).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiya raporu oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toReportResponse(report))
	}
}

// GET /api/shift-reports?from=2025-12-01&to=2025-12-31
func ListShiftReportsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := storeScope(c)
		if err != nil {
			return err
		}

		q := database.DB.
			Preload("Employee").
			Where("store_id = ?", storeID).
			Order("date DESC, id DESC")

		if s := c.Query("from"); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from formatı 'YYYY-MM-DD' olmalı")
			}
			q = q.Where("date >= ?", d)
		}
		if s := c.Query("to"); s != "" {
			d, err := time.Parse("2006-01-02", s)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to formatı 'YYYY-MM-DD' olmalı")
			}
			q = q.Where("date <= ?", d.Add(24*time.Hour-time.Second))
		}

		var reports []models.ShiftReport
		if err := q.Find(&reports).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiya raporları listelenemedi")
		}

		res := make([]ShiftReportResponse, 0, len(reports))
		for _, r := range reports {
			res = append(res, toReportResponse(r))
		}
		return c.JSON(res)
	}
}

// GET /api/shift-reports/:id
func GetShiftReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor ID")
		}

		var report models.ShiftReport
		if err := database.DB.Preload("Employee").First(&report, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya raporu bulunamadı")
		}

		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleOwner {
			sPtr, ok := c.Locals(auth.CtxStoreIDKey).(*uint)
			if !ok || sPtr == nil || report.StoreID != *sPtr {
				return fiber.NewError(fiber.StatusForbidden, "Bu rapor sizin mağazanıza ait değil")
			}
		}

		return c.JSON(toReportResponse(report))
	}
}

// PUT /api/shift-reports/:id
// Yönetici beyan tutarını düzeltebilir; düzeltme sonrası mutabakat
// hesabı otomatik yeniden yapılır.
func UpdateShiftReportHandler(svc *scratcher.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rapor ID")
		}

		var report models.ShiftReport
		if err := database.DB.First(&report, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Vardiya raporu bulunamadı")
		}

		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleOwner {
			sPtr, ok := c.Locals(auth.CtxStoreIDKey).(*uint)
			if !ok || sPtr == nil || report.StoreID != *sPtr {
				return fiber.NewError(fiber.StatusForbidden, "Bu rapor sizin mağazanıza ait değil")
			}
		}

		var body UpdateShiftReportRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		before := report

		if body.ReportedScrValue != nil {
			if *body.ReportedScrValue < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Beyan edilen satış negatif olamaz")
			}
			report.ReportedScrValue = *body.ReportedScrValue
		}
		if body.Note != nil {
			report.Note = *body.Note
		}

		if err := database.DB.Save(&report).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Vardiya raporu güncellenemedi")
		}

		// Beyan değişti, mutabakatı tazele (snapshot yoksa sessizce atlanır)
		if body.ReportedScrValue != nil {
			_, _ = svc.Recompute(report.ID)
		}

		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok {
			var user models.User
			userName := ""
			if err := database.DB.First(&user, userID).Error; err == nil {
				userName = user.Name
			}
			_ = audit.WriteLog(audit.LogOptions{
				StoreID:     &report.StoreID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "shift_report",
				EntityID:    report.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Vardiya raporu düzeltmesi (beyan: %.2f)", report.ReportedScrValue),
				Before:      before,
				After:       report,
			})
		}

		return c.JSON(toReportResponse(report))
	}
}
