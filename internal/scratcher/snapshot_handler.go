package scratcher

import (
	"errors"
	"fmt"

	"tekel-backend/internal/audit"
	"tekel-backend/internal/auth"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSnapshotRequest struct {
	ShiftReportID uint                `json:"shift_report_id"`
	Type          string              `json:"type"` // start / end
	Items         []SnapshotItemInput `json:"items"`
}

type SnapshotResponse struct {
	ID            uint                   `json:"id"`
	StoreID       uint                   `json:"store_id"`
	ShiftReportID *uint                  `json:"shift_report_id"`
	Type          string                 `json:"type"`
	CreatedAt     string                 `json:"created_at"`
	Items         []SnapshotItemResponse `json:"items"`
}

type SnapshotItemResponse struct {
	SlotID      uint    `json:"slot_id"`
	TicketValue string  `json:"ticket_value"`
	FileID      *string `json:"file_id"`
}

func toSnapshotResponse(snapshot models.ScratcherShiftSnapshot) SnapshotResponse {
	resp := SnapshotResponse{
		ID:            snapshot.ID,
		StoreID:       snapshot.StoreID,
		ShiftReportID: snapshot.ShiftReportID,
		Type:          string(snapshot.Type),
		CreatedAt:     snapshot.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:         make([]SnapshotItemResponse, 0, len(snapshot.Items)),
	}
	for _, item := range snapshot.Items {
		resp.Items = append(resp.Items, SnapshotItemResponse{
			SlotID:      item.SlotID,
			TicketValue: item.TicketValue,
			FileID:      item.FileID,
		})
	}
	return resp
}

// POST /api/scratchers/snapshots
// Vardiya başı okumasını yönetici, vardiya sonu okumasını çalışan girer.
// Rulo değişimi tespit edilirse 409 + etkilenen göz listesi döner;
// UI kullanıcıyı doğrudan aktivasyon akışına yönlendirir.
func CreateSnapshotHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSnapshotRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ShiftReportID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "shift_report_id zorunlu")
		}

		roleVal := c.Locals(auth.CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}
		// Start okuması taban değerdir, sadece yönetici/owner girer
		if body.Type == string(models.SnapshotStart) && role == models.RoleEmployee {
			return fiber.NewError(fiber.StatusForbidden, "Vardiya başı okumasını sadece yönetici girebilir")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		snapshot, err := svc.RecordSnapshot(RecordSnapshotInput{
			ShiftReportID:  body.ShiftReportID,
			Type:           models.SnapshotType(body.Type),
			EmployeeUserID: userID,
			Items:          body.Items,
		})
		if err != nil {
			var rollover *RolloverRequiredError
			if errors.As(err, &rollover) {
				// İş kuralı reddi: hangi gözlerin aktivasyon beklediğini söyle
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error":             "Rulo değişimi kaydedilmeden vardiya sonu okuması kabul edilemez",
					"rollover_required": true,
					"slots":             rollover.Slots,
				})
			}
			return toHTTPError(err, "Okuma kaydedilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &snapshot.StoreID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "scratcher_snapshot",
			EntityID:    snapshot.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Raf okuması (%s): %d göz", snapshot.Type, len(snapshot.Items)),
			After:       snapshot,
		})

		return c.Status(fiber.StatusCreated).JSON(toSnapshotResponse(*snapshot))
	}
}

type CreateBaselineRequest struct {
	StoreID *uint               `json:"store_id"` // owner için
	Items   []SnapshotItemInput `json:"items"`
}

// POST /api/scratchers/baseline
// Vardiya başı okuması tutmayan mağazalar için yönetici taban değeri girer.
func CreateBaselineHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBaselineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		storeID, err := resolveStoreIDFromBodyOrRole(c, body.StoreID)
		if err != nil {
			return err
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		snapshot, err := svc.RecordBaseline(storeID, userID, body.Items)
		if err != nil {
			return toHTTPError(err, "Taban okuması kaydedilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			StoreID:     &snapshot.StoreID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "scratcher_snapshot",
			EntityID:    snapshot.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Taban okuması: %d göz", len(snapshot.Items)),
			After:       snapshot,
		})

		return c.Status(fiber.StatusCreated).JSON(toSnapshotResponse(*snapshot))
	}
}

// GET /api/scratchers/baseline
func GetBaselineHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		snapshot, err := svc.GetBaseline(storeID)
		if err != nil {
			return toHTTPError(err, "Taban okuması getirilemedi")
		}
		if snapshot == nil {
			return fiber.NewError(fiber.StatusNotFound, "Taban okuması bulunamadı")
		}

		return c.JSON(toSnapshotResponse(*snapshot))
	}
}
