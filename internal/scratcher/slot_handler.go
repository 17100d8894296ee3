package scratcher

import (
	"fmt"

	"tekel-backend/internal/audit"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SlotResponse struct {
	ID               uint   `json:"id"`
	StoreID          uint   `json:"store_id"`
	SlotNumber       int    `json:"slot_number"`
	IsActive         bool   `json:"is_active"`
	DefaultProductID *uint  `json:"default_product_id"`
	ActivePackID     *uint  `json:"active_pack_id"`
	CreatedAt        string `json:"created_at"`
}

func toSlotResponse(slot models.ScratcherSlot) SlotResponse {
	return SlotResponse{
		ID:               slot.ID,
		StoreID:          slot.StoreID,
		SlotNumber:       slot.SlotNumber,
		IsActive:         slot.IsActive,
		DefaultProductID: slot.DefaultProductID,
		ActivePackID:     slot.ActivePackID,
		CreatedAt:        slot.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/scratchers/slots?include_inactive=true
func ListSlotsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := resolveStoreIDFromQueryOrRole(c)
		if err != nil {
			return err
		}

		includeInactive := c.Query("include_inactive") == "true"

		slots, err := svc.ListSlots(storeID, includeInactive)
		if err != nil {
			return toHTTPError(err, "Gözler listelenemedi")
		}

		resp := make([]SlotResponse, 0, len(slots))
		for _, slot := range slots {
			resp = append(resp, toSlotResponse(slot))
		}
		return c.JSON(resp)
	}
}

type SetSlotActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// PUT /api/scratchers/slots/:id/active
func SetSlotActiveHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slotID, err := c.ParamsInt("id")
		if err != nil || slotID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz göz ID")
		}

		var body SetSlotActiveRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.IsActive == nil {
			return fiber.NewError(fiber.StatusBadRequest, "is_active zorunlu")
		}

		if err := checkSlotStore(c, uint(slotID)); err != nil {
			return err
		}

		slot, err := svc.SetSlotActive(uint(slotID), *body.IsActive)
		if err != nil {
			return toHTTPError(err, "Göz güncellenemedi")
		}

		// Audit log
		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				StoreID:     &slot.StoreID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "scratcher_slot",
				EntityID:    slot.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Göz %d aktiflik: %t", slot.SlotNumber, slot.IsActive),
				After:       slot,
			})
		}

		return c.JSON(toSlotResponse(*slot))
	}
}
