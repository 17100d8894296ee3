package admin

import (
	"fmt"

	"tekel-backend/internal/audit"
	"tekel-backend/internal/auth"
	"tekel-backend/internal/database"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type InitSlotsRequest struct {
	Count int `json:"count"` // raftaki toplam göz sayısı
}

// POST /api/admin/stores/:id/slots
// Mağazanın kazı kazan rafını kurar: 1..count arası gözleri oluşturur.
// Tekrar çağrılırsa mevcut gözlere dokunmaz, sadece eksikleri ekler;
// göz numaraları tarihçe taşıdığı için asla yeniden numaralandırılmaz.
func InitSlotsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Params("id")

		var store models.Store
		if err := database.DB.First(&store, "id = ?", storeID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Mağaza bulunamadı")
		}

		var body InitSlotsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Count <= 0 || body.Count > 500 {
			return fiber.NewError(fiber.StatusBadRequest, "Göz sayısı 1-500 arası olmalı")
		}

		// Mevcut göz numaralarını topla
		var existing []models.ScratcherSlot
		if err := database.DB.
			Where("store_id = ?", store.ID).
			Find(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gözler okunamadı")
		}
		taken := make(map[int]bool, len(existing))
		for _, slot := range existing {
			taken[slot.SlotNumber] = true
		}

		created := 0
		for n := 1; n <= body.Count; n++ {
			if taken[n] {
				continue
			}
			slot := models.ScratcherSlot{
				StoreID:    store.ID,
				SlotNumber: n,
				IsActive:   true,
			}
			if err := database.DB.Create(&slot).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Göz oluşturulamadı")
			}
			created++
		}

		if userID, ok := c.Locals(auth.CtxUserIDKey).(uint); ok && created > 0 {
			var user models.User
			userName := ""
			if err := database.DB.First(&user, userID).Error; err == nil {
				userName = user.Name
			}
			_ = audit.WriteLog(audit.LogOptions{
				StoreID:     &store.ID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "scratcher_slot",
				EntityID:    store.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Raf kurulumu: %d yeni göz (toplam %d)", created, body.Count),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"store_id": store.ID,
			"count":    body.Count,
			"created":  created,
		})
	}
}
