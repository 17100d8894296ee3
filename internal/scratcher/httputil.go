package scratcher

import (
	"errors"
	"fmt"

	"tekel-backend/internal/auth"
	"tekel-backend/internal/database"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// toHTTPError: servis hatalarını HTTP'ye çevir. Rulo reddi burada değil,
// snapshot handler'ında yapılandırılmış gövdeyle dönülür.
func toHTTPError(err error, fallback string) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return fiber.NewError(fiber.StatusNotFound, nf.Msg)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return fiber.NewError(fiber.StatusBadRequest, ve.Msg)
	}
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

// resolveStoreIDFromQueryOrRole: owner query'den verir, diğer roller
// kendi mağazasına sabitlenir.
func resolveStoreIDFromQueryOrRole(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role != models.RoleOwner {
		sVal := c.Locals(auth.CtxStoreIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Mağaza bilgisi bulunamadı")
		}
		return *sPtr, nil
	}

	// owner
	sidStr := c.Query("store_id")
	if sidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	var sid uint
	if _, err := fmt.Sscan(sidStr, &sid); err != nil || sid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id geçersiz")
	}
	return sid, nil
}

func resolveStoreIDFromBodyOrRole(c *fiber.Ctx, bodyStoreID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
	}

	if role != models.RoleOwner {
		sVal := c.Locals(auth.CtxStoreIDKey)
		sPtr, ok := sVal.(*uint)
		if !ok || sPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, "Mağaza bilgisi bulunamadı")
		}
		return *sPtr, nil
	}

	// owner
	if bodyStoreID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "store_id zorunlu")
	}
	return *bodyStoreID, nil
}

// getUserInfo: audit log için kullanıcı id + adı.
func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// checkSlotStore: göz, çağıranın mağazasına ait mi? (owner hariç)
func checkSlotStore(c *fiber.Ctx, slotID uint) error {
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

	var slot models.ScratcherSlot
	if err := database.DB.First(&slot, "id = ?", slotID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Göz bulunamadı")
	}
	if slot.StoreID != *sPtr {
		return fiber.NewError(fiber.StatusForbidden, "Bu göz sizin mağazanıza ait değil")
	}
	return nil
}

// checkPackStore: paket, çağıranın mağazasına ait mi? (owner hariç)
func checkPackStore(c *fiber.Ctx, packID uint) error {
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

	var pack models.ScratcherPack
	if err := database.DB.First(&pack, "id = ?", packID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Paket bulunamadı")
	}
	if pack.StoreID != *sPtr {
		return fiber.NewError(fiber.StatusForbidden, "Bu paket sizin mağazanıza ait değil")
	}
	return nil
}
