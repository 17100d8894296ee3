package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tekel-backend/internal/auth"
	"tekel-backend/internal/config"
	"tekel-backend/internal/database"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// İzin verilen fotoğraf türleri (fiş/kanıt fotoğrafları)
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

const maxUploadSize = 15 << 20 // 15 MB

type UploadResponse struct {
	FileID      string `json:"file_id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// POST /api/scratchers/files
// Multipart "file" alanından fiş/kanıt fotoğrafı yükler. Dosya diske
// uuid isimle yazılır; istemciye sadece opak file_id döner, gerçek yol
// asla dışarı sızmaz.
func UploadFileHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya bulunamadı ('file' alanı zorunlu)")
		}

		if fileHeader.Size > maxUploadSize {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya çok büyük (en fazla 15 MB)")
		}

		contentType := fileHeader.Header.Get("Content-Type")
		ext, ok := allowedContentTypes[contentType]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece fotoğraf yüklenebilir (jpeg/png/webp/heic)")
		}

		userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}
		var storeID *uint
		if sPtr, ok := c.Locals(auth.CtxStoreIDKey).(*uint); ok {
			storeID = sPtr
		}

		if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yükleme klasörü oluşturulamadı")
		}

		fileID := uuid.NewString()
		path := filepath.Join(cfg.UploadPath, fileID+ext)

		if err := c.SaveFile(fileHeader, path); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
		}

		stored := models.StoredFile{
			FileID:      fileID,
			StoreID:     storeID,
			Name:        filepath.Base(fileHeader.Filename),
			Path:        path,
			ContentType: contentType,
			Size:        fileHeader.Size,
			UploadedBy:  userID,
		}

		if err := database.DB.Create(&stored).Error; err != nil {
			// DB kaydı olmadan diskte dosya bırakma
			_ = os.Remove(path)
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(UploadResponse{
			FileID:      stored.FileID,
			Name:        stored.Name,
			ContentType: stored.ContentType,
			Size:        stored.Size,
		})
	}
}

// GET /api/scratchers/files?id=<file_id>
func GetFileHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileID := strings.TrimSpace(c.Query("id"))
		if fileID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "id parametresi zorunlu")
		}

		var stored models.StoredFile
		if err := database.DB.Where("file_id = ?", fileID).First(&stored).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dosya bulunamadı")
		}

		// Mağazaya bağlı kullanıcı sadece kendi mağazasının dosyalarını görebilir
		roleVal := c.Locals(auth.CtxUserRoleKey)
		if role, ok := roleVal.(models.UserRole); ok && role != models.RoleOwner {
			sPtr, ok := c.Locals(auth.CtxStoreIDKey).(*uint)
			if !ok || sPtr == nil || stored.StoreID == nil || *stored.StoreID != *sPtr {
				return fiber.NewError(fiber.StatusForbidden, "Bu dosya sizin mağazanıza ait değil")
			}
		}

		if _, err := os.Stat(stored.Path); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dosya diskte bulunamadı")
		}

		c.Set("Content-Type", stored.ContentType)
		c.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", stored.Name))
		return c.SendFile(stored.Path)
	}
}
