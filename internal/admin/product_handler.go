package admin

import (
	"strings"

	"tekel-backend/internal/database"
	"tekel-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ScratcherProductResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}

type CreateScratcherProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type UpdateScratcherProductRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	IsActive *bool    `json:"is_active"`
}

func toProductResponse(p models.ScratcherProduct) ScratcherProductResponse {
	return ScratcherProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// ----------------------------------------
// KAZI KAZAN ÜRÜN KATALOĞU
// Katalog mağaza bağımsızdır; fiyat güncellemesi eski paketleri
// etkilemez (paket aktivasyon anındaki fiyatı kendi üzerinde tutar).
// ----------------------------------------

func CreateScratcherProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateScratcherProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
		}
		if body.Price <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat pozitif olmalı")
		}

		product := models.ScratcherProduct{
			Name:     body.Name,
			Price:    body.Price,
			IsActive: true,
		}

		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
	}
}

// GET /api/scratcher-products?include_inactive=true
func ListScratcherProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Order("price ASC, name ASC")
		if c.Query("include_inactive") != "true" {
			q = q.Where("is_active = ?", true)
		}

		var products []models.ScratcherProduct
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ScratcherProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p))
		}

		return c.JSON(res)
	}
}

func UpdateScratcherProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.ScratcherProduct
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateScratcherProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			product.Name = name
		}

		if body.Price != nil {
			if *body.Price <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat pozitif olmalı")
			}
			product.Price = *body.Price
		}

		if body.IsActive != nil {
			product.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(toProductResponse(product))
	}
}

// DELETE yerine pasife çekilir: eski paketler ürüne referans tutar.
func DeactivateScratcherProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.ScratcherProduct
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		product.IsActive = false
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün pasife alınamadı")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
