package main

import (
	"log"
	"strings"

	"tekel-backend/internal/admin"
	"tekel-backend/internal/audit"
	"tekel-backend/internal/auth"
	"tekel-backend/internal/config"
	"tekel-backend/internal/database"
	"tekel-backend/internal/files"
	"tekel-backend/internal/models"
	"tekel-backend/internal/scratcher"
	"tekel-backend/internal/shiftreport"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	sizes, err := scratcher.ParsePackSizeTable(cfg.ScrPackSizes)
	if err != nil {
		log.Fatal("SCR_PACK_SIZES çözümlenemedi: ", err)
	}
	scrService := scratcher.NewService(
		scratcher.NewGormRepository(database.DB),
		sizes,
		cfg.ScrVarianceThreshold,
	)

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // fotoğraf yüklemeleri için
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den temizle
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Owner routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleOwner))

	// Mağaza yönetimi
	adminRoutes.Post("/stores", admin.CreateStoreHandler())
	adminRoutes.Get("/stores", admin.ListStoresHandler())
	adminRoutes.Get("/stores/:id", admin.GetStoreHandler())
	adminRoutes.Put("/stores/:id", admin.UpdateStoreHandler())
	adminRoutes.Delete("/stores/:id", admin.DeleteStoreHandler())
	adminRoutes.Post("/stores/:id/users", admin.CreateStoreUserHandler())
	adminRoutes.Get("/stores/:id/users", admin.ListStoreUsersHandler())
	adminRoutes.Post("/stores/:id/slots", admin.InitSlotsHandler())

	// Kazı kazan ürün kataloğu
	adminRoutes.Post("/scratcher-products", admin.CreateScratcherProductHandler())
	adminRoutes.Put("/scratcher-products/:id", admin.UpdateScratcherProductHandler())
	adminRoutes.Delete("/scratcher-products/:id", admin.DeactivateScratcherProductHandler())

	// Katalog listesi tüm roller için (aktivasyon ekranı kullanır)
	protected.Get("/scratcher-products", admin.ListScratcherProductsHandler())

	// Vardiya raporları
	protected.Post("/shift-reports", shiftreport.CreateShiftReportHandler())
	protected.Get("/shift-reports", shiftreport.ListShiftReportsHandler())
	protected.Get("/shift-reports/:id", shiftreport.GetShiftReportHandler())
	protected.Put("/shift-reports/:id",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		shiftreport.UpdateShiftReportHandler(scrService))

	// Kazı kazan çekirdeği
	scr := protected.Group("/scratchers")

	// Gözler
	scr.Get("/slots", scratcher.ListSlotsHandler(scrService))
	scr.Put("/slots/:id/active",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.SetSlotActiveHandler(scrService))

	// Paketler (aktivasyon tüm roller: rulo bitince kasiyer de takar)
	scr.Post("/packs/activate", scratcher.ActivatePackHandler(scrService))
	scr.Post("/packs/:id/return",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.ReturnPackHandler(scrService))
	scr.Post("/packs/:id/events",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.AddPackEventHandler(scrService))
	scr.Get("/packs", scratcher.ListPacksHandler(scrService))
	scr.Get("/packs/:id/events", scratcher.ListPackEventsHandler(scrService))
	scr.Get("/events", scratcher.ListEventsHandler(scrService))

	// Raf okumaları
	scr.Post("/snapshots", scratcher.CreateSnapshotHandler(scrService))
	scr.Post("/baseline",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.CreateBaselineHandler(scrService))
	scr.Get("/baseline", scratcher.GetBaselineHandler(scrService))

	// Mutabakat
	scr.Get("/calculations/:shiftReportId", scratcher.GetCalculationHandler(scrService))
	scr.Post("/calculations/:shiftReportId/recompute",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.RecomputeCalculationHandler(scrService))
	scr.Get("/discrepancies",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.ListDiscrepanciesHandler(scrService))
	scr.Get("/discrepancies/export",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		scratcher.ExportDiscrepanciesHandler(scrService))

	// Fiş/kanıt fotoğrafları
	scr.Post("/files", files.UploadFileHandler(cfg))
	scr.Get("/files", files.GetFileHandler(cfg))

	// Audit logs
	protected.Get("/audit-logs",
		auth.RequireRole(models.RoleOwner, models.RoleManager),
		audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
