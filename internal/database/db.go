package database

import (
	"log"

	"tekel-backend/internal/config"
	"tekel-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.StoredFile{},
		&models.AuditLog{},
		&models.ShiftReport{},
		// Kazı kazan modelleri
		&models.ScratcherProduct{},
		&models.ScratcherSlot{},
		&models.ScratcherPack{},
		&models.ScratcherPackEvent{},
		&models.ScratcherShiftSnapshot{},
		&models.ScratcherShiftSnapshotItem{},
		&models.ScratcherShiftCalculation{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
