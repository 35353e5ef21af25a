package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"devcraft_backend/internal/config"
	"devcraft_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с URL из config.yaml
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Client{},
		&models.Service{},
		&models.CustomRequest{},
		&models.Project{},
		&models.Message{},
		&models.PaymentTransaction{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate ошибка: %v", err)
		return err
	}

	log.Println("AutoMigrate успешно завершен.")
	return nil
}
