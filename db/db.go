package db

import (
	"Gin_postgres_redis_equipment_tracker/config"
	"Gin_postgres_redis_equipment_tracker/models"
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		config.ErrorLogger.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		config.ErrorLogger.Fatal("Failed to migrate models: ", err)
	}
	config.InfoLogger.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Profile{}, &models.UserRole{},
		&models.Equipment{}, &models.Request{}, &models.HistoryLog{},
	); err != nil {
		return err
	}

	// 同一设备最多一条 approved 请求
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_approved_per_equipment
	  ON %s (equipment_id)
	  WHERE status = 'approved';
	`, models.RequestTable, models.RequestTable)).Error; err != nil {
		return err
	}

	// 审批队列查询更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_created_at
	  ON %s (created_at DESC)
	  WHERE status = 'pending';
	`, models.RequestTable, models.RequestTable)).Error; err != nil {
		return err
	}

	return nil
}
