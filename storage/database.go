package storage

import (
	"log"
	"os"

	"github.com/hirushasanjula/carmarket-sub000/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connecting to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Interaction{},
		&models.SavedListing{},
		&models.Message{},
		&models.AuditLog{},
	)
}

// InitializeDB connects and migrates. Called once at process start; the
// handle is closed by CloseDB on shutdown, never lazily re-opened.
func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}

func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Println("error getting sql.DB for close:", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Println("error closing db:", err)
	}
}
