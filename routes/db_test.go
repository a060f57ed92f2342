package routes

import (
	"os"
	"testing"
	"time"

	"github.com/hirushasanjula/carmarket-sub000/models"
	"github.com/hirushasanjula/carmarket-sub000/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB connects to the database named by TEST_DATABASE_URL, migrates
// the schema and wipes every table. Tests that need a database skip when the
// variable is unset so the rest of the suite still runs without Postgres.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Interaction{},
		&models.SavedListing{},
		&models.Message{},
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	db.Exec("TRUNCATE users, listings, interactions, saved_listings, messages, audit_logs RESTART IDENTITY CASCADE")
	storage.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{FirstName: "Test", LastName: "User", Email: email, Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func createTestListing(t *testing.T, db *gorm.DB, userID uint, status string, mutate func(*models.Listing)) models.Listing {
	t.Helper()
	listing := models.Listing{
		UserID:      userID,
		VehicleType: "car",
		Model:       "Corolla",
		Condition:   "used",
		Year:        2020,
		Price:       20000,
		Region:      "Western",
		City:        "Colombo",
		Images:      "[]",
		Status:      status,
	}
	if mutate != nil {
		mutate(&listing)
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	return listing
}

// waitForViewInteractions blocks until the asynchronous view ledger catches
// up, so later assertions and table wipes do not race the goroutines.
func waitForViewInteractions(t *testing.T, db *gorm.DB, listingID uint, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int64
		db.Model(&models.Interaction{}).
			Where("listing_id = ? AND action = ?", listingID, "view").
			Count(&n)
		if n >= want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("view interactions = %d, want %d", n, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
