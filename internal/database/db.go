package database

import (
	"log"
	"os"
	"time"

	"bottleflow/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	// 1. Get Credentials from .env file
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// 2. Connect with GORM (Wait for DB to be ready)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	// 3. Auto-Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Worker{},
		&models.Product{},
		&models.StockRecord{},
		&models.StockMovement{},
		&models.StockSale{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Task{},
		&models.SalaryPayment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}

	log.Println("✅ Database Schema Synced!")

	seedDefaultAdmin()
}

// seedDefaultAdmin makes sure a fresh database has someone who can log in.
// Credentials come from .env; nothing happens if users already exist.
func seedDefaultAdmin() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Println("⚠️ No users exist and ADMIN_USERNAME/ADMIN_PASSWORD are unset. Nobody can log in!")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Println("Failed to hash admin password:", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Println("Failed to seed admin user:", err)
		return
	}
	log.Println("✅ Seeded default admin user:", username)
}
