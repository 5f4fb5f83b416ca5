package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/tapptrak/admin-panel/config"
	"github.com/tapptrak/admin-panel/middlewares"
	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/router"
	"github.com/tapptrak/admin-panel/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	ensureAdmin(db)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("%s panel listening on port %s", config.SiteName(), port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Building{},
		&models.Flat{},
		&models.Guard{},
		&models.Visitor{},
		&models.VisitorLog{},
		&models.ActivityLog{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// ensureAdmin seeds the first admin account on an empty users table so a
// fresh install can log in. Credentials come from ADMIN_EMAIL/ADMIN_PASSWORD.
func ensureAdmin(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.InfoLogger.Println("No users and no ADMIN_EMAIL/ADMIN_PASSWORD set, skipping admin seed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    email,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to seed admin user: %v", err)
		return
	}
	utils.InfoLogger.Printf("Seeded admin account %s", email)
}
