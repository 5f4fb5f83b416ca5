package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// SiteName is the display name shown across the panel. Overridable so white
// label deployments can rebrand without a rebuild.
func SiteName() string {
	if name := os.Getenv("SITE_NAME"); name != "" {
		return name
	}
	return "TappTrak"
}

// SessionSecret signs the panel session cookie.
func SessionSecret() string {
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		return secret
	}
	return "tapptrak-session-secret"
}

// InitDB opens the MySQL connection from environment configuration.
func InitDB() (*gorm.DB, error) {
	user := getEnv("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "tapptrak")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)

	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
