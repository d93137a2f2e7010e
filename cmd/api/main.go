package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"talktracker/internal/auth"
	"talktracker/internal/httpserver"
	"talktracker/internal/logger"
	"talktracker/internal/mail"
	"talktracker/internal/models"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	db, err := openDB(lg)
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := models.Migrate(db); err != nil {
		lg.Fatalw("migrate failed", "error", err)
	}
	seedDefaultUser(db, lg)

	mailer := mail.New(lg)
	router := httpserver.NewRouter(db, lg, mailer)
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	lg.Infow("listening", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

// openDB uses postgres when DATABASE_URL is set, otherwise a local sqlite
// file, which is how the service runs standalone.
func openDB(lg *zap.SugaredLogger) (*gorm.DB, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		lg.Infow("using postgres store")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	path := os.Getenv("SQLITE_PATH")
	if path == "" {
		path = "./data/interactions.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	lg.Infow("using sqlite store", "path", path)
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// seedDefaultUser creates the bootstrap account with a server-assigned
// password; the onboarding state forces a password change on first login.
func seedDefaultUser(db *gorm.DB, lg *zap.SugaredLogger) {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return
	}
	pw := os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if pw == "" {
		pw = "admin123"
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		lg.Errorw("seed hash failed", "error", err)
		return
	}
	u := models.User{
		Username:     "admin",
		Email:        "admin@talktracker.local",
		PasswordHash: hash,
		Role:         "client",
		Onboarding:   models.OnboardingMustChangePassword,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&u).Error; err != nil {
		lg.Errorw("seed user failed", "error", err)
		return
	}
	lg.Infow("seeded default user", "username", "admin", "email", u.Email)
}
