package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	MediaDir  string
	ServerURL string // base used to qualify relative image references
	JWTSecret string
	LogFile   string
}

func Load() Config {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "voltbay.db"
	} // sqlite file in project root
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./web/media"
	}
	serverURL := strings.TrimRight(os.Getenv("SERVER_URL"), "/")
	if serverURL == "" {
		serverURL = "http://localhost:" + port
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		log.Println("[config] JWT_SECRET not set; using development default")
	}
	logFile := os.Getenv("LOG_FILE")

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, ServerURL: serverURL, JWTSecret: secret, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s SERVER_URL=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.ServerURL, cfg.LogFile)
	return cfg
}
