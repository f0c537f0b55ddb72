package config

import "os"

type Config struct {
	Addr       string
	SiteKey    string
	CORSOrigin string
	// Content storage. Backend is "file" or "postgres".
	StoreBackend string
	DataDir      string
	DatabaseURL  string
	// Admin credentials. If AdminPasswordHash is set it takes
	// precedence over the plaintext AdminPassword.
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	// Redis - sessions and change fan-out, optional
	RedisURL string
	// Meilisearch - submissions search, optional
	MeiliURL       string
	MeiliMasterKey string
	// MinIO - image uploads, optional (falls back to local disk)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	UploadsDir     string
	// SMTP Configuration
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	NotifyEmail  string
	// Content history repositories
	HistoryDir string
}

func Load() Config {
	return Config{
		Addr:         getenv("API_ADDR", ":8787"),
		SiteKey:      getenv("VITRINE_SITE_KEY", "default"),
		CORSOrigin:   getenv("VITRINE_CORS_ORIGIN", "*"),
		StoreBackend: getenv("VITRINE_STORE_BACKEND", "file"),
		DataDir:      getenv("VITRINE_DATA_DIR", "./data/content"),
		DatabaseURL:  getenv("DATABASE_URL", ""),
		// Admin - login disabled until credentials are configured
		AdminUsername:     getenv("VITRINE_ADMIN_USER", ""),
		AdminPassword:     getenv("VITRINE_ADMIN_PASSWORD", ""),
		AdminPasswordHash: getenv("VITRINE_ADMIN_PASSWORD_HASH", ""),
		// Redis - empty means in-memory sessions, no cross-process fan-out
		RedisURL:       getenv("REDIS_URL", ""),
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "vitrine-uploads"),
		MinioUseSSL:    getenv("MINIO_USE_SSL", "") == "true",
		UploadsDir:     getenv("VITRINE_UPLOADS_DIR", "./data/uploads"),
		// SMTP - empty by default, email disabled if not configured
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		SMTPFromName: getenv("SMTP_FROM_NAME", "Vitrine"),
		NotifyEmail:  getenv("VITRINE_NOTIFY_EMAIL", ""),
		HistoryDir:   getenv("VITRINE_HISTORY_DIR", "./data/history"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
