package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"vitrine/api/internal/app"
	"vitrine/api/internal/config"
	"vitrine/api/internal/email"
	"vitrine/api/internal/history"
	"vitrine/api/internal/images"
	"vitrine/api/internal/notify"
	"vitrine/api/internal/preview"
	"vitrine/api/internal/search"
	"vitrine/api/internal/session"
	"vitrine/api/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	contentStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("content store failed: %v", err)
	}
	defer contentStore.Close()

	var registry session.Registry
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for session storage")
		redisRegistry, err := session.NewRedisRegistry(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		registry = redisRegistry
	} else {
		log.Printf("Using in-memory session storage")
		registry = session.NewMemoryRegistry()
	}
	defer registry.Close()

	changes := notify.NewHub()
	var notifier notify.Notifier = changes
	if strings.TrimSpace(cfg.RedisURL) != "" {
		redisNotifier, err := notify.NewRedisNotifierFromURL(cfg.RedisURL, changes)
		if err != nil {
			log.Fatalf("redis notifier failed: %v", err)
		}
		defer redisNotifier.Close()
		listenCtx, stopListen := context.WithCancel(ctx)
		defer stopListen()
		go redisNotifier.Listen(listenCtx)
		notifier = redisNotifier
	}

	if err := os.MkdirAll(cfg.HistoryDir, 0o755); err != nil {
		log.Fatalf("failed to create history dir: %v", err)
	}
	historyService := history.New(cfg.HistoryDir)

	var searchService *search.Service
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient := search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
		searchService = search.NewService(meiliClient)
	} else {
		searchService = search.NewService(nil)
	}

	mailer := email.NewService(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	})

	imageService, uploadsDir, err := openImages(cfg)
	if err != nil {
		log.Fatalf("image storage failed: %v", err)
	}

	previewHub := preview.NewHub()

	service := app.NewService(app.Deps{
		Store:       contentStore,
		Sessions:    registry,
		Notifier:    notifier,
		Preview:     previewHub,
		History:     historyService,
		Search:      searchService,
		Mailer:      mailer,
		SiteKey:     cfg.SiteKey,
		NotifyEmail: cfg.NotifyEmail,
		Credentials: app.Credentials{
			Username:     cfg.AdminUsername,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		},
	})

	httpServer := app.NewHTTPServer(service, imageService, previewHub, changes, cfg.CORSOrigin, uploadsDir)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		// No write timeout: the preview event stream stays open indefinitely.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Vitrine API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
		}
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return pg, nil
	case "file", "":
		return store.NewFileStore(cfg.DataDir)
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// openImages picks the upload backend: MinIO when configured, otherwise a
// local directory served under /uploads/. The returned dir is empty for MinIO
// since objects are served by the bucket itself.
func openImages(cfg config.Config) (*images.Service, string, error) {
	if strings.TrimSpace(cfg.MinioEndpoint) != "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		baseURL := fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
		storage, err := images.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, baseURL, cfg.MinioUseSSL)
		if err != nil {
			return nil, "", err
		}
		return images.NewService(storage), "", nil
	}
	storage, err := images.NewLocalStorage(cfg.UploadsDir, "/uploads")
	if err != nil {
		return nil, "", err
	}
	return images.NewService(storage), storage.Dir(), nil
}
