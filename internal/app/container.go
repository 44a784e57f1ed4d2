package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/upcoming-content-backend/internal/api"
	"github.com/nekogravitycat/upcoming-content-backend/internal/media"
	"github.com/nekogravitycat/upcoming-content-backend/internal/pkg/storage"
	"github.com/nekogravitycat/upcoming-content-backend/internal/upcoming"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       zerolog.Logger

	UpcomingMaxItems    int
	UpcomingExpiryGrace time.Duration
	UpcomingCacheTTL    time.Duration

	StoragePath         string
	MediaMaxUploadBytes int64
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router          *gin.Engine
	UpcomingService upcoming.Service
	MediaService    media.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// Upcoming Module
	upcomingRepo := upcoming.NewPgxRepository(cfg.DBPool)
	upcomingService := upcoming.NewService(
		upcomingRepo,
		upcoming.NewTTLCache(cfg.UpcomingCacheTTL),
		upcoming.NewLogNotifier(cfg.Logger),
		upcoming.Options{
			MaxItems:    cfg.UpcomingMaxItems,
			ExpiryGrace: cfg.UpcomingExpiryGrace,
			Logger:      cfg.Logger,
		},
	)

	// Media Module
	mediaRepo := media.NewPgxRepository(cfg.DBPool)
	mediaService := media.NewService(mediaRepo, store, cfg.MediaMaxUploadBytes, cfg.Logger)

	// API Router Config
	routerParams := api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          cfg.Logger,
		UpcomingService: upcomingService,
		MediaService:    mediaService,
		MediaMaxBytes:   cfg.MediaMaxUploadBytes,
	}
	if cfg.DBPool != nil {
		routerParams.DB = cfg.DBPool
	}

	return &Container{
		Router:          api.NewRouter(routerParams),
		UpcomingService: upcomingService,
		MediaService:    mediaService,
	}, nil
}
