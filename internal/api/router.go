package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/upcoming-content-backend/internal/media"
	mediaHttp "github.com/nekogravitycat/upcoming-content-backend/internal/media/http"
	"github.com/nekogravitycat/upcoming-content-backend/internal/upcoming"
	upcomingHttp "github.com/nekogravitycat/upcoming-content-backend/internal/upcoming/http"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	Logger          zerolog.Logger
	DB              Pinger
	UpcomingService upcoming.Service
	MediaService    media.Service
	MediaMaxBytes   int64
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (logging, recovery, CORS) and registers module routes.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), Recovery(cfg.Logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Admin dashboard
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", healthHandler(cfg.DB))

	upcomingHandler := upcomingHttp.NewHandler(cfg.UpcomingService)
	mediaHandler := mediaHttp.NewHandler(cfg.MediaService)

	v1 := r.Group("/v1")
	{
		upcomingHttp.RegisterRoutes(v1, upcomingHandler)
		mediaHttp.RegisterRoutes(v1, mediaHandler, cfg.MediaMaxBytes)
	}

	return r
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
