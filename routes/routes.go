package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// Deps carries everything the handlers need.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Logger  *zap.Logger
	Cart    *services.CartService
	Reviews *services.ReviewService
	Store   storage.Store
	Events  events.Publisher
	Hub     *events.Hub
	Limiter middleware.Limiter
}

// NewRouter builds the engine with the global middleware and every route group.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = d.Config.Server.MaxUploadBytes

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY", middleware.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	if local, ok := d.Store.(*storage.Local); ok && strings.HasPrefix(d.Config.Storage.PublicBaseURL, "/") {
		r.Static(d.Config.Storage.PublicBaseURL, local.Dir())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	SetupRoutes(r, d)
	return r
}

// SetupRoutes is the single entry point that wires up the public, auth, user and admin groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	SetupPublicRoutes(r, d)
	SetupAuthRoutes(r, d)
	SetupUserRoutes(r, d)
	SetupAdminRoutes(r, d)
}
