package router

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/house/internal/auth"
	"github.com/monocle-dev/house/internal/config"
	"github.com/monocle-dev/house/internal/handlers"
	"github.com/monocle-dev/house/internal/middleware"
	"github.com/monocle-dev/house/internal/permissions"
	"github.com/monocle-dev/house/internal/utils"
)

// slashless registers every route with and without a trailing slash.
type slashless struct {
	gin.IRoutes
}

func (r slashless) handle(method, path string, handlers ...gin.HandlerFunc) {
	path = strings.TrimSuffix(path, "/")
	r.Handle(method, path, handlers...)
	r.Handle(method, path+"/", handlers...)
}

func (r slashless) GET(path string, h ...gin.HandlerFunc)    { r.handle("GET", path, h...) }
func (r slashless) POST(path string, h ...gin.HandlerFunc)   { r.handle("POST", path, h...) }
func (r slashless) PUT(path string, h ...gin.HandlerFunc)    { r.handle("PUT", path, h...) }
func (r slashless) PATCH(path string, h ...gin.HandlerFunc)  { r.handle("PATCH", path, h...) }
func (r slashless) DELETE(path string, h ...gin.HandlerFunc) { r.handle("DELETE", path, h...) }

func NewRouter(h *handlers.Handler, tokens *auth.TokenManager, server config.ServerConfig) *gin.Engine {
	utils.RegisterJSONFieldNames()

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.RedirectTrailingSlash = false

	// nil trusts no proxy; gin's default trusts every peer.
	if err := r.SetTrustedProxies(server.TrustedProxies); err != nil {
		log.Printf("Ignoring trusted proxies: %v", err)
		r.SetTrustedProxies(nil)
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.HealthCheck)
	r.GET("/ws/properties", h.PropertyFeed)

	api := slashless{r.Group("/", middleware.Authenticate(tokens, h.Users()))}

	authenticated := middleware.Require(permissions.Authenticated)
	admin := middleware.Require(permissions.CanManageTaxonomy)

	api.POST("/auth/register", h.CreateUser)
	api.POST("/auth/login", h.LoginUser)
	api.POST("/auth/logout", authenticated, h.LogoutUser)

	api.POST("/api/token", h.LoginUser)
	api.POST("/api/token/refresh", h.RefreshToken)
	api.POST("/api/token/blacklist", h.BlacklistToken)

	api.GET("/users", middleware.Require(permissions.CanListUsers), h.ListUsers)
	api.GET("/users/me", authenticated, h.Me)
	api.PATCH("/users/me", authenticated, h.UpdateMe)
	api.GET("/users/:id", authenticated, h.GetUser)

	api.GET("/regions", h.ListRegions)
	api.GET("/regions/:id", h.GetRegion)
	api.POST("/regions", admin, h.CreateRegion)
	api.DELETE("/regions/:id", admin, h.DeleteRegion)

	api.GET("/cities", h.ListCities)
	api.GET("/cities/:id", h.GetCity)
	api.POST("/cities", admin, h.CreateCity)
	api.DELETE("/cities/:id", admin, h.DeleteCity)

	api.GET("/districts", h.ListDistricts)
	api.GET("/districts/:id", h.GetDistrict)
	api.POST("/districts", admin, h.CreateDistrict)
	api.DELETE("/districts/:id", admin, h.DeleteDistrict)

	api.GET("/properties", h.ListProperties)
	api.GET("/properties/:id", h.GetProperty)
	api.POST("/properties", middleware.Require(permissions.CanCreateProperty), h.CreateProperty)
	api.PUT("/properties/:id", authenticated, h.UpdateProperty)
	api.PATCH("/properties/:id", authenticated, h.UpdateProperty)
	api.DELETE("/properties/:id", authenticated, h.DeleteProperty)
	api.POST("/properties/:id/images", authenticated, h.UploadImage)
	api.DELETE("/properties/:id/images/:image_id", authenticated, h.DeleteImage)
	api.POST("/properties/:id/documents", authenticated, h.UploadDocument)
	api.DELETE("/properties/:id/documents/:document_id", authenticated, h.DeleteDocument)

	api.GET("/reviews", h.ListReviews)
	api.POST("/reviews", middleware.Require(permissions.CanWriteReview), h.CreateReview)

	return r
}
