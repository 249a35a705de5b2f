package handler

import (
	"hcp-visit-tracker/internal/config"
	"hcp-visit-tracker/internal/middleware"
	"hcp-visit-tracker/internal/models"
	"hcp-visit-tracker/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups every route handler mounted by NewRouter
type Handlers struct {
	Auth   *AuthHandler
	Visit  *VisitHandler
	Hcp    *HcpHandler
	Lookup *LookupHandler
	Health *HealthHandler
}

// NewRouter builds the gin engine with the middleware chain and every /api route
func NewRouter(cfg *config.Config, log zerolog.Logger, tokens *utils.TokenIssuer, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg))

	api := r.Group("/api")
	api.GET("/health", h.Health.Health)

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.AuthMiddleware(tokens), h.Auth.Me)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))
	writers := middleware.RequireRole(models.RoleAdmin, models.RoleManager)

	visits := authed.Group("/visits")
	{
		visits.GET("", h.Visit.ListVisits)
		visits.GET("/summary", h.Visit.GetSummary)
		visits.GET("/export", h.Visit.ExportCSV)
		visits.GET("/export.xlsx", h.Visit.ExportXLSX)
	}

	hcps := authed.Group("/hcps")
	{
		hcps.GET("", h.Hcp.GetAllHcps)
		hcps.GET("/:id", h.Hcp.GetHcp)

		// Admin and manager routes
		hcps.POST("", writers, h.Hcp.CreateHcp)
		hcps.PUT("/:id", writers, h.Hcp.UpdateHcp)
		hcps.DELETE("/:id", writers, h.Hcp.DeleteHcp)
	}

	authed.POST("/import/hcps", writers, h.Hcp.ImportHcps)

	authed.GET("/territories", h.Lookup.GetTerritories)
	authed.GET("/reps", h.Lookup.GetSalesReps)

	return r
}
