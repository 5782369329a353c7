package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/church-network-api/internal/constants"
	"github.com/yukikurage/church-network-api/internal/middleware"
	"github.com/yukikurage/church-network-api/internal/services"
	"gorm.io/gorm"
)

// RouterOptions holds the dependencies of the HTTP router.
type RouterOptions struct {
	DB           *gorm.DB
	Logger       *logrus.Logger
	SessionStore sessions.Store

	// Metrics is optional; when nil no collectors are mounted.
	Metrics        *middleware.Metrics
	MetricsPath    string
	MetricsHandler gin.HandlerFunc
}

// NewRouter wires services and handlers onto a gin engine.
func NewRouter(opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		if opts.MetricsHandler != nil {
			r.GET(opts.MetricsPath, opts.MetricsHandler)
		}
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.SessionStore))

	orgService := services.NewOrganizationService(opts.DB, opts.Logger)
	authService := services.NewAuthService(opts.DB, opts.Logger)
	financeService := services.NewFinanceService(opts.DB, opts.Logger)
	messageService := services.NewMessageService(opts.DB, opts.Logger)
	resources := services.NewResources(opts.DB, opts.Logger)

	authHandler := NewAuthHandler(orgService, authService)
	orgHandler := NewOrganizationHandler(orgService)
	financeHandler := NewFinanceHandler(financeService)
	messageHandler := NewMessageHandler(messageService)

	// Health check endpoint
	r.GET("/health", Health(opts.DB))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireIdentity(), authHandler.GetCurrentUser)
		}

		protected := api.Group("")
		protected.Use(middleware.RequireIdentity())
		{
			orgs := protected.Group("/organizations", middleware.RequireRootAdmin())
			{
				orgs.POST("", orgHandler.CreateBranch)
				orgs.GET("", orgHandler.ListBranches)
			}

			protected.POST("/users", middleware.RequireRootAdmin(), authHandler.CreateBranchAdmin)

			NewResourceHandler(resources.Members).Register(protected)
			NewResourceHandler(resources.Events).Register(protected)
			NewResourceHandler(resources.Donations).Register(protected)
			NewResourceHandler(resources.Attendance).Register(protected)
			NewResourceHandler(resources.Projects).Register(protected)
			NewResourceHandler(resources.Expenses).Register(protected)

			finances := protected.Group("/finances")
			{
				finances.GET("/balance/:id", middleware.RequireRecordID(), financeHandler.GetBalance)
				finances.GET("/total", middleware.RequireRootAdmin(), financeHandler.GetTotals)
			}
			protected.GET("/stats", middleware.RequireRootAdmin(), financeHandler.GetStats)

			protected.GET("/messages", messageHandler.ListMessages)
			protected.POST("/messages", messageHandler.SendMessage)
		}
	}

	return r
}

// Health reports whether the database answers.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"message": "Database is not reachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Church Network API is running",
		})
	}
}
