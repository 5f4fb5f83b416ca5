package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"
	"github.com/tapptrak/admin-panel/config"
	"github.com/tapptrak/admin-panel/controllers"
	"github.com/tapptrak/admin-panel/middlewares"
	"github.com/tapptrak/admin-panel/services"
	"github.com/tapptrak/admin-panel/templates"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.SetHTMLTemplate(templates.Load())

	// Server-side session storage: the browser only holds an opaque id, so a
	// cookie replayed after logout no longer authenticates.
	store := memstore.NewStore([]byte(config.SessionSecret()))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("tapptrak_session", store))

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.LoggerMiddleware())

	authCtrl := controllers.NewAuthController(db)
	qrCtrl := controllers.NewQRController(db, services.NewQRRenderer())
	apiCtrl := controllers.NewAPIController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	r.GET("/login", authCtrl.ShowLogin)

	loginForm := r.Group("/")
	loginForm.Use(middlewares.NewStrictRateLimiter())
	{
		loginForm.POST("/login", authCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      PANEL ROUTES (session)
	// ----------------------------------------------------------------
	panel := r.Group("/")
	panel.Use(middlewares.RequireLogin())
	{
		panel.GET("/qr_generator", qrCtrl.Page)
	}

	// ----------------------------------------------------------------
	//                      GUARD API (JWT)
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.POST("/login", apiCtrl.Login)

	apiAuth := api.Group("/")
	apiAuth.Use(middlewares.APIAuthMiddleware())
	{
		apiAuth.GET("/visitors", apiCtrl.ListVisitors)
		apiAuth.POST("/visitors", apiCtrl.CreateVisitor)
		apiAuth.POST("/visitor-logs", apiCtrl.CheckIn)
		apiAuth.PATCH("/visitor-logs/:log_id/checkout", apiCtrl.Checkout)
		apiAuth.GET("/visitor-logs/overstayed", apiCtrl.Overstayed)
	}

	return r
}
