package endpoint

import (
	"fmt"
	"net/http"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/docs"
	"github.com/ariebrainware/docflow-schedule/middleware"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// NewRouter wires every route under /api. OAuth routes are only mounted
// for providers that have credentials.
func NewRouter(db *gorm.DB, cfg *config.Config, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(withConfig(cfg))
	router.Use(middleware.EndpointCallLogger("/swagger/", "/api/health"))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.GET("/health", Health)

	authLimit := middleware.RateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.AuthRateLimit,
		Window: cfg.AuthRateWindow,
		Logger: &logger,
	})
	requireLogin := middleware.ValidateLoginToken(service.NewAuthService(db, cfg.JWTExpiresIn))

	auth := api.Group("/auth")
	{
		auth.POST("/register", authLimit, Register)
		auth.POST("/login", authLimit, Login)
		auth.GET("/me", requireLogin, Me)
		auth.POST("/refresh", requireLogin, Refresh)
		auth.DELETE("/logout", requireLogin, Logout)

		if cfg.Google.Enabled() {
			google := util.NewGoogleProvider(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.CallbackURL)
			auth.GET("/google", OAuthBegin(google))
			auth.GET("/google/callback", OAuthCallback(google))
		}
		if cfg.Facebook.Enabled() {
			facebook := util.NewFacebookProvider(cfg.Facebook.ClientID, cfg.Facebook.ClientSecret, cfg.Facebook.CallbackURL)
			auth.GET("/facebook", OAuthBegin(facebook))
			auth.GET("/facebook/callback", OAuthCallback(facebook))
		}
	}

	secured := api.Group("")
	secured.Use(requireLogin)

	users := secured.Group("/users")
	{
		users.GET("/me", Me)
		users.PATCH("/me", UpdateProfile)

		admin := users.Group("")
		admin.Use(middleware.RequireAdmin())
		admin.POST("", CreateUser)
		admin.GET("", ListUsers)
		admin.GET("/:id", GetUser)
		admin.PATCH("/:id", UpdateUser)
		admin.DELETE("/:id", DeactivateUser)
	}

	patients := secured.Group("/patients")
	{
		patients.POST("", CreatePatient)
		patients.GET("", ListPatients)
		patients.GET("/:id", GetPatient)
		patients.PATCH("/:id", UpdatePatient)
		patients.DELETE("/:id", DeletePatient)
	}

	appointments := secured.Group("/appointments")
	{
		appointments.POST("", CreateAppointment)
		appointments.GET("", ListAppointments)
		appointments.GET("/patient/:patientId", ListPatientAppointments)
		appointments.GET("/date/:date", ListAppointmentsByDate)
		appointments.GET("/:id", GetAppointment)
		appointments.PATCH("/:id", UpdateAppointment)
		appointments.DELETE("/:id", DeleteAppointment)
	}

	records := secured.Group("/medical-records")
	{
		records.GET("/patient/:patientId", ListPatientMedicalRecords)
		records.POST("/patient/:patientId", CreateMedicalRecord)
		records.GET("/:id", GetMedicalRecord)
		records.PATCH("/:id", UpdateMedicalRecord)
		records.DELETE("/:id", DeleteMedicalRecord)

		files := records.Group("/:id/files")
		files.POST("/upload", UploadMedicalRecordFile)
		files.POST("/upload-multiple", UploadMedicalRecordFiles)
		files.GET("", ListMedicalRecordFiles)
		files.GET("/file/:fileId", DownloadMedicalRecordFile)
		files.PATCH("/file/:fileId/rename", RenameMedicalRecordFile)
		files.DELETE("/file/:fileId", DeleteMedicalRecordFile)
	}

	notifications := secured.Group("/notifications")
	{
		notifications.POST("", CreateNotification)
		notifications.GET("", ListNotifications)
		notifications.PATCH("/read-all", MarkAllNotificationsRead)
		notifications.GET("/:id", GetNotification)
		notifications.PATCH("/:id/read", MarkNotificationRead)
		notifications.DELETE("/:id", DeleteNotification)
	}

	secured.GET("/dashboard/stats", DashboardStats)

	return router
}
