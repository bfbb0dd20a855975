package routes

import (
	"net/http"
	"time"

	"penjahit-backend/config"
	"penjahit-backend/controllers"
	"penjahit-backend/services"
	"penjahit-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies is everything the router needs to build its controllers.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
	// Notifications may be nil; status changes then notify nobody.
	Notifications *services.NotificationService
}

func SetupRouter(deps Dependencies) *gin.Engine {
	cfg, logger, db := deps.Config, deps.Logger, deps.DB
	debug := !cfg.IsProduction()
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(config.RequestID())
	r.Use(config.Recovery(logger))

	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin]
		},
		MaxAge: 12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(logger))

	customerService := services.NewCustomerService(db)
	measurementService := services.NewMeasurementService(db)
	garmentService := services.NewGarmentService(db)
	var notifier services.OrderNotifier
	if deps.Notifications != nil {
		notifier = deps.Notifications
	}
	orderService := services.NewOrderService(db, notifier, logger)
	paymentService := services.NewPaymentService(db, logger)
	materialService := services.NewMaterialService(db)
	analyticsService := services.NewAnalyticsService(db)
	authService := services.NewAuthService(db, deps.Tokens)

	authController := controllers.NewAuthController(authService, logger, debug)
	customerController := controllers.NewCustomerController(customerService, measurementService, logger, debug)
	garmentController := controllers.NewGarmentController(garmentService, logger, debug)
	orderController := controllers.NewOrderController(orderService, logger, debug)
	paymentController := controllers.NewPaymentController(paymentService, logger, debug)
	materialController := controllers.NewMaterialController(materialService, logger, debug)
	analyticsController := controllers.NewAnalyticsController(analyticsService, logger, debug)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": cfg.ShopName + " API",
			"status":  "running",
		})
	})

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", utils.AuthMiddleware(deps.Tokens), authController.Me)
		auth.PUT("/profile", utils.AuthMiddleware(deps.Tokens), authController.UpdateProfile)
		auth.PUT("/password", utils.AuthMiddleware(deps.Tokens), authController.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(utils.AuthMiddleware(deps.Tokens))
	{
		customers := protected.Group("/pelanggan")
		{
			customers.GET("", customerController.List)
			customers.POST("", customerController.Create)
			customers.GET("/:id", customerController.Get)
			customers.PUT("/:id", customerController.Update)
			customers.DELETE("/:id", customerController.Delete)

			customers.GET("/:id/ukuran", customerController.Measurements)
			customers.POST("/:id/ukuran", customerController.SaveMeasurements)
			customers.GET("/:id/ukuran/:idJenis", customerController.GarmentMeasurements)
			customers.GET("/:id/ukuran/:idJenis/history", customerController.MeasurementHistory)
		}

		garments := protected.Group("/jenis-pakaian")
		{
			garments.GET("", garmentController.List)
			garments.POST("", garmentController.Create)
			garments.GET("/:id", garmentController.Get)
			garments.PUT("/:id", garmentController.Update)
			garments.DELETE("/:id", garmentController.Delete)
			garments.GET("/:id/template", garmentController.Templates)
			garments.POST("/:id/template", garmentController.ReplaceTemplates)
		}

		orders := protected.Group("/pesanan")
		{
			orders.GET("", orderController.List)
			orders.POST("", orderController.Create)
			orders.GET("/:noNota", orderController.Get)
			orders.PATCH("/:noNota", orderController.Update)
			orders.DELETE("/:noNota", orderController.Delete)
			orders.PATCH("/:noNota/status", orderController.ChangeStatus)
			orders.GET("/:noNota/history", orderController.History)

			orders.GET("/:noNota/pembayaran", paymentController.History)
			orders.POST("/:noNota/pembayaran", paymentController.Record)
		}

		materials := protected.Group("/tambahan-bahan")
		{
			materials.POST("", materialController.Add)
			materials.GET("/detail/:idDetail", materialController.ListByLine)
			materials.DELETE("/:id", materialController.Remove)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("/overview", analyticsController.Overview)
			analytics.GET("/charts/status-distribution", analyticsController.StatusDistribution)
			analytics.GET("/charts/revenue-monthly", analyticsController.RevenueMonthly)
			analytics.GET("/charts/trend-daily", analyticsController.TrendDaily)
		}

		if deps.Notifications != nil {
			notificationController := controllers.NewNotificationController(deps.Notifications, cfg.PickupReminderDays, logger, debug)
			protected.GET("/notifikasi", notificationController.List)
			protected.POST("/notifikasi/pengingat", notificationController.SendReminders)
			protected.POST("/pesanan/:noNota/notifikasi", notificationController.SendReady)
		}
	}

	return r
}
