package router

import (
	"marketingCRM/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout)
	auth.GET("/me", handler.Me, authRequired)
}

func SetupCustomerRoutes(api *echo.Group, handler *rest.CustomerHandler, authRequired echo.MiddlewareFunc) {
	customers := api.Group("/customers", authRequired)

	customers.GET("", handler.GetCustomers)
	customers.POST("", handler.CreateCustomer)
	customers.GET("/:id", handler.GetCustomerByID)
	customers.PUT("/:id", handler.UpdateCustomer)
}

func SetupSegmentRoutes(api *echo.Group, handler *rest.SegmentHandler, authRequired echo.MiddlewareFunc) {
	segments := api.Group("/segments", authRequired)

	segments.GET("", handler.GetAllSegments)
	segments.POST("", handler.CreateSegment)
	segments.GET("/:id", handler.GetSegmentByID)
	segments.PUT("/:id", handler.UpdateSegment)
	segments.GET("/:id/customers", handler.GetSegmentCustomers)
	segments.POST("/:id/refresh", handler.RefreshSegment)
}

func SetupCampaignRoutes(api *echo.Group, handler *rest.CampaignHandler, authRequired echo.MiddlewareFunc) {
	campaigns := api.Group("/campaigns", authRequired)

	campaigns.GET("", handler.GetAllCampaigns)
	campaigns.POST("", handler.CreateCampaign)
	campaigns.GET("/:id", handler.GetCampaignByID)
	campaigns.PUT("/:id", handler.UpdateCampaign)
	campaigns.POST("/:id/launch", handler.LaunchCampaign)
	campaigns.POST("/:id/pause", handler.PauseCampaign)
	campaigns.POST("/:id/resume", handler.ResumeCampaign)
	campaigns.POST("/:id/complete", handler.CompleteCampaign)
	campaigns.GET("/:id/stats", handler.GetCampaignStats)
}

func SetupAnalyticsRoutes(api *echo.Group, handler *rest.AnalyticsHandler, authRequired echo.MiddlewareFunc) {
	analytics := api.Group("/analytics", authRequired)

	analytics.GET("/overview", handler.GetOverview)
	analytics.GET("/roi", handler.GetROIReport)
	analytics.GET("/funnel", handler.GetFunnel)
	analytics.GET("/segments", handler.GetSegmentPerformance)
}

func SetupDemoRoutes(api *echo.Group, handler *rest.DemoHandler) {
	demo := api.Group("/demo")
	demo.POST("/initialize", handler.Initialize)
}
