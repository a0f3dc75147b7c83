package routes

import (
	"net/http"
	"time"

	"servicebid/handlers"
	"servicebid/middleware"
	"servicebid/models"
	"servicebid/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration, login and session endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.RegisterHandler)
		api.POST("/login", hb.LoginHandler)

		api.Use(middleware.JWTAuthMiddleware(hb.Repo))
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/me", hb.MeHandler)
	}
}

// RegisterUserRoutes registers profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	api.Use(middleware.JWTAuthMiddleware(hb.Repo))
	{
		api.GET("/:id", hb.GetUserHandler)

		pro := api.Group("")
		pro.Use(middleware.RequireRole(models.RolePro))
		pro.PUT("/me/auto-reply", hb.UpdateAutoReplyHandler)
		pro.PUT("/me/company", hb.UpdateCompanyHandler)
	}
}

// RegisterJobRoutes registers job posting and browsing endpoints.
func RegisterJobRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/jobs")
	api.Use(middleware.JWTAuthMiddleware(hb.Repo))
	{
		api.GET("", hb.ListJobsHandler)
		api.GET("/:id", hb.GetJobHandler)
		api.GET("/:id/proposals", hb.ListJobProposalsHandler)

		client := api.Group("")
		client.Use(middleware.RequireRole(models.RoleClient))
		client.POST("", hb.CreateJobHandler)
	}
}

// RegisterProposalRoutes registers bidding endpoints.
func RegisterProposalRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/proposals")
	api.Use(middleware.JWTAuthMiddleware(hb.Repo))
	{
		pro := api.Group("")
		pro.Use(middleware.RequireRole(models.RolePro))
		pro.POST("", hb.CreateProposalHandler)

		client := api.Group("")
		client.Use(middleware.RequireRole(models.RoleClient))
		client.POST("/:id/accept", hb.AcceptProposalHandler)
	}
}

// RegisterChatRoutes registers the per-engagement thread endpoints: messages,
// negotiation rounds and the workflow actions narrated into the thread.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/chats")
	api.Use(middleware.JWTAuthMiddleware(hb.Repo))
	{
		api.GET("", hb.ListThreadsHandler)
		api.GET("/:id", hb.GetThreadHandler)
		api.POST("/:id/messages", hb.SendMessageHandler)
		api.POST("/:id/offers", hb.ProposeOfferHandler)
		api.POST("/:id/offers/respond", hb.RespondOfferHandler)
		api.POST("/:id/offers/confirm", hb.ConfirmOfferHandler)
		api.GET("/:id/invoice", hb.GetInvoiceHandler)
		api.POST("/:id/cancel", hb.CancelJobHandler)

		pro := api.Group("")
		pro.Use(middleware.RequireRole(models.RolePro))
		pro.POST("/:id/status", hb.AdvanceStatusHandler)
		pro.POST("/:id/finish", hb.FinishJobHandler)
		pro.POST("/:id/payment-confirm", hb.ConfirmPaymentHandler)

		client := api.Group("")
		client.Use(middleware.RequireRole(models.RoleClient))
		client.POST("/:id/rating", hb.SubmitRatingHandler)
		client.POST("/:id/reopen", hb.ReopenJobHandler)
	}
}

// RegisterEarningsRoutes registers the pro reporting endpoint.
func RegisterEarningsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/earnings")
	api.Use(middleware.JWTAuthMiddleware(hb.Repo), middleware.RequireRole(models.RolePro))
	{
		api.GET("", hb.EarningsHandler)
	}
}

// RegisterMarketRoutes registers the live market simulator endpoints.
func RegisterMarketRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/market")
	api.Use(middleware.JWTAuthMiddleware(hb.Repo))
	{
		api.POST("/sessions", hb.OpenMarketHandler)
		api.GET("/sessions/:id", hb.MarketSnapshotHandler)
		api.POST("/sessions/:id/pause", hb.PauseMarketHandler)
		api.POST("/sessions/:id/resume", hb.ResumeMarketHandler)
		api.DELETE("/sessions/:id", hb.CloseMarketHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterJobRoutes(r, hb)
	RegisterProposalRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterEarningsRoutes(r, hb)
	RegisterMarketRoutes(r, hb)
	RegisterHealthRoute(r)
}
