package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"dchanga/internal/handler"
	"dchanga/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CampaignHandler     *handler.CampaignHandler
	ContributionHandler *handler.ContributionHandler
	LedgerHandler       *handler.LedgerHandler
	TransactionHandler  *handler.TransactionHandler
	VerificationHandler *handler.VerificationHandler
	RedisClient         *redis.Client // optional
	NewRelicApp         *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.ErrorReportingMiddleware())
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Campaign routes.
		campaigns := v1.Group("/campaigns")
		{
			campaigns.GET("", deps.CampaignHandler.ListCampaigns)
			campaigns.POST("", deps.CampaignHandler.CreateCampaign)
			campaigns.GET("/:id", deps.CampaignHandler.GetCampaign)
			campaigns.GET("/:id/transactions", deps.CampaignHandler.ListTransactions)
			campaigns.POST("/:id/contribute", deps.ContributionHandler.Contribute)
		}

		// Contribution routes.
		contributions := v1.Group("/contributions")
		{
			contributions.GET("", deps.ContributionHandler.ListContributions)
			contributions.POST("", deps.ContributionHandler.CreateContribution)
			contributions.GET("/:id", deps.ContributionHandler.GetContribution)
			contributions.POST("/:id/confirm", deps.ContributionHandler.ConfirmContribution)
			contributions.GET("/:id/qr.png", deps.ContributionHandler.GetQRCode)
			contributions.GET("/:id/receipt", deps.ContributionHandler.GetReceipt)
		}

		// Ledger routes.
		ledger := v1.Group("/ledger")
		{
			ledger.GET("/balance", deps.LedgerHandler.GetBalance)
			ledger.POST("/payments", deps.LedgerHandler.SendPayment)
		}

		// Transaction record routes.
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", deps.TransactionHandler.ListTransactions)
			transactions.POST("", deps.TransactionHandler.RecordTransaction)
			transactions.POST("/verify", deps.VerificationHandler.VerifyTransaction)
			transactions.GET("/:id", deps.TransactionHandler.GetTransaction)
			transactions.POST("/:id/confirm", deps.ContributionHandler.ConfirmTransaction)
		}

		v1.POST("/qr/verify", deps.VerificationHandler.VerifyQR)
	}

	return router
}
