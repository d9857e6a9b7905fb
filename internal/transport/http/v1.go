package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/htlc-backend/internal/handler"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, appConfig *config.AppConfig, logger *logger.Logger) {
	v1 := r.Group("/api/v1")

	htlc := v1.Group("/htlc")
	{
		htlc.POST("/swaps", h.SwapHandler.Initiate)
		htlc.GET("/swaps/:id", h.SwapHandler.GetSwap)
		htlc.POST("/swaps/:id/withdraw", h.SwapHandler.Withdraw)
		htlc.POST("/swaps/:id/refund", h.SwapHandler.Refund)
		htlc.GET("/swaps/:id/withdrawable", h.SwapHandler.IsWithdrawable)
		htlc.GET("/swaps/:id/refundable", h.SwapHandler.IsRefundable)
		htlc.GET("/users/:address/swaps", h.SwapHandler.GetUserSwaps)
		htlc.POST("/secrets", h.SwapHandler.GenerateSecret)
		htlc.POST("/hashlocks", h.SwapHandler.Hashlock)
	}

	accounts := v1.Group("/accounts")
	{
		accounts.GET("/:address/balances", h.AccountHandler.Balances)
		if !appConfig.Environment.IsProduction() {
			accounts.POST("/:address/deposit", h.AccountHandler.Deposit)
		}
	}

	health := v1.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/jobs", h.HealthHandler.Jobs)
	}

	logger.Debug("[Transport][loadV1Routes] routes registered", map[string]string{
		"environment": string(appConfig.Environment),
	})
}
