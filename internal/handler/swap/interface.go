package swap

import "github.com/gin-gonic/gin"

type IHandler interface {
	Initiate(c *gin.Context)
	Withdraw(c *gin.Context)
	Refund(c *gin.Context)
	GetSwap(c *gin.Context)
	GetUserSwaps(c *gin.Context)
	IsWithdrawable(c *gin.Context)
	IsRefundable(c *gin.Context)
	GenerateSecret(c *gin.Context)
	Hashlock(c *gin.Context)
}
