package account

import "github.com/gin-gonic/gin"

type IHandler interface {
	Balances(c *gin.Context)
	Deposit(c *gin.Context)
}
