package account

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/htlc-backend/internal/controller"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
	"github.com/dwarvesf/htlc-backend/internal/view"
)

type DepositRequest struct {
	Coins model.Coins `json:"coins" binding:"required,min=1"`
}

type BalancesResponse struct {
	Address  string      `json:"address"`
	Balances model.Coins `json:"balances"`
}

type handler struct {
	controller controller.IController
	logger     *logger.Logger
}

func New(controller controller.IController, logger *logger.Logger) IHandler {
	return &handler{
		controller: controller,
		logger:     logger,
	}
}

// Balances godoc
// @Summary Get account balances
// @Tags Account
// @Produce json
// @Param address path string true "Account address"
// @Success 200 {object} view.Response[BalancesResponse]
// @Failure 400 {object} view.ErrorResponse
// @Router /accounts/{address}/balances [get]
func (h *handler) Balances(c *gin.Context) {
	address := c.Param("address")
	coins, err := h.controller.Balances(c.Request.Context(), address)
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to get balances"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(BalancesResponse{Address: address, Balances: nonNil(coins)}, nil, nil, ""))
}

// Deposit godoc
// @Summary Credit an account from the faucet
// @Description Only available outside production and when FAUCET_ENABLED is set
// @Tags Account
// @Accept json
// @Produce json
// @Param address path string true "Account address"
// @Param request body DepositRequest true "Coins to credit"
// @Success 200 {object} view.Response[BalancesResponse]
// @Failure 400 {object} view.ErrorResponse
// @Failure 403 {object} view.ErrorResponse
// @Router /accounts/{address}/deposit [post]
func (h *handler) Deposit(c *gin.Context) {
	address := c.Param("address")

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[Deposit][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	coins, err := h.controller.Deposit(c.Request.Context(), address, req.Coins)
	if errors.Is(err, controller.ErrFaucetDisabled) {
		c.JSON(http.StatusForbidden, view.CreateResponse[any](nil, err, nil, "faucet is disabled"))
		return
	}
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, req, "failed to deposit"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(BalancesResponse{Address: address, Balances: nonNil(coins)}, nil, nil, "deposited"))
}

func nonNil(coins model.Coins) model.Coins {
	if coins == nil {
		return model.Coins{}
	}
	return coins
}
