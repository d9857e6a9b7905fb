package swap

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dwarvesf/htlc-backend/internal/controller"
	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
	"github.com/dwarvesf/htlc-backend/internal/view"
)

type handler struct {
	controller controller.IController
	validate   *validator.Validate
	logger     *logger.Logger
	appConfig  *config.AppConfig
}

func New(controller controller.IController, logger *logger.Logger, appConfig *config.AppConfig) IHandler {
	return &handler{
		controller: controller,
		validate:   newValidator(),
		logger:     logger,
		appConfig:  appConfig,
	}
}

// Initiate godoc
// @Summary Initiate a swap
// @Description Escrows the attached funds from the caller and locks them under a hashlock and timelock
// @id initiateSwap
// @Tags Swap
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param request body InitiateRequest true "Swap parameters"
// @Success 200 {object} view.Response[htlc.Result]
// @Failure 400 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Failure 422 {object} view.ErrorResponse
// @Failure 500 {object} view.ErrorResponse
// @Router /htlc/swaps [post]
func (h *handler) Initiate(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("[Initiate][ShouldBindJSON]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.logger.Error("[Initiate][Validator]", map[string]string{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	funds := req.Funds
	if funds == nil {
		funds = model.Coins{{Denom: req.Denom, Amount: req.Amount}}
	}

	result, err := h.controller.Initiate(c.Request.Context(), caller, htlc.InitiateRequest{
		Receiver: req.Receiver,
		Denom:    req.Denom,
		Amount:   req.Amount,
		Hashlock: req.Hashlock,
		Timelock: req.Timelock,
		Funds:    funds,
	})
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, req, "failed to initiate swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(result, nil, nil, "swap initiated"))
}

// Withdraw godoc
// @Summary Withdraw a swap
// @Description Releases a pending swap to its receiver when the preimage matches the hashlock
// @id withdrawSwap
// @Tags Swap
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account, must be the receiver"
// @Param id path string true "Swap id"
// @Param request body WithdrawRequest true "Preimage"
// @Success 200 {object} view.Response[htlc.Result]
// @Failure 400 {object} view.ErrorResponse
// @Failure 403 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /htlc/swaps/{id}/withdraw [post]
func (h *handler) Withdraw(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	result, err := h.controller.Withdraw(c.Request.Context(), caller, c.Param("id"), *req.Preimage)
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to withdraw swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(result, nil, nil, "swap withdrawn"))
}

// Refund godoc
// @Summary Refund a swap
// @Description Returns an expired swap to its sender
// @id refundSwap
// @Tags Swap
// @Produce json
// @Param X-Account-Address header string true "Caller account, must be the sender"
// @Param id path string true "Swap id"
// @Success 200 {object} view.Response[htlc.Result]
// @Failure 403 {object} view.ErrorResponse
// @Failure 404 {object} view.ErrorResponse
// @Failure 409 {object} view.ErrorResponse
// @Router /htlc/swaps/{id}/refund [post]
func (h *handler) Refund(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	result, err := h.controller.Refund(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to refund swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(result, nil, nil, "swap refunded"))
}

// GetSwap godoc
// @Summary Get a swap
// @Tags Swap
// @Produce json
// @Param id path string true "Swap id"
// @Success 200 {object} view.Response[SwapResponse]
// @Failure 404 {object} view.ErrorResponse
// @Router /htlc/swaps/{id} [get]
func (h *handler) GetSwap(c *gin.Context) {
	id := c.Param("id")
	swap, err := h.controller.GetSwap(c.Request.Context(), id)
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to get swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(SwapResponse{ID: id, Swap: swap, Status: swap.Status()}, nil, nil, ""))
}

// GetUserSwaps godoc
// @Summary List the swaps of an address
// @Description Returns the ids of every swap the address takes part in, oldest first
// @Tags Swap
// @Produce json
// @Param address path string true "Account address"
// @Success 200 {object} view.Response[UserSwapsResponse]
// @Failure 400 {object} view.ErrorResponse
// @Router /htlc/users/{address}/swaps [get]
func (h *handler) GetUserSwaps(c *gin.Context) {
	address := c.Param("address")
	ids, err := h.controller.GetUserSwaps(c.Request.Context(), address)
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to list swaps"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(UserSwapsResponse{Address: address, SwapIDs: ids}, nil, nil, ""))
}

// IsWithdrawable godoc
// @Summary Check whether a swap can be withdrawn now
// @Tags Swap
// @Produce json
// @Param id path string true "Swap id"
// @Success 200 {object} view.Response[EligibilityResponse]
// @Failure 404 {object} view.ErrorResponse
// @Router /htlc/swaps/{id}/withdrawable [get]
func (h *handler) IsWithdrawable(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.controller.IsWithdrawable(c.Request.Context(), id)
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to check swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(EligibilityResponse{SwapID: id, Withdrawable: &ok}, nil, nil, ""))
}

// IsRefundable godoc
// @Summary Check whether a swap can be refunded now
// @Tags Swap
// @Produce json
// @Param id path string true "Swap id"
// @Success 200 {object} view.Response[EligibilityResponse]
// @Failure 404 {object} view.ErrorResponse
// @Router /htlc/swaps/{id}/refundable [get]
func (h *handler) IsRefundable(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.controller.IsRefundable(c.Request.Context(), id)
	if err != nil {
		c.JSON(view.HTTPStatus(err), view.CreateResponse[any](nil, err, nil, "failed to check swap"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(EligibilityResponse{SwapID: id, Refundable: &ok}, nil, nil, ""))
}

// GenerateSecret godoc
// @Summary Generate a secret
// @Description Returns a random 32-byte hex preimage and the hashlock committing to it
// @Tags Secret
// @Produce json
// @Success 200 {object} view.Response[htlc.Secret]
// @Router /htlc/secrets [post]
func (h *handler) GenerateSecret(c *gin.Context) {
	secret, err := h.controller.GenerateSecret()
	if err != nil {
		c.JSON(http.StatusInternalServerError, view.CreateResponse[any](nil, err, nil, "failed to generate secret"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(secret, nil, nil, ""))
}

// Hashlock godoc
// @Summary Compute the hashlock of a secret
// @Tags Secret
// @Accept json
// @Produce json
// @Param request body HashlockRequest true "Secret"
// @Success 200 {object} view.Response[HashlockResponse]
// @Failure 400 {object} view.ErrorResponse
// @Router /htlc/hashlocks [post]
func (h *handler) Hashlock(c *gin.Context) {
	var req HashlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, view.CreateResponse[any](nil, err, req, "invalid request"))
		return
	}

	c.JSON(http.StatusOK, view.CreateResponse(HashlockResponse{Hashlock: h.controller.Hashlock(req.Secret)}, nil, nil, ""))
}

func (h *handler) caller(c *gin.Context) (string, bool) {
	caller := c.GetHeader(CallerHeader)
	if caller == "" {
		c.JSON(http.StatusUnauthorized, view.CreateResponse[any](nil, errMissingCaller, nil, "missing caller"))
		return "", false
	}
	return caller, true
}
