package swap

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/dwarvesf/htlc-backend/internal/model"
)

// CallerHeader names the account on whose behalf a mutating call runs.
// Authenticating it is left to the deployment in front of the API.
const CallerHeader = "X-Account-Address"

var hashlockPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

type InitiateRequest struct {
	Hashlock string       `json:"hashlock" binding:"required" validate:"hashlock"`
	Timelock uint64       `json:"timelock" binding:"required"`
	Receiver string       `json:"receiver" binding:"required"`
	Denom    string       `json:"denom" binding:"required"`
	Amount   model.Amount `json:"amount" swaggertype:"string" example:"1000"`
	// Funds attached to the call; they are escrowed before the swap is
	// created. Defaults to exactly Amount of Denom.
	Funds model.Coins `json:"funds"`
}

// WithdrawRequest needs the preimage field, but "" is a valid preimage.
type WithdrawRequest struct {
	Preimage *string `json:"preimage" binding:"required" swaggertype:"string"`
}

type HashlockRequest struct {
	Secret string `json:"secret" binding:"required"`
}

type HashlockResponse struct {
	Hashlock string `json:"hashlock"`
}

type SwapResponse struct {
	ID string `json:"id"`
	*model.Swap
	Status model.SwapStatus `json:"status"`
}

type UserSwapsResponse struct {
	Address string   `json:"address"`
	SwapIDs []string `json:"swap_ids"`
}

type EligibilityResponse struct {
	SwapID       string `json:"swap_id"`
	Withdrawable *bool  `json:"withdrawable,omitempty"`
	Refundable   *bool  `json:"refundable,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	// hashlocks are lowercase hex sha256 digests
	_ = v.RegisterValidation("hashlock", func(fl validator.FieldLevel) bool {
		return hashlockPattern.MatchString(fl.Field().String())
	})
	return v
}

var errMissingCaller = errors.New("missing " + CallerHeader + " header")
