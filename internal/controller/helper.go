package controller

import (
	"math/big"
	"strconv"

	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
)

// statusOf labels an outcome for metrics: success, the protocol error code,
// or "error" for infrastructure failures.
func statusOf(err error) string {
	if err == nil {
		return "success"
	}
	if e, ok := htlc.AsError(err); ok {
		return e.Code
	}
	return "error"
}

func amountToFloat(amount model.Amount) float64 {
	f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
	return f
}

func intString(n int) string {
	return strconv.Itoa(n)
}
