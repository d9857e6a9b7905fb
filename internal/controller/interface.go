package controller

import (
	"context"

	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
)

type IController interface {
	// Initiate escrows req.Funds from the caller and locks a new swap.
	Initiate(ctx context.Context, caller string, req htlc.InitiateRequest) (*htlc.Result, error)

	// Withdraw releases a pending swap to its receiver against the preimage.
	Withdraw(ctx context.Context, caller, swapID, preimage string) (*htlc.Result, error)

	// Refund returns an expired swap to its sender.
	Refund(ctx context.Context, caller, swapID string) (*htlc.Result, error)

	GetSwap(ctx context.Context, swapID string) (*model.Swap, error)
	GetUserSwaps(ctx context.Context, address string) ([]string, error)
	IsWithdrawable(ctx context.Context, swapID string) (bool, error)
	IsRefundable(ctx context.Context, swapID string) (bool, error)

	GenerateSecret() (*htlc.Secret, error)
	Hashlock(secret string) string

	Balances(ctx context.Context, address string) (model.Coins, error)

	// Deposit credits an account from the faucet. Refused in production.
	Deposit(ctx context.Context, address string, coins model.Coins) (model.Coins, error)

	// SnapshotSwaps walks every stored swap without mutating anything.
	SnapshotSwaps(ctx context.Context) (*monitoring.SwapSnapshot, error)

	// MonitorSwaps refreshes the swap gauges; it is the swap monitor job.
	MonitorSwaps(ctx context.Context) error
}
