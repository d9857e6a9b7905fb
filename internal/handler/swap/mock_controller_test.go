package swap_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
)

type MockController struct {
	mock.Mock
}

func (m *MockController) Initiate(ctx context.Context, caller string, req htlc.InitiateRequest) (*htlc.Result, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*htlc.Result), args.Error(1)
}

func (m *MockController) Withdraw(ctx context.Context, caller, swapID, preimage string) (*htlc.Result, error) {
	args := m.Called(ctx, caller, swapID, preimage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*htlc.Result), args.Error(1)
}

func (m *MockController) Refund(ctx context.Context, caller, swapID string) (*htlc.Result, error) {
	args := m.Called(ctx, caller, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*htlc.Result), args.Error(1)
}

func (m *MockController) GetSwap(ctx context.Context, swapID string) (*model.Swap, error) {
	args := m.Called(ctx, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Swap), args.Error(1)
}

func (m *MockController) GetUserSwaps(ctx context.Context, address string) ([]string, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockController) IsWithdrawable(ctx context.Context, swapID string) (bool, error) {
	args := m.Called(ctx, swapID)
	return args.Bool(0), args.Error(1)
}

func (m *MockController) IsRefundable(ctx context.Context, swapID string) (bool, error) {
	args := m.Called(ctx, swapID)
	return args.Bool(0), args.Error(1)
}

func (m *MockController) GenerateSecret() (*htlc.Secret, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*htlc.Secret), args.Error(1)
}

func (m *MockController) Hashlock(secret string) string {
	return m.Called(secret).String(0)
}

func (m *MockController) Balances(ctx context.Context, address string) (model.Coins, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Coins), args.Error(1)
}

func (m *MockController) Deposit(ctx context.Context, address string, coins model.Coins) (model.Coins, error) {
	args := m.Called(ctx, address, coins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Coins), args.Error(1)
}

func (m *MockController) SnapshotSwaps(ctx context.Context) (*monitoring.SwapSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*monitoring.SwapSnapshot), args.Error(1)
}

func (m *MockController) MonitorSwaps(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
