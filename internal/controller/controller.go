package controller

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/address"
	"github.com/dwarvesf/htlc-backend/internal/bank"
	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/monitoring"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/utils/clock"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

var ErrFaucetDisabled = errors.New("faucet is disabled")

const (
	settledCacheTTL     = 10 * time.Minute
	settledCacheCleanup = 20 * time.Minute
)

// EventPublisher receives the attributes of every committed swap operation.
type EventPublisher interface {
	PublishSwapEvent(result *htlc.Result)
}

type Controller struct {
	// mu serialises every invocation against the store
	mu sync.Mutex

	db        kv.DB
	engine    *htlc.Engine
	querier   *htlc.Querier
	bank      bank.IBank
	addresses address.IValidator
	clock     clock.Clock
	recorder  *monitoring.BusinessMetricsRecorder
	swapGauge *monitoring.SwapMetrics
	events    EventPublisher
	// settled holds withdrawn and refunded swaps, which never change again
	settled *cache.Cache
	logger  *logger.Logger
	config  *config.AppConfig
}

func New(
	db kv.DB,
	engine *htlc.Engine,
	bank bank.IBank,
	addresses address.IValidator,
	clk clock.Clock,
	recorder *monitoring.BusinessMetricsRecorder,
	swapGauge *monitoring.SwapMetrics,
	events EventPublisher,
	logger *logger.Logger,
	config *config.AppConfig,
) IController {
	return &Controller{
		db:        db,
		engine:    engine,
		querier:   htlc.NewQuerier(engine),
		bank:      bank,
		addresses: addresses,
		clock:     clk,
		recorder:  recorder,
		swapGauge: swapGauge,
		events:    events,
		settled:   cache.New(settledCacheTTL, settledCacheCleanup),
		logger:    logger,
		config:    config,
	}
}

func (c *Controller) Initiate(ctx context.Context, caller string, req htlc.InitiateRequest) (*htlc.Result, error) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	sender, err := c.canonicalCaller(caller)
	if err != nil {
		c.recordSwap("initiate", err, start)
		return nil, err
	}
	req.Sender = sender
	now := c.clock.Now()

	var result *htlc.Result
	err = c.db.Update(ctx, func(tx kv.Tx) error {
		if err := c.bank.Escrow(tx, sender, req.Funds); err != nil {
			return err
		}
		c.recorder.RecordBankOperation("escrow", "success")

		res, err := c.engine.Initiate(tx, req, now)
		if err != nil {
			return err
		}
		result = res
		return c.executeReleases(tx, res.Releases)
	})
	c.recordSwap("initiate", err, start)
	if err != nil {
		c.logger.Error("[Controller][Initiate]", map[string]string{
			"sender":   sender,
			"receiver": req.Receiver,
			"error":    err.Error(),
		})
		return nil, err
	}

	c.logger.Info("[Controller][Initiate] swap locked", map[string]string{
		"swap_id":  result.SwapID,
		"sender":   sender,
		"receiver": result.Attribute("receiver"),
		"amount":   req.Amount.String() + req.Denom,
	})
	c.publish(result)
	return result, nil
}

func (c *Controller) Withdraw(ctx context.Context, caller, swapID, preimage string) (*htlc.Result, error) {
	return c.settle(ctx, "withdraw", caller, swapID, func(tx kv.Tx, caller string, now uint64) (*htlc.Result, error) {
		return c.engine.Withdraw(tx, caller, swapID, preimage, now)
	})
}

func (c *Controller) Refund(ctx context.Context, caller, swapID string) (*htlc.Result, error) {
	return c.settle(ctx, "refund", caller, swapID, func(tx kv.Tx, caller string, now uint64) (*htlc.Result, error) {
		return c.engine.Refund(tx, caller, swapID, now)
	})
}

func (c *Controller) settle(
	ctx context.Context,
	operation, caller, swapID string,
	run func(tx kv.Tx, caller string, now uint64) (*htlc.Result, error),
) (*htlc.Result, error) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	canonical, err := c.canonicalCaller(caller)
	if err != nil {
		c.recordSwap(operation, err, start)
		return nil, err
	}
	now := c.clock.Now()

	var result *htlc.Result
	err = c.db.Update(ctx, func(tx kv.Tx) error {
		res, err := run(tx, canonical, now)
		if err != nil {
			return err
		}
		result = res
		return c.executeReleases(tx, res.Releases)
	})
	c.recordSwap(operation, err, start)
	if err != nil {
		c.logger.Error("[Controller]["+operation+"]", map[string]string{
			"swap_id": swapID,
			"caller":  canonical,
			"error":   err.Error(),
		})
		return nil, err
	}

	c.logger.Info("[Controller]["+operation+"] swap settled", map[string]string{
		"swap_id": swapID,
		"caller":  canonical,
	})
	c.publish(result)
	return result, nil
}

func (c *Controller) publish(result *htlc.Result) {
	if c.events != nil {
		c.events.PublishSwapEvent(result)
	}
}

func (c *Controller) executeReleases(tx kv.Tx, releases []model.Release) error {
	for _, release := range releases {
		if err := c.bank.Release(tx, release); err != nil {
			c.recorder.RecordBankOperation("release", "error")
			return err
		}
		c.recorder.RecordBankOperation("release", "success")
	}
	return nil
}

func (c *Controller) GetSwap(ctx context.Context, swapID string) (*model.Swap, error) {
	if cached, found := c.settled.Get(swapID); found {
		swap := *cached.(*model.Swap)
		return &swap, nil
	}

	var swap *model.Swap
	err := c.query(ctx, "get_swap", func(r kv.Reader) error {
		var err error
		swap, err = c.querier.GetSwap(r, swapID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if swap.IsSettled() {
		settled := *swap
		c.settled.Set(swapID, &settled, cache.DefaultExpiration)
	}
	return swap, nil
}

// GetUserSwaps looks address up by its canonical form, the one Initiate
// indexed it under.
func (c *Controller) GetUserSwaps(ctx context.Context, address string) ([]string, error) {
	canonical, err := c.canonicalCaller(address)
	if err != nil {
		c.recorder.RecordSwapQuery("get_user_swaps", statusOf(err), 0)
		return nil, err
	}

	var ids []string
	err = c.query(ctx, "get_user_swaps", func(r kv.Reader) error {
		var err error
		ids, err = c.querier.GetUserSwaps(r, canonical)
		return err
	})
	return ids, err
}

func (c *Controller) IsWithdrawable(ctx context.Context, swapID string) (bool, error) {
	now := c.clock.Now()
	var ok bool
	err := c.query(ctx, "is_withdrawable", func(r kv.Reader) error {
		var err error
		ok, err = c.querier.IsWithdrawable(r, swapID, now)
		return err
	})
	return ok, err
}

func (c *Controller) IsRefundable(ctx context.Context, swapID string) (bool, error) {
	now := c.clock.Now()
	var ok bool
	err := c.query(ctx, "is_refundable", func(r kv.Reader) error {
		var err error
		ok, err = c.querier.IsRefundable(r, swapID, now)
		return err
	})
	return ok, err
}

func (c *Controller) GenerateSecret() (*htlc.Secret, error) {
	secret, err := htlc.GenerateSecret()
	if err != nil {
		c.logger.Error("[Controller][GenerateSecret]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}
	return secret, nil
}

func (c *Controller) Hashlock(secret string) string {
	return htlc.Hashlock(secret)
}

func (c *Controller) Balances(ctx context.Context, address string) (model.Coins, error) {
	canonical, err := c.canonicalCaller(address)
	if err != nil {
		return nil, err
	}

	var coins model.Coins
	err = c.query(ctx, "balances", func(r kv.Reader) error {
		var err error
		coins, err = c.bank.Balances(r, canonical)
		return err
	})
	return coins, err
}

func (c *Controller) Deposit(ctx context.Context, address string, coins model.Coins) (model.Coins, error) {
	if c.config.Environment.IsProduction() || !c.config.Faucet.Enabled {
		c.recorder.RecordBankOperation("deposit", "refused")
		return nil, ErrFaucetDisabled
	}

	canonical, err := c.canonicalCaller(address)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var balances model.Coins
	err = c.db.Update(ctx, func(tx kv.Tx) error {
		if err := c.bank.Deposit(tx, canonical, coins); err != nil {
			return err
		}
		coins, err := c.bank.Balances(tx, canonical)
		balances = coins
		return err
	})
	if err != nil {
		c.recorder.RecordBankOperation("deposit", "error")
		c.logger.Error("[Controller][Deposit]", map[string]string{
			"address": canonical,
			"error":   err.Error(),
		})
		return nil, err
	}

	c.recorder.RecordBankOperation("deposit", "success")
	c.logger.Info("[Controller][Deposit] faucet credited account", map[string]string{
		"address": canonical,
		"coins":   coins.String(),
	})
	return balances, nil
}

func (c *Controller) SnapshotSwaps(ctx context.Context) (*monitoring.SwapSnapshot, error) {
	now := c.clock.Now()
	snapshot := &monitoring.SwapSnapshot{
		ByStatus: map[string]int{
			string(model.SwapStatusPending):   0,
			string(model.SwapStatusWithdrawn): 0,
			string(model.SwapStatusRefunded):  0,
		},
		Escrowed: map[string]float64{},
	}

	err := c.query(ctx, "snapshot", func(r kv.Reader) error {
		return c.querier.ListSwaps(r, func(_ string, swap *model.Swap) error {
			snapshot.ByStatus[string(swap.Status())]++
			if swap.IsSettled() {
				return nil
			}
			if htlc.IsRefundable(swap, now) {
				snapshot.Expired++
			}
			snapshot.Escrowed[swap.Denom] += amountToFloat(swap.Amount)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (c *Controller) MonitorSwaps(ctx context.Context) error {
	snapshot, err := c.SnapshotSwaps(ctx)
	if err != nil {
		c.logger.Error("[Controller][MonitorSwaps]", map[string]string{
			"error": err.Error(),
		})
		return err
	}

	c.swapGauge.Observe(*snapshot)
	c.logger.Debug("[Controller][MonitorSwaps] swap gauges refreshed", map[string]string{
		"pending": intString(snapshot.ByStatus[string(model.SwapStatusPending)]),
		"expired": intString(snapshot.Expired),
	})
	return nil
}

func (c *Controller) query(ctx context.Context, name string, fn func(r kv.Reader) error) error {
	start := time.Now()
	err := c.db.View(ctx, fn)
	c.recorder.RecordSwapQuery(name, statusOf(err), time.Since(start).Seconds())
	return err
}

func (c *Controller) canonicalCaller(caller string) (string, error) {
	canonical, err := c.addresses.Validate(caller)
	if err != nil {
		return "", errors.Wrapf(htlc.ErrAddressInvalid, "address %q", caller)
	}
	return canonical, nil
}

func (c *Controller) recordSwap(operation string, err error, start time.Time) {
	c.recorder.RecordSwapOperation(operation, statusOf(err), time.Since(start).Seconds())
}
