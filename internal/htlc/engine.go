package htlc

import (
	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	swapstore "github.com/dwarvesf/htlc-backend/internal/store/swap"
)

const (
	DefaultMinTimelock uint64 = 3600
	DefaultMaxTimelock uint64 = 86400
)

// Config bounds the timelock, in seconds after the creation time.
type Config struct {
	MinTimelock uint64
	MaxTimelock uint64
}

func DefaultConfig() Config {
	return Config{MinTimelock: DefaultMinTimelock, MaxTimelock: DefaultMaxTimelock}
}

// AddressValidator canonicalises a user supplied address.
type AddressValidator interface {
	Validate(address string) (string, error)
}

// Attribute is one key/value of the record an operation emits for indexing.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Result is what a successful mutating operation hands back to the host:
// the attributes to publish and the releases to execute in the same
// transaction.
type Result struct {
	SwapID     string          `json:"swap_id"`
	Attributes []Attribute     `json:"attributes"`
	Releases   []model.Release `json:"releases"`
}

// Attribute returns the value of key, or "" when absent.
func (r *Result) Attribute(key string) string {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

type InitiateRequest struct {
	Sender   string
	Receiver string
	Denom    string
	Amount   model.Amount
	Hashlock string
	Timelock uint64
	// Funds were escrowed to the contract before the call. Anything above
	// Amount of Denom stays in custody.
	Funds model.Coins
}

// Engine runs the swap state machine over a transaction supplied by the
// host. It holds no locks and keeps no state between calls; every guard is
// checked before the first write.
type Engine struct {
	cfg       Config
	store     *store.Store
	addresses AddressValidator
}

func NewEngine(cfg Config, s *store.Store, addresses AddressValidator) *Engine {
	return &Engine{cfg: cfg, store: s, addresses: addresses}
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Initiate(tx kv.Tx, req InitiateRequest, now uint64) (*Result, error) {
	if !e.timelockInWindow(req.Timelock, now) {
		return nil, ErrInvalidTimelock
	}

	if req.Amount.IsZero() {
		return nil, ErrInvalidAmount
	}

	receiver, err := e.addresses.Validate(req.Receiver)
	if err != nil {
		return nil, ErrAddressInvalid
	}

	if req.Funds.AmountOf(req.Denom).LT(req.Amount) {
		return nil, ErrInsufficientFunds
	}

	id := GenerateSwapID(req.Sender, req.Receiver, req.Denom, req.Amount, req.Hashlock, req.Timelock, now)
	exists, err := e.store.Swap.Exists(tx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSwapAlreadyExists
	}

	swap := &model.Swap{
		Hashlock: req.Hashlock,
		Timelock: req.Timelock,
		Sender:   req.Sender,
		Receiver: receiver,
		Denom:    req.Denom,
		Amount:   req.Amount,
	}
	if err := e.store.Swap.Create(tx, id, swap); err != nil {
		if errors.Is(err, swapstore.ErrAlreadyExists) {
			return nil, ErrSwapAlreadyExists
		}
		return nil, err
	}

	if err := e.store.UserSwaps.Append(tx, swap.Sender, id); err != nil {
		return nil, err
	}
	if err := e.store.UserSwaps.Append(tx, swap.Receiver, id); err != nil {
		return nil, err
	}

	return &Result{
		SwapID: id,
		Attributes: []Attribute{
			{Key: "method", Value: "initiate_swap"},
			{Key: "swap_id", Value: id},
			{Key: "sender", Value: swap.Sender},
			{Key: "receiver", Value: swap.Receiver},
			{Key: "amount", Value: swap.Amount.String()},
			{Key: "denom", Value: swap.Denom},
		},
		Releases: []model.Release{},
	}, nil
}

func (e *Engine) Withdraw(tx kv.Tx, caller, id, preimage string, now uint64) (*Result, error) {
	swap, err := e.load(tx, id)
	if err != nil {
		return nil, err
	}

	if caller != swap.Receiver {
		return nil, ErrUnauthorized
	}
	if now >= swap.Timelock {
		return nil, ErrTimelockExpired
	}
	if swap.Withdrawn {
		return nil, ErrAlreadyWithdrawn
	}
	if swap.Refunded {
		return nil, ErrAlreadyRefunded
	}
	if model.HashlockOf(preimage) != swap.Hashlock {
		return nil, ErrInvalidPreimage
	}

	swap.Withdrawn = true
	swap.Preimage = &preimage
	if err := e.store.Swap.Update(tx, id, swap); err != nil {
		return nil, err
	}

	return &Result{
		SwapID: id,
		Attributes: []Attribute{
			{Key: "method", Value: "withdraw"},
			{Key: "swap_id", Value: id},
			{Key: "preimage", Value: preimage},
			{Key: "receiver", Value: swap.Receiver},
			{Key: "amount", Value: swap.Amount.String()},
			{Key: "denom", Value: swap.Denom},
		},
		Releases: []model.Release{
			{ToAddress: swap.Receiver, Denom: swap.Denom, Amount: swap.Amount},
		},
	}, nil
}

func (e *Engine) Refund(tx kv.Tx, caller, id string, now uint64) (*Result, error) {
	swap, err := e.load(tx, id)
	if err != nil {
		return nil, err
	}

	if caller != swap.Sender {
		return nil, ErrUnauthorized
	}
	if now < swap.Timelock {
		return nil, ErrTimelockNotExpired
	}
	if swap.Withdrawn {
		return nil, ErrAlreadyWithdrawn
	}
	if swap.Refunded {
		return nil, ErrAlreadyRefunded
	}

	swap.Refunded = true
	if err := e.store.Swap.Update(tx, id, swap); err != nil {
		return nil, err
	}

	return &Result{
		SwapID: id,
		Attributes: []Attribute{
			{Key: "method", Value: "refund"},
			{Key: "swap_id", Value: id},
			{Key: "sender", Value: swap.Sender},
			{Key: "amount", Value: swap.Amount.String()},
			{Key: "denom", Value: swap.Denom},
		},
		Releases: []model.Release{
			{ToAddress: swap.Sender, Denom: swap.Denom, Amount: swap.Amount},
		},
	}, nil
}

// timelockInWindow checks timelock ∈ [now+Min, now+Max] without overflowing.
func (e *Engine) timelockInWindow(timelock, now uint64) bool {
	if timelock < now {
		return false
	}
	delta := timelock - now
	return delta >= e.cfg.MinTimelock && delta <= e.cfg.MaxTimelock
}

func (e *Engine) load(r kv.Reader, id string) (*model.Swap, error) {
	swap, err := e.store.Swap.Get(r, id)
	if errors.Is(err, swapstore.ErrNotFound) {
		return nil, ErrSwapNotFound
	}
	if err != nil {
		return nil, err
	}
	return swap, nil
}
