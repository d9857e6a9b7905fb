package bank

import (
	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
)

// ErrContractUnderfunded means the contract account holds less than a
// release asks for, which only a corrupted ledger can produce.
var ErrContractUnderfunded = errors.New("contract account cannot cover release")

type Bank struct {
	store    *store.Store
	contract string
}

func New(s *store.Store, contractAddress string) IBank {
	return &Bank{store: s, contract: contractAddress}
}

func (b *Bank) ContractAddress() string {
	return b.contract
}

func (b *Bank) Escrow(tx kv.Tx, from string, funds model.Coins) error {
	for _, coin := range funds {
		err := b.transfer(tx, from, b.contract, coin.Denom, coin.Amount)
		if errors.Is(err, model.ErrAmountNegative) {
			return errors.Wrapf(htlc.ErrInsufficientFunds, "escrow %s from %s", coin, from)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *Bank) Release(tx kv.Tx, release model.Release) error {
	err := b.transfer(tx, b.contract, release.ToAddress, release.Denom, release.Amount)
	if errors.Is(err, model.ErrAmountNegative) {
		return errors.Wrapf(ErrContractUnderfunded, "release %s%s to %s", release.Amount, release.Denom, release.ToAddress)
	}
	return err
}

func (b *Bank) Deposit(tx kv.Tx, address string, coins model.Coins) error {
	for _, coin := range coins {
		if err := b.credit(tx, address, coin.Denom, coin.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bank) Balances(r kv.Reader, address string) (model.Coins, error) {
	return b.store.Balance.List(r, address)
}

func (b *Bank) transfer(tx kv.Tx, from, to, denom string, amount model.Amount) error {
	if amount.IsZero() {
		return nil
	}

	balance, err := b.store.Balance.Get(tx, from, denom)
	if err != nil {
		return err
	}
	remaining, err := balance.Sub(amount)
	if err != nil {
		return err
	}
	if err := b.store.Balance.Set(tx, from, denom, remaining); err != nil {
		return err
	}

	return b.credit(tx, to, denom, amount)
}

func (b *Bank) credit(tx kv.Tx, address, denom string, amount model.Amount) error {
	balance, err := b.store.Balance.Get(tx, address, denom)
	if err != nil {
		return err
	}
	total, err := balance.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "credit %s%s to %s", amount, denom, address)
	}
	return b.store.Balance.Set(tx, address, denom, total)
}
