package htlc

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/store"
	"github.com/dwarvesf/htlc-backend/internal/store/kv"
	"github.com/dwarvesf/htlc-backend/internal/store/memory"
)

var _ = Describe("Swap lifecycle", func() {
	var (
		db      kv.DB
		engine  *Engine
		querier *Querier
		swapID  string
	)

	update := func(fn func(tx kv.Tx) (*Result, error)) (*Result, error) {
		var res *Result
		err := db.Update(context.Background(), func(tx kv.Tx) error {
			var err error
			res, err = fn(tx)
			return err
		})
		return res, err
	}

	load := func() *model.Swap {
		var swap *model.Swap
		Expect(db.View(context.Background(), func(r kv.Reader) error {
			var err error
			swap, err = querier.GetSwap(r, swapID)
			return err
		})).To(Succeed())
		return swap
	}

	BeforeEach(func() {
		db = memory.New()
		engine = NewEngine(DefaultConfig(), store.New(), lowercaseValidator{})
		querier = NewQuerier(engine)

		res, err := update(func(tx kv.Tx) (*Result, error) {
			return engine.Initiate(tx, InitiateRequest{
				Sender:   alice,
				Receiver: bob,
				Denom:    "atom",
				Amount:   model.NewAmount(100),
				Hashlock: model.HashlockOf("secret"),
				Timelock: now + 7200,
				Funds:    model.Coins{model.NewCoin("atom", 100)},
			}, now)
		})
		Expect(err).NotTo(HaveOccurred())
		swapID = res.SwapID
	})

	Describe("#Withdraw", func() {
		It("should release the funds to the receiver when the secret is revealed in time", func() {
			res, err := update(func(tx kv.Tx) (*Result, error) {
				return engine.Withdraw(tx, bob, swapID, "secret", now+3600)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Releases).To(HaveLen(1))
			Expect(res.Releases[0].ToAddress).To(Equal(bob))
			Expect(res.Releases[0].Denom).To(Equal("atom"))
			Expect(res.Releases[0].Amount.String()).To(Equal("100"))
			Expect(res.Attribute("method")).To(Equal("withdraw"))

			swap := load()
			Expect(swap.Withdrawn).To(BeTrue())
			Expect(*swap.Preimage).To(Equal("secret"))
		})

		It("should leave the swap untouched when the secret is wrong", func() {
			_, err := update(func(tx kv.Tx) (*Result, error) {
				return engine.Withdraw(tx, bob, swapID, "guess", now+3600)
			})
			Expect(err).To(MatchError(ErrInvalidPreimage))
			Expect(load().Status()).To(Equal(model.SwapStatusPending))
		})
	})

	Describe("#Refund", func() {
		It("should return the funds to the sender once the timelock passes", func() {
			res, err := update(func(tx kv.Tx) (*Result, error) {
				return engine.Refund(tx, alice, swapID, now+7200)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Releases).To(HaveLen(1))
			Expect(res.Releases[0].ToAddress).To(Equal(alice))
			Expect(res.Releases[0].Amount.String()).To(Equal("100"))

			Expect(load().Refunded).To(BeTrue())
		})

		It("should keep withdraw and refund mutually exclusive afterwards", func() {
			_, err := update(func(tx kv.Tx) (*Result, error) {
				return engine.Refund(tx, alice, swapID, now+7200)
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = update(func(tx kv.Tx) (*Result, error) {
				return engine.Withdraw(tx, bob, swapID, "secret", now)
			})
			Expect(err).To(MatchError(ErrAlreadyRefunded))

			swap := load()
			Expect(swap.Withdrawn).To(BeFalse())
			Expect(swap.Preimage).To(BeNil())
		})
	})
})
