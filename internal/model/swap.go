package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusWithdrawn SwapStatus = "withdrawn"
	SwapStatusRefunded  SwapStatus = "refunded"
)

var (
	ErrSwapZeroAmount       = errors.New("swap amount must be positive")
	ErrSwapDoubleSettlement = errors.New("swap cannot be both withdrawn and refunded")
	ErrSwapPreimageState    = errors.New("swap preimage must be present iff withdrawn")
	ErrSwapPreimageMismatch = errors.New("swap preimage does not match hashlock")
)

// Swap is the persisted HTLC record, keyed by its deterministic id.
type Swap struct {
	Hashlock  string  `json:"hashlock"`
	Timelock  uint64  `json:"timelock"`
	Sender    string  `json:"sender"`
	Receiver  string  `json:"receiver"`
	Denom     string  `json:"denom"`
	Amount    Amount  `json:"amount"`
	Withdrawn bool    `json:"withdrawn"`
	Refunded  bool    `json:"refunded"`
	Preimage  *string `json:"preimage"`
}

func (s *Swap) Status() SwapStatus {
	switch {
	case s.Withdrawn:
		return SwapStatusWithdrawn
	case s.Refunded:
		return SwapStatusRefunded
	default:
		return SwapStatusPending
	}
}

func (s *Swap) IsSettled() bool {
	return s.Withdrawn || s.Refunded
}

// Validate checks the record invariants that must hold for every stored swap.
func (s *Swap) Validate() error {
	if s.Amount.IsZero() {
		return ErrSwapZeroAmount
	}
	if s.Withdrawn && s.Refunded {
		return ErrSwapDoubleSettlement
	}
	if (s.Preimage != nil) != s.Withdrawn {
		return ErrSwapPreimageState
	}
	if s.Preimage != nil && HashlockOf(*s.Preimage) != s.Hashlock {
		return ErrSwapPreimageMismatch
	}
	return nil
}

// HashlockOf returns the lowercase hex sha256 of the preimage bytes.
func HashlockOf(preimage string) string {
	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])
}
