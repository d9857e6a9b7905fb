package model

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountOverflow = errors.New("amount overflows 128 bits")
	ErrAmountNegative = errors.New("amount would become negative")

	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Amount is an unsigned 128-bit quantity in the smallest unit of a denom.
// The zero value is 0. It serializes as a decimal string.
type Amount struct {
	i *big.Int
}

func NewAmount(v uint64) Amount {
	return Amount{i: new(big.Int).SetUint64(v)}
}

// ParseAmount accepts plain decimal digits only: no sign, no separators.
func ParseAmount(s string) (Amount, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return Amount{}, ErrInvalidAmount
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, ErrInvalidAmount
	}
	if v.Cmp(maxAmount) > 0 {
		return Amount{}, ErrAmountOverflow
	}

	return Amount{i: v}, nil
}

func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) bigInt() *big.Int {
	if a.i == nil {
		return new(big.Int)
	}
	return a.i
}

// BigInt returns a copy of the underlying value.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.bigInt())
}

func (a Amount) IsZero() bool {
	return a.bigInt().Sign() == 0
}

func (a Amount) Cmp(b Amount) int {
	return a.bigInt().Cmp(b.bigInt())
}

func (a Amount) LT(b Amount) bool {
	return a.Cmp(b) < 0
}

func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

func (a Amount) Add(b Amount) (Amount, error) {
	result := new(big.Int).Add(a.bigInt(), b.bigInt())
	if result.Cmp(maxAmount) > 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{i: result}, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	result := new(big.Int).Sub(a.bigInt(), b.bigInt())
	if result.Sign() < 0 {
		return Amount{}, ErrAmountNegative
	}
	return Amount{i: result}, nil
}

func (a Amount) String() string {
	return a.bigInt().String()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON takes the canonical string form and, for convenience, a bare
// JSON integer.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ErrInvalidAmount
		}
		s = n.String()
	}

	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
