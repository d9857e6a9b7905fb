package model

import (
	"fmt"
	"regexp"
	"strings"
)

var coinPattern = regexp.MustCompile(`^([0-9]+)([a-zA-Z][a-zA-Z0-9/:._-]{1,127})$`)

type Coin struct {
	Denom  string `json:"denom" binding:"required"`
	Amount Amount `json:"amount"`
}

func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: NewAmount(amount)}
}

func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

type Coins []Coin

// AmountOf sums every entry of the given denom.
func (cs Coins) AmountOf(denom string) Amount {
	total := Amount{}
	for _, c := range cs {
		if c.Denom != denom {
			continue
		}
		sum, err := total.Add(c.Amount)
		if err != nil {
			// a 128-bit overflow only saturates what is already above any valid amount
			return Amount{i: maxAmount}
		}
		total = sum
	}
	return total
}

func (cs Coins) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// ParseCoins parses "100uatom,5stake".
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coins{}, nil
	}

	var coins Coins
	for _, raw := range strings.Split(s, ",") {
		m := coinPattern.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			return nil, fmt.Errorf("invalid coin %q", raw)
		}
		amount, err := ParseAmount(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid coin %q: %w", raw, err)
		}
		coins = append(coins, Coin{Denom: m[2], Amount: amount})
	}
	return coins, nil
}

// Release directs the custody layer to move funds out of the contract account.
type Release struct {
	ToAddress string `json:"to_address"`
	Denom     string `json:"denom"`
	Amount    Amount `json:"amount"`
}
