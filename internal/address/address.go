package address

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/utils/config"
)

const (
	FormatBech32 = "bech32"
	FormatEVM    = "evm"
	FormatBTC    = "btc"
)

var ErrInvalidAddress = errors.New("invalid address")

// New returns the validator selected by cfg.Format.
func New(cfg config.AddressConfig) (IValidator, error) {
	switch cfg.Format {
	case FormatBech32, "":
		return NewBech32(cfg.Bech32Prefix), nil
	case FormatEVM:
		return NewEVM(), nil
	case FormatBTC:
		params, err := networkParams(cfg.BtcNetwork)
		if err != nil {
			return nil, err
		}
		return NewBTC(params), nil
	default:
		return nil, fmt.Errorf("unknown address format %q", cfg.Format)
	}
}

// Bech32 accepts account addresses such as cosmos1... with a 20 or 32 byte
// payload.
type Bech32 struct {
	prefix string
}

func NewBech32(prefix string) *Bech32 {
	return &Bech32{prefix: strings.ToLower(prefix)}
}

func (v *Bech32) Validate(address string) (string, error) {
	hrp, data, err := bech32.Decode(address)
	if err != nil {
		return "", errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if hrp != v.prefix {
		return "", errors.Wrapf(ErrInvalidAddress, "expected prefix %q, got %q", v.prefix, hrp)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if len(payload) != 20 && len(payload) != 32 {
		return "", errors.Wrapf(ErrInvalidAddress, "unexpected payload length %d", len(payload))
	}

	// Decode rejects mixed case, so lowercasing yields the canonical form.
	return strings.ToLower(address), nil
}

// EVM accepts 0x-prefixed hex addresses and returns the EIP-55 checksum form.
type EVM struct{}

func NewEVM() *EVM {
	return &EVM{}
}

func (v *EVM) Validate(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidAddress
	}
	return common.HexToAddress(address).Hex(), nil
}

// BTC accepts any address btcutil can decode for the configured network.
type BTC struct {
	params *chaincfg.Params
}

func NewBTC(params *chaincfg.Params) *BTC {
	return &BTC{params: params}
}

func (v *BTC) Validate(address string) (string, error) {
	decoded, err := btcutil.DecodeAddress(address, v.params)
	if err != nil {
		return "", errors.Wrap(ErrInvalidAddress, err.Error())
	}
	if !decoded.IsForNet(v.params) {
		return "", errors.Wrapf(ErrInvalidAddress, "address is not for %s", v.params.Name)
	}
	return decoded.EncodeAddress(), nil
}

func networkParams(network string) (*chaincfg.Params, error) {
	switch network {
	case "mainnet", "":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unknown btc network %q", network)
	}
}
