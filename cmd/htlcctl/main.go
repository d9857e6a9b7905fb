package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/dwarvesf/htlc-backend/internal/model"
)

func main() {
	app := cli.NewApp()
	app.Name = "htlcctl"
	app.Usage = "HTLC backend cli"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Value: defaultConfigPath(),
			Usage: "toml file holding server and account defaults",
		},
		cli.StringFlag{
			Name:  "server",
			Usage: "backend base url, overrides the config file",
		},
		cli.StringFlag{
			Name:  "account",
			Usage: "caller account address, overrides the config file",
		},
	}
	app.Commands = []cli.Command{
		initiateCommand, withdrawCommand, refundCommand,
		getSwapCommand, listSwapsCommand, withdrawableCommand, refundableCommand,
		secretCommand, balanceCommand, depositCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

var (
	swapIDFlag = cli.StringFlag{
		Name:     "id",
		Usage:    "swap id",
		Required: true,
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "account address, defaults to the configured account",
	}

	initiateCommand = cli.Command{
		Name:  "initiate",
		Usage: "Lock funds for a receiver under a hashlock and timelock",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "receiver", Required: true},
			cli.StringFlag{Name: "denom", Required: true},
			cli.StringFlag{Name: "amount", Required: true},
			cli.StringFlag{Name: "hashlock", Required: true, Usage: "lowercase hex sha256 of the secret"},
			cli.Uint64Flag{Name: "timelock", Usage: "absolute expiry in epoch seconds"},
			cli.DurationFlag{Name: "expires-in", Value: 2 * time.Hour, Usage: "expiry relative to now, used when --timelock is unset"},
			cli.StringFlag{Name: "funds", Usage: "attached coins, e.g. 150uatom,5stake; defaults to the amount"},
		},
		Action: initiate,
	}

	withdrawCommand = cli.Command{
		Name:  "withdraw",
		Usage: "Claim a swap as its receiver by revealing the secret",
		Flags: []cli.Flag{
			swapIDFlag,
			cli.StringFlag{Name: "preimage", Required: true},
		},
		Action: withdraw,
	}

	refundCommand = cli.Command{
		Name:   "refund",
		Usage:  "Reclaim an expired swap as its sender",
		Flags:  []cli.Flag{swapIDFlag},
		Action: refund,
	}

	getSwapCommand = cli.Command{
		Name:   "get",
		Usage:  "Get a swap by its id",
		Flags:  []cli.Flag{swapIDFlag},
		Action: getSwap,
	}

	listSwapsCommand = cli.Command{
		Name:   "list",
		Usage:  "List the swap ids of an address",
		Flags:  []cli.Flag{addressFlag},
		Action: listSwaps,
	}

	withdrawableCommand = cli.Command{
		Name:   "withdrawable",
		Usage:  "Check whether a swap can be withdrawn now",
		Flags:  []cli.Flag{swapIDFlag},
		Action: withdrawable,
	}

	refundableCommand = cli.Command{
		Name:   "refundable",
		Usage:  "Check whether a swap can be refunded now",
		Flags:  []cli.Flag{swapIDFlag},
		Action: refundable,
	}

	secretCommand = cli.Command{
		Name:  "secret",
		Usage: "Generate a secret and its hashlock, or hash a given secret",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "from", Usage: "existing secret to hash"},
		},
		Action: secret,
	}

	balanceCommand = cli.Command{
		Name:   "balance",
		Usage:  "Show the balances of an address",
		Flags:  []cli.Flag{addressFlag},
		Action: balance,
	}

	depositCommand = cli.Command{
		Name:  "deposit",
		Usage: "Credit an address from the faucet (non-production only)",
		Flags: []cli.Flag{
			addressFlag,
			cli.StringFlag{Name: "coins", Required: true, Usage: "e.g. 1000uatom"},
		},
		Action: deposit,
	}
)

func getClient(ctx *cli.Context) (*client, *Config, error) {
	cfg, err := ReadConfig(ctx.GlobalString("config"))
	if err != nil {
		return nil, nil, err
	}
	if s := ctx.GlobalString("server"); s != "" {
		cfg.Server = s
	}
	if a := ctx.GlobalString("account"); a != "" {
		cfg.Account = a
	}
	return newClient(cfg.Server, cfg.Account), cfg, nil
}

func addressOrAccount(ctx *cli.Context, cfg *Config) (string, error) {
	if a := ctx.String("address"); a != "" {
		return a, nil
	}
	if cfg.Account == "" {
		return "", errors.New("no --address given and no account configured")
	}
	return cfg.Account, nil
}

func initiate(ctx *cli.Context) error {
	c, _, err := getClient(ctx)
	if err != nil {
		return err
	}

	amount, err := model.ParseAmount(ctx.String("amount"))
	if err != nil {
		return errors.Wrap(err, "amount")
	}
	funds, err := model.ParseCoins(ctx.String("funds"))
	if err != nil {
		return errors.Wrap(err, "funds")
	}

	timelock := ctx.Uint64("timelock")
	if timelock == 0 {
		timelock = uint64(time.Now().Add(ctx.Duration("expires-in")).Unix())
	}

	req := initiateRequest{
		Hashlock: ctx.String("hashlock"),
		Timelock: timelock,
		Receiver: ctx.String("receiver"),
		Denom:    ctx.String("denom"),
		Amount:   amount,
	}
	if len(funds) > 0 {
		req.Funds = funds
	}

	var res json.RawMessage
	if err := c.call(context.Background(), "POST", "/htlc/swaps", req, &res); err != nil {
		return err
	}
	return printJSON(res)
}

func withdraw(ctx *cli.Context) error {
	c, _, err := getClient(ctx)
	if err != nil {
		return err
	}

	var res json.RawMessage
	body := map[string]string{"preimage": ctx.String("preimage")}
	if err := c.call(context.Background(), "POST", "/htlc/swaps/"+ctx.String("id")+"/withdraw", body, &res); err != nil {
		return err
	}
	return printJSON(res)
}

func refund(ctx *cli.Context) error {
	return simpleCall(ctx, "POST", "/htlc/swaps/"+ctx.String("id")+"/refund")
}

func getSwap(ctx *cli.Context) error {
	return simpleCall(ctx, "GET", "/htlc/swaps/"+ctx.String("id"))
}

func withdrawable(ctx *cli.Context) error {
	return simpleCall(ctx, "GET", "/htlc/swaps/"+ctx.String("id")+"/withdrawable")
}

func refundable(ctx *cli.Context) error {
	return simpleCall(ctx, "GET", "/htlc/swaps/"+ctx.String("id")+"/refundable")
}

func listSwaps(ctx *cli.Context) error {
	_, cfg, err := getClient(ctx)
	if err != nil {
		return err
	}
	address, err := addressOrAccount(ctx, cfg)
	if err != nil {
		return err
	}
	return simpleCall(ctx, "GET", "/htlc/users/"+address+"/swaps")
}

func secret(ctx *cli.Context) error {
	c, _, err := getClient(ctx)
	if err != nil {
		return err
	}

	var res json.RawMessage
	if from := ctx.String("from"); from != "" {
		err = c.call(context.Background(), "POST", "/htlc/hashlocks", map[string]string{"secret": from}, &res)
	} else {
		err = c.call(context.Background(), "POST", "/htlc/secrets", nil, &res)
	}
	if err != nil {
		return err
	}
	return printJSON(res)
}

func balance(ctx *cli.Context) error {
	_, cfg, err := getClient(ctx)
	if err != nil {
		return err
	}
	address, err := addressOrAccount(ctx, cfg)
	if err != nil {
		return err
	}
	return simpleCall(ctx, "GET", "/accounts/"+address+"/balances")
}

func deposit(ctx *cli.Context) error {
	c, cfg, err := getClient(ctx)
	if err != nil {
		return err
	}
	address, err := addressOrAccount(ctx, cfg)
	if err != nil {
		return err
	}
	coins, err := model.ParseCoins(ctx.String("coins"))
	if err != nil {
		return errors.Wrap(err, "coins")
	}

	var res json.RawMessage
	body := map[string]model.Coins{"coins": coins}
	if err := c.call(context.Background(), "POST", "/accounts/"+address+"/deposit", body, &res); err != nil {
		return err
	}
	return printJSON(res)
}

func simpleCall(ctx *cli.Context, method, path string) error {
	c, _, err := getClient(ctx)
	if err != nil {
		return err
	}

	var res json.RawMessage
	if err := c.call(context.Background(), method, path, nil, &res); err != nil {
		return err
	}
	return printJSON(res)
}

type initiateRequest struct {
	Hashlock string       `json:"hashlock"`
	Timelock uint64       `json:"timelock"`
	Receiver string       `json:"receiver"`
	Denom    string       `json:"denom"`
	Amount   model.Amount `json:"amount"`
	Funds    model.Coins  `json:"funds,omitempty"`
}

func printJSON(raw json.RawMessage) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
