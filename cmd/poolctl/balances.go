package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var balances = cli.Command{
	Name:  "balances",
	Usage: "list the balances of an owner, the configured key by default",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "owner", Usage: "hex pubkey of the owner"},
	},
	Action: balancesAction,
}

var faucet = cli.Command{
	Name:  "faucet",
	Usage: "mint some asset to the given pubkey, operator only",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "to", Usage: "hex pubkey of the receiver", Required: true},
		&cli.StringFlag{Name: "asset", Usage: "the asset to mint", Required: true},
		&cli.Uint64Flag{Name: "amount", Usage: "the amount to mint", Required: true},
	},
	Action: faucetAction,
}

func balancesAction(ctx *cli.Context) error {
	owner := ctx.String("owner")
	if len(owner) <= 0 {
		key, err := getSigningKey()
		if err != nil {
			return err
		}
		owner = key.pubkey
	}

	return request{
		method: http.MethodGet, path: fmt.Sprintf("/v1/balances/%s", owner),
	}.do()
}

func faucetAction(ctx *cli.Context) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	return request{
		method: http.MethodPost,
		path:   "/v1/faucet",
		body: map[string]interface{}{
			"to":     ctx.String("to"),
			"asset":  ctx.String("asset"),
			"amount": ctx.Uint64("amount"),
		},
		signer: key,
	}.do()
}
