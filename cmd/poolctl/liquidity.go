package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var (
	amountAFlag = cli.Uint64Flag{
		Name:  "amount_a",
		Usage: "the amount of asset A",
	}
	amountBFlag = cli.Uint64Flag{
		Name:  "amount_b",
		Usage: "the amount of asset B",
	}
	minSharesFlag = cli.Uint64Flag{
		Name:  "min_shares",
		Usage: "the minimum amount of shares to mint",
	}
	sharesFlag = cli.Uint64Flag{
		Name:     "shares",
		Usage:    "the amount of shares to burn",
		Required: true,
	}
	minAmountAFlag = cli.Uint64Flag{
		Name:  "min_amount_a",
		Usage: "the minimum amount of asset A to receive",
	}
	minAmountBFlag = cli.Uint64Flag{
		Name:  "min_amount_b",
		Usage: "the minimum amount of asset B to receive",
	}
	quoteOnlyFlag = cli.BoolFlag{
		Name:  "quote",
		Usage: "preview the outcome without executing it",
	}
)

var deposit = cli.Command{
	Name:  "deposit",
	Usage: "deposit liquidity into a pool in exchange for shares",
	Flags: []cli.Flag{
		&poolFlag, &amountAFlag, &amountBFlag, &minSharesFlag, &quoteOnlyFlag,
	},
	Action: depositAction,
}

var withdraw = cli.Command{
	Name:  "withdraw",
	Usage: "burn shares to withdraw liquidity from a pool",
	Flags: []cli.Flag{
		&poolFlag, &sharesFlag, &minAmountAFlag, &minAmountBFlag, &quoteOnlyFlag,
	},
	Action: withdrawAction,
}

func depositAction(ctx *cli.Context) error {
	body := map[string]uint64{
		"amount_a":       ctx.Uint64(amountAFlag.Name),
		"amount_b":       ctx.Uint64(amountBFlag.Name),
		"min_shares_out": ctx.Uint64(minSharesFlag.Name),
	}
	return liquidityRequest(ctx, "deposit", body)
}

func withdrawAction(ctx *cli.Context) error {
	body := map[string]uint64{
		"shares":       ctx.Uint64(sharesFlag.Name),
		"min_amount_a": ctx.Uint64(minAmountAFlag.Name),
		"min_amount_b": ctx.Uint64(minAmountBFlag.Name),
	}
	return liquidityRequest(ctx, "withdraw", body)
}

func liquidityRequest(ctx *cli.Context, op string, body interface{}) error {
	poolName := ctx.String(poolFlag.Name)
	if ctx.Bool(quoteOnlyFlag.Name) {
		return request{
			method: http.MethodPost,
			path:   fmt.Sprintf("/v1/pools/%s/quote/%s", poolName, op),
			body:   body,
		}.do()
	}

	key, err := getSigningKey()
	if err != nil {
		return err
	}
	return request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/v1/pools/%s/%s", poolName, op),
		body:   body,
		signer: key,
	}.do()
}
