package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var (
	poolFlag = cli.StringFlag{
		Name:     "pool",
		Usage:    "the name of the pool",
		Required: true,
	}
	assetAFlag = cli.StringFlag{
		Name:     "asset_a",
		Usage:    "the first asset of the pair",
		Required: true,
	}
	assetBFlag = cli.StringFlag{
		Name:     "asset_b",
		Usage:    "the second asset of the pair",
		Required: true,
	}
)

var pools = cli.Command{
	Name:   "pools",
	Usage:  "list all pools",
	Action: listPoolsAction,
}

var pool = cli.Command{
	Name:  "pool",
	Usage: "get a pool by name, or by pair with --asset_a and --asset_b",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "pool", Usage: "the name of the pool"},
		&cli.StringFlag{Name: "asset_a", Usage: "the first asset of the pair"},
		&cli.StringFlag{Name: "asset_b", Usage: "the second asset of the pair"},
	},
	Action: getPoolAction,
}

var price = cli.Command{
	Name:   "price",
	Usage:  "get the spot prices of a pool",
	Flags:  []cli.Flag{&poolFlag},
	Action: priceAction,
}

var createPool = cli.Command{
	Name:   "create",
	Usage:  "create a new pool administered by the configured key",
	Flags:  []cli.Flag{&assetAFlag, &assetBFlag},
	Action: createPoolAction,
}

func listPoolsAction(ctx *cli.Context) error {
	return request{method: http.MethodGet, path: "/v1/pools"}.do()
}

func getPoolAction(ctx *cli.Context) error {
	if name := ctx.String("pool"); len(name) > 0 {
		return request{
			method: http.MethodGet, path: fmt.Sprintf("/v1/pools/%s", name),
		}.do()
	}

	assetA, assetB := ctx.String("asset_a"), ctx.String("asset_b")
	if len(assetA) <= 0 || len(assetB) <= 0 {
		return &invalidUsageError{ctx, ctx.Command.Name}
	}
	return request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/v1/pairs/%s/%s", assetA, assetB),
	}.do()
}

func priceAction(ctx *cli.Context) error {
	return request{
		method: http.MethodGet,
		path:   fmt.Sprintf("/v1/pools/%s/price", ctx.String(poolFlag.Name)),
	}.do()
}

func createPoolAction(ctx *cli.Context) error {
	key, err := getSigningKey()
	if err != nil {
		return err
	}

	return request{
		method: http.MethodPost,
		path:   "/v1/pools",
		body: map[string]string{
			"asset_a": ctx.String(assetAFlag.Name),
			"asset_b": ctx.String(assetBFlag.Name),
		},
		signer: key,
	}.do()
}
